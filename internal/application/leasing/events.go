package leasing

import (
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"go.uber.org/zap"
)

// logDomainEvents reports the events collected on aggregates during a
// completed operation and clears them. Events are in-process only; the
// log line is their single externally visible trace.
func logDomainEvents(logger *zap.Logger, roots ...shared.AggregateRoot) {
	for _, root := range roots {
		for _, event := range root.GetDomainEvents() {
			logger.Info("Domain event",
				zap.String("event_type", event.EventType()),
				zap.String("aggregate_type", event.AggregateType()),
				zap.String("aggregate_id", event.AggregateID().String()),
			)
		}
		root.ClearDomainEvents()
	}
}
