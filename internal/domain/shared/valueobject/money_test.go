package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(100), AED)
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
	assert.Equal(t, AED, m.Currency())

	_, err = NewMoney(decimal.NewFromInt(100), "")
	assert.Error(t, err)
}

func TestNewMoneyAEDFromString(t *testing.T) {
	m, err := NewMoneyAEDFromString("1234.56")
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, AED, m.Currency())

	_, err = NewMoneyAEDFromString("not a number")
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyAEDFromFloat(100.50)
	b := NewMoneyAEDFromFloat(49.50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(150)))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(51)))
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	aed := NewMoneyAEDFromFloat(100)
	usd, err := NewMoney(decimal.NewFromInt(100), USD)
	require.NoError(t, err)

	_, err = aed.Add(usd)
	assert.Error(t, err)
	_, err = aed.Subtract(usd)
	assert.Error(t, err)
	_, err = aed.GreaterThan(usd)
	assert.Error(t, err)

	assert.Panics(t, func() { aed.MustAdd(usd) })
	assert.False(t, aed.Equals(usd))
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyAEDFromFloat(100)
	b := NewMoneyAEDFromFloat(50)

	gt, err := a.GreaterThan(b)
	require.NoError(t, err)
	assert.True(t, gt)

	lte, err := b.LessThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, lte)

	assert.True(t, a.Equals(NewMoneyAEDFromFloat(100)))
	assert.True(t, ZeroAED().IsZero())
	assert.True(t, a.IsPositive())
	assert.True(t, NewMoneyAEDFromFloat(-1).IsNegative())
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyAEDFromFloat(1234.5)
	assert.Equal(t, "1234.50 AED", m.String())
	assert.Equal(t, "1234.50", m.StringFixed(2))
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m, err := NewMoneyAEDFromString("999.99")
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"999.99","currency":"AED"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_ScanDefaultsCurrency(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("250.75"))
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("250.75")))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(42))
}

func TestMoney_Value(t *testing.T) {
	m := NewMoneyAEDFromFloat(10.5)
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "10.5", v)
}
