package currency

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	rates map[string]decimal.Decimal
	calls int
}

func (s *stubSource) Rate(_ context.Context, base, target string) (decimal.Decimal, error) {
	s.calls++
	r, ok := s.rates[Pair(base, target)]
	if !ok {
		return decimal.Zero, errors.New("service down")
	}
	return r, nil
}

func TestSelectorDefaultsToBase(t *testing.T) {
	s := NewSelector("", nil)
	cur := s.Current()
	assert.Equal(t, "BGN", cur.Code)
	assert.True(t, cur.Rate.Equal(decimal.NewFromInt(1)))
}

func TestSelectorChoose(t *testing.T) {
	src := &stubSource{rates: map[string]decimal.Decimal{"BGN_USD": decimal.RequireFromString("0.56")}}
	s := NewSelector("BGN", src)

	require.NoError(t, s.Choose(context.Background(), "usd"))
	assert.Equal(t, "USD", s.Current().Code)
	assert.Equal(t, "0.56", s.Current().Rate.String())
}

func TestSelectorFailureKeepsPreviousRate(t *testing.T) {
	src := &stubSource{rates: map[string]decimal.Decimal{"BGN_USD": decimal.RequireFromString("0.56")}}
	s := NewSelector("BGN", src)
	require.NoError(t, s.Choose(context.Background(), "USD"))

	delete(src.rates, "BGN_USD")
	err := s.Choose(context.Background(), "EUR")

	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, UnavailableMessage, err.Error())
	assert.Equal(t, "USD", s.Current().Code)
	assert.Equal(t, "0.56", s.Current().Rate.String())
}

func TestSelectorBaseNeedsNoLookup(t *testing.T) {
	src := &stubSource{rates: map[string]decimal.Decimal{"BGN_USD": decimal.RequireFromString("0.56")}}
	s := NewSelector("BGN", src)
	require.NoError(t, s.Choose(context.Background(), "USD"))

	require.NoError(t, s.Choose(context.Background(), "BGN"))
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, "BGN", s.Current().Code)
	assert.True(t, s.Current().Rate.Equal(decimal.NewFromInt(1)))
}

func TestSelectorWithoutSource(t *testing.T) {
	s := NewSelector("BGN", nil)
	assert.ErrorIs(t, s.Choose(context.Background(), "USD"), ErrUnavailable)
	assert.Equal(t, "BGN", s.Current().Code)
}

func TestSelectorReset(t *testing.T) {
	src := &stubSource{rates: map[string]decimal.Decimal{"BGN_USD": decimal.RequireFromString("0.56")}}
	s := NewSelector("BGN", src)
	require.NoError(t, s.Choose(context.Background(), "USD"))

	s.Reset()
	assert.Equal(t, "BGN", s.Current().Code)
}
