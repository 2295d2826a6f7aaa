package currency

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/evcraddock/garage/internal/logging"
)

// UnavailableMessage is shown when a rate cannot be fetched.
const UnavailableMessage = "Currency converter is currently unavailable. Please try again later."

// ErrUnavailable is returned by Choose when the rate lookup fails.
var ErrUnavailable = errors.New(UnavailableMessage)

// DefaultBase is the currency prices are stored in.
const DefaultBase = "BGN"

// RateSource looks up exchange rates.
type RateSource interface {
	Rate(ctx context.Context, base, target string) (decimal.Decimal, error)
}

// Selection is the currency prices are displayed in and its rate from the base.
type Selection struct {
	Code string
	Rate decimal.Decimal
}

// Selector holds the selected display currency.
type Selector struct {
	mu      sync.Mutex
	base    string
	source  RateSource
	current Selection
}

// NewSelector starts at the base currency with rate 1. source may be nil when
// no rate service is configured; choosing a foreign currency then fails.
func NewSelector(base string, source RateSource) *Selector {
	if base == "" {
		base = DefaultBase
	}
	base = strings.ToUpper(base)
	return &Selector{
		base:    base,
		source:  source,
		current: Selection{Code: base, Rate: decimal.NewFromInt(1)},
	}
}

// Base returns the base currency code.
func (s *Selector) Base() string { return s.base }

// Current returns the selected currency.
func (s *Selector) Current() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Choose selects code. The base currency needs no lookup. When the lookup
// fails the previous selection stays in place and ErrUnavailable is returned.
func (s *Selector) Choose(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == s.base {
		s.Reset()
		return nil
	}
	if s.source == nil {
		return ErrUnavailable
	}

	rate, err := s.source.Rate(ctx, s.base, code)
	if err != nil {
		logging.L().Warn("exchange rate lookup failed",
			zap.String("pair", Pair(s.base, code)),
			zap.Error(err),
		)
		return ErrUnavailable
	}

	s.mu.Lock()
	s.current = Selection{Code: code, Rate: rate}
	s.mu.Unlock()
	return nil
}

// Reset returns to the base currency.
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Selection{Code: s.base, Rate: decimal.NewFromInt(1)}
}
