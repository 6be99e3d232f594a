package simulate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/Thidomsilva/cryptoup/metrics"
	"github.com/Thidomsilva/cryptoup/pricing"
)

// DefaultResalePrice is the boot-time Picnic resale price,
// overridable at runtime and reset on restart
const DefaultResalePrice = 5.25

var (
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrInvalidPrice  = errors.New("price must be a positive number")
)

// QuoteSource yields the current per-exchange quote list
type QuoteSource interface {
	Quotes(ctx context.Context) []pricing.Quote
}

// Service runs arbitrage simulations against live quotes, and owns the
// process-wide resale price. The price is operator-set and read by every
// simulation; concurrent writers are last-write-wins, which is acceptable
// since the value is not contended
type Service struct {
	logger  *slog.Logger
	quotes  QuoteSource
	details []pricing.Details

	resalePrice float64
	priceMux    sync.RWMutex
}

// NewService creates a new simulation service over the given quote source
func NewService(quotes QuoteSource, opts ...ServiceOption) *Service {
	s := &Service{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		quotes:      quotes,
		details:     pricing.DefaultDetails(),
		resalePrice: DefaultResalePrice,
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run fetches the current quotes and simulates investing amount BRL on
// every supported exchange, reselling at the configured resale price.
// Invalid amounts are rejected before any computation
func (s *Service) Run(ctx context.Context, amount float64) ([]Result, error) {
	if !isPositive(amount) {
		return nil, ErrInvalidAmount
	}

	var (
		quotes      = s.quotes.Quotes(ctx)
		exchanges   = Join(quotes, s.details)
		resalePrice = s.ResalePrice()
	)

	results := Simulate(amount, exchanges, resalePrice)

	metrics.RecordSimulation()

	s.logger.Info(
		"arbitrage simulation complete",
		"amount", amount,
		"resale_price", resalePrice,
		"rows", len(results),
	)

	return results, nil
}

// ResalePrice returns the current resale price
func (s *Service) ResalePrice() float64 {
	s.priceMux.RLock()
	defer s.priceMux.RUnlock()

	return s.resalePrice
}

// SetResalePrice overwrites the process-wide resale price.
// Invalid prices are rejected and do not mutate the stored value
func (s *Service) SetResalePrice(price float64) error {
	if !isPositive(price) {
		return ErrInvalidPrice
	}

	s.priceMux.Lock()
	s.resalePrice = price
	s.priceMux.Unlock()

	s.logger.Info(
		"resale price updated",
		"price", price,
	)

	return nil
}

type ServiceOption func(s *Service)

// WithLogger specifies the logger for the service
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// WithDetails specifies the static exchange details used to join quotes
func WithDetails(details []pricing.Details) ServiceOption {
	return func(s *Service) {
		s.details = details
	}
}

// WithResalePrice specifies the boot-time resale price
func WithResalePrice(price float64) ServiceOption {
	return func(s *Service) {
		if isPositive(price) {
			s.resalePrice = price
		}
	}
}
