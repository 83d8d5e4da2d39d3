package pricefeed

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/blen-az/investFX-sub001/internal/domain"
)

// maxStepFraction bounds a single random-walk step to ±0.5%.
const maxStepFraction = 0.005

// Feed owns the single reference price as a guarded mutable cell and
// produces new prices as a bounded random walk. A production deployment
// can substitute a real tick ingester behind the same Current/Advance
// contract with no change to the engine.
type Feed struct {
	mu         sync.Mutex
	priceCents int64
	rng        *rand.Rand
}

// New creates a Feed starting at the given price in cents. A nil rng is
// replaced with a process-seeded source; tests pass a fixed seed for
// reproducible walks.
func New(initialCents int64, rng *rand.Rand) *Feed {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Feed{
		priceCents: initialCents,
		rng:        rng,
	}
}

// Current returns the latest reference price in cents.
func (f *Feed) Current() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.priceCents
}

// Advance perturbs the price by a uniform multiplicative factor within
// ±0.5%, stores the result as the new current price, and returns it.
// The price never drops below one cent.
func (f *Feed) Advance() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	factor := 1 + (f.rng.Float64()*2-1)*maxStepFraction
	next := int64(math.Round(float64(f.priceCents) * factor))
	if next < 1 {
		next = 1
	}
	f.priceCents = next
	return next
}

// Set overrides the current price. Used for external price injection and
// tests. It returns domain.ErrInvalidPrice unless the value is positive.
func (f *Feed) Set(cents int64) error {
	if cents <= 0 {
		return domain.ErrInvalidPrice
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceCents = cents
	return nil
}
