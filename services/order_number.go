package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const (
	orderNumberPrefix = "SOL"
	// maxOrderNumberAttempts bounds the collision retry loop; running out is
	// surfaced as a hard failure, never silently retried further.
	maxOrderNumberAttempts = 999
)

// OrderNumberChecker is the uniqueness probe the generator runs against
// persisted orders. The probe is an optimization only: the unique index on
// order_number is the source of truth at commit time.
type OrderNumberChecker interface {
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
}

// OrderNumberGenerator produces globally unique, human-readable order
// identifiers of the form SOL-20260831-0042.
type OrderNumberGenerator struct {
	now  func() time.Time
	seed func() int
}

// NewOrderNumberGenerator creates a generator with a random starting suffix.
func NewOrderNumberGenerator() *OrderNumberGenerator {
	return &OrderNumberGenerator{
		now:  time.Now,
		seed: func() int { return rand.Intn(10000) },
	}
}

// Generate returns a candidate not currently present in the store, retrying
// with an incremented suffix up to the attempt bound.
func (g *OrderNumberGenerator) Generate(ctx context.Context, checker OrderNumberChecker) (string, *ServiceError) {
	date := g.now().Format("20060102")
	seq := g.seed()

	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		candidate := fmt.Sprintf("%s-%s-%04d", orderNumberPrefix, date, seq)

		exists, err := checker.OrderNumberExists(ctx, candidate)
		if err != nil {
			return "", internalError("failed to check order number uniqueness")
		}
		if !exists {
			return candidate, nil
		}

		seq = (seq + 1) % 10000
	}

	return "", generationExhausted("could not generate a unique order number")
}
