package shortcode

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrAllocationExhausted is returned when the collision retry limit is reached.
var ErrAllocationExhausted = errors.New("exhausted attempts to allocate a unique short code")

// DefaultMaxAttempts bounds the generate-and-check loop. With 62^8 possible
// codes a single attempt succeeds with overwhelming probability; the bound
// exists so a misbehaving store cannot spin the loop forever.
const DefaultMaxAttempts = 5

// ExistenceChecker reports whether a candidate code is already taken.
type ExistenceChecker interface {
	Exists(ctx context.Context, code string) (bool, error)
}

// AllocatorStats holds counters about code allocation.
type AllocatorStats struct {
	Allocations int64
	Collisions  int64
}

// Allocator produces collision-free short codes by generating candidates and
// checking them against the store. The check-then-insert window is closed by
// the store's uniqueness constraint; callers retry the insert with a fresh
// candidate when that constraint fires.
type Allocator struct {
	base        Generator
	checker     ExistenceChecker
	maxAttempts int

	allocations atomic.Int64
	collisions  atomic.Int64
}

// NewAllocator creates an Allocator around a base generator and a checker.
func NewAllocator(base Generator, checker ExistenceChecker, maxAttempts int) *Allocator {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Allocator{
		base:        base,
		checker:     checker,
		maxAttempts: maxAttempts,
	}
}

// Allocate returns a short code that was unused at check time, retrying on
// collision up to the configured attempt limit. Context cancellation aborts
// the loop between attempts.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	a.allocations.Add(1)

	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		code, err := a.base.Generate()
		if err != nil {
			return "", err
		}

		exists, err := a.checker.Exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}

		a.collisions.Add(1)
	}

	return "", ErrAllocationExhausted
}

// Stats returns the allocation counters.
func (a *Allocator) Stats() AllocatorStats {
	return AllocatorStats{
		Allocations: a.allocations.Load(),
		Collisions:  a.collisions.Load(),
	}
}
