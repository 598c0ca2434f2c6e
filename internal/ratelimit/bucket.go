package ratelimit

import (
	"context"
	"time"
)

const (
	DefaultCapacity       = 120
	DefaultTokens         = 0
	DefaultRefillInterval = time.Second
	DefaultRefillAmount   = 1
)

// Clock abstracts time so the bucket can be driven by tests
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Config holds the bucket settings. Zero fields fall back to the defaults.
type Config struct {
	Capacity       int64         // Maximum number of tokens held
	Tokens         int64         // Tokens available at creation, saturated to Capacity
	RefillInterval time.Duration // Time between refill ticks
	RefillAmount   int64         // Tokens added per tick
	Clock          Clock
}

// Bucket is a leaky bucket shared by all concurrent acquirers of one batch.
type Bucket struct {
	capacity       int64
	refillInterval time.Duration
	refillAmount   int64
	clock          Clock

	// sem is the critical section around refill, wait and debit.
	// A channel instead of a mutex lets queued callers give up on ctx.
	sem chan struct{}

	tokens     int64
	lastRefill time.Time
}

// New creates a bucket from the given configuration
func New(cfg Config) *Bucket {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Tokens < 0 {
		cfg.Tokens = DefaultTokens
	}
	if cfg.Tokens > cfg.Capacity {
		cfg.Tokens = cfg.Capacity
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = DefaultRefillInterval
	}
	if cfg.RefillAmount <= 0 {
		cfg.RefillAmount = DefaultRefillAmount
	}
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}

	return &Bucket{
		capacity:       cfg.Capacity,
		refillInterval: cfg.RefillInterval,
		refillAmount:   cfg.RefillAmount,
		clock:          cfg.Clock,
		sem:            make(chan struct{}, 1),
		tokens:         cfg.Tokens,
		lastRefill:     cfg.Clock.Now(),
	}
}

// Capacity returns the maximum number of tokens the bucket can hold
func (b *Bucket) Capacity() int64 {
	return b.capacity
}

// Available refills the bucket and returns the tokens currently held.
// The value is a snapshot and may be stale as soon as it is returned.
func (b *Bucket) Available(ctx context.Context) (int64, error) {
	if err := b.lock(ctx); err != nil {
		return 0, err
	}
	defer b.unlock()

	b.refill()
	return b.tokens, nil
}

// AcquireOne acquires a single token
func (b *Bucket) AcquireOne(ctx context.Context) error {
	return b.Acquire(ctx, 1)
}

// Acquire blocks until amount tokens are available and debits them.
// Asking for more than the capacity can never succeed and panics.
// If ctx ends first, nothing is debited and ctx.Err() is returned.
func (b *Bucket) Acquire(ctx context.Context, amount int64) error {
	if amount > b.capacity {
		panic("ratelimit: acquiring more tokens than the bucket capacity is not possible")
	}
	if amount <= 0 {
		return nil
	}

	if err := b.lock(ctx); err != nil {
		return err
	}
	defer b.unlock()

	b.refill()

	for b.tokens < amount {
		missing := amount - b.tokens
		intervals := missing / b.refillAmount
		if missing%b.refillAmount > 0 {
			intervals++
		}

		target := b.lastRefill.Add(time.Duration(intervals) * b.refillInterval)
		if wait := target.Sub(b.clock.Now()); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-b.clock.After(wait):
			}
		}

		b.refill()
	}

	b.tokens -= amount
	return nil
}

// refill applies every whole interval elapsed since lastRefill.
// MUST be called inside the critical section.
func (b *Bucket) refill() {
	elapsed := b.clock.Now().Sub(b.lastRefill)
	if elapsed < b.refillInterval {
		return
	}

	intervals := int64(elapsed / b.refillInterval)
	b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * b.refillInterval)

	// Anything beyond capacity/amount ticks saturates anyway; avoid overflow.
	if intervals >= b.capacity/b.refillAmount+1 {
		b.tokens = b.capacity
		return
	}

	b.tokens = min(b.capacity, b.tokens+intervals*b.refillAmount)
}

// lock enters the critical section. A done ctx always wins, even when the
// semaphore is free.
func (b *Bucket) lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bucket) unlock() {
	<-b.sem
}
