package batch

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/txcv/internal/translation"
)

// Acquirer admits one unit of work at a time, e.g. a token bucket
type Acquirer interface {
	AcquireOne(ctx context.Context) error
}

// TranslateFunc translates one word
type TranslateFunc func(ctx context.Context, word string) (translation.Result, error)

// Job is one word of a batch and its outcome
type Job struct {
	Position int
	Word     string
	Result   translation.Result
	Err      error
}

// Scheduler translates a batch of words concurrently and emits the results
// in input order.
type Scheduler struct {
	limiter   Acquirer
	translate TranslateFunc
}

// NewScheduler creates a scheduler that gates every word behind limiter
func NewScheduler(limiter Acquirer, translate TranslateFunc) *Scheduler {
	return &Scheduler{
		limiter:   limiter,
		translate: translate,
	}
}

// Run starts one job per word without waiting for earlier ones, then calls
// emit for each job strictly in input order. The first failed job (or emit
// error) aborts the batch: later results are discarded and outstanding jobs
// are cancelled. Run returns once every job has stopped.
func (s *Scheduler) Run(ctx context.Context, words []string, emit func(Job) error) error {
	if len(words) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	// One buffered slot per position so finished jobs never block
	slots := make([]chan Job, len(words))
	for i := range slots {
		slots[i] = make(chan Job, 1)
	}

	for i, word := range words {
		wg.Add(1)
		go func(i int, word string) {
			defer wg.Done()
			slots[i] <- s.run(ctx, i, word)
		}(i, word)
	}

	for i := range slots {
		var job Job
		select {
		case job = <-slots[i]:
		case <-ctx.Done():
			return ctx.Err()
		}

		if job.Err != nil {
			return fmt.Errorf("word %d of %d: %w", i+1, len(words), job.Err)
		}
		if err := emit(job); err != nil {
			return err
		}
	}

	return nil
}

func (s *Scheduler) run(ctx context.Context, position int, word string) Job {
	job := Job{Position: position, Word: word}

	if err := s.limiter.AcquireOne(ctx); err != nil {
		job.Err = err
		return job
	}

	job.Result, job.Err = s.translate(ctx, word)
	return job
}
