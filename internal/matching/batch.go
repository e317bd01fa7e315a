package matching

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Batch runs many pair scorings over a bounded goroutine pool.
type Batch struct {
	pool   *ants.Pool
	logger *zap.Logger
}

// NewBatch creates a pool of the given size. Non-positive sizes default
// to the CPU count.
func NewBatch(workers int, logger *zap.Logger) (*Batch, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}

	logger.Debug("batch pool ready", zap.Int("workers", workers))

	return &Batch{pool: pool, logger: logger}, nil
}

// Release tears down the pool. The batch must not be used afterwards.
func (b *Batch) Release() {
	b.pool.Release()
}

// ScoreAll runs score over every request on b's pool and returns the
// results in input order.
func ScoreAll[R any](b *Batch, reqs []PairRequest, score func(PairRequest) R) ([]R, error) {
	results := make([]R, len(reqs))

	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)

		err := b.pool.Submit(func() {
			defer wg.Done()
			results[i] = score(req)
		})
		if err != nil {
			wg.Done()
			wg.Wait()

			return nil, fmt.Errorf("submitting pair %d: %w", i, err)
		}
	}

	wg.Wait()

	return results, nil
}
