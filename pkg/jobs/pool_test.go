package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPoolRunProcessesEveryJob(t *testing.T) {
	pool := NewPool("test", PoolConfig{Workers: 3, Logger: zap.NewNop()})

	var mu sync.Mutex
	seen := make(map[int]bool)
	batch := make([]Job, 0, 7)
	for i := 0; i < 7; i++ {
		batch = append(batch, Job{ID: "job", Index: i})
	}

	err := pool.Run(context.Background(), batch, func(ctx context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen[job.Index] = true
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 7)
}

func TestPoolRunRetriesThenReportsFailure(t *testing.T) {
	pool := NewPool("retry", PoolConfig{Workers: 1, MaxRetries: 2, RetryDelay: time.Millisecond})

	var calls int32
	err := pool.Run(context.Background(), []Job{{ID: "flaky"}, {ID: "broken"}}, func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		if job.ID == "flaky" && job.Attempt == 0 {
			return errors.New("transient")
		}
		if job.ID == "broken" {
			return errors.New("permanent")
		}
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job broken")
	assert.NotContains(t, err.Error(), "job flaky")
	// flaky: 2 calls, broken: 1 + 2 retries.
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestPoolRunStopsOnCancelledContext(t *testing.T) {
	pool := NewPool("cancel", PoolConfig{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pool.Run(ctx, []Job{{ID: "a"}, {ID: "b"}}, func(ctx context.Context, job Job) error {
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPoolRunEmptyBatch(t *testing.T) {
	pool := NewPool("empty", PoolConfig{})
	assert.NoError(t, pool.Run(context.Background(), nil, nil))
}
