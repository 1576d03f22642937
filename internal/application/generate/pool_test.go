package generate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchPool(t *testing.T) {
	t.Run("executes_all_jobs", func(t *testing.T) {
		pool := NewBatchPool(3, 0, time.Millisecond, nil)
		pool.Start(context.Background())

		var ran atomic.Int64
		for i := 0; i < 10; i++ {
			ok := pool.Submit(context.Background(), BatchJob{
				ID:   i,
				Kind: "test",
				Run: func(context.Context) error {
					ran.Add(1)
					return nil
				},
			})
			require.True(t, ok)
		}

		failed := pool.Wait()
		assert.Empty(t, failed)
		assert.Equal(t, int64(10), ran.Load())
		assert.Equal(t, int64(10), pool.Executed())
	})

	t.Run("retries_then_records_failure", func(t *testing.T) {
		pool := NewBatchPool(1, 2, time.Millisecond, nil)
		pool.Start(context.Background())

		var attempts atomic.Int64
		boom := errors.New("boom")
		pool.Submit(context.Background(), BatchJob{
			ID:   7,
			Kind: "test",
			Run: func(context.Context) error {
				attempts.Add(1)
				return boom
			},
		})

		failed := pool.Wait()
		require.Len(t, failed, 1)
		assert.Equal(t, 7, failed[0].Job.ID)
		assert.ErrorIs(t, failed[0].Err, boom)
		// initial attempt plus two retries
		assert.Equal(t, int64(3), attempts.Load())
	})

	t.Run("continues_past_failed_batches", func(t *testing.T) {
		pool := NewBatchPool(2, 0, time.Millisecond, nil)
		pool.Start(context.Background())

		var succeeded atomic.Int64
		for i := 0; i < 6; i++ {
			fail := i%2 == 0
			pool.Submit(context.Background(), BatchJob{
				ID:   i,
				Kind: "test",
				Run: func(context.Context) error {
					if fail {
						return errors.New("boom")
					}
					succeeded.Add(1)
					return nil
				},
			})
		}

		failed := pool.Wait()
		assert.Len(t, failed, 3)
		assert.Equal(t, int64(3), succeeded.Load())
	})

	t.Run("recovers_on_retry", func(t *testing.T) {
		pool := NewBatchPool(1, 3, time.Millisecond, nil)
		pool.Start(context.Background())

		var attempts atomic.Int64
		pool.Submit(context.Background(), BatchJob{
			ID:   1,
			Kind: "test",
			Run: func(context.Context) error {
				if attempts.Add(1) < 3 {
					return errors.New("transient")
				}
				return nil
			},
		})

		failed := pool.Wait()
		assert.Empty(t, failed)
		assert.Equal(t, int64(1), pool.Executed())
	})

	t.Run("stops_submitting_on_cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		pool := NewBatchPool(1, 0, time.Millisecond, nil)
		pool.Start(ctx)
		cancel()

		// fill the queue until Submit observes the cancelled context
		submitted := 0
		for i := 0; i < 100; i++ {
			if !pool.Submit(ctx, BatchJob{ID: i, Kind: "test", Run: func(context.Context) error {
				return nil
			}}) {
				break
			}
			submitted++
		}
		assert.Less(t, submitted, 100)
		pool.Wait()
	})
}
