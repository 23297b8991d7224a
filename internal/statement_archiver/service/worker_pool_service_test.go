package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthvault-ledger/internal/domain/outbox"
)

type stubArchiveService struct {
	mu     sync.Mutex
	seen   []uuid.UUID
	result error
}

func (s *stubArchiveService) ProcessEvent(ctx context.Context, event *outbox.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, event.EventID)
	return s.result
}

func TestWorkerPoolArchiveService_ProcessEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("DelegatesToBaseService", func(t *testing.T) {
		base := &stubArchiveService{}
		pool, err := NewWorkerPoolArchiveService(base, WorkerPoolConfig{Size: 2}, newTestLogger())
		require.NoError(t, err)
		defer pool.Shutdown()

		event := newPayoutRecordedEvent(t, uuid.New())

		err = pool.ProcessEvent(ctx, event)

		assert.NoError(t, err)
		base.mu.Lock()
		defer base.mu.Unlock()
		assert.Equal(t, []uuid.UUID{event.EventID}, base.seen)
	})

	t.Run("PropagatesProcessingError", func(t *testing.T) {
		base := &stubArchiveService{result: assert.AnError}
		pool, err := NewWorkerPoolArchiveService(base, WorkerPoolConfig{Size: 2}, newTestLogger())
		require.NoError(t, err)
		defer pool.Shutdown()

		err = pool.ProcessEvent(ctx, newPayoutRecordedEvent(t, uuid.New()))

		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("HandlesConcurrentSubmissions", func(t *testing.T) {
		base := &stubArchiveService{}
		pool, err := NewWorkerPoolArchiveService(base, WorkerPoolConfig{Size: 4}, newTestLogger())
		require.NoError(t, err)
		defer pool.Shutdown()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, pool.ProcessEvent(ctx, newPayoutRecordedEvent(t, uuid.New())))
			}()
		}
		wg.Wait()

		base.mu.Lock()
		defer base.mu.Unlock()
		assert.Len(t, base.seen, 10)
	})
}

func TestWorkerPoolArchiveService_Capacity(t *testing.T) {
	pool, err := NewWorkerPoolArchiveService(&stubArchiveService{}, WorkerPoolConfig{Size: 5}, newTestLogger())
	require.NoError(t, err)
	defer pool.Shutdown()

	assert.Equal(t, 5, pool.Capacity())
	assert.Equal(t, 0, pool.Running())
}
