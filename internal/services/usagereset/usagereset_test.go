package usagereset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ResetStaleSessionCounters(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_RunOnce(t *testing.T) {
	t.Run("resets stale counters", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ResetStaleSessionCounters", mock.Anything).Return(5, nil).Once()

		svc := NewService(repo, newNoopLogger())
		svc.runOnce(context.Background())
		repo.AssertExpectations(t)
	})

	t.Run("storage failure does not panic", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ResetStaleSessionCounters", mock.Anything).
			Return(0, errors.New("db down")).Once()

		svc := NewService(repo, newNoopLogger())
		svc.runOnce(context.Background())
		repo.AssertExpectations(t)
	})
}

func TestService_RunStopsOnContextCancel(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ResetStaleSessionCounters", mock.Anything).Return(0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(repo, newNoopLogger())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
	assert.True(t, repo.AssertNumberOfCalls(t, "ResetStaleSessionCounters", 1))
}
