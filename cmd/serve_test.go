package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/realtime"
	"fulfillment/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	startErr error
	started  atomic.Bool
	stopped  atomic.Bool
}

func (j *stubJob) Start() error {
	if j.startErr != nil {
		return j.startErr
	}
	j.started.Store(true)
	return nil
}

func (j *stubJob) Stop() { j.stopped.Store(true) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testService(job jobs.Job) *service {
	logger := quietLogger()
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &service{
		logger: logger,
		addr:   "127.0.0.1:0",
		hub:    realtime.NewHub(logger),
		echo:   e,
		jobs:   jobs.NewJobManager(job),
	}
}

func TestNewService_FailsBeforeConnecting(t *testing.T) {
	t.Run("should reject a missing secret without dialing the database", func(t *testing.T) {
		// Given
		cfg := Config{
			DBHost:    "db.invalid",
			DBPort:    "5432",
			DBName:    "fulfillment",
			RedisAddr: "redis.invalid:6379",
		}

		// When
		svc, err := newService(t.Context(), cfg, quietLogger())

		// Then
		require.ErrorContains(t, err, "jwt secret is empty")
		assert.Nil(t, svc)
	})
}

func TestService_Run(t *testing.T) {
	t.Run("should serve until the context is cancelled", func(t *testing.T) {
		// Given
		job := &stubJob{}
		svc := testService(job)
		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)

		// When
		go func() { done <- svc.run(ctx) }()
		require.Eventually(t, job.started.Load, time.Second, 10*time.Millisecond)
		cancel()

		// Then
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(shutdownTimeout):
			t.Fatal("run did not return after cancellation")
		}
		assert.True(t, job.stopped.Load())
	})

	t.Run("should start nothing when a job fails to start", func(t *testing.T) {
		// Given
		startErr := errors.New("bad schedule")
		svc := testService(&stubJob{startErr: startErr})

		// When
		err := svc.run(t.Context())

		// Then
		require.ErrorIs(t, err, startErr)
		assert.Nil(t, svc.echo.Listener)
	})
}

func TestService_Close(t *testing.T) {
	t.Run("should close connections in reverse order and keep going on failure", func(t *testing.T) {
		// Given
		var order []string
		svc := &service{logger: quietLogger()}
		svc.closers = []func() error{
			func() error { order = append(order, "redis"); return nil },
			func() error { order = append(order, "kafka"); return errors.New("broker gone") },
		}

		// When
		svc.close()
		svc.close()

		// Then
		assert.Equal(t, []string{"kafka", "redis"}, order)
	})
}
