package mailer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskPool_RunsSubmittedTasks(t *testing.T) {
	pool := NewTaskPool(2, testLogger{})

	var counter atomic.Int64
	for i := 0; i < 10; i++ {
		pool.Submit("count", func() {
			counter.Add(1)
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pool.Drain(ctx))
	assert.Equal(t, int64(10), counter.Load())
}

func TestTaskPool_SubmitNeverBlocksCaller(t *testing.T) {
	pool := NewTaskPool(1, testLogger{})

	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	pool.Submit("block", func() {
		wg.Done()
		<-release
	})
	wg.Wait()

	// The single worker slot is occupied; submitting more must return
	// immediately anyway.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			pool.Submit("queued", func() {})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Submit blocked the caller")
	}

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pool.Drain(ctx))
}

func TestTaskPool_RecoversPanics(t *testing.T) {
	pool := NewTaskPool(1, testLogger{})

	pool.Submit("panics", func() {
		panic("boom")
	})
	pool.Submit("survives", func() {})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pool.Drain(ctx))
}

func TestTaskPool_DrainTimesOut(t *testing.T) {
	pool := NewTaskPool(1, testLogger{})

	release := make(chan struct{})
	defer close(release)
	pool.Submit("stuck", func() {
		<-release
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, pool.Drain(ctx))
}
