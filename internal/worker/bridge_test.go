// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
		return Result{}
	}
}

func TestBridgeBasicResult(t *testing.T) {
	b := NewBridge()
	defer b.Close()

	id, ch := b.Submit(TaskFilter, func(ctx context.Context) (any, error) {
		return 42, nil
	})

	res := awaitResult(t, ch)
	assert.Equal(t, id, res.ID)
	assert.NoError(t, res.Err)
	assert.Equal(t, 42, res.Value)
}

func TestBridgeIDsIncrease(t *testing.T) {
	b := NewBridge()
	defer b.Close()

	id1, ch1 := b.Submit(TaskFilter, func(ctx context.Context) (any, error) { return nil, nil })
	awaitResult(t, ch1)
	id2, ch2 := b.Submit(TaskLocate, func(ctx context.Context) (any, error) { return nil, nil })
	awaitResult(t, ch2)

	assert.Greater(t, id2, id1)
}

func TestBridgeSupersedesSameType(t *testing.T) {
	b := NewBridge()
	defer b.Close()

	release := make(chan struct{})

	// First request blocks the worker so the second stays queued.
	_, ch1 := b.Submit(TaskFilter, func(ctx context.Context) (any, error) {
		<-release
		return "first", nil
	})
	_, ch2 := b.Submit(TaskFilter, func(ctx context.Context) (any, error) {
		return "second", nil
	})
	_, ch3 := b.Submit(TaskFilter, func(ctx context.Context) (any, error) {
		return "third", nil
	})

	// ch1 and ch2 are rejected as soon as a newer filter request arrives.
	res1 := awaitResult(t, ch1)
	require.ErrorIs(t, res1.Err, ErrSuperseded)
	res2 := awaitResult(t, ch2)
	require.ErrorIs(t, res2.Err, ErrSuperseded)

	close(release)
	res3 := awaitResult(t, ch3)
	require.NoError(t, res3.Err)
	assert.Equal(t, "third", res3.Value)
}

func TestBridgeTypesAreIndependent(t *testing.T) {
	b := NewBridge()
	defer b.Close()

	release := make(chan struct{})

	_, filterCh := b.Submit(TaskFilter, func(ctx context.Context) (any, error) {
		<-release
		return "filtered", nil
	})
	_, locateCh := b.Submit(TaskLocate, func(ctx context.Context) (any, error) {
		return "located", nil
	})

	close(release)

	// A locate request must not supersede a pending filter request.
	res := awaitResult(t, filterCh)
	require.NoError(t, res.Err)
	assert.Equal(t, "filtered", res.Value)

	res = awaitResult(t, locateCh)
	require.NoError(t, res.Err)
	assert.Equal(t, "located", res.Value)
}

func TestBridgeSupersededContextCancelled(t *testing.T) {
	b := NewBridge()
	defer b.Close()

	started := make(chan struct{})
	cancelled := make(chan struct{})

	_, ch1 := b.Submit(TaskFilter, func(ctx context.Context) (any, error) {
		close(started)
		select {
		case <-ctx.Done():
			close(cancelled)
		case <-time.After(5 * time.Second):
		}
		return nil, ctx.Err()
	})

	<-started
	_, ch2 := b.Submit(TaskFilter, func(ctx context.Context) (any, error) {
		return "fresh", nil
	})

	res := awaitResult(t, ch1)
	require.ErrorIs(t, res.Err, ErrSuperseded)

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("superseded task context was not cancelled")
	}

	res = awaitResult(t, ch2)
	require.NoError(t, res.Err)
}

func TestBridgeFaultFailsAllPendingAndRebuilds(t *testing.T) {
	b := NewBridge()
	defer b.Close()

	release := make(chan struct{})

	_, panicCh := b.Submit(TaskFilter, func(ctx context.Context) (any, error) {
		<-release
		panic("scan exploded")
	})
	_, otherCh := b.Submit(TaskLocate, func(ctx context.Context) (any, error) {
		return "never runs", nil
	})

	close(release)

	res := awaitResult(t, panicCh)
	require.ErrorIs(t, res.Err, ErrWorkerFault)
	res = awaitResult(t, otherCh)
	require.ErrorIs(t, res.Err, ErrWorkerFault)

	// The next submission rebuilds the worker.
	_, freshCh := b.Submit(TaskFilter, func(ctx context.Context) (any, error) {
		return "recovered", nil
	})
	res = awaitResult(t, freshCh)
	require.NoError(t, res.Err)
	assert.Equal(t, "recovered", res.Value)
}

func TestBridgeClosed(t *testing.T) {
	b := NewBridge()
	b.Close()

	_, ch := b.Submit(TaskFilter, func(ctx context.Context) (any, error) {
		return nil, nil
	})
	res := awaitResult(t, ch)
	assert.ErrorIs(t, res.Err, ErrBridgeClosed)
}
