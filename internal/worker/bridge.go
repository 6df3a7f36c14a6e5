// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package worker runs filter and locate work off the caller's thread with
// per-task-type supersession: only the most recently submitted request of a
// type is honored, so a slow stale scan can never overwrite a fresh result.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// TaskType partitions requests into independent latest-wins slots. Requests
// of different types may be concurrently in flight.
type TaskType string

const (
	TaskFilter TaskType = "filter"
	TaskLocate TaskType = "locate"
	TaskSearch TaskType = "search"
)

var (
	// ErrSuperseded rejects a pending request when a newer request of the
	// same type is submitted.
	ErrSuperseded = errors.New("request superseded by a newer request of the same type")

	// ErrWorkerFault fails every pending request when a task panics; the
	// worker is torn down and rebuilt on next use.
	ErrWorkerFault = errors.New("worker fault: pending request aborted")

	// ErrBridgeClosed is returned for submissions after Close.
	ErrBridgeClosed = errors.New("worker bridge is closed")
)

// Task is a unit of background work. The context is cancelled when the
// request is superseded; cancellation is cooperative only — a superseded
// task that ignores it simply has its result discarded.
type Task func(ctx context.Context) (any, error)

// Result carries a task outcome back as data. Err is ErrSuperseded,
// ErrWorkerFault, or whatever the task returned.
type Result struct {
	ID    uint64
	Value any
	Err   error
}

type request struct {
	id       uint64
	typ      TaskType
	task     Task
	ctx      context.Context
	cancel   context.CancelFunc
	resultCh chan Result
}

// Bridge is the typed request/response channel between the host and its
// single background worker goroutine.
type Bridge struct {
	mu      sync.Mutex
	nextID  atomic.Uint64
	latest  map[TaskType]uint64
	pending map[uint64]*request
	queue   []*request
	wake    chan struct{}
	running bool
	closed  bool
}

// NewBridge creates a bridge. The worker goroutine is started lazily on the
// first submission and rebuilt after a fault.
func NewBridge() *Bridge {
	return &Bridge{
		latest:  make(map[TaskType]uint64),
		pending: make(map[uint64]*request),
		wake:    make(chan struct{}, 1),
	}
}

// Submit enqueues a task and returns its request id plus a channel that will
// receive exactly one Result. Submitting a new request of the same type
// immediately rejects any still-pending prior request of that type.
func (b *Bridge) Submit(typ TaskType, task Task) (uint64, <-chan Result) {
	id := b.nextID.Add(1)
	resultCh := make(chan Result, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		resultCh <- Result{ID: id, Err: ErrBridgeClosed}
		return id, resultCh
	}

	// Reject the still-pending prior request of this type, if any.
	if prevID, ok := b.latest[typ]; ok {
		if prev, ok := b.pending[prevID]; ok {
			delete(b.pending, prevID)
			prev.cancel()
			prev.resultCh <- Result{ID: prevID, Err: ErrSuperseded}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	req := &request{
		id:       id,
		typ:      typ,
		task:     task,
		ctx:      ctx,
		cancel:   cancel,
		resultCh: resultCh,
	}
	b.latest[typ] = id
	b.pending[id] = req
	b.queue = append(b.queue, req)

	if !b.running {
		b.running = true
		go b.run()
	}
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}

	return id, resultCh
}

// run is the worker loop. It exits on Close or after a fault; a fault fails
// every pending request, with no finer-grained isolation.
func (b *Bridge) run() {
	for {
		b.mu.Lock()
		if b.closed {
			b.running = false
			b.mu.Unlock()
			return
		}
		if len(b.queue) == 0 {
			b.mu.Unlock()
			<-b.wake
			continue
		}
		req := b.queue[0]
		b.queue = b.queue[1:]
		stillPending := b.pending[req.id] == req
		b.mu.Unlock()

		if !stillPending {
			continue
		}

		value, err, faulted := b.execute(req)
		if faulted {
			b.failAll()
			return
		}

		b.mu.Lock()
		if b.pending[req.id] == req {
			delete(b.pending, req.id)
			req.cancel()
			req.resultCh <- Result{ID: req.id, Value: value, Err: err}
		}
		b.mu.Unlock()
	}
}

// execute runs one task, converting a panic into a fault signal.
func (b *Bridge) execute(req *request) (value any, err error, faulted bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("worker: task %d (%s) panicked: %v\n%s", req.id, req.typ, r, debug.Stack())
			err = fmt.Errorf("%w: %v", ErrWorkerFault, r)
			faulted = true
		}
	}()
	value, err = req.task(req.ctx)
	return value, err, false
}

// failAll rejects every pending request and tears the worker down. The next
// Submit rebuilds it.
func (b *Bridge) failAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, req := range b.pending {
		delete(b.pending, id)
		req.cancel()
		req.resultCh <- Result{ID: id, Err: ErrWorkerFault}
	}
	b.queue = nil
	b.running = false
}

// Pending reports the number of requests not yet resolved.
func (b *Bridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Close rejects all pending requests and stops the worker.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for id, req := range b.pending {
		delete(b.pending, id)
		req.cancel()
		req.resultCh <- Result{ID: id, Err: ErrBridgeClosed}
	}
	b.queue = nil
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}
