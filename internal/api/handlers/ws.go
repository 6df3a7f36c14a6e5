// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wingedpig/loupe/internal/jsonpath"
	"github.com/wingedpig/loupe/internal/metrics"
	"github.com/wingedpig/loupe/internal/query"
	"github.com/wingedpig/loupe/internal/search"
	"github.com/wingedpig/loupe/internal/worker"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// isConnectionClosed checks if an error indicates a normal connection close
// that shouldn't be logged as an error.
func isConnectionClosed(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "use of closed network connection")
}

// WSFrame is one message on the live query channel, both directions.
// Requests carry ID, Type, and Payload; responses echo ID and Type and carry
// Data or Error.
type WSFrame struct {
	ID      uint64          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Data    any             `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// WSFilterPayload is the payload of a filter frame.
type WSFilterPayload struct {
	Content string `json:"content"`
	Query   string `json:"query"`
}

// WSLocatePayload is the payload of a locate frame.
type WSLocatePayload struct {
	Content string `json:"content"`
	Expr    string `json:"expr"`
}

// WSSearchPayload is the payload of a search frame.
type WSSearchPayload struct {
	Tabs    []search.Tab `json:"tabs"`
	Pattern string       `json:"pattern"`
	Flags   string       `json:"flags"`
}

// WSHandler is the live query channel: id-correlated request/response frames
// with one latest-request slot per task type. A response whose id is no
// longer the latest for its type is never written; the superseded request is
// rejected instead.
type WSHandler struct {
	bridge     *worker.Bridge
	metrics    *metrics.Metrics
	searchOpts search.Options
}

// NewWSHandler creates the live channel handler.
func NewWSHandler(bridge *worker.Bridge, m *metrics.Metrics, searchOpts search.Options) *WSHandler {
	return &WSHandler{bridge: bridge, metrics: m, searchOpts: searchOpts}
}

// wsConn is per-connection state: the latest client-assigned request id per
// task type, and a write lock since responses arrive from task goroutines.
type wsConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu     sync.Mutex
	latest map[string]uint64
}

func (c *wsConn) setLatest(taskType string, id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest[taskType] = id
}

func (c *wsConn) isLatest(taskType string, id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest[taskType] == id
}

func (c *wsConn) write(frame WSFrame) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(frame); err != nil && !isConnectionClosed(err) {
		log.Printf("ws: write frame %d: %v", frame.ID, err)
	}
}

// ServeHTTP upgrades the connection and pumps frames until the client goes
// away.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	c := &wsConn{conn: conn, latest: make(map[string]uint64)}

	for {
		var frame WSFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!isConnectionClosed(err) {
				log.Printf("ws: read: %v", err)
			}
			return
		}
		h.dispatch(c, frame)
	}
}

// dispatch routes one request frame onto the worker bridge.
func (h *WSHandler) dispatch(c *wsConn, frame WSFrame) {
	var taskType worker.TaskType
	var task worker.Task

	switch frame.Type {
	case "filter":
		var p WSFilterPayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			c.write(WSFrame{ID: frame.ID, Type: frame.Type, Error: "invalid filter payload"})
			return
		}
		taskType = worker.TaskFilter
		task = func(ctx context.Context) (any, error) {
			start := time.Now()
			res := query.FilterContent(p.Content, p.Query)
			h.metrics.FilterDuration.Observe(time.Since(start).Seconds())
			return res, nil
		}

	case "locate":
		var p WSLocatePayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			c.write(WSFrame{ID: frame.ID, Type: frame.Type, Error: "invalid locate payload"})
			return
		}
		taskType = worker.TaskLocate
		task = func(ctx context.Context) (any, error) {
			start := time.Now()
			sel := jsonpath.Locate(p.Content, jsonpath.ParsePathTokens(p.Expr))
			h.metrics.LocateDuration.Observe(time.Since(start).Seconds())
			return sel, nil
		}

	case "search":
		var p WSSearchPayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			c.write(WSFrame{ID: frame.ID, Type: frame.Type, Error: "invalid search payload"})
			return
		}
		if err := h.searchOpts.Gate.Validate(p.Pattern, p.Flags); err != nil {
			h.metrics.GateRejections.Inc()
			c.write(WSFrame{ID: frame.ID, Type: frame.Type, Error: err.Error()})
			return
		}
		taskType = worker.TaskSearch
		task = func(ctx context.Context) (any, error) {
			start := time.Now()
			report, err := search.Scan(ctx, p.Tabs, p.Pattern, p.Flags, h.searchOpts)
			h.metrics.SearchDuration.Observe(time.Since(start).Seconds())
			return report, err
		}

	default:
		c.write(WSFrame{ID: frame.ID, Type: frame.Type, Error: "unknown task type"})
		return
	}

	c.setLatest(frame.Type, frame.ID)

	_, resultCh := h.bridge.Submit(taskType, task)
	go func(id uint64, frameType string) {
		res := <-resultCh

		if errors.Is(res.Err, worker.ErrSuperseded) {
			c.write(WSFrame{ID: id, Type: frameType, Error: "superseded"})
			return
		}
		// A result that is no longer the latest for its type is dropped, not
		// written: a stale scan must never overwrite a fresh one.
		if !c.isLatest(frameType, id) {
			return
		}
		if res.Err != nil {
			c.write(WSFrame{ID: id, Type: frameType, Error: res.Err.Error()})
			return
		}
		c.write(WSFrame{ID: id, Type: frameType, Data: res.Value})
	}(frame.ID, frame.Type)
}
