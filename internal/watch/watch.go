// Package watch fans reports out to any number of watchers.
package watch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/rhettg/sysinfo/internal/sysinfo"
)

type Chan chan sysinfo.Report

// Hub delivers every published report to every current watcher. Slow
// watchers miss reports rather than block Publish.
type Hub struct {
	watchers []Chan
	closed   bool

	mu sync.RWMutex
}

func New() *Hub {
	return &Hub{
		watchers: make([]Chan, 0),
	}
}

func (h *Hub) Watch() Chan {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(Chan, 8)
	if h.closed {
		close(ch)
		return ch
	}
	h.watchers = append(h.watchers, ch)
	return ch
}

func (h *Hub) Unwatch(ch Chan) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, w := range h.watchers {
		if w == ch {
			h.watchers = append(h.watchers[:i], h.watchers[i+1:]...)
			close(ch)
			break
		}
	}
	slog.Debug("removed watcher", "count", len(h.watchers))
}

// Watchers is the number of current watchers.
func (h *Hub) Watchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}

func (h *Hub) Publish(r sysinfo.Report) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, out := range h.watchers {
		select {
		case out <- r:
		default:
			slog.Warn("dropping report for watcher", "scripts_revision", r.ScriptsRevision)
		}
	}
}

// Close ends every watch. Later watchers get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, ch := range h.watchers {
		close(ch)
	}
	h.watchers = nil
}

// Stream writes the report returned by current, then every report published
// to h, to w as one JSON document per line until ctx is done or h is closed.
// current is called after the watcher is registered, so no publish falls
// between the two.
func Stream(ctx context.Context, w io.Writer, h *Hub, current func() sysinfo.Report) error {
	ch := h.Watch()
	defer h.Unwatch(ch)

	enc := json.NewEncoder(w)
	send := func(r sysinfo.Report) error {
		if err := enc.Encode(r); err != nil {
			return errors.New("error writing report")
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		return nil
	}

	if err := send(current()); err != nil {
		return err
	}

	for {
		select {
		case r, ok := <-ch:
			if !ok {
				slog.Debug("watch closed")
				return nil
			}
			if err := send(r); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}
