// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audio

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/mushaf/internal/playback"
)

// SilentEngine pretends to play: every verse completes after Duration.
type SilentEngine struct {
	Duration time.Duration
}

// Start implements [playback.Engine].
func (e SilentEngine) Start(ctx context.Context, _ string) (playback.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	handle := &silentHandle{done: make(chan error, 1), remaining: e.Duration}
	handle.mu.Lock()
	handle.arm()
	handle.mu.Unlock()
	return handle, nil
}

type silentHandle struct {
	done chan error

	mu        sync.Mutex
	timer     *time.Timer
	started   time.Time
	remaining time.Duration
	finished  bool
}

// arm schedules completion after the remaining time. Callers hold mu.
func (h *silentHandle) arm() {
	h.started = time.Now()
	h.timer = time.AfterFunc(h.remaining, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.finished {
			return
		}
		h.finished = true
		h.done <- nil
	})
}

func (h *silentHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer == nil || h.finished {
		return nil
	}
	if h.timer.Stop() {
		h.remaining -= time.Since(h.started)
		h.timer = nil
	}
	return nil
}

func (h *silentHandle) Resume() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil || h.finished {
		return nil
	}
	h.arm()
	return nil
}

func (h *silentHandle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished {
		return nil
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	h.finished = true
	h.done <- ErrReleased
	return nil
}

func (h *silentHandle) Done() <-chan error { return h.done }
