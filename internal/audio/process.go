// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build unix

package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/taibuivan/mushaf/internal/playback"
)

// maxStderr bounds the player output kept for error messages.
const maxStderr = 2 << 10

// ProcessEngine plays each URI through an external command.
//
// The URI is appended as the last argument. Pause and resume use SIGSTOP and
// SIGCONT; release kills the process. A zero exit is a natural completion.
type ProcessEngine struct {
	args   []string
	logger *slog.Logger
}

// NewProcessEngine splits commandLine on whitespace, e.g. "mpv --no-video".
// Quoting is not supported.
func NewProcessEngine(commandLine string, logger *slog.Logger) (*ProcessEngine, error) {
	args := strings.Fields(commandLine)
	if len(args) == 0 {
		return nil, errors.New("audio: empty player command")
	}
	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, fmt.Errorf("audio: player %q not found: %w", args[0], err)
	}
	return &ProcessEngine{args: args, logger: logger}, nil
}

// Start implements [playback.Engine].
func (e *ProcessEngine) Start(ctx context.Context, uri string) (playback.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The process must outlive ctx, which only bounds starting.
	cmd := exec.Command(e.args[0], append(e.args[1:], uri)...)
	stderr := &tailBuffer{limit: maxStderr}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("audio: start player: %w", err)
	}

	handle := &processHandle{cmd: cmd, done: make(chan error, 1)}
	go func() {
		err := cmd.Wait()
		handle.finish(err, stderr.String())
	}()

	e.logger.DebugContext(ctx, "player_started",
		slog.Int("pid", cmd.Process.Pid),
		slog.String("uri", uri),
	)
	return handle, nil
}

type processHandle struct {
	cmd  *exec.Cmd
	done chan error

	mu       sync.Mutex
	released bool
}

func (h *processHandle) finish(err error, stderr string) {
	h.mu.Lock()
	released := h.released
	h.mu.Unlock()

	switch {
	case released:
		h.done <- ErrReleased
	case err != nil:
		if stderr = strings.TrimSpace(stderr); stderr != "" {
			err = fmt.Errorf("%w: %s", err, stderr)
		}
		h.done <- fmt.Errorf("audio: player exited: %w", err)
	default:
		h.done <- nil
	}
}

func (h *processHandle) signal(sig os.Signal) error {
	err := h.cmd.Process.Signal(sig)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func (h *processHandle) Pause() error  { return h.signal(syscall.SIGSTOP) }
func (h *processHandle) Resume() error { return h.signal(syscall.SIGCONT) }

func (h *processHandle) Release() error {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return nil
	}
	h.released = true
	h.mu.Unlock()

	// A stopped process still dies on SIGKILL, but continue it first so it
	// can release the audio device cleanly on platforms that care.
	_ = h.signal(syscall.SIGCONT)
	return h.signal(os.Kill)
}

func (h *processHandle) Done() <-chan error { return h.done }

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Write(p)
	if extra := b.buf.Len() - b.limit; extra > 0 {
		b.buf.Next(extra)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
