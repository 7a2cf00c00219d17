// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build !unix

package audio

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/mushaf/internal/playback"
)

// ErrUnsupported is returned where external players cannot be suspended.
var ErrUnsupported = errors.New("audio: external player requires a unix platform")

// ProcessEngine is unavailable on this platform.
type ProcessEngine struct{}

// NewProcessEngine always fails here; use [SilentEngine] instead.
func NewProcessEngine(string, *slog.Logger) (*ProcessEngine, error) {
	return nil, ErrUnsupported
}

// Start implements [playback.Engine].
func (e *ProcessEngine) Start(context.Context, string) (playback.Handle, error) {
	return nil, ErrUnsupported
}
