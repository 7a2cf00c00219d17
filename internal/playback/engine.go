// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playback

import "context"

// Engine starts audio playback for one URI.
//
// ctx bounds starting only; a started handle lives until released or finished.
type Engine interface {
	Start(ctx context.Context, uri string) (Handle, error)
}

// Handle is one active audio stream.
type Handle interface {
	Pause() error
	Resume() error

	// Release stops the stream and frees its resources. It is idempotent.
	Release() error

	// Done delivers exactly one value when the stream ends: nil on natural
	// completion, an error when playback broke. A released handle may
	// deliver an error or nothing at all.
	Done() <-chan error
}

// Recorder persists the last played verse. [position.Tracker] satisfies it.
type Recorder interface {
	Record(ctx context.Context, chapter, verse int) error
}
