// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playback

import (
	"errors"
	"fmt"

	"github.com/taibuivan/mushaf/internal/locator"
)

var (
	// ErrVerseNotLoaded is returned when the verse is not in the current sequence.
	ErrVerseNotLoaded = errors.New("playback: verse not in current sequence")

	// ErrNoAudio is returned when a verse carries no audio reference.
	ErrNoAudio = errors.New("playback: verse has no audio reference")
)

// AudioUnavailableError reports that playback of a verse could not begin,
// or broke before finishing.
type AudioUnavailableError struct {
	Key locator.VerseKey
	URI string
	Err error
}

func (e *AudioUnavailableError) Error() string {
	if e.URI != "" {
		return fmt.Sprintf("playback: audio unavailable for %s (%s): %v", e.Key, e.URI, e.Err)
	}
	return fmt.Sprintf("playback: audio unavailable for %s: %v", e.Key, e.Err)
}

func (e *AudioUnavailableError) Unwrap() error { return e.Err }
