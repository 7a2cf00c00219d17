// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package audio provides the concrete engines behind the playback sequencer.

  - [ProcessEngine] hands each verse URI to an external player (mpv by default).
  - [SilentEngine] completes each verse after a fixed delay, for dry runs.
*/
package audio

import "errors"

// ErrReleased is delivered by a handle that was released before finishing.
var ErrReleased = errors.New("audio: handle released")
