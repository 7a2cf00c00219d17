// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package playback plays the verses of the current sequence one after another.

# State Machine

	idle ──play──▶ playing ──pause──▶ paused ──resume──▶ playing
	  ▲               │
	  └─stop/fail/end─┘

# Invariants

  - At most one [Handle] is active. Starting a verse always releases the
    previous handle first, including when a new sequence is loaded.
  - Auto-advance fires only on natural completion of the current handle.
    Every start or release bumps a generation counter; a completion
    carrying an older generation is ignored.
  - Releasing a handle stops its watcher, whether or not the engine ever
    delivers on Done.
  - The last-read position names the most recent successful start.
*/
package playback

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/taibuivan/mushaf/internal/content"
	"github.com/taibuivan/mushaf/internal/locator"
)

// # States

// Status is the playback status.
type Status int

const (
	StatusIdle Status = iota
	StatusPlaying
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "idle"
	}
}

// State is an observable copy of the sequencer state.
type State struct {
	Status Status
	// ActiveVerse is the verse number being played, zero when idle.
	ActiveVerse int
	ActiveKey   locator.VerseKey
	// Index is the position of the active verse in the sequence, -1 when idle.
	Index int
}

// Config wires a [Sequencer].
type Config struct {
	Engine   Engine
	Recorder Recorder // optional
	// AudioBaseURL resolves relative audio references.
	AudioBaseURL string
	Logger       *slog.Logger
}

// Sequencer owns the current audio handle.
type Sequencer struct {
	engine   Engine
	recorder Recorder
	baseURL  string
	logger   *slog.Logger

	mu         sync.Mutex
	seq        *content.Sequence
	status     Status
	index      int
	handle     Handle
	stop       chan struct{}
	generation uint64
	starts     uint64
	observers  []func(State)
	failures   []func(error)

	// notifyMu keeps observer calls in transition order without holding mu.
	notifyMu sync.Mutex

	// recordMu orders position writes; a stale start never records after a newer one.
	recordMu sync.Mutex
}

// NewSequencer constructs an idle [Sequencer] with no sequence loaded.
func NewSequencer(cfg Config) *Sequencer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Sequencer{
		engine:   cfg.Engine,
		recorder: cfg.Recorder,
		baseURL:  cfg.AudioBaseURL,
		logger:   logger,
		index:    -1,
	}
}

// OnChange registers fn for every state transition.
// Observers run outside the state lock but must not call sequencer commands
// synchronously; hand off to another goroutine instead.
func (s *Sequencer) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// OnError registers fn for failures that have no caller to return to,
// such as a stream breaking mid-verse or auto-advance failing to start.
func (s *Sequencer) OnError(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, fn)
}

// # Catalog

// Load publishes a new sequence and stops any playback of the old one.
func (s *Sequencer) Load(seq *content.Sequence) {
	s.mu.Lock()
	s.releaseLocked()
	s.seq = seq
	s.status = StatusIdle
	s.index = -1
	s.unlockAndNotify(nil)
}

// Sequence returns the loaded sequence.
func (s *Sequencer) Sequence() *content.Sequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// # Commands

// Play starts the first verse numbered verseNumber in the current sequence.
func (s *Sequencer) Play(ctx context.Context, verseNumber int) error {
	s.mu.Lock()
	index, ok := s.seq.IndexOf(verseNumber)
	if !ok {
		s.mu.Unlock()
		return &AudioUnavailableError{
			Key: locator.VerseKey{Chapter: s.anchorLocked(), Verse: verseNumber},
			Err: ErrVerseNotLoaded,
		}
	}
	return s.playLocked(ctx, index)
}

// PlayKey starts the verse with the given key. Division and page sequences
// can repeat a verse number across chapters; the key is unambiguous.
func (s *Sequencer) PlayKey(ctx context.Context, key locator.VerseKey) error {
	s.mu.Lock()
	index, ok := s.seq.IndexOfKey(key)
	if !ok {
		s.mu.Unlock()
		return &AudioUnavailableError{Key: key, Err: ErrVerseNotLoaded}
	}
	return s.playLocked(ctx, index)
}

// Toggle plays the first verse when idle, pauses when playing and resumes
// when paused. Idle with nothing loaded is a no-op.
func (s *Sequencer) Toggle(ctx context.Context) error {
	s.mu.Lock()
	switch s.status {
	case StatusPlaying:
		return s.pauseLocked()
	case StatusPaused:
		return s.resumeLocked()
	default:
		if s.seq.Empty() {
			s.mu.Unlock()
			return nil
		}
		return s.playLocked(ctx, 0)
	}
}

// Pause pauses the active verse, keeping its handle. It is a no-op unless playing.
func (s *Sequencer) Pause() error {
	s.mu.Lock()
	if s.status != StatusPlaying {
		s.mu.Unlock()
		return nil
	}
	return s.pauseLocked()
}

// Resume continues a paused verse. It is a no-op unless paused.
func (s *Sequencer) Resume() error {
	s.mu.Lock()
	if s.status != StatusPaused {
		s.mu.Unlock()
		return nil
	}
	return s.resumeLocked()
}

// Stop releases the handle, clears the active verse and returns to idle.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	s.releaseLocked()
	s.status = StatusIdle
	s.index = -1
	s.unlockAndNotify(nil)
}

// State returns the current state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// # Transitions

// playLocked starts the verse at index. It is called with mu held and
// releases it before returning.
func (s *Sequencer) playLocked(ctx context.Context, index int) error {
	verse := s.seq.Verses[index]
	key := verse.VerseKey()

	s.releaseLocked()

	fail := func(uri string, cause error) error {
		s.status = StatusIdle
		s.index = -1
		err := &AudioUnavailableError{Key: key, URI: uri, Err: cause}
		s.logger.WarnContext(ctx, "playback_unavailable",
			slog.String("verse_key", key.String()),
			slog.String("error", cause.Error()),
		)
		s.unlockAndNotify(nil)
		return err
	}

	uri, err := ResolveAudioURL(s.baseURL, verse.AudioURL)
	if err != nil {
		return fail("", err)
	}

	handle, err := s.engine.Start(ctx, uri)
	if err != nil {
		return fail(uri, err)
	}

	s.generation++
	s.starts++
	start := s.starts
	s.handle = handle
	s.stop = make(chan struct{})
	s.index = index
	s.status = StatusPlaying
	go s.watch(s.generation, handle, s.stop)

	s.logger.InfoContext(ctx, "playback_started",
		slog.String("verse_key", key.String()),
		slog.String("uri", uri),
	)

	s.unlockAndNotify(nil)
	s.record(ctx, start, key)
	return nil
}

// record saves key as the last-read position unless a newer start exists.
func (s *Sequencer) record(ctx context.Context, start uint64, key locator.VerseKey) {
	if s.recorder == nil {
		return
	}

	s.recordMu.Lock()
	defer s.recordMu.Unlock()

	s.mu.Lock()
	current := start == s.starts
	s.mu.Unlock()
	if !current {
		s.logger.DebugContext(ctx, "reading_position_superseded", slog.String("verse_key", key.String()))
		return
	}

	if err := s.recorder.Record(ctx, key.Chapter, key.Verse); err != nil {
		s.logger.WarnContext(ctx, "reading_position_not_saved",
			slog.String("verse_key", key.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Sequencer) pauseLocked() error {
	if err := s.handle.Pause(); err != nil {
		key := s.stateLocked().ActiveKey
		s.mu.Unlock()
		s.logger.Warn("playback_pause_failed",
			slog.String("verse_key", key.String()),
			slog.String("error", err.Error()),
		)
		return err
	}
	s.status = StatusPaused
	s.unlockAndNotify(nil)
	return nil
}

func (s *Sequencer) resumeLocked() error {
	if err := s.handle.Resume(); err != nil {
		key := s.stateLocked().ActiveKey
		s.mu.Unlock()
		s.logger.Warn("playback_resume_failed",
			slog.String("verse_key", key.String()),
			slog.String("error", err.Error()),
		)
		return err
	}
	s.status = StatusPlaying
	s.unlockAndNotify(nil)
	return nil
}

// releaseLocked drops the active handle and invalidates its pending completion.
func (s *Sequencer) releaseLocked() {
	s.generation++
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	if s.handle == nil {
		return
	}
	if err := s.handle.Release(); err != nil {
		s.logger.Warn("playback_release_failed", slog.String("error", err.Error()))
	}
	s.handle = nil
}

// watch waits for the handle to finish and advances on natural completion.
// It exits without effect once stop is closed.
func (s *Sequencer) watch(generation uint64, handle Handle, stop <-chan struct{}) {
	var result error
	select {
	case result = <-handle.Done():
	case <-stop:
		return
	}

	s.mu.Lock()
	if generation != s.generation {
		// Superseded by a newer play, stop or load.
		s.mu.Unlock()
		return
	}

	key := s.stateLocked().ActiveKey

	if result != nil {
		s.releaseLocked()
		s.status = StatusIdle
		s.index = -1
		s.logger.Warn("playback_interrupted",
			slog.String("verse_key", key.String()),
			slog.String("error", result.Error()),
		)
		s.unlockAndNotify(&AudioUnavailableError{Key: key, Err: result})
		return
	}

	s.logger.Debug("playback_completed", slog.String("verse_key", key.String()))

	next := s.index + 1
	if next >= s.seq.Len() {
		s.releaseLocked()
		s.status = StatusIdle
		s.index = -1
		s.logger.Info("playback_sequence_finished")
		s.unlockAndNotify(nil)
		return
	}

	if err := s.playLocked(context.Background(), next); err != nil {
		s.report(err)
	}
}

// # Helpers

func (s *Sequencer) stateLocked() State {
	state := State{Status: s.status, Index: s.index}
	if verse, ok := s.seq.At(s.index); ok && s.status != StatusIdle {
		state.ActiveVerse = verse.Number
		state.ActiveKey = verse.VerseKey()
	} else {
		state.Index = -1
	}
	return state
}

func (s *Sequencer) anchorLocked() int {
	if first, ok := s.seq.First(); ok {
		return first.Chapter
	}
	return 0
}

// unlockAndNotify releases mu and delivers the new state (and failure, if any)
// to observers in transition order.
func (s *Sequencer) unlockAndNotify(failure error) {
	state := s.stateLocked()
	observers := append([]func(State){}, s.observers...)
	failures := append([]func(error){}, s.failures...)

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, observer := range observers {
		observer(state)
	}
	if failure != nil {
		for _, fn := range failures {
			fn(failure)
		}
	}
}

// report delivers an asynchronous failure to error observers.
func (s *Sequencer) report(err error) {
	s.mu.Lock()
	failures := append([]func(error){}, s.failures...)
	s.mu.Unlock()

	var unavailable *AudioUnavailableError
	if !errors.As(err, &unavailable) {
		err = &AudioUnavailableError{Err: err}
	}
	for _, fn := range failures {
		fn(err)
	}
}
