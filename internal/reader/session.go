// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reader is the interactive reading and listening session.

A [Session] joins the pieces: navigation installs a sequence, the sequence is
handed to the playback sequencer (which stops whatever was playing), and every
verse that starts playing is recorded as the reading position. [Console] drives
a session from line-oriented input.
*/
package reader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/mushaf/internal/content"
	"github.com/taibuivan/mushaf/internal/library/bookmark"
	"github.com/taibuivan/mushaf/internal/locator"
	"github.com/taibuivan/mushaf/internal/navigation"
	"github.com/taibuivan/mushaf/internal/playback"
	"github.com/taibuivan/mushaf/internal/position"
)

var (
	// ErrNothingToResume is returned by Resume before any verse was ever played.
	ErrNothingToResume = errors.New("reader: no reading position recorded")

	// ErrNoActiveVerse is returned by BookmarkActive while nothing is playing.
	ErrNoActiveVerse = errors.New("reader: no active verse")
)

// SessionConfig wires a [Session].
type SessionConfig struct {
	Content   content.Client
	Engine    playback.Engine
	Tracker   *position.Tracker
	Bookmarks *bookmark.Service // optional
	AudioBase string
	Logger    *slog.Logger
}

// Session owns one navigation controller and one playback sequencer.
type Session struct {
	content   content.Client
	nav       *navigation.Controller
	player    *playback.Sequencer
	tracker   *position.Tracker
	bookmarks *bookmark.Service
	logger    *slog.Logger

	chapters []content.Chapter
}

// NewSession constructs a [Session]. Nothing is fetched until [Session.Open].
func NewSession(cfg SessionConfig) *Session {
	var recorder playback.Recorder
	if cfg.Tracker != nil {
		recorder = cfg.Tracker
	}

	session := &Session{
		content:   cfg.Content,
		nav:       navigation.NewController(cfg.Content, cfg.Logger),
		tracker:   cfg.Tracker,
		bookmarks: cfg.Bookmarks,
		logger:    cfg.Logger,
		player: playback.NewSequencer(playback.Config{
			Engine:       cfg.Engine,
			Recorder:     recorder,
			AudioBaseURL: cfg.AudioBase,
			Logger:       cfg.Logger,
		}),
	}

	// Navigating away always stops and releases the current audio.
	session.nav.OnInstall(session.player.Load)
	return session
}

// LoadChapters fetches the chapter catalog used for names and lookups.
func (s *Session) LoadChapters(ctx context.Context) ([]content.Chapter, error) {
	chapters, err := s.content.Chapters(ctx)
	if err != nil {
		return nil, err
	}
	s.chapters = chapters
	return chapters, nil
}

// Chapter returns catalog metadata for id, when the catalog is loaded.
func (s *Session) Chapter(id int) (content.Chapter, bool) {
	for _, chapter := range s.chapters {
		if chapter.ID == id {
			return chapter, true
		}
	}
	return content.Chapter{}, false
}

// FindChapter resolves a number or name against the loaded catalog.
func (s *Session) FindChapter(query string) (content.Chapter, bool) {
	return content.FindChapter(s.chapters, query)
}

// OnPlayback registers an observer of playback state changes.
func (s *Session) OnPlayback(fn func(playback.State)) {
	s.player.OnChange(fn)
}

// OnPlaybackError registers an observer of asynchronous playback failures.
func (s *Session) OnPlaybackError(fn func(error)) {
	s.player.OnError(fn)
}

// # Navigation

// Open selects loc and waits for its sequence.
func (s *Session) Open(ctx context.Context, loc locator.Locator) error {
	return s.nav.Select(ctx, loc)
}

// Next moves to the following chapter, division or page.
func (s *Session) Next(ctx context.Context) error {
	return s.nav.Advance(ctx)
}

// Prev moves to the preceding chapter, division or page.
func (s *Session) Prev(ctx context.Context) error {
	return s.nav.Retreat(ctx)
}

// Navigation returns the navigation snapshot.
func (s *Session) Navigation() navigation.Snapshot {
	return s.nav.Snapshot()
}

// # Playback

// Play starts the verse numbered verse in the current sequence.
func (s *Session) Play(ctx context.Context, verse int) error {
	return s.player.Play(ctx, verse)
}

// PlayKey starts the verse identified by key in the current sequence.
func (s *Session) PlayKey(ctx context.Context, key locator.VerseKey) error {
	return s.player.PlayKey(ctx, key)
}

// Toggle plays, pauses or resumes.
func (s *Session) Toggle(ctx context.Context) error {
	return s.player.Toggle(ctx)
}

// Stop halts playback.
func (s *Session) Stop() {
	s.player.Stop()
}

// Playback returns the playback state.
func (s *Session) Playback() playback.State {
	return s.player.State()
}

// LastPosition returns the recorded reading position, if any.
func (s *Session) LastPosition() (position.Position, bool, error) {
	if s.tracker == nil {
		return position.Position{}, false, nil
	}
	return s.tracker.Last()
}

// Resume opens the chapter of the recorded position and plays that verse.
func (s *Session) Resume(ctx context.Context) (position.Position, error) {
	pos, ok, err := s.LastPosition()
	if err != nil {
		return position.Position{}, err
	}
	if !ok {
		return position.Position{}, ErrNothingToResume
	}

	if err := s.nav.SelectChapter(ctx, pos.Chapter); err != nil {
		return pos, err
	}
	if err := s.player.PlayKey(ctx, pos.Key()); err != nil {
		return pos, err
	}

	s.logger.InfoContext(ctx, "reading_resumed", slog.String("verse_key", pos.Key().String()))
	return pos, nil
}

// BookmarkActive saves the verse being played.
func (s *Session) BookmarkActive(ctx context.Context) (*bookmark.Bookmark, error) {
	if s.bookmarks == nil {
		return nil, errors.New("reader: bookmarks are not configured")
	}

	state := s.player.State()
	if state.Status == playback.StatusIdle {
		return nil, ErrNoActiveVerse
	}
	return s.bookmarks.Create(ctx, state.ActiveKey.Chapter, state.ActiveKey.Verse)
}

// Bookmarks lists saved bookmarks.
func (s *Session) Bookmarks(ctx context.Context) ([]*bookmark.Bookmark, error) {
	if s.bookmarks == nil {
		return nil, nil
	}
	return s.bookmarks.List(ctx)
}

// Close stops playback and releases the audio handle.
func (s *Session) Close() {
	s.player.Stop()
}

// describe renders the active locator with the anchor chapter name.
func (s *Session) describe(snapshot navigation.Snapshot) string {
	label := snapshot.Active.String()
	if chapter, ok := s.Chapter(snapshot.AnchorChapter); ok {
		label += fmt.Sprintf(" · %s (%s)", chapter.SimpleName, chapter.NativeName)
	}
	return label
}
