// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command reader is the terminal front end of mushaf.
//
// It reads and recites the text by chapter, division or page, keeps the last
// verse played so a later run can resume there, and manages the bookmark and
// setting library shared with the API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/taibuivan/mushaf/internal/app"
	"github.com/taibuivan/mushaf/internal/audio"
	"github.com/taibuivan/mushaf/internal/content"
	"github.com/taibuivan/mushaf/internal/library/bookmark"
	"github.com/taibuivan/mushaf/internal/library/setting"
	"github.com/taibuivan/mushaf/internal/locator"
	"github.com/taibuivan/mushaf/internal/platform/config"
	"github.com/taibuivan/mushaf/internal/platform/constants"
	"github.com/taibuivan/mushaf/internal/platform/localstore"
	"github.com/taibuivan/mushaf/internal/playback"
	"github.com/taibuivan/mushaf/internal/position"
	"github.com/taibuivan/mushaf/internal/reader"
)

// CLI defines the command-line interface for reader.
var CLI struct {
	// Global flags
	Silent bool `help:"Simulate recitation instead of running the audio player"`
	Debug  bool `help:"Log debug events to stderr"`

	Session  SessionCmd    `cmd:"" default:"withargs" help:"Start the interactive reader (default)"`
	Chapters ChaptersCmd   `cmd:"" help:"List the chapter catalog"`
	Read     ReadCmd       `cmd:"" help:"Print the verses at a locator"`
	Listen   ListenCmd     `cmd:"" help:"Recite the verses at a locator"`
	Resume   ResumeCmd     `cmd:"" help:"Continue reciting from the last verse played"`
	Bookmark BookmarkGroup `cmd:"" help:"Manage saved verses"`
	Setting  SettingGroup  `cmd:"" help:"Manage reader preferences"`
	Version  VersionCmd    `cmd:"" help:"Print version information"`
}

// BookmarkGroup contains bookmark operations.
type BookmarkGroup struct {
	List BookmarkListCmd `cmd:"" default:"1" help:"List bookmarks, newest first"`
	Add  BookmarkAddCmd  `cmd:"" help:"Bookmark a verse (chapter:verse)"`
	Rm   BookmarkRmCmd   `cmd:"" help:"Delete a bookmark by id"`
}

// SettingGroup contains setting operations.
type SettingGroup struct {
	List SettingListCmd `cmd:"" default:"1" help:"List stored settings"`
	Set  SettingSetCmd  `cmd:"" help:"Store a setting (locale, script, translation, recitation)"`
}

// # Runtime

// runtime holds lazily opened dependencies shared by every command.
type runtime struct {
	ctx    context.Context
	cfg    *config.Config
	log    *slog.Logger
	silent bool

	library *app.Library
	cleanup []func()
}

func (rt *runtime) close() {
	for i := len(rt.cleanup) - 1; i >= 0; i-- {
		rt.cleanup[i]()
	}
}

func (rt *runtime) openLibrary() (*app.Library, error) {
	if rt.library != nil {
		return rt.library, nil
	}
	library, err := app.OpenLibrary(rt.ctx, rt.cfg, rt.log)
	if err != nil {
		return nil, err
	}
	rt.library = library
	rt.cleanup = append(rt.cleanup, library.Close)
	return library, nil
}

func (rt *runtime) bookmarks() (*bookmark.Service, error) {
	library, err := rt.openLibrary()
	if err != nil {
		return nil, err
	}
	return bookmark.NewService(library.Bookmarks, rt.log), nil
}

func (rt *runtime) settings() (*setting.Service, error) {
	library, err := rt.openLibrary()
	if err != nil {
		return nil, err
	}
	return setting.NewService(library.Settings, rt.log), nil
}

// content builds the provider client with stored settings applied.
func (rt *runtime) content() (content.Client, error) {
	settings, err := rt.settings()
	if err != nil {
		return nil, err
	}
	stored, err := settings.All(rt.ctx)
	if err != nil {
		return nil, err
	}

	rdb, err := app.OpenCache(rt.ctx, rt.cfg, rt.log)
	if err != nil {
		// The cache is an accelerator; reading works without it.
		rt.log.Warn("content_cache_unavailable", slog.String("error", err.Error()))
		rdb = nil
	}
	if rdb != nil {
		rt.cleanup = append(rt.cleanup, func() { _ = rdb.Close() })
	}

	return app.NewContentClient(rt.cfg, app.ContentOptions(rt.cfg, stored, rt.log), rdb, rt.log), nil
}

func (rt *runtime) engine() (playback.Engine, error) {
	if rt.silent {
		return audio.SilentEngine{Duration: 2 * time.Second}, nil
	}
	return audio.NewProcessEngine(rt.cfg.AudioPlayer, rt.log)
}

func (rt *runtime) session() (*reader.Session, error) {
	client, err := rt.content()
	if err != nil {
		return nil, err
	}
	engine, err := rt.engine()
	if err != nil {
		return nil, err
	}
	state, err := localstore.Open(rt.cfg.StateDir)
	if err != nil {
		return nil, err
	}
	bookmarks, err := rt.bookmarks()
	if err != nil {
		return nil, err
	}

	session := reader.NewSession(reader.SessionConfig{
		Content:   client,
		Engine:    engine,
		Tracker:   position.NewTracker(state, rt.log),
		Bookmarks: bookmarks,
		AudioBase: rt.cfg.AudioBaseURL,
		Logger:    rt.log,
	})
	rt.cleanup = append(rt.cleanup, session.Close)

	if _, err := session.LoadChapters(rt.ctx); err != nil {
		rt.log.Warn("chapter_catalog_unavailable", slog.String("error", err.Error()))
	}
	return session, nil
}

// resolve accepts a locator ("juz:30", "page:1", "2") or a chapter name.
func (rt *runtime) resolve(session *reader.Session, raw string) (locator.Locator, error) {
	loc, err := locator.Parse(raw)
	if err == nil {
		return loc, nil
	}
	if chapter, ok := session.FindChapter(raw); ok {
		return locator.Chapter(chapter.ID), nil
	}
	return locator.Locator{}, err
}

// # Commands

// SessionCmd starts the interactive console.
type SessionCmd struct {
	Open string `arg:"" optional:"" help:"Locator or chapter name to open first"`
}

func (c *SessionCmd) Run(rt *runtime) error {
	session, err := rt.session()
	if err != nil {
		return err
	}

	console := reader.NewConsole(session, os.Stdout)
	if c.Open != "" {
		loc, err := rt.resolve(session, c.Open)
		if err != nil {
			return err
		}
		if err := session.Open(rt.ctx, loc); err != nil {
			return err
		}
	}
	return console.Run(rt.ctx, os.Stdin)
}

// ChaptersCmd prints the chapter catalog.
type ChaptersCmd struct{}

func (c *ChaptersCmd) Run(rt *runtime) error {
	client, err := rt.content()
	if err != nil {
		return err
	}
	chapters, err := client.Chapters(rt.ctx)
	if err != nil {
		return err
	}
	for _, chapter := range chapters {
		fmt.Printf("%3d  %-22s %-14s %3d verses  %s\n",
			chapter.ID, chapter.SimpleName, chapter.NativeName, chapter.VerseCount, chapter.RevelationPlace)
	}
	return nil
}

// ReadCmd prints one locator without audio.
type ReadCmd struct {
	Locator string `arg:"" help:"Locator (2, surah:2, juz:30, page:1) or chapter name"`
}

func (c *ReadCmd) Run(rt *runtime) error {
	client, err := rt.content()
	if err != nil {
		return err
	}

	loc, err := locator.Parse(c.Locator)
	chapters, catalogErr := client.Chapters(rt.ctx)
	if err != nil {
		chapter, ok := content.FindChapter(chapters, c.Locator)
		if !ok {
			return err
		}
		loc = locator.Chapter(chapter.ID)
	}
	if catalogErr != nil {
		rt.log.Warn("chapter_catalog_unavailable", slog.String("error", catalogErr.Error()))
	}

	seq, err := client.Verses(rt.ctx, loc)
	if err != nil {
		return err
	}
	reader.WriteSequence(os.Stdout, seq, reader.ChapterNames(chapters))
	return nil
}

// ListenCmd recites a locator until it ends or the process is interrupted.
type ListenCmd struct {
	Locator string `arg:"" help:"Locator (2, surah:2, juz:30, page:1) or chapter name"`
	From    int    `help:"Verse number to start from (defaults to the first verse)"`
}

func (c *ListenCmd) Run(rt *runtime) error {
	session, err := rt.session()
	if err != nil {
		return err
	}
	loc, err := rt.resolve(session, c.Locator)
	if err != nil {
		return err
	}

	finished := watchPlayback(session)
	if err := session.Open(rt.ctx, loc); err != nil {
		return err
	}

	verse := c.From
	if verse == 0 {
		first, ok := session.Navigation().Sequence.First()
		if !ok {
			return errors.New("nothing to recite")
		}
		verse = first.Number
	}
	if err := session.Play(rt.ctx, verse); err != nil {
		return err
	}
	return wait(rt.ctx, finished)
}

// ResumeCmd continues from the recorded reading position.
type ResumeCmd struct{}

func (c *ResumeCmd) Run(rt *runtime) error {
	session, err := rt.session()
	if err != nil {
		return err
	}

	finished := watchPlayback(session)
	pos, err := session.Resume(rt.ctx)
	if err != nil {
		return err
	}
	fmt.Printf("resuming at %s (last played %s)\n", pos.Key(), pos.RecordedAt.Local().Format("2006-01-02 15:04"))
	return wait(rt.ctx, finished)
}

// BookmarkListCmd prints saved bookmarks.
type BookmarkListCmd struct{}

func (c *BookmarkListCmd) Run(rt *runtime) error {
	service, err := rt.bookmarks()
	if err != nil {
		return err
	}
	bookmarks, err := service.List(rt.ctx)
	if err != nil {
		return err
	}
	for _, saved := range bookmarks {
		fmt.Printf("#%d  %d:%d  %s\n", saved.ID, saved.Chapter, saved.VerseNumber, saved.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// BookmarkAddCmd saves a verse.
type BookmarkAddCmd struct {
	Verse string `arg:"" help:"Verse key, e.g. 2:255"`
}

func (c *BookmarkAddCmd) Run(rt *runtime) error {
	key, err := locator.ParseVerseKey(c.Verse)
	if err != nil {
		return err
	}
	service, err := rt.bookmarks()
	if err != nil {
		return err
	}
	saved, err := service.Create(rt.ctx, key.Chapter, key.Verse)
	if err != nil {
		return err
	}
	fmt.Printf("bookmarked %d:%d (#%d)\n", saved.Chapter, saved.VerseNumber, saved.ID)
	return nil
}

// BookmarkRmCmd deletes a bookmark.
type BookmarkRmCmd struct {
	ID int64 `arg:"" help:"Bookmark id"`
}

func (c *BookmarkRmCmd) Run(rt *runtime) error {
	service, err := rt.bookmarks()
	if err != nil {
		return err
	}
	return service.Delete(rt.ctx, c.ID)
}

// SettingListCmd prints stored settings.
type SettingListCmd struct{}

func (c *SettingListCmd) Run(rt *runtime) error {
	service, err := rt.settings()
	if err != nil {
		return err
	}
	settings, err := service.All(rt.ctx)
	if err != nil {
		return err
	}
	for _, key := range slices.Sorted(maps.Keys(settings)) {
		fmt.Printf("%s=%s\n", key, settings[key])
	}
	return nil
}

// SettingSetCmd stores one setting.
type SettingSetCmd struct {
	Key   string `arg:"" enum:"locale,script,translation,recitation" help:"Setting key"`
	Value string `arg:"" help:"Setting value"`
}

func (c *SettingSetCmd) Run(rt *runtime) error {
	service, err := rt.settings()
	if err != nil {
		return err
	}
	return service.Set(rt.ctx, c.Key, c.Value)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("%s %s\n", constants.AppName, constants.AppVersion)
	return nil
}

// # Helpers

// watchPlayback signals once playback returns to idle after having started.
func watchPlayback(session *reader.Session) <-chan struct{} {
	finished := make(chan struct{}, 1)
	started := false
	session.OnPlayback(func(state playback.State) {
		switch state.Status {
		case playback.StatusPlaying:
			started = true
			fmt.Printf("▶ %s\n", state.ActiveKey)
		case playback.StatusIdle:
			if started {
				select {
				case finished <- struct{}{}:
				default:
				}
			}
		}
	})
	session.OnPlaybackError(func(err error) {
		fmt.Fprintf(os.Stderr, "! %v\n", err)
	})
	return finished
}

func wait(ctx context.Context, finished <-chan struct{}) error {
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return nil
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("reader"),
		kong.Description("Read and listen to the Quran from the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	cfg, err := config.Load()
	kctx.FatalIfErrorf(err)

	log := newLogger(CLI.Debug || cfg.Debug)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rt := &runtime{ctx: ctx, cfg: cfg, log: log, silent: CLI.Silent}

	err = kctx.Run(rt)
	rt.close()
	stop()
	kctx.FatalIfErrorf(err)
}
