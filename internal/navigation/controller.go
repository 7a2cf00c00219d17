// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package navigation owns the active locator and the current verse sequence.

# Ordering

Selections are last-requested-wins. Each selection takes a new generation
number before fetching; when a fetch resolves under an older generation its
result is dropped. The transport request itself is not cancelled.

# Failure

A failed fetch leaves the current sequence in place, clears the loading flag
and hands the error back to the caller. Nothing is retried; [Controller.Reload]
is the explicit retry.
*/
package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/mushaf/internal/content"
	"github.com/taibuivan/mushaf/internal/locator"
)

// ErrSuperseded is returned to a caller whose selection was overtaken by a newer one.
var ErrSuperseded = errors.New("navigation: selection superseded")

// Fetcher loads the verse sequence of a locator. [content.Client] satisfies it.
type Fetcher interface {
	Verses(ctx context.Context, loc locator.Locator) (*content.Sequence, error)
}

// InstallFunc observes newly installed sequences.
type InstallFunc func(seq *content.Sequence)

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Active        locator.Locator
	Chapter       int
	Division      int
	Page          int
	Sequence      *content.Sequence
	Loading       bool
	AnchorChapter int
	ShowBismillah bool
}

// Controller is the navigation state machine.
type Controller struct {
	fetcher Fetcher
	logger  *slog.Logger

	mu         sync.Mutex
	active     locator.Locator
	counters   map[locator.Mode]int
	sequence   *content.Sequence
	loading    bool
	generation uint64
	translator *Translator
	listeners  []InstallFunc

	// notifyMu orders listener calls by install without holding mu.
	notifyMu sync.Mutex
}

// NewController starts on chapter 1 with no sequence loaded.
func NewController(fetcher Fetcher, logger *slog.Logger) *Controller {
	return &Controller{
		fetcher: fetcher,
		logger:  logger,
		active:  locator.Chapter(1),
		counters: map[locator.Mode]int{
			locator.ModeChapter:  1,
			locator.ModeDivision: 1,
			locator.ModePage:     1,
		},
		translator: NewTranslator(1),
	}
}

// OnInstall registers fn to be called after each sequence install, in install order.
// fn must not call Select or its variants synchronously.
func (c *Controller) OnInstall(fn InstallFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// # Selection

// SelectChapter selects chapter id (1–114).
func (c *Controller) SelectChapter(ctx context.Context, id int) error {
	return c.selectMode(ctx, locator.ModeChapter, id)
}

// SelectDivision selects division id (1–30).
func (c *Controller) SelectDivision(ctx context.Context, id int) error {
	return c.selectMode(ctx, locator.ModeDivision, id)
}

// SelectPage selects page id (1–604).
func (c *Controller) SelectPage(ctx context.Context, id int) error {
	return c.selectMode(ctx, locator.ModePage, id)
}

func (c *Controller) selectMode(ctx context.Context, mode locator.Mode, id int) error {
	loc, err := locator.New(mode, id)
	if err != nil {
		return err
	}
	return c.Select(ctx, loc)
}

// SwitchMode selects the remembered position of mode.
func (c *Controller) SwitchMode(ctx context.Context, mode locator.Mode) error {
	c.mu.Lock()
	id, ok := c.counters[mode]
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", locator.ErrUnknownMode, int(mode))
	}
	return c.selectMode(ctx, mode, id)
}

/*
Select makes loc the active locator and fetches its verses.

Parameters:
  - ctx: context.Context (bounds the fetch)
  - loc: locator.Locator

Returns:
  - error: locator.ErrOutOfRange for invalid locators (nothing stored),
    ErrSuperseded when a newer selection won, *content.FetchError on failure
*/
func (c *Controller) Select(ctx context.Context, loc locator.Locator) error {
	if !loc.Valid() {
		return fmt.Errorf("%w: %s", locator.ErrOutOfRange, loc)
	}

	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.active = loc
	c.counters[loc.Mode] = loc.ID
	c.loading = true
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "verse_sequence_requested",
		slog.String("locator", loc.String()),
		slog.Uint64("generation", generation),
	)

	seq, err := c.fetcher.Verses(ctx, loc)

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "verse_sequence_discarded",
			slog.String("locator", loc.String()),
			slog.Uint64("generation", generation),
		)
		return ErrSuperseded
	}

	if err != nil {
		c.loading = false
		c.mu.Unlock()

		var fetchErr *content.FetchError
		if !errors.As(err, &fetchErr) {
			target := loc
			err = &content.FetchError{Op: "verses", Locator: &target, Err: err}
		}
		c.logger.WarnContext(ctx, "verse_sequence_failed",
			slog.String("locator", loc.String()),
			slog.String("error", err.Error()),
		)
		return err
	}

	if seq == nil {
		seq = content.NewSequence(loc, nil)
	}
	c.sequence = seq
	anchor := c.translator.Update(seq)
	c.resyncCounters(seq)
	c.loading = false

	listeners := make([]InstallFunc, len(c.listeners))
	copy(listeners, c.listeners)

	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	c.logger.InfoContext(ctx, "verse_sequence_installed",
		slog.String("locator", loc.String()),
		slog.Int("verses", seq.Len()),
		slog.Int("anchor_chapter", anchor),
	)

	for _, listener := range listeners {
		listener(seq)
	}
	return nil
}

// resyncCounters aligns the inactive modes' counters with the installed
// sequence. The chapter counter follows the anchor; division and page follow
// the first verse when the provider reported them. The active mode keeps its id.
// Callers hold mu.
func (c *Controller) resyncCounters(seq *content.Sequence) {
	if c.active.Mode != locator.ModeChapter {
		c.counters[locator.ModeChapter] = c.translator.Anchor()
	}

	first, ok := seq.First()
	if !ok {
		return
	}
	if c.active.Mode != locator.ModeDivision && first.Division >= 1 && first.Division <= locator.DivisionCount {
		c.counters[locator.ModeDivision] = first.Division
	}
	if c.active.Mode != locator.ModePage && first.Page >= 1 && first.Page <= locator.PageCount {
		c.counters[locator.ModePage] = first.Page
	}
}

// # Stepping

// Advance selects the next position in the active mode.
// At the upper bound it is a no-op and returns nil without fetching.
func (c *Controller) Advance(ctx context.Context) error {
	c.mu.Lock()
	current := c.active
	c.mu.Unlock()

	next := current.Next()
	if next == current {
		return nil
	}
	return c.Select(ctx, next)
}

// Retreat selects the previous position in the active mode.
// At the lower bound it is a no-op and returns nil without fetching.
func (c *Controller) Retreat(ctx context.Context) error {
	c.mu.Lock()
	current := c.active
	c.mu.Unlock()

	prev := current.Prev()
	if prev == current {
		return nil
	}
	return c.Select(ctx, prev)
}

// Reload fetches the active locator again.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	current := c.active
	c.mu.Unlock()

	return c.Select(ctx, current)
}

// # Observation

// Active returns the active locator.
func (c *Controller) Active() locator.Locator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Sequence returns the current sequence, nil before the first install.
func (c *Controller) Sequence() *content.Sequence {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sequence
}

// Loading reports whether the latest selection is still in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// AnchorChapter returns the chapter that chapter-scoped state refers to.
func (c *Controller) AnchorChapter() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.translator.Anchor()
}

// ShowBismillah reports whether the opening invocation is displayed for the
// anchor chapter. Chapters 1 and 9 never show it.
func (c *Controller) ShowBismillah() bool {
	return bismillahFor(c.AnchorChapter())
}

func bismillahFor(chapter int) bool {
	return chapter != 1 && chapter != 9
}

// Snapshot returns a consistent copy of the state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	anchor := c.translator.Anchor()
	return Snapshot{
		Active:        c.active,
		Chapter:       c.counters[locator.ModeChapter],
		Division:      c.counters[locator.ModeDivision],
		Page:          c.counters[locator.ModePage],
		Sequence:      c.sequence,
		Loading:       c.loading,
		AnchorChapter: anchor,
		ShowBismillah: bismillahFor(anchor),
	}
}
