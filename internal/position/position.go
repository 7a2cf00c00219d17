// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package position remembers the last verse engaged through playback.

It is a single-slot record: every successful play overwrites the previous value
under one fixed key of the local state store. There is no history and no expiry.
On start-up the caller reads [Tracker.Last] to offer a resume affordance.
*/
package position

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/mushaf/internal/locator"
	"github.com/taibuivan/mushaf/internal/platform/constants"
)

// Position is the persisted last-read verse.
type Position struct {
	Chapter     int       `json:"chapter"`
	VerseNumber int       `json:"verse_number"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Key returns the position as a verse key.
func (p Position) Key() locator.VerseKey {
	return locator.VerseKey{Chapter: p.Chapter, Verse: p.VerseNumber}
}

// KV is the durable key/value contract the tracker persists through.
// [localstore.Store] satisfies it.
type KV interface {
	Get(key string, dest any) (bool, error)
	Set(key string, value any) error
}

// Tracker records and recalls the [Position].
type Tracker struct {
	store  KV
	logger *slog.Logger
	now    func() time.Time
}

// NewTracker constructs a [Tracker] over store.
func NewTracker(store KV, logger *slog.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

/*
Record overwrites the stored position with the given verse.

Parameters:
  - ctx: context.Context (used for logging)
  - chapter: int
  - verse: int

Returns:
  - error: invalid verse key or persistence failure
*/
func (t *Tracker) Record(ctx context.Context, chapter, verse int) error {
	key, err := locator.NewVerseKey(chapter, verse)
	if err != nil {
		return err
	}

	value := Position{Chapter: key.Chapter, VerseNumber: key.Verse, RecordedAt: t.now().UTC()}
	if err := t.store.Set(constants.LastReadKey, value); err != nil {
		return fmt.Errorf("position: record %s: %w", key, err)
	}

	t.logger.DebugContext(ctx, "reading_position_recorded", slog.String("verse_key", key.String()))
	return nil
}

// Last returns the persisted position. ok is false when nothing was recorded yet
// or the stored value no longer names a real verse.
func (t *Tracker) Last() (pos Position, ok bool, err error) {
	found, err := t.store.Get(constants.LastReadKey, &pos)
	if err != nil {
		return Position{}, false, fmt.Errorf("position: load: %w", err)
	}
	if !found || !pos.Key().Valid() {
		return Position{}, false, nil
	}
	return pos, true, nil
}
