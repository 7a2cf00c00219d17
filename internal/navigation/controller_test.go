// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package navigation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mushaf/internal/content"
	"github.com/taibuivan/mushaf/internal/locator"
	"github.com/taibuivan/mushaf/internal/navigation"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// # Fakes

type reply struct {
	seq *content.Sequence
	err error
}

type pendingFetch struct {
	loc   locator.Locator
	reply chan reply
}

// gatedFetcher blocks every fetch until the test answers it.
type gatedFetcher struct {
	requests chan pendingFetch
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{requests: make(chan pendingFetch, 8)}
}

func (f *gatedFetcher) Verses(_ context.Context, loc locator.Locator) (*content.Sequence, error) {
	p := pendingFetch{loc: loc, reply: make(chan reply, 1)}
	f.requests <- p
	r := <-p.reply
	return r.seq, r.err
}

func (f *gatedFetcher) next(t *testing.T) pendingFetch {
	t.Helper()
	select {
	case p := <-f.requests:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("no fetch started")
		return pendingFetch{}
	}
}

// stubFetcher answers immediately and counts calls.
type stubFetcher struct {
	mu    sync.Mutex
	calls []locator.Locator
	err   error
}

func (f *stubFetcher) Verses(_ context.Context, loc locator.Locator) (*content.Sequence, error) {
	f.mu.Lock()
	f.calls = append(f.calls, loc)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return sequenceFor(loc), nil
}

func (f *stubFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// sequenceFor fabricates a small sequence whose first verse reflects loc.
func sequenceFor(loc locator.Locator) *content.Sequence {
	chapter, division, page := 1, 1, 1
	switch loc.Mode {
	case locator.ModeChapter:
		chapter = loc.ID
		division, page = 2, 22
	case locator.ModeDivision:
		chapter, page = 78, 582
		division = loc.ID
	case locator.ModePage:
		chapter, division = 2, 1
		page = loc.ID
	}
	return content.NewSequence(loc, []content.Verse{
		{Key: locator.VerseKey{Chapter: chapter, Verse: 1}.String(), Chapter: chapter, Number: 1, Division: division, Page: page},
		{Key: locator.VerseKey{Chapter: chapter, Verse: 2}.String(), Chapter: chapter, Number: 2, Division: division, Page: page},
	})
}

// # Ordering

/*
TestSelect_StaleFetchDiscarded verifies last-requested-wins when the older
fetch resolves after the newer one.
*/
func TestSelect_StaleFetchDiscarded(t *testing.T) {
	fetcher := newGatedFetcher()
	controller := navigation.NewController(fetcher, discard)
	ctx := context.Background()

	errA := make(chan error, 1)
	go func() { errA <- controller.SelectChapter(ctx, 2) }()
	fetchA := fetcher.next(t)
	assert.Equal(t, locator.Chapter(2), fetchA.loc)

	errB := make(chan error, 1)
	go func() { errB <- controller.SelectChapter(ctx, 3) }()
	fetchB := fetcher.next(t)

	seqB := sequenceFor(locator.Chapter(3))
	fetchB.reply <- reply{seq: seqB}
	require.NoError(t, <-errB)

	fetchA.reply <- reply{seq: sequenceFor(locator.Chapter(2))}
	assert.ErrorIs(t, <-errA, navigation.ErrSuperseded)

	snapshot := controller.Snapshot()
	assert.Same(t, seqB, snapshot.Sequence)
	assert.Equal(t, locator.Chapter(3), snapshot.Active)
	assert.Equal(t, 3, snapshot.AnchorChapter)
	assert.False(t, snapshot.Loading)
}

/*
TestSelect_StaleResolvesFirst verifies a superseded result arriving first
neither installs nor clears the newer request's loading flag.
*/
func TestSelect_StaleResolvesFirst(t *testing.T) {
	fetcher := newGatedFetcher()
	controller := navigation.NewController(fetcher, discard)
	ctx := context.Background()

	errA := make(chan error, 1)
	go func() { errA <- controller.SelectPage(ctx, 10) }()
	fetchA := fetcher.next(t)

	errB := make(chan error, 1)
	go func() { errB <- controller.SelectDivision(ctx, 5) }()
	fetchB := fetcher.next(t)

	fetchA.reply <- reply{seq: sequenceFor(locator.Page(10))}
	assert.ErrorIs(t, <-errA, navigation.ErrSuperseded)
	assert.Nil(t, controller.Sequence())
	assert.True(t, controller.Loading(), "loading belongs to the pending selection")

	seqB := sequenceFor(locator.Division(5))
	fetchB.reply <- reply{seq: seqB}
	require.NoError(t, <-errB)
	assert.Same(t, seqB, controller.Sequence())
	assert.False(t, controller.Loading())
}

/*
TestSelect_LoadingClearsAfterInstall verifies the loading flag spans the fetch.
*/
func TestSelect_LoadingClearsAfterInstall(t *testing.T) {
	fetcher := newGatedFetcher()
	controller := navigation.NewController(fetcher, discard)

	done := make(chan error, 1)
	go func() { done <- controller.SelectChapter(context.Background(), 18) }()
	pending := fetcher.next(t)

	assert.True(t, controller.Loading())
	assert.Equal(t, locator.Chapter(18), controller.Active())

	pending.reply <- reply{seq: sequenceFor(locator.Chapter(18))}
	require.NoError(t, <-done)
	assert.False(t, controller.Loading())
	assert.Equal(t, 2, controller.Sequence().Len())
}

// # Failure

/*
TestSelect_FailureKeepsSequence verifies a failed fetch keeps the previous
sequence, clears loading and reports a FetchError.
*/
func TestSelect_FailureKeepsSequence(t *testing.T) {
	fetcher := &stubFetcher{}
	controller := navigation.NewController(fetcher, discard)
	ctx := context.Background()

	require.NoError(t, controller.SelectChapter(ctx, 2))
	installed := controller.Sequence()

	fetcher.err = errors.New("connection refused")
	err := controller.SelectChapter(ctx, 3)

	var fetchErr *content.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.NotNil(t, fetchErr.Locator)
	assert.Equal(t, locator.Chapter(3), *fetchErr.Locator)

	assert.Same(t, installed, controller.Sequence())
	assert.False(t, controller.Loading())
	assert.Equal(t, 2, controller.AnchorChapter())
}

func TestSelect_OutOfRangeRejected(t *testing.T) {
	fetcher := &stubFetcher{}
	controller := navigation.NewController(fetcher, discard)
	ctx := context.Background()

	assert.ErrorIs(t, controller.SelectChapter(ctx, 115), locator.ErrOutOfRange)
	assert.ErrorIs(t, controller.SelectDivision(ctx, 0), locator.ErrOutOfRange)
	assert.ErrorIs(t, controller.SelectPage(ctx, 605), locator.ErrOutOfRange)
	assert.ErrorIs(t, controller.Select(ctx, locator.Locator{Mode: locator.ModePage, ID: 900}), locator.ErrOutOfRange)

	assert.Zero(t, fetcher.count())
	assert.Equal(t, locator.Chapter(1), controller.Active())
}

// # Stepping

func TestAdvanceRetreat_NoOpAtBounds(t *testing.T) {
	fetcher := &stubFetcher{}
	controller := navigation.NewController(fetcher, discard)
	ctx := context.Background()

	require.NoError(t, controller.Retreat(ctx))
	assert.Zero(t, fetcher.count(), "retreat at chapter 1 must not fetch")
	assert.Equal(t, locator.Chapter(1), controller.Active())

	require.NoError(t, controller.SelectPage(ctx, 604))
	require.NoError(t, controller.Advance(ctx))
	assert.Equal(t, 1, fetcher.count())
	assert.Equal(t, locator.Page(604), controller.Active())

	require.NoError(t, controller.SelectDivision(ctx, 30))
	require.NoError(t, controller.Advance(ctx))
	assert.Equal(t, locator.Division(30), controller.Active())
}

func TestAdvanceRetreat_Step(t *testing.T) {
	fetcher := &stubFetcher{}
	controller := navigation.NewController(fetcher, discard)
	ctx := context.Background()

	require.NoError(t, controller.Advance(ctx))
	assert.Equal(t, locator.Chapter(2), controller.Active())

	require.NoError(t, controller.SelectPage(ctx, 50))
	require.NoError(t, controller.Retreat(ctx))
	assert.Equal(t, locator.Page(49), controller.Active())
	assert.Equal(t, locator.Page(49), controller.Sequence().Locator)
}

// # Derived State

func TestShowBismillah(t *testing.T) {
	fetcher := &stubFetcher{}
	controller := navigation.NewController(fetcher, discard)
	ctx := context.Background()

	tests := []struct {
		chapter int
		want    bool
	}{
		{1, false},
		{2, true},
		{9, false},
		{10, true},
		{114, true},
	}
	for _, tt := range tests {
		require.NoError(t, controller.SelectChapter(ctx, tt.chapter))
		assert.Equal(t, tt.want, controller.ShowBismillah(), "chapter %d", tt.chapter)
	}

	// Division 30 opens with chapter 78 in the fake.
	require.NoError(t, controller.SelectDivision(ctx, 30))
	assert.Equal(t, 78, controller.AnchorChapter())
	assert.True(t, controller.ShowBismillah())
}

func TestSelect_EmptySequenceKeepsAnchor(t *testing.T) {
	fetcher := newGatedFetcher()
	controller := navigation.NewController(fetcher, discard)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- controller.SelectChapter(ctx, 9) }()
	fetcher.next(t).reply <- reply{seq: sequenceFor(locator.Chapter(9))}
	require.NoError(t, <-done)

	go func() { done <- controller.SelectPage(ctx, 200) }()
	fetcher.next(t).reply <- reply{seq: content.NewSequence(locator.Page(200), nil)}
	require.NoError(t, <-done)

	assert.Equal(t, 9, controller.AnchorChapter())
	assert.False(t, controller.ShowBismillah())
	assert.True(t, controller.Sequence().Empty())
}

func TestSelect_ResyncsCounters(t *testing.T) {
	fetcher := &stubFetcher{}
	controller := navigation.NewController(fetcher, discard)
	ctx := context.Background()

	require.NoError(t, controller.SelectChapter(ctx, 2))
	snapshot := controller.Snapshot()
	assert.Equal(t, 2, snapshot.Chapter)
	assert.Equal(t, 2, snapshot.Division)
	assert.Equal(t, 22, snapshot.Page)

	require.NoError(t, controller.SwitchMode(ctx, locator.ModePage))
	assert.Equal(t, locator.Page(22), controller.Active())

	snapshot = controller.Snapshot()
	assert.Equal(t, 2, snapshot.Chapter, "page fake opens with chapter 2")
	assert.Equal(t, 22, snapshot.Page)
}

func TestOnInstall_CalledInOrder(t *testing.T) {
	fetcher := &stubFetcher{}
	controller := navigation.NewController(fetcher, discard)
	ctx := context.Background()

	var seen []locator.Locator
	controller.OnInstall(func(seq *content.Sequence) {
		seen = append(seen, seq.Locator)
	})

	require.NoError(t, controller.SelectChapter(ctx, 5))
	require.NoError(t, controller.Advance(ctx))

	fetcher.err = errors.New("down")
	require.Error(t, controller.Advance(ctx))

	assert.Equal(t, []locator.Locator{locator.Chapter(5), locator.Chapter(6)}, seen)
}

func TestReload(t *testing.T) {
	fetcher := &stubFetcher{}
	controller := navigation.NewController(fetcher, discard)
	ctx := context.Background()

	require.NoError(t, controller.SelectDivision(ctx, 4))
	require.NoError(t, controller.Reload(ctx))
	assert.Equal(t, 2, fetcher.count())
	assert.Equal(t, locator.Division(4), controller.Active())
}

func TestOnInstall_HandOffReentersController(t *testing.T) {
	fetcher := &stubFetcher{}
	controller := navigation.NewController(fetcher, discard)
	ctx := context.Background()

	advanced := make(chan error, 1)
	var once sync.Once
	controller.OnInstall(func(*content.Sequence) {
		// Listeners hand commands to another goroutine.
		once.Do(func() {
			go func() { advanced <- controller.Advance(ctx) }()
		})
	})

	require.NoError(t, controller.SelectChapter(ctx, 2))

	select {
	case err := <-advanced:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("handed-off advance never completed")
	}
	assert.Equal(t, locator.Chapter(3), controller.Active())
	assert.Equal(t, 2, fetcher.count())
}
