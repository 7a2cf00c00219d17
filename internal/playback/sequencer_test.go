// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playback_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mushaf/internal/content"
	"github.com/taibuivan/mushaf/internal/locator"
	"github.com/taibuivan/mushaf/internal/playback"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// # Fakes

type fakeHandle struct {
	engine *fakeEngine
	uri    string
	done   chan error

	mu       sync.Mutex
	paused   bool
	released bool
	pauseErr error
}

func (h *fakeHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pauseErr != nil {
		return h.pauseErr
	}
	h.paused = true
	return nil
}

func (h *fakeHandle) failPause(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pauseErr = err
}

func (h *fakeHandle) Resume() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = false
	return nil
}

func (h *fakeHandle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.released {
		h.released = true
		h.engine.releaseOne()
	}
	return nil
}

func (h *fakeHandle) Done() <-chan error { return h.done }

// finish simulates the end of the stream.
func (h *fakeHandle) finish(err error) { h.done <- err }

func (h *fakeHandle) isReleased() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

func (h *fakeHandle) isPaused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused
}

type fakeEngine struct {
	mu        sync.Mutex
	handles   []*fakeHandle
	active    int
	maxActive int
	failURI   string
}

func (e *fakeEngine) Start(_ context.Context, uri string) (playback.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if uri == e.failURI {
		return nil, errors.New("decoder rejected stream")
	}
	handle := &fakeHandle{engine: e, uri: uri, done: make(chan error, 1)}
	e.handles = append(e.handles, handle)
	e.active++
	e.maxActive = max(e.maxActive, e.active)
	return handle, nil
}

func (e *fakeEngine) releaseOne() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active--
}

func (e *fakeEngine) started() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handles)
}

func (e *fakeEngine) handle(t *testing.T, i int) *fakeHandle {
	t.Helper()
	require.Eventually(t, func() bool { return e.started() > i }, waitFor, tick)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handles[i]
}

func (e *fakeEngine) counts() (active, maxActive int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active, e.maxActive
}

type fakeRecorder struct {
	mu   sync.Mutex
	keys []locator.VerseKey
	err  error
}

func (r *fakeRecorder) Record(_ context.Context, chapter, verse int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, locator.VerseKey{Chapter: chapter, Verse: verse})
	return r.err
}

// gatedRecorder blocks its first Record call until gate is closed.
type gatedRecorder struct {
	fakeRecorder
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func newGatedRecorder() *gatedRecorder {
	return &gatedRecorder{entered: make(chan struct{}), gate: make(chan struct{})}
}

func (r *gatedRecorder) Record(ctx context.Context, chapter, verse int) error {
	first := false
	r.once.Do(func() { first = true })
	if first {
		close(r.entered)
		<-r.gate
	}
	return r.fakeRecorder.Record(ctx, chapter, verse)
}

func (r *gatedRecorder) last() locator.VerseKey {
	keys := r.recorded()
	if len(keys) == 0 {
		return locator.VerseKey{}
	}
	return keys[len(keys)-1]
}

func (r *fakeRecorder) recorded() []locator.VerseKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]locator.VerseKey{}, r.keys...)
}

// # Fixtures

func chapterSequence(chapter int, verses ...int) *content.Sequence {
	list := make([]content.Verse, 0, len(verses))
	for _, number := range verses {
		key := locator.VerseKey{Chapter: chapter, Verse: number}
		list = append(list, content.Verse{
			Key:      key.String(),
			Chapter:  chapter,
			Number:   number,
			AudioURL: fmt.Sprintf("Alafasy/mp3/%03d%03d.mp3", chapter, number),
		})
	}
	return content.NewSequence(locator.Chapter(chapter), list)
}

func newSequencer(engine *fakeEngine, recorder playback.Recorder) *playback.Sequencer {
	return playback.NewSequencer(playback.Config{
		Engine:       engine,
		Recorder:     recorder,
		AudioBaseURL: "https://verses.quran.com/",
		Logger:       discard,
	})
}

func activeVerse(s *playback.Sequencer) func() int {
	return func() int { return s.State().ActiveVerse }
}

// # Auto-advance

/*
TestAutoAdvance_ThroughSequence plays [1,2,3] to the end on natural completions.
*/
func TestAutoAdvance_ThroughSequence(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, nil)
	sequencer.Load(chapterSequence(112, 1, 2, 3))

	require.NoError(t, sequencer.Play(context.Background(), 1))
	assert.Equal(t, playback.StatusPlaying, sequencer.State().Status)

	engine.handle(t, 0).finish(nil)
	require.Eventually(t, func() bool { return activeVerse(sequencer)() == 2 }, waitFor, tick)
	assert.Equal(t, playback.StatusPlaying, sequencer.State().Status)

	engine.handle(t, 1).finish(nil)
	require.Eventually(t, func() bool { return activeVerse(sequencer)() == 3 }, waitFor, tick)

	engine.handle(t, 2).finish(nil)
	require.Eventually(t, func() bool { return sequencer.State().Status == playback.StatusIdle }, waitFor, tick)

	state := sequencer.State()
	assert.Zero(t, state.ActiveVerse)
	assert.Equal(t, -1, state.Index)

	active, maxActive := engine.counts()
	assert.Zero(t, active)
	assert.Equal(t, 1, maxActive)
	assert.Equal(t, "https://verses.quran.com/Alafasy/mp3/112002.mp3", engine.handle(t, 1).uri)
}

/*
TestAutoAdvance_CrossesChapters verifies a page sequence continues into the
next chapter's first verse.
*/
func TestAutoAdvance_CrossesChapters(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, nil)

	first := chapterSequence(1, 7).Verses[0]
	second := chapterSequence(2, 1).Verses[0]
	sequencer.Load(content.NewSequence(locator.Page(1), []content.Verse{first, second}))

	require.NoError(t, sequencer.PlayKey(context.Background(), locator.VerseKey{Chapter: 1, Verse: 7}))
	engine.handle(t, 0).finish(nil)

	require.Eventually(t, func() bool {
		return sequencer.State().ActiveKey == locator.VerseKey{Chapter: 2, Verse: 1}
	}, waitFor, tick)
}

/*
TestStaleCompletionIgnored verifies a completion from a superseded handle
does not advance the newer verse.
*/
func TestStaleCompletionIgnored(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, nil)
	sequencer.Load(chapterSequence(103, 1, 2, 3))
	ctx := context.Background()

	require.NoError(t, sequencer.Play(ctx, 1))
	stale := engine.handle(t, 0)

	require.NoError(t, sequencer.Play(ctx, 3))
	assert.True(t, stale.isReleased(), "previous handle released before the new start")

	stale.finish(nil)

	assert.Never(t, func() bool {
		return activeVerse(sequencer)() != 3 || engine.started() != 2
	}, 100*time.Millisecond, tick)
	assert.Equal(t, playback.StatusPlaying, sequencer.State().Status)
}

/*
TestStop_CompletionAfterStopIgnored verifies stop wins over a racing completion.
*/
func TestStop_CompletionAfterStopIgnored(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, nil)
	sequencer.Load(chapterSequence(108, 1, 2, 3))

	require.NoError(t, sequencer.Play(context.Background(), 1))
	handle := engine.handle(t, 0)

	sequencer.Stop()
	handle.finish(nil)

	assert.Never(t, func() bool { return engine.started() != 1 }, 100*time.Millisecond, tick)
	state := sequencer.State()
	assert.Equal(t, playback.StatusIdle, state.Status)
	assert.Zero(t, state.ActiveVerse)
	assert.True(t, handle.isReleased())
}

// # Handle Invariant

func TestAtMostOneHandle(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, nil)
	sequencer.Load(chapterSequence(114, 1, 2, 3, 4, 5, 6))
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, verse := range []int{1, 2, 3, 4, 5, 6, 1, 3} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sequencer.Play(ctx, verse)
		}()
	}
	wg.Wait()

	active, maxActive := engine.counts()
	assert.Equal(t, 1, active)
	assert.Equal(t, 1, maxActive)
}

func TestLoad_ReleasesHandle(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, nil)
	sequencer.Load(chapterSequence(1, 1, 2))

	require.NoError(t, sequencer.Play(context.Background(), 2))
	handle := engine.handle(t, 0)

	sequencer.Load(chapterSequence(2, 1, 2, 3))

	assert.True(t, handle.isReleased())
	assert.Equal(t, playback.StatusIdle, sequencer.State().Status)
	active, _ := engine.counts()
	assert.Zero(t, active)
}

// # Toggle

func TestToggle(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, nil)
	ctx := context.Background()

	require.NoError(t, sequencer.Toggle(ctx))
	assert.Zero(t, engine.started(), "idle with nothing loaded is a no-op")

	sequencer.Load(chapterSequence(97, 1, 2, 3, 4, 5))

	require.NoError(t, sequencer.Toggle(ctx))
	assert.Equal(t, playback.StatusPlaying, sequencer.State().Status)
	assert.Equal(t, 1, sequencer.State().ActiveVerse)
	handle := engine.handle(t, 0)

	require.NoError(t, sequencer.Toggle(ctx))
	assert.Equal(t, playback.StatusPaused, sequencer.State().Status)
	assert.True(t, handle.isPaused())
	assert.False(t, handle.isReleased(), "pause keeps the handle")

	require.NoError(t, sequencer.Toggle(ctx))
	assert.Equal(t, playback.StatusPlaying, sequencer.State().Status)
	assert.False(t, handle.isPaused())
	assert.Equal(t, 1, engine.started())
}

// # Failures

func TestPlay_AudioUnavailable(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, nil)

	seq := chapterSequence(2, 1, 2, 3)
	seq.Verses[1].AudioURL = ""
	sequencer.Load(seq)
	ctx := context.Background()

	require.NoError(t, sequencer.Play(ctx, 1))
	previous := engine.handle(t, 0)

	err := sequencer.Play(ctx, 2)
	var unavailable *playback.AudioUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.ErrorIs(t, err, playback.ErrNoAudio)
	assert.Equal(t, locator.VerseKey{Chapter: 2, Verse: 2}, unavailable.Key)

	assert.True(t, previous.isReleased())
	assert.Equal(t, playback.StatusIdle, sequencer.State().Status)
	assert.Zero(t, sequencer.State().ActiveVerse)

	engine.failURI = "https://verses.quran.com/Alafasy/mp3/002003.mp3"
	err = sequencer.Play(ctx, 3)
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, engine.failURI, unavailable.URI)

	active, _ := engine.counts()
	assert.Zero(t, active, "no dangling handle after a failed start")
}

func TestPlay_VerseNotLoaded(t *testing.T) {
	sequencer := newSequencer(&fakeEngine{}, nil)

	err := sequencer.Play(context.Background(), 1)
	assert.ErrorIs(t, err, playback.ErrVerseNotLoaded)

	sequencer.Load(chapterSequence(1, 1, 2, 3, 4, 5, 6, 7))
	err = sequencer.Play(context.Background(), 8)
	assert.ErrorIs(t, err, playback.ErrVerseNotLoaded)
}

func TestInterruptedStream_ReportsAndIdles(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, nil)
	sequencer.Load(chapterSequence(36, 1, 2))

	failures := make(chan error, 1)
	sequencer.OnError(func(err error) { failures <- err })

	require.NoError(t, sequencer.Play(context.Background(), 1))
	engine.handle(t, 0).finish(errors.New("stream reset"))

	select {
	case err := <-failures:
		var unavailable *playback.AudioUnavailableError
		require.True(t, errors.As(err, &unavailable))
		assert.Equal(t, locator.VerseKey{Chapter: 36, Verse: 1}, unavailable.Key)
	case <-time.After(waitFor):
		t.Fatal("no failure reported")
	}

	assert.Equal(t, playback.StatusIdle, sequencer.State().Status)
	assert.Equal(t, 1, engine.started(), "no auto-advance after a broken stream")
}

// # Observation

func TestRecorder_CalledOnEveryPlay(t *testing.T) {
	engine := &fakeEngine{}
	recorder := &fakeRecorder{}
	sequencer := newSequencer(engine, recorder)
	sequencer.Load(chapterSequence(2, 6, 7))

	require.NoError(t, sequencer.Play(context.Background(), 6))
	engine.handle(t, 0).finish(nil)

	require.Eventually(t, func() bool { return len(recorder.recorded()) == 2 }, waitFor, tick)
	assert.Equal(t, []locator.VerseKey{{Chapter: 2, Verse: 6}, {Chapter: 2, Verse: 7}}, recorder.recorded())
}

func TestRecorder_FailureIsNotFatal(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, &fakeRecorder{err: errors.New("read-only filesystem")})
	sequencer.Load(chapterSequence(2, 7))

	require.NoError(t, sequencer.Play(context.Background(), 7))
	assert.Equal(t, playback.StatusPlaying, sequencer.State().Status)
}

func TestOnChange_ReceivesTransitions(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, nil)

	var mu sync.Mutex
	var statuses []playback.Status
	sequencer.OnChange(func(state playback.State) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, state.Status)
	})

	sequencer.Load(chapterSequence(1, 1))
	require.NoError(t, sequencer.Play(context.Background(), 1))
	require.NoError(t, sequencer.Pause())
	require.NoError(t, sequencer.Resume())
	sequencer.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []playback.Status{
		playback.StatusIdle,
		playback.StatusPlaying,
		playback.StatusPaused,
		playback.StatusPlaying,
		playback.StatusIdle,
	}, statuses)
}

func TestOnChange_HandOffRestartsPlayback(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, nil)
	sequencer.Load(chapterSequence(108, 1, 2, 3))

	finished := make(chan struct{}, 1)
	sequencer.OnChange(func(state playback.State) {
		if state.Status == playback.StatusIdle {
			select {
			case finished <- struct{}{}:
			default:
			}
		}
	})

	require.NoError(t, sequencer.Play(context.Background(), 3))
	engine.handle(t, 0).finish(nil)

	select {
	case <-finished:
	case <-time.After(waitFor):
		t.Fatal("sequence never finished")
	}

	// Commands issued from outside the observer do not contend with delivery.
	require.NoError(t, sequencer.Play(context.Background(), 1))
	assert.Equal(t, 1, sequencer.State().ActiveVerse)
}

// # Resources

func TestRelease_StopsWatchers(t *testing.T) {
	engine := &fakeEngine{}
	sequencer := newSequencer(engine, nil)
	sequencer.Load(chapterSequence(1, 1, 2))

	before := runtime.NumGoroutine()
	for i := range 200 {
		require.NoError(t, sequencer.Play(context.Background(), 1+i%2))
	}
	sequencer.Stop()

	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= before+2 }, waitFor, tick,
		"released handles must not leave watchers behind")
	active, maxActive := engine.counts()
	assert.Equal(t, 0, active)
	assert.Equal(t, 1, maxActive)
}

func TestRecorder_LatestStartWins(t *testing.T) {
	engine := &fakeEngine{}
	recorder := newGatedRecorder()
	sequencer := newSequencer(engine, recorder)
	sequencer.Load(chapterSequence(2, 1, 2, 3))
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() { firstDone <- sequencer.Play(ctx, 1) }()
	<-recorder.entered

	secondDone := make(chan error, 1)
	go func() { secondDone <- sequencer.Play(ctx, 3) }()
	require.Eventually(t, func() bool { return activeVerse(sequencer)() == 3 }, waitFor, tick)

	close(recorder.gate)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)

	assert.Equal(t, 3, activeVerse(sequencer)())
	assert.Equal(t, locator.VerseKey{Chapter: 2, Verse: 3}, recorder.last())
}

func TestRecorder_SequentialStartsRecorded(t *testing.T) {
	engine := &fakeEngine{}
	recorder := &fakeRecorder{}
	sequencer := newSequencer(engine, recorder)
	sequencer.Load(chapterSequence(2, 1, 2))

	require.NoError(t, sequencer.Play(context.Background(), 1))
	require.NoError(t, sequencer.Play(context.Background(), 2))

	assert.Equal(t, []locator.VerseKey{{Chapter: 2, Verse: 1}, {Chapter: 2, Verse: 2}}, recorder.recorded())
}

func TestPause_FailureLogged(t *testing.T) {
	var logs strings.Builder
	var logMu sync.Mutex
	logger := slog.New(slog.NewJSONHandler(&lockedWriter{mu: &logMu, w: &logs}, nil))

	engine := &fakeEngine{}
	sequencer := playback.NewSequencer(playback.Config{
		Engine:       engine,
		AudioBaseURL: "https://verses.quran.com/",
		Logger:       logger,
	})
	sequencer.Load(chapterSequence(1, 1))
	require.NoError(t, sequencer.Play(context.Background(), 1))

	engine.handle(t, 0).failPause(errors.New("process already exited"))
	require.Error(t, sequencer.Pause())

	assert.Equal(t, playback.StatusPlaying, sequencer.State().Status)
	logMu.Lock()
	defer logMu.Unlock()
	assert.Contains(t, logs.String(), "playback_pause_failed")
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
