// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/taibuivan/mushaf/internal/locator"
	"github.com/taibuivan/mushaf/internal/navigation"
	"github.com/taibuivan/mushaf/internal/playback"
)

const consoleHelp = `commands:
  chapter <n|name>   open a chapter        juz <n>    open a division
  page <n>           open a page           next/prev  step in the current mode
  list               print the verses      play <n|c:v>  play a verse
  toggle             play/pause/resume     stop       stop playback
  mark               bookmark the verse    marks      list bookmarks
  resume             continue where you left off
  status             show state            quit       leave`

// Console is a line-oriented front end for a [Session].
type Console struct {
	session *Session

	mu  sync.Mutex
	out io.Writer
}

// NewConsole attaches a console to session, printing playback events to out.
func NewConsole(session *Session, out io.Writer) *Console {
	console := &Console{session: session, out: out}

	session.OnPlayback(func(state playback.State) {
		if state.Status == playback.StatusPlaying {
			console.printf("▶ %s\n", state.ActiveKey)
		}
	})
	session.OnPlaybackError(func(err error) {
		console.printf("! %v\n", err)
	})
	return console
}

// Run reads commands from in until EOF, "quit" or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	c.printf("%s\n", consoleHelp)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		c.printf("> ")
		if !scanner.Scan() {
			c.printf("\n")
			return scanner.Err()
		}

		quit, err := c.Execute(ctx, scanner.Text())
		if err != nil {
			c.printf("! %s\n", describeError(err))
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one command line. It reports true when the session should end.
func (c *Console) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	command, args := strings.ToLower(fields[0]), fields[1:]
	argument := strings.Join(args, " ")

	switch command {
	case "quit", "exit", "q":
		c.session.Close()
		return true, nil

	case "help", "?":
		c.printf("%s\n", consoleHelp)

	case "chapter", "surah":
		chapter, ok := c.session.FindChapter(argument)
		if !ok {
			id, err := strconv.Atoi(argument)
			if err != nil {
				return false, fmt.Errorf("unknown chapter %q", argument)
			}
			return false, c.open(ctx, locator.ModeChapter, id)
		}
		return false, c.open(ctx, locator.ModeChapter, chapter.ID)

	case "juz", "division":
		id, err := strconv.Atoi(argument)
		if err != nil {
			return false, fmt.Errorf("juz needs a number")
		}
		return false, c.open(ctx, locator.ModeDivision, id)

	case "page":
		id, err := strconv.Atoi(argument)
		if err != nil {
			return false, fmt.Errorf("page needs a number")
		}
		return false, c.open(ctx, locator.ModePage, id)

	case "next", "n":
		if err := c.session.Next(ctx); err != nil {
			return false, err
		}
		c.printLocation()

	case "prev", "p":
		if err := c.session.Prev(ctx); err != nil {
			return false, err
		}
		c.printLocation()

	case "list", "ls":
		seq := c.session.Navigation().Sequence
		if seq.Empty() {
			return false, errors.New("nothing loaded")
		}
		c.mu.Lock()
		WriteSequence(c.out, seq, ChapterNames(c.session.chapters))
		c.mu.Unlock()

	case "play":
		if key, err := locator.ParseVerseKey(argument); err == nil {
			return false, c.session.PlayKey(ctx, key)
		}
		verse, err := strconv.Atoi(argument)
		if err != nil {
			return false, fmt.Errorf("play needs a verse number or chapter:verse")
		}
		return false, c.session.Play(ctx, verse)

	case "toggle", "t", "pause":
		return false, c.session.Toggle(ctx)

	case "stop", "s":
		c.session.Stop()
		c.printf("■ stopped\n")

	case "mark", "bookmark":
		saved, err := c.session.BookmarkActive(ctx)
		if err != nil {
			return false, err
		}
		c.printf("bookmarked %d:%d (#%d)\n", saved.Chapter, saved.VerseNumber, saved.ID)

	case "marks", "bookmarks":
		bookmarks, err := c.session.Bookmarks(ctx)
		if err != nil {
			return false, err
		}
		for _, saved := range bookmarks {
			c.printf("#%d  %d:%d  %s\n", saved.ID, saved.Chapter, saved.VerseNumber, saved.CreatedAt.Local().Format("2006-01-02 15:04"))
		}

	case "resume":
		pos, err := c.session.Resume(ctx)
		if err != nil {
			return false, err
		}
		c.printf("resumed at %s\n", pos.Key())

	case "status":
		c.printStatus()

	default:
		return false, fmt.Errorf("unknown command %q (try help)", command)
	}

	return false, nil
}

func (c *Console) open(ctx context.Context, mode locator.Mode, id int) error {
	loc, err := locator.New(mode, id)
	if err != nil {
		return err
	}
	if err := c.session.Open(ctx, loc); err != nil {
		return err
	}
	c.printLocation()
	return nil
}

func (c *Console) printLocation() {
	snapshot := c.session.Navigation()
	c.printf("%s · %d verses\n", c.session.describe(snapshot), snapshot.Sequence.Len())
	if snapshot.ShowBismillah && snapshot.Active.Mode == locator.ModeChapter {
		c.printf("%s\n", Bismillah)
	}
}

func (c *Console) printStatus() {
	snapshot := c.session.Navigation()
	state := c.session.Playback()

	c.printf("location: %s\n", c.session.describe(snapshot))
	c.printf("counters: chapter %d · juz %d · page %d\n", snapshot.Chapter, snapshot.Division, snapshot.Page)
	if state.Status == playback.StatusIdle {
		c.printf("playback: idle\n")
	} else {
		c.printf("playback: %s %s\n", state.Status, state.ActiveKey)
	}
	if pos, ok, err := c.session.LastPosition(); err == nil && ok {
		c.printf("last read: %s\n", pos.Key())
	}
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// describeError shortens the common errors for terminal output.
func describeError(err error) string {
	switch {
	case errors.Is(err, locator.ErrOutOfRange):
		return "out of range"
	case errors.Is(err, navigation.ErrSuperseded):
		return "superseded by a newer selection"
	case errors.Is(err, ErrNothingToResume):
		return "nothing to resume yet"
	case errors.Is(err, ErrNoActiveVerse):
		return "nothing is playing"
	default:
		return err.Error()
	}
}
