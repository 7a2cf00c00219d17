// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package locator addresses navigable positions in the corpus.

A [Locator] is a tagged value: one [Mode] discriminant and one id valid for
that mode. There is no way to hold a chapter id and a page id at the same time,
so "which scheme is active" is never ambiguous.

# Addressing Schemes

  - Chapter: 1–114, the named top-level divisions.
  - Division (juz): 1–30, equal-sized groupings spanning several chapters.
  - Page: 1–604, the fixed print-layout pages.
*/
package locator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrOutOfRange is returned when an id falls outside its mode's bounds.
var ErrOutOfRange = errors.New("locator: id out of range")

// ErrUnknownMode is returned when a mode name cannot be parsed.
var ErrUnknownMode = errors.New("locator: unknown mode")

// # Modes

// Mode is the addressing scheme of a [Locator].
type Mode int

const (
	ModeChapter Mode = iota + 1
	ModeDivision
	ModePage
)

const (
	ChapterCount  = 114
	DivisionCount = 30
	PageCount     = 604
)

// Modes lists every addressing scheme in display order.
var Modes = []Mode{ModeChapter, ModeDivision, ModePage}

// String returns the canonical lowercase name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeChapter:
		return "chapter"
	case ModeDivision:
		return "division"
	case ModePage:
		return "page"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Bounds returns the inclusive id range of the mode. Unknown modes return (0, -1).
func (m Mode) Bounds() (lo, hi int) {
	switch m {
	case ModeChapter:
		return 1, ChapterCount
	case ModeDivision:
		return 1, DivisionCount
	case ModePage:
		return 1, PageCount
	default:
		return 0, -1
	}
}

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	return m >= ModeChapter && m <= ModePage
}

// ParseMode accepts canonical names plus the common aliases surah and juz.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "chapter", "surah":
		return ModeChapter, nil
	case "division", "juz":
		return ModeDivision, nil
	case "page":
		return ModePage, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, raw)
	}
}

// # Locator

// Locator is a (mode, id) pair identifying a navigable position.
type Locator struct {
	Mode Mode `json:"mode"`
	ID   int  `json:"id"`
}

// New builds a locator, rejecting ids outside the mode's range.
func New(mode Mode, id int) (Locator, error) {
	if !mode.Valid() {
		return Locator{}, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	lo, hi := mode.Bounds()
	if id < lo || id > hi {
		return Locator{}, fmt.Errorf("%w: %s %d not in [%d, %d]", ErrOutOfRange, mode, id, lo, hi)
	}
	return Locator{Mode: mode, ID: id}, nil
}

// Chapter returns the chapter locator for id, panicking on out-of-range ids.
// It is meant for constants and tests.
func Chapter(id int) Locator {
	return must(New(ModeChapter, id))
}

// Division returns the division locator for id, panicking on out-of-range ids.
func Division(id int) Locator {
	return must(New(ModeDivision, id))
}

// Page returns the page locator for id, panicking on out-of-range ids.
func Page(id int) Locator {
	return must(New(ModePage, id))
}

func must(l Locator, err error) Locator {
	if err != nil {
		panic(err)
	}
	return l
}

// Valid reports whether the locator's id is within its mode's bounds.
func (l Locator) Valid() bool {
	lo, hi := l.Mode.Bounds()
	return l.Mode.Valid() && l.ID >= lo && l.ID <= hi
}

// Next returns the following position in the same mode.
// At the upper bound the receiver is returned unchanged.
func (l Locator) Next() Locator {
	_, hi := l.Mode.Bounds()
	if l.ID >= hi {
		return l
	}
	return Locator{Mode: l.Mode, ID: l.ID + 1}
}

// Prev returns the preceding position in the same mode.
// At the lower bound the receiver is returned unchanged.
func (l Locator) Prev() Locator {
	lo, _ := l.Mode.Bounds()
	if l.ID <= lo {
		return l
	}
	return Locator{Mode: l.Mode, ID: l.ID - 1}
}

// IsFirst reports whether the locator sits on its mode's lower bound.
func (l Locator) IsFirst() bool {
	lo, _ := l.Mode.Bounds()
	return l.ID <= lo
}

// IsLast reports whether the locator sits on its mode's upper bound.
func (l Locator) IsLast() bool {
	_, hi := l.Mode.Bounds()
	return l.ID >= hi
}

// String renders the locator as "mode:id", e.g. "division:30".
func (l Locator) String() string {
	return l.Mode.String() + ":" + strconv.Itoa(l.ID)
}

// Parse is the inverse of [Locator.String]. It also accepts aliases
// ("juz:30", "surah:2") and a bare number, which addresses a chapter.
func Parse(raw string) (Locator, error) {
	raw = strings.TrimSpace(raw)

	modeName, idText, found := strings.Cut(raw, ":")
	if !found {
		modeName, idText = "chapter", raw
	}

	mode, err := ParseMode(modeName)
	if err != nil {
		return Locator{}, err
	}

	id, err := strconv.Atoi(strings.TrimSpace(idText))
	if err != nil {
		return Locator{}, fmt.Errorf("locator: invalid id %q", idText)
	}

	return New(mode, id)
}
