// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package content retrieves chapter metadata and verse sequences from the remote
content provider.

# Core Responsibility

  - Catalog: [Chapter] metadata for all 114 chapters.
  - Sequences: ordered [Verse] lists for one [locator.Locator].
  - Transport: [HTTPClient] speaks the provider's REST API; [CachedClient]
    keeps results in Redis so repeated navigation stays local.

Every failure (network, non-2xx status, malformed body) surfaces as a
[*FetchError]; nothing is retried automatically.
*/
package content

import (
	"context"
	"strconv"

	"github.com/taibuivan/mushaf/internal/locator"
)

// # Provider Contract

// Client fetches content for the navigation layer.
type Client interface {

	/*
		Chapters returns the ordered chapter catalog.

		Returns:
		  - []Chapter: 114 entries ordered by id
		  - error: *FetchError on any failure
	*/
	Chapters(ctx context.Context) ([]Chapter, error)

	/*
		Verses returns the ordered verses addressed by loc.

		Parameters:
		  - ctx: context.Context
		  - loc: locator.Locator (chapter, division or page)

		Returns:
		  - *Sequence: Immutable verse sequence
		  - error: *FetchError on any failure
	*/
	Verses(ctx context.Context, loc locator.Locator) (*Sequence, error)
}

// # Entities

// Chapter is the metadata of one chapter.
type Chapter struct {
	ID              int    `json:"id"`
	NativeName      string `json:"native_name"`
	ComplexName     string `json:"complex_name"`
	SimpleName      string `json:"simple_name"`
	VerseCount      int    `json:"verse_count"`
	RevelationPlace string `json:"revelation_place"`
}

// Verse is one verse record of a sequence.
type Verse struct {
	Key           string `json:"key"` // "chapter:verse"
	Chapter       int    `json:"chapter"`
	Number        int    `json:"verse_number"`
	PrimaryText   string `json:"primary_text"`
	AlternateText string `json:"alternate_text,omitempty"` // translation
	AudioURL      string `json:"audio_url,omitempty"`      // may be relative
	Division      int    `json:"division,omitempty"`
	Page          int    `json:"page,omitempty"`
}

// VerseKey returns the verse's global key.
func (v Verse) VerseKey() locator.VerseKey {
	return locator.VerseKey{Chapter: v.Chapter, Verse: v.Number}
}

// Sequence is the ordered list of verses for one locator.
//
// A Sequence is never mutated after construction; navigation replaces it wholesale.
// Callers must treat Verses as read-only.
type Sequence struct {
	Locator locator.Locator `json:"locator"`
	Verses  []Verse         `json:"verses"`
}

// NewSequence copies verses into a new [Sequence].
func NewSequence(loc locator.Locator, verses []Verse) *Sequence {
	owned := make([]Verse, len(verses))
	copy(owned, verses)
	return &Sequence{Locator: loc, Verses: owned}
}

// Len returns the number of verses.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Verses)
}

// Empty reports whether the sequence holds no verse.
func (s *Sequence) Empty() bool {
	return s.Len() == 0
}

// At returns the verse at index i.
func (s *Sequence) At(i int) (Verse, bool) {
	if i < 0 || i >= s.Len() {
		return Verse{}, false
	}
	return s.Verses[i], true
}

// First returns the first verse.
func (s *Sequence) First() (Verse, bool) {
	return s.At(0)
}

// IndexOf returns the index of the first verse numbered number.
// Division and page sequences can hold the same number twice (two chapters);
// use [Sequence.IndexOfKey] to address those unambiguously.
func (s *Sequence) IndexOf(number int) (int, bool) {
	for i := 0; i < s.Len(); i++ {
		if s.Verses[i].Number == number {
			return i, true
		}
	}
	return -1, false
}

// IndexOfKey returns the index of the verse with the given key.
func (s *Sequence) IndexOfKey(key locator.VerseKey) (int, bool) {
	for i := 0; i < s.Len(); i++ {
		if s.Verses[i].Chapter == key.Chapter && s.Verses[i].Number == key.Verse {
			return i, true
		}
	}
	return -1, false
}

// # Request Options

// Script field names understood by the provider.
const (
	ScriptUthmani = "text_uthmani"
	ScriptIndopak = "text_indopak"
	ScriptImlaei  = "text_imlaei"
)

// Scripts lists the supported script fields.
var Scripts = []string{ScriptUthmani, ScriptIndopak, ScriptImlaei}

// Options selects what the provider returns.
type Options struct {
	Locale        string
	Script        string
	TranslationID int
	RecitationID  int
	PageSize      int
}

// Scope identifies the option set inside cache keys.
func (o Options) Scope() string {
	return o.Locale + ":" + o.Script + ":t" + strconv.Itoa(o.TranslationID) +
		":r" + strconv.Itoa(o.RecitationID)
}
