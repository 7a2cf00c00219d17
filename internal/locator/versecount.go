// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package locator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TotalVerses is the number of verses in the corpus.
const TotalVerses = 6236

// verseCounts holds the verse count of each chapter, index 0 being chapter 1.
var verseCounts = [ChapterCount]int{
	7, 286, 200, 176, 120, 165, 206, 75, 129, 109,
	123, 111, 43, 52, 99, 128, 111, 110, 98, 135,
	112, 78, 118, 64, 77, 227, 93, 88, 69, 60,
	34, 30, 73, 54, 45, 83, 182, 88, 75, 85,
	54, 53, 89, 59, 37, 35, 38, 29, 18, 45,
	60, 49, 62, 55, 78, 96, 29, 22, 24, 13,
	14, 11, 11, 18, 12, 12, 30, 52, 52, 44,
	28, 28, 20, 56, 40, 31, 50, 40, 46, 42,
	29, 19, 36, 25, 22, 17, 19, 26, 30, 20,
	15, 21, 11, 8, 8, 19, 5, 8, 8, 11,
	11, 8, 3, 9, 5, 4, 7, 3, 6, 3,
	5, 4, 5, 6,
}

// VerseCount returns the number of verses in chapter, or 0 for an unknown chapter.
func VerseCount(chapter int) int {
	if chapter < 1 || chapter > ChapterCount {
		return 0
	}
	return verseCounts[chapter-1]
}

// ErrInvalidVerseKey is returned for malformed or out-of-range verse keys.
var ErrInvalidVerseKey = errors.New("locator: invalid verse key")

// # Verse Keys

// VerseKey globally identifies one verse as chapter:verse.
type VerseKey struct {
	Chapter int `json:"chapter"`
	Verse   int `json:"verse_number"`
}

// NewVerseKey validates the pair against the chapter's verse count.
func NewVerseKey(chapter, verse int) (VerseKey, error) {
	key := VerseKey{Chapter: chapter, Verse: verse}
	if !key.Valid() {
		return VerseKey{}, fmt.Errorf("%w: %s", ErrInvalidVerseKey, key)
	}
	return key, nil
}

// Valid reports whether the verse exists in the corpus.
func (k VerseKey) Valid() bool {
	return k.Verse >= 1 && k.Verse <= VerseCount(k.Chapter)
}

// String renders the key as "2:255".
func (k VerseKey) String() string {
	return strconv.Itoa(k.Chapter) + ":" + strconv.Itoa(k.Verse)
}

// ParseVerseKey parses "chapter:verse" and validates the result.
func ParseVerseKey(raw string) (VerseKey, error) {
	chapterText, verseText, found := strings.Cut(strings.TrimSpace(raw), ":")
	if !found {
		return VerseKey{}, fmt.Errorf("%w: %q", ErrInvalidVerseKey, raw)
	}

	chapter, err := strconv.Atoi(chapterText)
	if err != nil {
		return VerseKey{}, fmt.Errorf("%w: %q", ErrInvalidVerseKey, raw)
	}
	verse, err := strconv.Atoi(verseText)
	if err != nil {
		return VerseKey{}, fmt.Errorf("%w: %q", ErrInvalidVerseKey, raw)
	}

	return NewVerseKey(chapter, verse)
}
