// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package navigation

import "github.com/taibuivan/mushaf/internal/content"

// Translator keeps the chapter anchor consistent while browsing by division
// or page, where the active locator does not name a chapter.
//
// It is not safe for concurrent use; the [Controller] owns it under its lock.
type Translator struct {
	anchor int
}

// NewTranslator starts with the given anchor chapter.
func NewTranslator(anchor int) *Translator {
	return &Translator{anchor: anchor}
}

// Anchor returns the current anchor chapter.
func (t *Translator) Anchor() int {
	return t.anchor
}

// Update moves the anchor to the chapter of seq's first verse.
// An empty sequence keeps the previous anchor.
func (t *Translator) Update(seq *content.Sequence) int {
	if chapter, ok := DeriveChapter(seq); ok {
		t.anchor = chapter
	}
	return t.anchor
}

// DeriveChapter returns the chapter of the first verse of seq.
func DeriveChapter(seq *content.Sequence) (int, bool) {
	first, ok := seq.First()
	if !ok || first.Chapter < 1 {
		return 0, false
	}
	return first.Chapter, true
}
