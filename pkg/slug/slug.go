// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug folds transliterated names into ASCII lookup keys.
//
// Chapter names arrive in several spellings ("Āl 'Imrān", "Al-Imran",
// "al imran"). Folding every spelling to the same slug lets a reader type a
// name the way they remember it.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any sequence of non-alphanumeric, non-hyphen characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into an ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and removes combining marks (ā → a, ḥ → h).
// 2. Drops apostrophes and the ayn/hamza marks used in transliteration.
// 3. Converts to lowercase.
// 4. Replaces everything else that is not a letter or digit with hyphens.
// 5. Collapses multiple hyphens and trims leading/trailing hyphens.
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)

	result = strings.Map(func(r rune) rune {
		switch {
		case isGlottal(r):
			return -1
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		}
		return '-'
	}, result)

	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// isGlottal reports apostrophe-like runes that stand for ayn or hamza.
func isGlottal(r rune) bool {
	switch r {
	case '\'', '`', '‘', '’', 'ʿ', 'ʾ', 'ʻ', 'ʼ':
		return true
	}
	return false
}
