// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"strconv"
	"strings"

	"github.com/taibuivan/mushaf/pkg/slug"
)

// FindChapter resolves a user query to a chapter.
//
// The query may be a chapter number ("2"), a transliterated name with or
// without its article ("al-baqarah", "Baqarah") or the accented complex name.
func FindChapter(chapters []Chapter, query string) (Chapter, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Chapter{}, false
	}

	if id, err := strconv.Atoi(query); err == nil {
		for _, chapter := range chapters {
			if chapter.ID == id {
				return chapter, true
			}
		}
		return Chapter{}, false
	}

	wanted := slug.From(query)
	for _, chapter := range chapters {
		for _, name := range []string{chapter.SimpleName, chapter.ComplexName} {
			full := slug.From(name)
			if full == "" {
				continue
			}
			if full == wanted || withoutArticle(full) == wanted {
				return chapter, true
			}
		}
	}
	return Chapter{}, false
}

// withoutArticle drops a leading definite article such as "al-" or "an-".
func withoutArticle(name string) string {
	head, rest, found := strings.Cut(name, "-")
	if found && strings.HasPrefix(head, "a") && len(head) <= 3 {
		return rest
	}
	return name
}
