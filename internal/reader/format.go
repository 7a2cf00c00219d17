// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"fmt"
	"io"

	"github.com/taibuivan/mushaf/internal/content"
)

// Bismillah is displayed above chapters other than 1 and 9.
const Bismillah = "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ"

// WriteSequence prints every verse of seq with its translation.
// A chapter heading (and the opening invocation, where it applies) is
// printed whenever the chapter changes inside the sequence.
func WriteSequence(w io.Writer, seq *content.Sequence, names map[int]string) {
	chapter := 0
	for _, verse := range seq.Verses {
		if verse.Chapter != chapter {
			chapter = verse.Chapter
			heading := fmt.Sprintf("Chapter %d", chapter)
			if name, ok := names[chapter]; ok {
				heading += " · " + name
			}
			fmt.Fprintf(w, "\n== %s ==\n", heading)
			if verse.Number == 1 && chapter != 1 && chapter != 9 {
				fmt.Fprintln(w, Bismillah)
			}
		}

		fmt.Fprintf(w, "[%s] %s\n", verse.Key, verse.PrimaryText)
		if verse.AlternateText != "" {
			fmt.Fprintf(w, "        %s\n", verse.AlternateText)
		}
	}
}

// ChapterNames indexes simple names by chapter id.
func ChapterNames(chapters []content.Chapter) map[int]string {
	names := make(map[int]string, len(chapters))
	for _, chapter := range chapters {
		names[chapter.ID] = chapter.SimpleName
	}
	return names
}
