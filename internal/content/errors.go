// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"fmt"

	"github.com/taibuivan/mushaf/internal/locator"
)

// FetchError reports a failed retrieval from the content provider.
type FetchError struct {
	// Op is "chapters" or "verses".
	Op string
	// Locator is set for verse fetches.
	Locator *locator.Locator
	// Status is the HTTP status, zero when no response was received.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	target := e.Op
	if e.Locator != nil {
		target += " " + e.Locator.String()
	}
	if e.Status != 0 {
		return fmt.Sprintf("content: fetch %s: status %d: %v", target, e.Status, e.Err)
	}
	return fmt.Sprintf("content: fetch %s: %v", target, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
