// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package setting stores reader preferences as a flat key/value map.

Keys are unique and values are overwritten on every set. There is no delete:
a preference is either present or falls back to the configured default.
Known keys (recitation, translation, script, locale) seed the content client
of the reader binary.
*/
package setting

import "time"

// Setting is one stored preference.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetInput is the body of POST /api/settings.
type SetInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Limits enforced by the service.
const (
	MaxKeyLength   = 64
	MaxValueLength = 1024
)

const (
	FieldKey   = "key"
	FieldValue = "value"
)
