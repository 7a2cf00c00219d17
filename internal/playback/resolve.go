// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playback

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/taibuivan/mushaf/internal/platform/constants"
)

// ResolveAudioURL turns a provider audio reference into an absolute URI.
//
//   - "https://host/a.mp3" is kept as is.
//   - "//host/a.mp3" takes the scheme of base.
//   - "Reciter/mp3/001001.mp3" resolves against base.
//
// An empty base selects [constants.DefaultAudioBaseURL].
func ResolveAudioURL(base, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrNoAudio
	}

	target, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("playback: invalid audio reference %q: %w", ref, err)
	}
	if target.Scheme != "" {
		return ref, nil
	}

	if base == "" {
		base = constants.DefaultAudioBaseURL
	}
	origin, err := url.Parse(base)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return "", fmt.Errorf("playback: invalid audio base %q", base)
	}

	if strings.HasPrefix(ref, "//") {
		return origin.Scheme + ":" + ref, nil
	}

	// Treat the base path as a directory.
	if !strings.HasSuffix(origin.Path, "/") {
		origin.Path += "/"
	}
	return origin.ResolveReference(target).String(), nil
}
