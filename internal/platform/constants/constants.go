// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between the HTTP server, the reader session and the storage layers.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Content: Provider defaults and cache key taxonomy.
  - Local State: Keys of the process-local durable store.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "mushaf"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 15 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Content Provider

const (
	// DefaultContentAPIURL is the base URL of the verse and chapter provider.
	DefaultContentAPIURL = "https://api.quran.com/api/v4"

	// DefaultAudioBaseURL is the CDN origin that relative recitation paths resolve against.
	DefaultAudioBaseURL = "https://verses.quran.com/"

	// MaxContentResponseBytes caps a single provider response body.
	MaxContentResponseBytes = 8 << 20

	// ContentUserAgent identifies this service to the provider.
	ContentUserAgent = "mushaf/0.1"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldError  = "error"
	FieldCode   = "code"
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Database Schemas
//
// PostgreSQL namespaces. SQLite has no schemas and uses the bare table names.

const (
	SchemaLibrary = "library"
	SchemaSystem  = "system"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixChapters = "content:chapters:"
	RedisPrefixVerses   = "content:verses:"
)

// # Local State

const (
	// StateDirName is the directory created under XDG_STATE_HOME.
	StateDirName = "mushaf"

	// StateFileName is the file holding the local key/value state.
	StateFileName = "state.json"

	// LastReadKey is the local-state key of the last verse engaged through playback.
	LastReadKey = "last_read"
)

// # Settings Keys

const (
	SettingRecitation  = "recitation"
	SettingTranslation = "translation"
	SettingScript      = "script"
	SettingLocale      = "locale"
)
