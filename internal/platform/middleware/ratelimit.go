// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/mushaf/internal/platform/constants"
)

// limiterTable holds one token bucket per client address.
type limiterTable struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (table *limiterTable) allow(client string, now time.Time) bool {
	table.mu.Lock()
	defer table.mu.Unlock()

	entry, ok := table.buckets[client]
	if !ok {
		entry = &bucket{limiter: rate.NewLimiter(table.rps, table.burst)}
		table.buckets[client] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// sweep forgets clients idle for longer than ttl.
func (table *limiterTable) sweep(now time.Time, ttl time.Duration) {
	table.mu.Lock()
	defer table.mu.Unlock()

	for client, entry := range table.buckets {
		if now.Sub(entry.lastSeen) > ttl {
			delete(table.buckets, client)
		}
	}
}

// RateLimit applies a per-IP token bucket of rps with the given burst.
//
// Each call owns its table; the sweeper goroutine stops when context is done.
func RateLimit(context context.Context, rps float64, burst int) func(http.Handler) http.Handler {
	table := &limiterTable{rps: rate.Limit(rps), burst: burst, buckets: make(map[string]*bucket)}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				table.sweep(now, constants.RateLimitClientTTL)
			case <-context.Done():
				return
			}
		}
	}()

	retryAfter := "1"
	if rps > 0 && rps < 1 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / rps)))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !table.allow(RealIP(request), time.Now()) {
				writer.Header().Set("Retry-After", retryAfter)
				writeError(writer, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded")
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
