// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects the optional content cache.

Chapter lists and verse sequences fetched from the provider are kept in Redis
with a TTL, so repeated navigation and restarts do not hit the provider again.
Reader state never lives here.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache traffic is a few small GET/SET pairs per navigation.
const (
	poolSize     = 4
	dialTimeout  = 3 * time.Second
	ioTimeout    = 2 * time.Second
	pingTimeout  = 2 * time.Second
	clientSuffix = "-cache"
)

// NewClient parses redisURL (redis:// or rediss://) and verifies connectivity.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = poolSize
	options.MinIdleConns = 1
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout
	if options.ClientName == "" {
		options.ClientName = "mushaf" + clientSuffix
	}

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)
	return client, nil
}

// Ping checks the client within a short deadline.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
