// Package storage hands finished run artifacts to downstream consumers over
// Redis. The pipeline itself never reads anything back; keys expire on their
// own so nothing here is a system of record.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/slipline/slipline/internal/pkg/models"
	"github.com/slipline/slipline/internal/report"
)

type RedisPublisher struct {
	client  *redis.Client
	ttl     time.Duration
	channel string
}

// NewRedisPublisher connects and pings the server so a dead Redis fails the
// run at startup instead of after processing.
func NewRedisPublisher(addr, password string, db int, ttl time.Duration, channel string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublisher{client: client, ttl: ttl, channel: channel}, nil
}

// PublishReport stores the full report under a stable key and announces the
// run on the configured channel.
func (r *RedisPublisher) PublishReport(ctx context.Context, rep *report.Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := r.client.Set(ctx, "slipline:report:latest", data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	if r.channel != "" {
		summary := fmt.Sprintf("report ready: %d games, %d markets, %d anomalies",
			rep.Summary.TotalGames, rep.Summary.TotalMarkets, len(rep.Anomalies))
		if err := r.client.Publish(ctx, r.channel, summary).Err(); err != nil {
			return fmt.Errorf("failed to publish report notice: %w", err)
		}
	}
	return nil
}

// StoreMatches writes each canonical match under its composite key so the
// persistence collaborator can pick records up individually.
func (r *RedisPublisher) StoreMatches(ctx context.Context, matches []*models.CanonicalMatch) error {
	for _, m := range matches {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal match %s: %w", m.Key, err)
		}
		key := "slipline:match:" + m.Key
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			return fmt.Errorf("failed to store match %s: %w", m.Key, err)
		}
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisPublisher) Close() error {
	return r.client.Close()
}
