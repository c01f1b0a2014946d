package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// Connect opens a Redis client and verifies it with PING
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisMirror appends notifications to a Redis stream with XADD
type RedisMirror struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *zap.Logger
}

// NewRedisMirror creates a new RedisMirror. maxLen caps the stream length
// approximately; zero disables trimming.
func NewRedisMirror(client *redis.Client, stream string, maxLen int64, logger *zap.Logger) *RedisMirror {
	return &RedisMirror{
		client: client,
		stream: stream,
		maxLen: maxLen,
		logger: logger,
	}
}

// Append implements Mirror
func (m *RedisMirror) Append(ctx context.Context, n model.AlertNotification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: m.stream,
		Values: map[string]interface{}{
			"alert_id":  n.AlertID,
			"staff_id":  n.StaffID,
			"severity":  string(n.Severity),
			"data":      string(data),
			"timestamp": n.Timestamp.Unix(),
		},
	}
	if m.maxLen > 0 {
		args.MaxLen = m.maxLen
		args.Approx = true
	}

	id, err := m.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("failed to append to stream %s: %w", m.stream, err)
	}

	m.logger.Debug("alert notification mirrored",
		zap.String("stream", m.stream),
		zap.String("message_id", id),
		zap.String("alert_id", n.AlertID),
	)
	return nil
}

// Recent reads up to count notifications from the end of the stream, newest first
func (m *RedisMirror) Recent(ctx context.Context, count int64) ([]model.AlertNotification, error) {
	messages, err := m.client.XRevRangeN(ctx, m.stream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read stream %s: %w", m.stream, err)
	}

	notifications := make([]model.AlertNotification, 0, len(messages))
	for _, msg := range messages {
		raw, ok := msg.Values["data"].(string)
		if !ok {
			continue
		}
		var n model.AlertNotification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			m.logger.Warn("skipping malformed stream entry", zap.String("message_id", msg.ID), zap.Error(err))
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
