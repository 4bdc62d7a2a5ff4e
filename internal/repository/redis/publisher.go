package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/pauselab/internal/logger"
	"github.com/dtroode/pauselab/internal/reminder"
)

var _ reminder.Notifier = (*Publisher)(nil)

// Publisher hands due reminders to a device bridge over a redis channel.
type Publisher struct {
	api     redisAPI
	channel string
	logger  *logger.Logger
	now     func() time.Time
}

// reminderMessage is the payload published for each reminder.
type reminderMessage struct {
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Kind    string    `json:"kind"`
	FiredAt time.Time `json:"firedAt"`
}

func NewPublisher(client *goredis.Client, channel string, logger *logger.Logger) *Publisher {
	return newPublisher(client, channel, logger)
}

func newPublisher(api redisAPI, channel string, logger *logger.Logger) *Publisher {
	return &Publisher{
		api:     api,
		channel: channel,
		logger:  logger.With("component", "redis_publisher"),
		now:     time.Now,
	}
}

// Authorize grants permission when the bridge is reachable.
func (p *Publisher) Authorize(ctx context.Context) (bool, error) {
	if err := p.api.Ping(ctx).Err(); err != nil {
		return false, fmt.Errorf("redis unreachable: %w", err)
	}
	return true, nil
}

func (p *Publisher) Notify(ctx context.Context, r reminder.Reminder) error {
	kind := "daily"
	if r.Weekday != nil {
		kind = "weekly"
	}

	raw, err := json.Marshal(reminderMessage{
		Title:   r.Title,
		Body:    r.Body,
		Kind:    kind,
		FiredAt: p.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reminder: %w", err)
	}

	receivers, err := p.api.Publish(ctx, p.channel, raw).Result()
	if err != nil {
		return fmt.Errorf("failed to publish reminder: %w", err)
	}
	if receivers == 0 {
		p.logger.Warn("Reminder published with no subscribers", "channel", p.channel, "title", r.Title)
	}

	return nil
}
