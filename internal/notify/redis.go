package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher is the part of *redis.Client the Redis backend uses.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Message is the JSON payload published on the channel.
type Message struct {
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

// Redis publishes reminders as JSON on a pub/sub channel.
type Redis struct {
	client  Publisher
	channel string
	now     func() time.Time
}

func NewRedis(client Publisher, channel string) *Redis {
	return &Redis{client: client, channel: channel, now: time.Now}
}

func (n *Redis) Name() string { return "redis" }

func (n *Redis) Notify(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(Message{Title: title, Body: body, SentAt: n.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	// Zero receivers is not an error: nobody is listening right now.
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish on %s: %w", n.channel, err)
	}
	return nil
}
