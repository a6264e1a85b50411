// Package redis wraps go-redis with the write-and-publish pattern the
// reference service used for scooter state, repurposed here to fan out
// decoded sign responses to any number of subscribers without teaching the
// CORE codec packages about Redis.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client is a thin wrapper around go-redis exposing only the operations
// cmd/mepctl needs: writing a response's fields into a hash and publishing
// a notification of the update in the same round trip.
type Client struct {
	client *redis.Client
	ctx    context.Context
}

// New connects to addr and verifies the connection with a PING.
func New(addr string, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: failed to connect: %w", err)
	}

	return &Client{client: client, ctx: ctx}, nil
}

// WriteAndPublishString writes field=value into the key hash and publishes
// "field:value" on the key channel in one pipeline, so a subscriber sees
// the notification only after the hash write is durable.
func (c *Client) WriteAndPublishString(key, field, value string) error {
	pipe := c.client.Pipeline()
	pipe.HSet(c.ctx, key, field, value)
	pipe.Publish(c.ctx, key, fmt.Sprintf("%s:%s", field, value))
	_, err := pipe.Exec(c.ctx)
	return err
}

// Subscribe subscribes to channel and returns the message channel plus an
// unsubscribe func.
func (c *Client) Subscribe(channel string) (<-chan *redis.Message, func()) {
	pubsub := c.client.Subscribe(c.ctx, channel)
	ch := pubsub.Channel()
	return ch, func() { pubsub.Close() }
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}
