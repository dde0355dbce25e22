package redis

import (
	"context"
	"time"
)

// PayloadCache keeps fetched zone exports for a short TTL so repeated
// analyses of the same zone skip the remote task round-trip.
type PayloadCache struct {
	client *Client
	ttl    time.Duration
}

func NewPayloadCache(client *Client, ttl time.Duration) *PayloadCache {
	return &PayloadCache{client: client, ttl: ttl}
}

func cacheKey(kind, zone string) string { return "zone_payload:" + kind + ":" + zone }

func (c *PayloadCache) Get(ctx context.Context, kind, zone string) (string, bool) {
	data, err := c.client.Get(ctx, cacheKey(kind, zone))
	if err != nil {
		return "", false
	}
	return data, true
}

func (c *PayloadCache) Store(ctx context.Context, kind, zone, payload string) error {
	return c.client.Set(ctx, cacheKey(kind, zone), payload, c.ttl)
}
