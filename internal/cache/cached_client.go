// Package cache provides a Redis read-through cache in front of the Airtable client.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/keyaccount/backend/pkg/airtable"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "airtable:"

// Links maps a table to its link fields and the table each one points at.
// Airtable maintains the inverse side of a link, so writing a record also
// changes the records it links to.
type Links map[string]map[string]string

// CachedClient wraps an airtable.Client and caches single-record reads.
// List and Create always go upstream. Create, Update and Delete invalidate
// the record key and the keys of every record linked through Links, both
// before and after the write.
type CachedClient struct {
	next   airtable.Client
	client *redis.Client
	ttl    time.Duration
	links  Links
}

// NewCachedClient returns a CachedClient. ttl <= 0 disables expiry.
func NewCachedClient(next airtable.Client, client *redis.Client, ttl time.Duration) *CachedClient {
	return &CachedClient{next: next, client: client, ttl: ttl}
}

// WithLinks sets the link fields whose targets are invalidated on writes.
func (c *CachedClient) WithLinks(links Links) *CachedClient {
	c.links = links
	return c
}

func recordKey(table, id string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, table, id)
}

func (c *CachedClient) List(ctx context.Context, table string, opts airtable.ListOptions) ([]json.RawMessage, error) {
	return c.next.List(ctx, table, opts)
}

func (c *CachedClient) Get(ctx context.Context, table, id string) (json.RawMessage, error) {
	key := recordKey(table, id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.RawMessage(data), nil
	}
	if !errors.Is(err, redis.Nil) {
		slog.Warn("cache read failed", "key", key, "error", err)
	}

	rec, err := c.next.Get(ctx, table, id)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, []byte(rec), c.ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
	return rec, nil
}

func (c *CachedClient) Create(ctx context.Context, table string, fields any) (json.RawMessage, error) {
	rec, err := c.next.Create(ctx, table, fields)
	if err != nil {
		return nil, err
	}
	c.del(ctx, linkedKeys(c.links, table, rec)...)
	return rec, nil
}

func (c *CachedClient) Update(ctx context.Context, table, id string, fields any) (json.RawMessage, error) {
	keys := append([]string{recordKey(table, id)}, c.linkedBefore(ctx, table, id)...)
	rec, err := c.next.Update(ctx, table, id, fields)
	if err == nil {
		keys = append(keys, linkedKeys(c.links, table, rec)...)
	}
	c.del(ctx, keys...)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *CachedClient) Delete(ctx context.Context, table, id string) error {
	keys := append([]string{recordKey(table, id)}, c.linkedBefore(ctx, table, id)...)
	err := c.next.Delete(ctx, table, id)
	c.del(ctx, keys...)
	return err
}

// linkedBefore returns the keys linked from the current version of a record
// that is about to change. Tables without links cost no lookup.
func (c *CachedClient) linkedBefore(ctx context.Context, table, id string) []string {
	if len(c.links[table]) == 0 {
		return nil
	}
	rec, err := c.client.Get(ctx, recordKey(table, id)).Bytes()
	if err != nil {
		if rec, err = c.next.Get(ctx, table, id); err != nil {
			slog.Warn("read linked record failed", "table", table, "id", id, "error", err)
			return nil
		}
	}
	return linkedKeys(c.links, table, rec)
}

func (c *CachedClient) del(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("cache invalidate failed", "keys", keys, "error", err)
	}
}

// linkedKeys returns the cache keys of the records rec links to.
func linkedKeys(links Links, table string, rec json.RawMessage) []string {
	fields := links[table]
	if len(fields) == 0 || len(rec) == 0 {
		return nil
	}
	var envelope struct {
		Fields map[string]json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(rec, &envelope); err != nil {
		return nil
	}
	var keys []string
	for field, target := range fields {
		raw, ok := envelope.Fields[field]
		if !ok {
			continue
		}
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			continue
		}
		for _, id := range ids {
			keys = append(keys, recordKey(target, id))
		}
	}
	return keys
}
