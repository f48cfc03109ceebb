package locationcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/greenguardian/internal/domain/location"
)

// ValkeyCache shares IP lookups across instances through a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string, ttl time.Duration) *ValkeyCache {
	if prefix == "" {
		prefix = "location"
	}
	return &ValkeyCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *ValkeyCache) Get(ctx context.Context, ip string) (location.Location, bool, error) {
	cmd := c.client.B().Get().Key(c.key(ip)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return location.Location{}, false, nil
		}
		return location.Location{}, false, err
	}
	var loc location.Location
	if err := json.Unmarshal([]byte(payload), &loc); err != nil {
		return location.Location{}, false, err
	}
	return loc, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, ip string, loc location.Location) error {
	payload, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.key(ip)).Value(string(payload))
	var cmd valkey.Completed
	if c.ttl > 0 {
		ttl := c.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) key(ip string) string {
	return fmt.Sprintf("%s:ip:%s", c.prefix, ip)
}

var _ location.Cache = (*ValkeyCache)(nil)
