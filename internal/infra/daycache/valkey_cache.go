package daycache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/sugarpoints/internal/domain/foodlog"
	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

// versionTTL outlives any aggregate so a version is never reset while an
// aggregate stamped with it could still be written.
const versionTTL = 48 * time.Hour

// KEYS[1] aggregate, KEYS[2] version; ARGV[1] expected version, ARGV[2]
// payload, ARGV[3] ttl seconds (0 keeps the value until invalidated).
var setIfCurrent = valkey.NewLuaScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'EX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// KEYS[1] aggregate, KEYS[2] version; ARGV[1] version ttl seconds.
var bumpVersion = valkey.NewLuaScript(`
redis.call('DEL', KEYS[1])
redis.call('INCR', KEYS[2])
redis.call('EXPIRE', KEYS[2], ARGV[1])
return 1
`)

// ValkeyCache stores daily aggregates in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "sugarpoints"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, userID, date string) (sugarpoints.DailyAggregate, int64, bool, error) {
	dayKey, versionKey := c.keys(userID, date)
	values, err := c.client.Do(ctx, c.client.B().Mget().Key(dayKey, versionKey).Build()).ToArray()
	if err != nil {
		return sugarpoints.DailyAggregate{}, 0, false, err
	}
	if len(values) != 2 {
		return sugarpoints.DailyAggregate{}, 0, false, fmt.Errorf("mget returned %d values", len(values))
	}

	var version int64
	if !values[1].IsNil() {
		raw, err := values[1].ToString()
		if err != nil {
			return sugarpoints.DailyAggregate{}, 0, false, err
		}
		if version, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return sugarpoints.DailyAggregate{}, 0, false, err
		}
	}
	if values[0].IsNil() {
		return sugarpoints.DailyAggregate{}, version, false, nil
	}
	payload, err := values[0].ToString()
	if err != nil {
		return sugarpoints.DailyAggregate{}, 0, false, err
	}
	var agg sugarpoints.DailyAggregate
	if err := json.Unmarshal([]byte(payload), &agg); err != nil {
		return sugarpoints.DailyAggregate{}, 0, false, err
	}
	if agg.Entries == nil {
		agg.Entries = []sugarpoints.FoodEntry{}
	}
	return agg, version, true, nil
}

// Set stores agg only if the day's version still equals version.
func (c *ValkeyCache) Set(ctx context.Context, userID, date string, version int64, agg sugarpoints.DailyAggregate, ttl time.Duration) error {
	payload, err := json.Marshal(agg)
	if err != nil {
		return err
	}
	seconds := int64(0)
	if ttl > 0 {
		seconds = max(int64(ttl/time.Second), 1)
	}
	dayKey, versionKey := c.keys(userID, date)
	return setIfCurrent.Exec(ctx, c.client,
		[]string{dayKey, versionKey},
		[]string{strconv.FormatInt(version, 10), string(payload), strconv.FormatInt(seconds, 10)},
	).Error()
}

func (c *ValkeyCache) Invalidate(ctx context.Context, userID, date string) error {
	dayKey, versionKey := c.keys(userID, date)
	return bumpVersion.Exec(ctx, c.client,
		[]string{dayKey, versionKey},
		[]string{strconv.FormatInt(int64(versionTTL/time.Second), 10)},
	).Error()
}

func (c *ValkeyCache) keys(userID, date string) (string, string) {
	return fmt.Sprintf("%s:day:%s:%s", c.prefix, userID, date),
		fmt.Sprintf("%s:dayver:%s:%s", c.prefix, userID, date)
}

var _ foodlog.DayCache = (*ValkeyCache)(nil)
