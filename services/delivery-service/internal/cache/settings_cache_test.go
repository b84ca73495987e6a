package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/model"
	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

// Eval mirrors setIfNotOlderScript.
func (f *fakeRedis) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	if f.err != nil {
		return redis.NewCmdResult(nil, f.err)
	}
	key := keys[0]
	version := args[1].(int64)
	if current, ok := f.values[key]; ok {
		var doc struct {
			Version int64 `json:"version"`
		}
		if json.Unmarshal([]byte(current), &doc) == nil && doc.Version > version {
			return redis.NewCmdResult(int64(0), nil)
		}
	}
	f.values[key] = args[0].(string)
	f.ttls[key] = time.Duration(args[2].(int64)) * time.Millisecond
	return redis.NewCmdResult(int64(1), nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestSettingsCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	c := NewSettingsCache(rdb, time.Minute, "")

	if _, ok, err := c.Get(ctx, "m-1"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := model.MerchantSettings{MerchantID: "m-1", Timezone: "UTC", ServiceArea: []string{"Campinas"}, Version: 4}
	if err := c.Set(ctx, in); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if rdb.ttls["delivery:settings:m-1"] != time.Minute {
		t.Fatalf("unexpected ttl %v", rdb.ttls)
	}

	got, ok, err := c.Get(ctx, "m-1")
	if err != nil || !ok || got.Version != 4 || got.ServiceArea[0] != "Campinas" {
		t.Fatalf("unexpected cached value %+v ok=%v err=%v", got, ok, err)
	}

	if err := c.Invalidate(ctx, "m-1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "m-1"); ok {
		t.Fatalf("expected miss after invalidate")
	}
}

func TestSettingsCache_Errors(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	c := NewSettingsCache(rdb, 0, "test")

	rdb.values["test:bad"] = "{not json"
	if _, _, err := c.Get(ctx, "bad"); err == nil {
		t.Fatalf("expected decode error")
	}

	rdb.err = errors.New("connection refused")
	if _, ok, err := c.Get(ctx, "m-1"); ok || err == nil {
		t.Fatalf("expected redis error, got ok=%v err=%v", ok, err)
	}
}

func TestSettingsCache_SetKeepsNewerVersion(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	c := NewSettingsCache(rdb, time.Minute, "")

	if err := c.Set(ctx, model.MerchantSettings{MerchantID: "m-1", Timezone: "America/Recife", Version: 5}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// A reader that loaded version 4 before the replacement finishes late.
	if err := c.Set(ctx, model.MerchantSettings{MerchantID: "m-1", Timezone: "UTC", Version: 4}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, "m-1")
	if err != nil || !ok || got.Version != 5 || got.Timezone != "America/Recife" {
		t.Fatalf("stale write replaced newer settings: %+v ok=%v err=%v", got, ok, err)
	}

	if err := c.Set(ctx, model.MerchantSettings{MerchantID: "m-1", Timezone: "UTC", Version: 6}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _, _ := c.Get(ctx, "m-1"); got.Version != 6 {
		t.Fatalf("expected version 6, got %d", got.Version)
	}
}
