package cache

import (
	"context"
	"testing"
	"time"
)

func TestHelpersNoopWhenDisabled(t *testing.T) {
	redisEnabled = false
	redisClient = nil

	var dest map[string]string
	hit, err := GetJSON(context.Background(), "dashboard:1", &dest)
	if err != nil {
		t.Fatalf("get with cache disabled failed: %v", err)
	}
	if hit {
		t.Fatalf("expected cache miss when disabled")
	}
	if err := SetJSON(context.Background(), "dashboard:1", map[string]string{"k": "v"}, time.Minute); err != nil {
		t.Fatalf("set with cache disabled failed: %v", err)
	}
	if err := Del(context.Background(), "dashboard:1"); err != nil {
		t.Fatalf("del with cache disabled failed: %v", err)
	}
}

func TestBuildKey(t *testing.T) {
	redisPrefix = "aff"

	if got := buildKey("dashboard:1"); got != "aff:dashboard:1" {
		t.Fatalf("key want aff:dashboard:1 got %s", got)
	}
	if got := buildKey("  "); got != "aff" {
		t.Fatalf("blank key should fall back to prefix, got %s", got)
	}
}
