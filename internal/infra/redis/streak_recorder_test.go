package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestStreakRecorderMarksDay(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	recorder := NewStreakRecorder(client)
	recorder.clock = func() time.Time {
		return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	}

	ctx := context.Background()
	if err := recorder.RecordActivity(ctx, "u1"); err != nil {
		t.Fatalf("record: %v", err)
	}
	// same day twice is still one entry
	if err := recorder.RecordActivity(ctx, "u1"); err != nil {
		t.Fatalf("record again: %v", err)
	}

	days, err := recorder.ActiveDays(ctx, "u1", "2025-06")
	if err != nil {
		t.Fatalf("active days: %v", err)
	}
	if len(days) != 1 || days[0] != "2025-06-15" {
		t.Fatalf("expected single day 2025-06-15, got %v", days)
	}

	if ttl := mr.TTL("streak:u1:2025-06"); ttl <= 0 {
		t.Fatalf("expected expiry on month key, got %v", ttl)
	}
}
