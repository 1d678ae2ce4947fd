package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreakRecorder marks daily user activity in Redis, keyed per month:
// SADD streak:{userID}:{YYYY-MM} {YYYY-MM-DD}. The caller treats failures
// as best-effort; nothing here blocks a submission.
type StreakRecorder struct {
	client *redis.Client
	clock  func() time.Time
}

func NewStreakRecorder(client *redis.Client) *StreakRecorder {
	return &StreakRecorder{client: client, clock: time.Now}
}

func (r *StreakRecorder) RecordActivity(ctx context.Context, userID string) error {
	now := r.clock().UTC()
	key := "streak:" + userID + ":" + now.Format("2006-01")
	day := now.Format("2006-01-02")

	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, key, day)
	// keep roughly two months so a consecutive-day check can reach back
	// across a month boundary
	pipe.Expire(ctx, key, 62*24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

// ActiveDays reports the recorded activity days for a user in a month
// (YYYY-MM). Used by streak reporting outside this core.
func (r *StreakRecorder) ActiveDays(ctx context.Context, userID, month string) ([]string, error) {
	return r.client.SMembers(ctx, "streak:"+userID+":"+month).Result()
}
