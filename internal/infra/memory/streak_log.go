package memory

import (
	"context"
	"sync"
	"time"
)

// StreakLog records daily activity in process memory. It implements
// app.StreakRecorder for dev mode and tests.
type StreakLog struct {
	mu    sync.Mutex
	clock func() time.Time
	days  map[string]map[string]struct{} // userID -> set of YYYY-MM-DD
}

func NewStreakLog() *StreakLog {
	return &StreakLog{clock: time.Now, days: make(map[string]map[string]struct{})}
}

func (l *StreakLog) RecordActivity(_ context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	day := l.clock().UTC().Format("2006-01-02")
	if l.days[userID] == nil {
		l.days[userID] = make(map[string]struct{})
	}
	l.days[userID][day] = struct{}{}
	return nil
}

// ActiveDays reports how many distinct days the user has been active.
func (l *StreakLog) ActiveDays(userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.days[userID])
}
