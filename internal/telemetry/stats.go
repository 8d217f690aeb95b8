// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// maxSlowest is how many of the slowest requests a session keeps.
const maxSlowest = 5

// sessionIDCounter ensures unique session IDs even when created rapidly
var sessionIDCounter uint64

// =============================================================================
// REQUEST TRACKER
// =============================================================================

// Tracker keeps in-memory request statistics for the running client.
type Tracker struct {
	mu      sync.RWMutex
	current *SessionStats
}

// SessionStats summarizes requests since the tracker was created or reset.
type SessionStats struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`

	Requests      int           `json:"requests"`
	Failures      int           `json:"failures"`
	TotalDuration time.Duration `json:"total_duration"`

	// ByOp counts requests per operation name.
	ByOp map[string]int `json:"by_op"`

	// Slowest holds the slowest requests, slowest first.
	Slowest []RequestRecord `json:"slowest"`
}

// RequestRecord is one completed backend request.
type RequestRecord struct {
	Timestamp time.Time     `json:"timestamp"`
	Op        string        `json:"op"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
	Failed    bool          `json:"failed"`
}

// NewTracker creates a tracker with a fresh session.
func NewTracker() *Tracker {
	return &Tracker{current: newSessionStats()}
}

// Record adds one completed request.
func (t *Tracker) Record(op string, status int, d time.Duration, failed bool) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.current
	s.Requests++
	if failed {
		s.Failures++
	}
	s.TotalDuration += d
	s.ByOp[op]++

	s.Slowest = append(s.Slowest, RequestRecord{
		Timestamp: time.Now(),
		Op:        op,
		Status:    status,
		Duration:  d,
		Failed:    failed,
	})
	sort.SliceStable(s.Slowest, func(i, j int) bool {
		return s.Slowest[i].Duration > s.Slowest[j].Duration
	})
	if len(s.Slowest) > maxSlowest {
		s.Slowest = s.Slowest[:maxSlowest]
	}
}

// Current returns a copy of the current session statistics.
func (t *Tracker) Current() *SessionStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current.clone()
}

// Reset starts a new statistics session and returns the finished one.
func (t *Tracker) Reset() *SessionStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev := t.current
	t.current = newSessionStats()
	return prev
}

// =============================================================================
// SESSION STATS
// =============================================================================

// AverageLatency returns the mean request duration.
func (s *SessionStats) AverageLatency() time.Duration {
	if s.Requests == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Requests)
}

// FailureRate returns the share of failed requests in [0, 1].
func (s *SessionStats) FailureRate() float64 {
	if s.Requests == 0 {
		return 0
	}
	return float64(s.Failures) / float64(s.Requests)
}

// Summary returns a one-line description for status bars.
func (s *SessionStats) Summary() string {
	if s.Requests == 0 {
		return "no requests yet"
	}
	return fmt.Sprintf("%d requests | %d failed | avg %s",
		s.Requests, s.Failures, s.AverageLatency().Round(time.Millisecond))
}

func (s *SessionStats) clone() *SessionStats {
	dst := *s
	dst.ByOp = make(map[string]int, len(s.ByOp))
	for k, v := range s.ByOp {
		dst.ByOp[k] = v
	}
	dst.Slowest = append([]RequestRecord(nil), s.Slowest...)
	return &dst
}

func newSessionStats() *SessionStats {
	return &SessionStats{
		ID:        generateSessionID(),
		StartTime: time.Now(),
		ByOp:      make(map[string]int),
	}
}

// generateSessionID generates a unique session ID.
func generateSessionID() string {
	now := time.Now()
	counter := atomic.AddUint64(&sessionIDCounter, 1)
	return now.Format("20060102-150405") + "-" + fmt.Sprintf("%d", counter)
}
