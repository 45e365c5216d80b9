package profiler

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Timings collects per-operation duration statistics.
//
// It is safe for concurrent use; batch workers record into a shared instance.
type Timings struct {
	mu         sync.RWMutex
	startTime  time.Time
	operations map[string]*TimeTracker
}

// TimeTracker tracks operation timing statistics.
type TimeTracker struct {
	name      string
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// OperationStats is a point-in-time copy of a TimeTracker.
type OperationStats struct {
	Name  string        `json:"name" yaml:"name"`
	Count int64         `json:"count" yaml:"count"`
	Total time.Duration `json:"total" yaml:"total"`
	Min   time.Duration `json:"min" yaml:"min"`
	Max   time.Duration `json:"max" yaml:"max"`
	Avg   time.Duration `json:"avg" yaml:"avg"`
}

// NewTimings creates an empty Timings collector.
//
// Returns:
// - A Timings instance whose uptime starts now.
func NewTimings() *Timings {
	return &Timings{
		startTime:  time.Now(),
		operations: make(map[string]*TimeTracker),
	}
}

// Track begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track.
//
// Returns:
// - A function to call when the operation completes.
//
// @example
//
//	done := timings.Track("match")
//	defer done()
func (t *Timings) Track(name string) func() {
	start := time.Now()
	return func() {
		t.Record(name, time.Since(start))
	}
}

// Record adds one completed operation of the given duration.
//
// Arguments:
// - name: The name of the operation.
// - duration: How long the operation took.
func (t *Timings) Record(name string, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracker, exists := t.operations[name]
	if !exists {
		tracker = &TimeTracker{
			name:    name,
			minTime: duration,
			maxTime: duration,
		}
		t.operations[name] = tracker
	}

	tracker.totalTime += duration
	tracker.count++

	if duration < tracker.minTime {
		tracker.minTime = duration
	}
	if duration > tracker.maxTime {
		tracker.maxTime = duration
	}
}

// Snapshot returns the current statistics sorted by operation name.
//
// Returns:
// - One OperationStats per recorded operation.
func (t *Timings) Snapshot() []OperationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := make([]OperationStats, 0, len(t.operations))
	for name, tracker := range t.operations {
		s := OperationStats{
			Name:  name,
			Count: tracker.count,
			Total: tracker.totalTime,
			Min:   tracker.minTime,
			Max:   tracker.maxTime,
		}
		if tracker.count > 0 {
			s.Avg = tracker.totalTime / time.Duration(tracker.count)
		}
		stats = append(stats, s)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Name < stats[j].Name
	})

	return stats
}

// Uptime reports the time elapsed since the collector was created.
func (t *Timings) Uptime() time.Duration {
	return time.Since(t.startTime)
}

// Report writes a human-readable summary of all operations to w.
//
// Arguments:
// - w: Destination for the report.
//
// Returns:
// - error if writing fails.
func (t *Timings) Report(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "OPERATION TIMINGS (uptime %v):\n", t.Uptime().Truncate(time.Millisecond)); err != nil {
		return err
	}
	for _, s := range t.Snapshot() {
		_, err := fmt.Fprintf(w, "  %s: avg=%v, min=%v, max=%v, count=%d\n",
			s.Name,
			s.Avg.Truncate(time.Microsecond),
			s.Min.Truncate(time.Microsecond),
			s.Max.Truncate(time.Microsecond),
			s.Count)
		if err != nil {
			return err
		}
	}
	return nil
}
