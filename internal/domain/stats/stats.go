// Package stats holds the arithmetic behind the check-in statistics: arrival
// histograms, per-method counts and attendance percentages.
package stats

import (
	"fmt"
	"sort"
	"time"

	"checkin/internal/domain/entities"
)

// DefaultBucketSize is the width of the global arrival histogram buckets.
const DefaultBucketSize = 5 * time.Minute

// Bucket counts entries whose time falls in [Start, Start+size).
type Bucket struct {
	Start time.Time
	Count int64
}

// BucketStart floors t to its bucket boundary on the epoch-millisecond axis.
// Buckets are not aligned to calendar units or time zones.
func BucketStart(t time.Time, size time.Duration) time.Time {
	ms := t.UnixMilli()
	b := size.Milliseconds()
	if b <= 0 {
		return time.UnixMilli(ms).UTC()
	}
	return time.UnixMilli(ms - ms%b).UTC()
}

// Bucketize groups times into buckets of the given size, ascending by start.
func Bucketize(times []time.Time, size time.Duration) []Bucket {
	counts := make(map[int64]int64, len(times))
	for _, t := range times {
		counts[BucketStart(t, size).UnixMilli()]++
	}
	starts := make([]int64, 0, len(counts))
	for start := range counts {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	out := make([]Bucket, len(starts))
	for i, start := range starts {
		out[i] = Bucket{Start: time.UnixMilli(start).UTC(), Count: counts[start]}
	}
	return out
}

// Percent formats entered/registered as a percentage with two decimals.
// Zero registered participants yields "0.00".
func Percent(entered, registered int64) string {
	if registered <= 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(entered)/float64(registered)*100)
}

// MethodCounts tallies entries per admission method.
type MethodCounts map[entities.EntryMethod]int64

// Total sums all methods.
func (m MethodCounts) Total() int64 {
	var n int64
	for _, c := range m {
		n += c
	}
	return n
}

// EntryStats summarizes entries for one event or for the whole ledger.
type EntryStats struct {
	TotalEntries int64
	ByMethod     MethodCounts
	Recent       []entities.EntryDetails
}

// Barcode returns the number of barcode entries.
func (s EntryStats) Barcode() int64 { return s.ByMethod[entities.MethodBarcode] }

// Manual returns the number of manual entries.
func (s EntryStats) Manual() int64 { return s.ByMethod[entities.MethodManual] }

// Attendance is the turnout of one event.
type Attendance struct {
	EventID         string
	Name            string
	Date            time.Time
	TotalRegistered int64
	TotalEntered    int64
	Percent         string
}

// NewAttendance computes the percentage for an event.
func NewAttendance(e entities.Event, registered, entered int64) Attendance {
	return Attendance{
		EventID:         e.ID,
		Name:            e.Name,
		Date:            e.Date,
		TotalRegistered: registered,
		TotalEntered:    entered,
		Percent:         Percent(entered, registered),
	}
}

// TimelinePoint is a single arrival at an event.
type TimelinePoint struct {
	EntryTime     time.Time
	ParticipantID string
	Method        entities.EntryMethod
}
