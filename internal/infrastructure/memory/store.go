// Package memory is an in-process implementation of the repository ports.
//
// Every write takes the store-wide lock, so uniqueness and reference checks
// run in the same critical section as the write they guard. It backs tests
// and the STORAGE_DRIVER=memory development mode; data does not survive a
// restart.
package memory

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"checkin/internal/domain/entities"
)

// Store holds all records.
type Store struct {
	mu           sync.RWMutex
	participants map[string]entities.Participant
	events       map[string]entities.Event
	users        map[string]entities.User
	entries      map[string]entities.Entry

	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		participants: make(map[string]entities.Participant),
		events:       make(map[string]entities.Event),
		users:        make(map[string]entities.User),
		entries:      make(map[string]entities.Entry),
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Participants() *ParticipantRepository { return &ParticipantRepository{s: s} }
func (s *Store) Events() *EventRepository             { return &EventRepository{s: s} }
func (s *Store) Users() *UserRepository               { return &UserRepository{s: s} }
func (s *Store) Entries() *EntryRepository            { return &EntryRepository{s: s} }

// Close is a no-op; it lets the store stand in for a pool in main.
func (s *Store) Close() {}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// compareFunc orders two records by one field.
type compareFunc[T any] func(a, b T) int

// sortAndPage orders items by the requested field, breaking ties by id, and
// cuts out the requested page.
func sortAndPage[T any](items []T, page entities.PageRequest, fields map[string]compareFunc[T], id func(T) string) []T {
	byField := fields[page.SortBy]
	slices.SortStableFunc(items, func(a, b T) int {
		c := 0
		if byField != nil {
			c = byField(a, b)
		}
		if c == 0 {
			c = strings.Compare(id(a), id(b))
		}
		if page.SortOrder == entities.SortDesc {
			return -c
		}
		return c
	})

	start := page.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.Limit > 0 && page.Limit < end-start {
		end = start + page.Limit
	}
	return items[start:end]
}

func byString[T any](f func(T) string) compareFunc[T] {
	return func(a, b T) int { return strings.Compare(f(a), f(b)) }
}

func byTime[T any](f func(T) time.Time) compareFunc[T] {
	return func(a, b T) int { return f(a).Compare(f(b)) }
}

func byBool[T any](f func(T) bool) compareFunc[T] {
	toInt := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	return func(a, b T) int { return cmp.Compare(toInt(f(a)), toInt(f(b))) }
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
