// Package seed loads users, events and participants from a YAML file into
// the registries. Records that already exist are skipped, so a file can be
// applied repeatedly.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/internal/ports/input"
)

type File struct {
	Users        []User        `yaml:"users"`
	Events       []Event       `yaml:"events"`
	Participants []Participant `yaml:"participants"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Inactive bool   `yaml:"inactive"`
}

type Event struct {
	Name        string    `yaml:"name"`
	Date        time.Time `yaml:"date"`
	Description string    `yaml:"description"`
	Inactive    bool      `yaml:"inactive"`
}

type Participant struct {
	Name        string `yaml:"name"`
	Family      string `yaml:"family"`
	Barcode     string `yaml:"barcode"`
	Phone       string `yaml:"phone"`
	Email       string `yaml:"email"`
	City        string `yaml:"city"`
	SchoolClass string `yaml:"schoolClass"`
	Branch      string `yaml:"branch"`
	GroupType   string `yaml:"groupType"`
}

// Result counts what Apply created and skipped.
type Result struct {
	Created int
	Skipped int
}

// Decode parses a seed document. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses the seed file at path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: open: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Seeder writes seed documents through the application use cases, so every
// record passes the same validation as an API call.
type Seeder struct {
	users        input.UserUseCase
	events       input.EventUseCase
	participants input.ParticipantUseCase
	logger       *slog.Logger
}

func NewSeeder(users input.UserUseCase, events input.EventUseCase, participants input.ParticipantUseCase, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{users: users, events: events, participants: participants, logger: logger}
}

// Apply creates the records of f. Users with a taken username and
// participants with a taken barcode, phone or email are skipped; events are
// skipped when one with the same name and date exists.
func (s *Seeder) Apply(ctx context.Context, f *File) (Result, error) {
	var res Result

	for _, u := range f.Users {
		user := &entities.User{
			Username: u.Username,
			Name:     u.Name,
			Role:     entities.Role(u.Role),
			IsActive: !u.Inactive,
		}
		err := s.users.CreateUser(ctx, user, u.Password)
		if errors.Is(err, domain.ErrDuplicateKey) {
			s.logger.InfoContext(ctx, "seed: user exists", "username", u.Username)
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed: user %q: %w", u.Username, err)
		}
		res.Created++
	}

	existing, err := s.existingEvents(ctx)
	if err != nil {
		return res, err
	}
	for _, e := range f.Events {
		key := eventKey(e.Name, e.Date)
		if existing[key] {
			s.logger.InfoContext(ctx, "seed: event exists", "name", e.Name)
			res.Skipped++
			continue
		}
		event := &entities.Event{
			Name:        e.Name,
			Date:        e.Date,
			Description: e.Description,
			IsActive:    !e.Inactive,
		}
		if err := s.events.CreateEvent(ctx, event); err != nil {
			return res, fmt.Errorf("seed: event %q: %w", e.Name, err)
		}
		existing[key] = true
		res.Created++
	}

	for _, p := range f.Participants {
		participant := &entities.Participant{
			Name:        p.Name,
			Family:      p.Family,
			Barcode:     p.Barcode,
			Phone:       p.Phone,
			Email:       p.Email,
			City:        p.City,
			SchoolClass: p.SchoolClass,
			Branch:      p.Branch,
			GroupType:   p.GroupType,
		}
		err := s.participants.CreateParticipant(ctx, participant)
		if errors.Is(err, domain.ErrDuplicateKey) {
			s.logger.InfoContext(ctx, "seed: participant exists", "barcode", p.Barcode, "field", domain.Field(err))
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed: participant %s %s: %w", p.Name, p.Family, err)
		}
		res.Created++
	}

	return res, nil
}

func (s *Seeder) existingEvents(ctx context.Context) (map[string]bool, error) {
	seen := make(map[string]bool)
	for page := 1; ; page++ {
		p, err := s.events.ListEvents(ctx, entities.EventFilter{
			Page: entities.PageRequest{Page: page, Limit: 500, SortBy: "date", SortOrder: entities.SortAsc},
		})
		if err != nil {
			return nil, fmt.Errorf("seed: list events: %w", err)
		}
		for _, e := range p.Items {
			seen[eventKey(e.Name, e.Date)] = true
		}
		if page >= p.Pagination.TotalPages {
			return seen, nil
		}
	}
}

func eventKey(name string, date time.Time) string {
	return name + "\x00" + date.UTC().Format(time.RFC3339)
}
