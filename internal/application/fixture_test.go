package application

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"checkin/internal/domain/entities"
	"checkin/internal/infrastructure/memory"
	"checkin/internal/infrastructure/password"
	"checkin/internal/infrastructure/token"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type testApp struct {
	store        *memory.Store
	clock        time.Time
	auth         *AuthService
	users        *UserService
	participants *ParticipantService
	events       *EventService
	entries      *EntryService
	statistics   *StatisticsService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	a := &testApp{clock: testNow}
	now := func() time.Time { return a.clock }
	a.store = memory.NewStore(memory.WithClock(now))

	hasher, err := password.NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt: %v", err)
	}
	tokens, err := token.NewJWT([]byte("test-secret-test-secret"), time.Hour, token.WithClock(now))
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}

	a.auth = NewAuthService(a.store.Users(), hasher, tokens, nil)
	a.users = NewUserService(a.store.Users(), hasher)
	a.participants = NewParticipantService(a.store.Participants())
	a.events = NewEventService(a.store.Events())
	a.entries = NewEntryService(a.store.Entries(), a.store.Participants(), a.store.Events())
	a.entries.now = now
	a.statistics = NewStatisticsService(a.store.Entries(), a.store.Participants(), a.store.Events())
	a.statistics.now = now
	return a
}

func (a *testApp) user(t *testing.T, username string, role entities.Role) *entities.User {
	t.Helper()
	u := &entities.User{Username: username, Name: username, Role: role, IsActive: true}
	if err := a.users.CreateUser(context.Background(), u, "secret1"); err != nil {
		t.Fatalf("CreateUser %s: %v", username, err)
	}
	return u
}

func (a *testApp) participant(t *testing.T, barcode, phone string) *entities.Participant {
	t.Helper()
	p := &entities.Participant{Name: "Dana", Family: "Levi", Barcode: barcode, Phone: phone, GroupType: "youth"}
	if err := a.participants.CreateParticipant(context.Background(), p); err != nil {
		t.Fatalf("CreateParticipant: %v", err)
	}
	return p
}

func (a *testApp) event(t *testing.T, name string, date time.Time, active bool) *entities.Event {
	t.Helper()
	e := &entities.Event{Name: name, Date: date, IsActive: active}
	if err := a.events.CreateEvent(context.Background(), e); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return e
}
