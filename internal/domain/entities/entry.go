package entities

import "time"

// EntryMethod is how a participant was admitted.
type EntryMethod string

const (
	MethodBarcode EntryMethod = "barcode"
	MethodManual  EntryMethod = "manual"
)

func (m EntryMethod) Valid() bool {
	return m == MethodBarcode || m == MethodManual
}

// Entry records one participant entering one event. At most one exists per
// (ParticipantID, EventID).
type Entry struct {
	ID            string
	ParticipantID string
	EventID       string
	ScannerID     string
	EntryTime     time.Time
	Method        EntryMethod
	CreatedAt     time.Time
}

// EntryDetails is an entry with read-only projections of the records it
// references. A projection is nil when the referenced record is gone.
type EntryDetails struct {
	Entry
	Participant *Participant
	Event       *Event
	Scanner     *User
}

// EntryStatus is the answer to "has this participant entered this event?".
type EntryStatus struct {
	IsCheckedIn bool
	Entry       *EntryDetails
}

var EntrySortFields = []string{"entryTime", "method", "createdAt"}
