package events

// Store provides persistence for workflow audit events. Implementations
// are append-only: no record is ever edited or deleted.
type Store interface {
	// Append adds a new event to the store, chaining it to the previous event.
	Append(event *Event) error

	// LoadAll returns all events in chronological order.
	LoadAll() ([]*Event, error)

	// LoadByRun returns events recorded for a specific run.
	LoadByRun(runID string) ([]*Event, error)

	// GetLastEvent returns the most recent event (for hash chaining).
	GetLastEvent() (*Event, error)

	// Count returns the total number of events.
	Count() (int, error)

	// VerifyIntegrity checks the hash chain and returns any violations.
	VerifyIntegrity() ([]string, error)
}
