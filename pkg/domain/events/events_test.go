package events

import (
	"testing"
	"time"
)

func baseEvent() *Event {
	return &Event{
		ID:        "ev-1",
		Type:      TypeGatePassed,
		RunID:     "run-1",
		TicketID:  "T-1",
		State:     "intake",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Actor:     "agent",
		Details:   map[string]interface{}{"b": 2, "a": 1},
	}
}

func TestCalculateHashIsDeterministic(t *testing.T) {
	e := baseEvent()
	first := e.CalculateHash()
	for i := 0; i < 3; i++ {
		if got := e.CalculateHash(); got != first {
			t.Fatalf("hash changed between calls: %s vs %s", first, got)
		}
	}
}

func TestCalculateHashIgnoresDetailKeyOrder(t *testing.T) {
	a := baseEvent()
	b := baseEvent()
	b.Details = map[string]interface{}{"a": 1, "b": 2}

	if a.CalculateHash() != b.CalculateHash() {
		t.Error("detail key order affected the hash")
	}
}

func TestCalculateHashCoversFields(t *testing.T) {
	base := baseEvent().CalculateHash()

	mutations := []func(*Event){
		func(e *Event) { e.Type = TypeGateRetry },
		func(e *Event) { e.RunID = "run-2" },
		func(e *Event) { e.TicketID = "T-2" },
		func(e *Event) { e.State = "act" },
		func(e *Event) { e.Actor = "human" },
		func(e *Event) { e.PrevHash = "deadbeef" },
		func(e *Event) { e.Details = map[string]interface{}{"a": 2} },
	}

	for i, mutate := range mutations {
		e := baseEvent()
		mutate(e)
		if e.CalculateHash() == base {
			t.Errorf("mutation %d did not change the hash", i)
		}
	}
}
