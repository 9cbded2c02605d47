// Package events defines the append-only audit events recorded for every
// workflow call.
package events

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"
)

// Event types recorded by the workflow engine.
const (
	TypeTicketReceived = "ticket_received"
	TypeGatePassed     = "gate_passed"
	TypeGateRetry      = "gate_retry"
	TypeGateStopped    = "gate_stopped"
	TypeTransition     = "transition"
)

// Event is one record in the run audit log. Events form a hash chain so
// tampering with the log is detectable.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	RunID     string                 `json:"run_id"`
	TicketID  string                 `json:"ticket_id,omitempty"`
	State     string                 `json:"state,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Actor     string                 `json:"actor,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	PrevHash  string                 `json:"prev_hash,omitempty"`
	Hash      string                 `json:"hash,omitempty"`
}

// CalculateHash generates a deterministic SHA256 hash of the event.
func (e *Event) CalculateHash() string {
	h := sha256.New()
	h.Write([]byte(e.PrevHash))
	h.Write([]byte(e.ID))
	h.Write([]byte(e.Timestamp.Format(time.RFC3339Nano)))
	h.Write([]byte(e.Type))
	h.Write([]byte(e.RunID))
	h.Write([]byte(e.TicketID))
	h.Write([]byte(e.State))
	h.Write([]byte(e.Actor))
	h.Write([]byte(canonicalJSON(e.Details)))
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalJSON produces a deterministic JSON representation.
func canonicalJSON(m map[string]interface{}) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make([]byte, 0, 256)
	ordered = append(ordered, '{')
	for i, k := range keys {
		if i > 0 {
			ordered = append(ordered, ',')
		}
		keyJSON, _ := json.Marshal(k)
		valJSON, _ := json.Marshal(m[k])
		ordered = append(ordered, keyJSON...)
		ordered = append(ordered, ':')
		ordered = append(ordered, valJSON...)
	}
	ordered = append(ordered, '}')
	return string(ordered)
}
