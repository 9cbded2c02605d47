package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/interlock/pkg/domain/ticket"
)

// ErrTicketNotFound is returned when no snapshot exists for a ticket id.
var ErrTicketNotFound = errors.New("ticket not found")

// ticketRecord is one appended snapshot line.
type ticketRecord struct {
	ticket.Ticket
	SavedAt time.Time `json:"saved_at"`
}

// FileTicketStore keeps full ticket snapshots in an append-only JSON Lines
// file. The latest snapshot for an id is the last matching line.
type FileTicketStore struct {
	mu          sync.RWMutex
	path        string
	basePath    string
	retryConfig retry.Config
}

// NewFileTicketStore creates a new file-backed ticket store. The basePath
// directory is created on first write, not at construction time.
func NewFileTicketStore(basePath string) *FileTicketStore {
	return &FileTicketStore{
		path:     filepath.Join(basePath, TicketsFile),
		basePath: basePath,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// SaveTicket appends a snapshot of the ticket, tagged with the save time.
// Each snapshot is written as a single line so concurrent appends cannot
// interleave within a record.
func (s *FileTicketStore) SaveTicket(t *ticket.Ticket) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.basePath, 0700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	record := ticketRecord{Ticket: *t, SavedAt: time.Now()}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open tickets file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close tickets file: %w", cerr)
		}
	}()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write ticket: %w", err)
	}
	return nil
}

// GetTicket returns the most recent snapshot for a ticket id.
func (s *FileTicketStore) GetTicket(ticketID string) (*ticket.Ticket, error) {
	retryer := retry.New[*ticket.Ticket](s.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) (*ticket.Ticket, error) {
		history, err := s.LoadTicketHistory(ticketID)
		if err != nil {
			return nil, err
		}
		if len(history) == 0 {
			return nil, ErrTicketNotFound
		}
		return history[len(history)-1], nil
	})
}

// LoadTicketHistory returns all snapshots for a ticket id in append order.
func (s *FileTicketStore) LoadTicketHistory(ticketID string) ([]*ticket.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open tickets file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	var result []*ticket.Ticket
	scanner := bufio.NewScanner(f)

	// Increase buffer size for large tickets
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record ticketRecord
		if err := json.Unmarshal(line, &record); err != nil {
			// Skip unreadable lines; the log is append-only and a torn
			// trailing line must not hide earlier snapshots.
			continue
		}
		if record.TicketID != ticketID {
			continue
		}
		snapshot := record.Ticket
		result = append(result, &snapshot)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan tickets: %w", err)
	}

	return result, nil
}
