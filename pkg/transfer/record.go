// Package transfer implements the capture-transfer state machine: every
// capture becomes a record that starts out transferring and is flipped to
// received exactly once after a fixed delay.
package transfer

import (
	"errors"
	"sync"
	"time"
)

// Errors returned by the store and machine.
var (
	ErrNotFound        = errors.New("transfer: record not found")
	ErrAlreadyReceived = errors.New("transfer: record already received")
	ErrStopped         = errors.New("transfer: stopped")
)

// TimeLayout renders capture timestamps for display.
const TimeLayout = "15:04:05"

// Status is the lifecycle state of a record.
type Status string

const (
	Transferring Status = "transferring"
	Received     Status = "received"
)

func (s Status) String() string { return string(s) }

// Record is one captured frame on its way to the receiver.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	TimeLabel string    `json:"time_label"`
	Image     []byte    `json:"-"`
	Status    Status    `json:"status"`
}

// Store holds records newest first.
type Store struct {
	mu      sync.RWMutex
	records []Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Prepend inserts r at the front.
func (s *Store) Prepend(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]Record{r}, s.records...)
}

// Get looks a record up by ID.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// List returns a copy of all records, newest first.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// MarkReceived flips a transferring record to received. It never reverts a
// received record and leaves every other record untouched.
func (s *Store) MarkReceived(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		if s.records[i].Status == Received {
			return s.records[i], ErrAlreadyReceived
		}
		s.records[i].Status = Received
		return s.records[i], nil
	}
	return Record{}, ErrNotFound
}

// Remove drops the record with the given ID and reports whether it was present.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every record.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}
