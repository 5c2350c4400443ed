package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bookwise/booking-widget/internal/validate"
)

// ErrNotFound is returned when a booking record does not exist.
var ErrNotFound = errors.New("booking: not found")

// Record is a confirmed booking. Records live for the process lifetime only;
// durable persistence is out of scope for the widget.
type Record struct {
	ID           string          `json:"id"`
	Contact      validate.Fields `json:"contact"`
	SlotStart    time.Time       `json:"slot_start"`
	SessionToken string          `json:"session_token"`
	ProviderRef  string          `json:"provider_ref"`
	ConfirmedAt  time.Time       `json:"confirmed_at"`
}

// Repository stores confirmed bookings.
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
}

// InMemoryRepository is a thread-safe in-memory store.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string]*Record),
	}
}

// Create stores a record, assigning an ID when absent.
func (r *InMemoryRepository) Create(_ context.Context, record *Record) error {
	if record == nil {
		return errors.New("booking: nil record")
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *record
	r.records[record.ID] = &stored
	return nil
}

// GetByID returns the record with the given ID.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *record
	return &out, nil
}

// List returns all records ordered by confirmation time.
func (r *InMemoryRepository) List(_ context.Context) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Record, 0, len(r.records))
	for _, record := range r.records {
		copied := *record
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ConfirmedAt.Before(out[j].ConfirmedAt)
	})
	return out, nil
}
