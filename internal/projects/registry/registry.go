package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lpworks/lp-intake-backend/internal/clock"
	"github.com/lpworks/lp-intake-backend/internal/logging"
)

var ErrSave = errors.New("failed to save project number registry")

// Entry is one assignment. Entries are only ever appended.
type Entry struct {
	ProjectID     string    `json:"project_id"`
	ProjectNumber string    `json:"project_number"`
	Year          int       `json:"year"`
	Sequence      int       `json:"sequence"`
	CreatedAt     time.Time `json:"created_at"`
}

type document struct {
	Records []Entry `json:"records"`
}

// Storage persists the whole registry at once.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Registry hands out "<year>-<seq>" project numbers, once per project id.
//
// GetOrCreate re-reads the backing store before assigning, so processes
// that take turns on one store (the API and the worker CLI) see each
// other's numbers. Truly simultaneous writers can still collide.
type Registry struct {
	mu      sync.Mutex
	storage Storage
	clock   clock.Clock
	entries []Entry
}

// New loads the registry. An unreadable or corrupt backing store is
// treated as empty so the service can still start.
func New(ctx context.Context, storage Storage, clk clock.Clock) *Registry {
	if clk == nil {
		clk = clock.Real()
	}
	r := &Registry{storage: storage, clock: clk}

	entries, err := r.load(ctx)
	if err != nil {
		logging.FromContext(ctx).LogWarnf("registry.load", "starting with empty registry: %v", err)
		return r
	}
	r.entries = entries
	return r
}

func (r *Registry) load(ctx context.Context) ([]Entry, error) {
	data, err := r.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("registry is not valid JSON: %w", err)
	}
	return doc.Records, nil
}

// refresh merges the stored entries into memory by project id. Stored
// entries win; entries only this process knows about are kept.
func (r *Registry) refresh(ctx context.Context) {
	stored, err := r.load(ctx)
	if err != nil {
		logging.FromContext(ctx).LogWarnf("registry.reload", "using in-memory registry: %v", err)
		return
	}

	seen := make(map[string]bool, len(stored))
	merged := make([]Entry, 0, len(stored)+len(r.entries))
	for _, e := range stored {
		seen[e.ProjectID] = true
		merged = append(merged, e)
	}
	for _, e := range r.entries {
		if !seen[e.ProjectID] {
			merged = append(merged, e)
		}
	}
	r.entries = merged
}

// Get returns the number assigned to projectID, if any.
func (r *Registry) Get(projectID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.find(projectID); ok {
		return e.ProjectNumber, true
	}
	return "", false
}

// GetOrCreate returns the existing number for projectID or assigns the
// next one for the current calendar year and persists the registry.
func (r *Registry) GetOrCreate(ctx context.Context, projectID string) (string, error) {
	if projectID == "" {
		return "", fmt.Errorf("project id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.refresh(ctx)
	if e, ok := r.find(projectID); ok {
		return e.ProjectNumber, nil
	}

	now := r.clock.Now()
	year := now.Year()
	seq := r.nextSequence(year)
	entry := Entry{
		ProjectID:     projectID,
		ProjectNumber: FormatNumber(year, seq),
		Year:          year,
		Sequence:      seq,
		CreatedAt:     now.UTC(),
	}

	r.entries = append(r.entries, entry)
	if err := r.persist(ctx); err != nil {
		r.entries = r.entries[:len(r.entries)-1]
		return "", err
	}

	logging.FromContext(ctx).LogInfof("registry.assign", "assigned %s to %s", entry.ProjectNumber, projectID)
	return entry.ProjectNumber, nil
}

// Export returns the registry in its persisted encoding.
func (r *Registry) Export() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.encode()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) find(projectID string) (Entry, bool) {
	for _, e := range r.entries {
		if e.ProjectID == projectID {
			return e, true
		}
	}
	return Entry{}, false
}

func (r *Registry) nextSequence(year int) int {
	max := 0
	for _, e := range r.entries {
		if e.Year == year && e.Sequence > max {
			max = e.Sequence
		}
	}
	return max + 1
}

func (r *Registry) encode() ([]byte, error) {
	records := r.entries
	if records == nil {
		records = []Entry{}
	}
	return json.MarshalIndent(document{Records: records}, "", "  ")
}

func (r *Registry) persist(ctx context.Context) error {
	data, err := r.encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	if err := r.storage.Save(ctx, data); err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	return nil
}

// FormatNumber renders a project number, zero-padding the sequence to 3 digits.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("%d-%03d", year, seq)
}
