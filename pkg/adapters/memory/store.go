package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/iaee/pkg/domain"
)

// Store implements ports.ReportStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Report
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Report),
	}
}

// copyReport isolates stored reports from caller mutation of the maps.
func copyReport(r *domain.Report) *domain.Report {
	c := *r
	if r.Results != nil {
		c.Results = make(domain.Results, len(r.Results))
		for k, v := range r.Results {
			c.Results[k] = v
		}
	}
	if r.Comments != nil {
		c.Comments = make(domain.Comments, len(r.Comments))
		for k, v := range r.Comments {
			c.Comments[k] = v
		}
	}
	return &c
}

// Save persists the report in memory.
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	copied := copyReport(report)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[report.ID] = copied
	return nil
}

// Load retrieves the report from memory.
func (s *Store) Load(ctx context.Context, reportID string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.data[reportID]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return copyReport(report), nil
}

// Delete removes the report.
func (s *Store) Delete(ctx context.Context, reportID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, reportID)
	return nil
}

// List returns stored report IDs, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.data[ids[i]], s.data[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return ids[i] < ids[j]
	})
	return ids, nil
}
