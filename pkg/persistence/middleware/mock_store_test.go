package middleware_test

import (
	"context"
	"sort"

	"github.com/aretw0/iaee/pkg/domain"
)

// MockStore is a simple map-based store for testing middleware.
// It keeps the pointers it is given so tests can inspect what was stored.
type MockStore struct {
	data map[string]*domain.Report
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Report),
	}
}

func (s *MockStore) Save(ctx context.Context, report *domain.Report) error {
	s.data[report.ID] = report
	return nil
}

func (s *MockStore) Load(ctx context.Context, reportID string) (*domain.Report, error) {
	report, ok := s.data[reportID]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return report, nil
}

func (s *MockStore) Delete(ctx context.Context, reportID string) error {
	delete(s.data, reportID)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
