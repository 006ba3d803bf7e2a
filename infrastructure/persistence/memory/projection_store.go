package memory

import (
	"context"
	"sync"

	"clipshelf/application/ports"
	"clipshelf/application/projections"
	"clipshelf/domain/core/valueobjects"
)

// ProjectionStore is an in-memory implementation of the read-model backend.
type ProjectionStore struct {
	mu      sync.RWMutex
	lists   map[string]*projections.ListProjection
	items   map[string]*projections.ItemProjection
	triples map[string]valueobjects.Triple
}

// NewProjectionStore creates an empty in-memory projection store
func NewProjectionStore() *ProjectionStore {
	return &ProjectionStore{
		lists:   make(map[string]*projections.ListProjection),
		items:   make(map[string]*projections.ItemProjection),
		triples: make(map[string]valueobjects.Triple),
	}
}

var _ ports.ProjectionStore = (*ProjectionStore)(nil)

// GetList returns the projection for the id, or nil when absent
func (s *ProjectionStore) GetList(ctx context.Context, id string) (*projections.ListProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.lists[id]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

// PutList inserts or replaces a list projection
func (s *ProjectionStore) PutList(ctx context.Context, record *projections.ListProjection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.lists[record.ID] = &copied
	return nil
}

// DeleteList removes a list projection
func (s *ProjectionStore) DeleteList(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.lists, id)
	return nil
}

// AllLists returns every list projection
func (s *ProjectionStore) AllLists(ctx context.Context) ([]*projections.ListProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*projections.ListProjection, 0, len(s.lists))
	for _, record := range s.lists {
		copied := *record
		result = append(result, &copied)
	}
	return result, nil
}

// GetItem returns the projection for the id, or nil when absent
func (s *ProjectionStore) GetItem(ctx context.Context, id string) (*projections.ItemProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

// GetItemByURL returns the first item projection with the given URL, or nil
func (s *ProjectionStore) GetItemByURL(ctx context.Context, url string) (*projections.ItemProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.items {
		if record.URL == url {
			copied := *record
			return &copied, nil
		}
	}
	return nil, nil
}

// PutItem inserts or replaces an item projection
func (s *ProjectionStore) PutItem(ctx context.Context, record *projections.ItemProjection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.items[record.ID] = &copied
	return nil
}

// DeleteItem removes an item projection
func (s *ProjectionStore) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}

// AllItems returns every item projection
func (s *ProjectionStore) AllItems(ctx context.Context) ([]*projections.ItemProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*projections.ItemProjection, 0, len(s.items))
	for _, record := range s.items {
		copied := *record
		result = append(result, &copied)
	}
	return result, nil
}

// PutTriple inserts a relationship fact, keyed by its natural key
func (s *ProjectionStore) PutTriple(ctx context.Context, triple valueobjects.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.triples[triple.Key()] = triple
	return nil
}

// DeleteTriple removes the fact with the given natural key
func (s *ProjectionStore) DeleteTriple(ctx context.Context, subject string, predicate valueobjects.Predicate, object string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.triples, subject+"|"+string(predicate)+"|"+object)
	return nil
}

// DeleteTriplesBySubjectPredicate removes every fact for the subject with the
// given predicate
func (s *ProjectionStore) DeleteTriplesBySubjectPredicate(ctx context.Context, subject string, predicate valueobjects.Predicate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, triple := range s.triples {
		if triple.Subject == subject && triple.Predicate == predicate {
			delete(s.triples, key)
		}
	}
	return nil
}

// TriplesBySubject returns every fact with the given subject
func (s *ProjectionStore) TriplesBySubject(ctx context.Context, subject string) ([]valueobjects.Triple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []valueobjects.Triple
	for _, triple := range s.triples {
		if triple.Subject == subject {
			result = append(result, triple)
		}
	}
	return result, nil
}

// TriplesByObject returns every fact with the given object
func (s *ProjectionStore) TriplesByObject(ctx context.Context, object string) ([]valueobjects.Triple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []valueobjects.Triple
	for _, triple := range s.triples {
		if triple.Object == object {
			result = append(result, triple)
		}
	}
	return result, nil
}

// ClearProjections wipes every read model
func (s *ProjectionStore) ClearProjections(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists = make(map[string]*projections.ListProjection)
	s.items = make(map[string]*projections.ItemProjection)
	s.triples = make(map[string]valueobjects.Triple)
	return nil
}
