package orchestrator

import (
	"sort"
	stdsync "sync"

	"github.com/adbridge/adbridge/internal/backend"
	"github.com/adbridge/adbridge/internal/sync"
)

// Store holds the two pieces of state shared between the connect flow and
// the poller: the cached integration list and the per-integration progress
// map. Writes are last-writer-wins per integration id; reads hand out
// copies, never live references.
type Store struct {
	mu           stdsync.RWMutex
	integrations map[string]backend.Integration
	progress     map[string]sync.Progress
}

func NewStore() *Store {
	return &Store{
		integrations: make(map[string]backend.Integration),
		progress:     make(map[string]sync.Progress),
	}
}

// SetIntegrations replaces the whole cached list (initial load).
func (s *Store) SetIntegrations(list []backend.Integration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.integrations = make(map[string]backend.Integration, len(list))
	for _, integration := range list {
		s.integrations[integration.ID] = integration
	}
}

// ReplaceIntegration upserts one record, superseding whatever was there.
func (s *Store) ReplaceIntegration(integration backend.Integration) {
	if integration.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.integrations[integration.ID] = integration
}

// RemoveIntegration drops the record and any progress for id.
func (s *Store) RemoveIntegration(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.integrations, id)
	delete(s.progress, id)
}

// Integrations returns a snapshot sorted by provider then name.
func (s *Store) Integrations() []backend.Integration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]backend.Integration, 0, len(s.integrations))
	for _, integration := range s.integrations {
		out = append(out, integration)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// LastProgress returns the last-known progress snapshot for id.
func (s *Store) LastProgress(id string) (sync.Progress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[id]
	return p, ok
}

// SetProgress stores a full progress snapshot for id. Unknown ids are kept
// too: the startup poll can observe a sync started by another session
// before the integration list has loaded.
func (s *Store) SetProgress(id string, p sync.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[id] = p
}

// DropProgress removes the progress snapshot for id.
func (s *Store) DropProgress(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.progress, id)
}
