// Package session owns the per-session export artifact registries. Each
// interactive session gets its own registry; registries are never shared
// across sessions and live until the process exits with the session.
package session

import (
	"sync"

	"github.com/banguela/school-admin/internal/core/domain"
	"github.com/banguela/school-admin/internal/core/ports"
)

// Registry is the append-only, ordered artifact sequence of one session.
// No dedup, no eviction: the scope is a single interactive session.
type Registry struct {
	mu        sync.RWMutex
	artifacts []domain.ExportArtifact
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Record(artifact domain.ExportArtifact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts = append(r.artifacts, artifact)
}

func (r *Registry) ListAll() []domain.ExportArtifact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.ExportArtifact(nil), r.artifacts...)
}

func (r *Registry) Get(id string) (domain.ExportArtifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.artifacts {
		if a.ID == id {
			return a, true
		}
	}
	return domain.ExportArtifact{}, false
}

// Manager hands out session registries, creating one per session id on
// first use.
type Manager struct {
	mu         sync.Mutex
	registries map[string]*Registry
}

func NewManager() *Manager {
	return &Manager{registries: make(map[string]*Registry)}
}

func (m *Manager) Registry(sessionID string) ports.ArtifactRegistry {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.registries[sessionID]
	if !ok {
		reg = NewRegistry()
		m.registries[sessionID] = reg
	}
	return reg
}
