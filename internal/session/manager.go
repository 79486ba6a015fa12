package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/yousuf/jstrace/internal/config"
	"github.com/yousuf/jstrace/internal/sourcemap"
)

// Manager manages session contexts
type Manager struct {
	sessions map[string]*Context
	mu       sync.RWMutex
	// Source maps loaded into every new session, file name -> raw map
	preload map[string][]byte
}

// NewManager creates a new session manager, reading the source maps named in the
// configuration once.
func NewManager(cfg *config.Config) (*Manager, error) {
	preload := make(map[string][]byte, len(cfg.SourceMaps))
	var result *multierror.Error
	for fileName, path := range cfg.SourceMaps {
		data, err := os.ReadFile(path)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("source map for %q: %w", fileName, err))
			continue
		}
		preload[fileName] = data
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Manager{
		sessions: make(map[string]*Context),
		preload:  preload,
	}, nil
}

// GetOrCreateSession gets an existing session or creates a new one
func (m *Manager) GetOrCreateSession(ctx context.Context, sessionID string) (*Context, error) {
	// Try to get existing session
	m.mu.RLock()
	session, exists := m.sessions[sessionID]
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	// Create new session
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if session, exists := m.sessions[sessionID]; exists {
		return session, nil
	}

	store := sourcemap.NewStore()
	for fileName, data := range m.preload {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := store.Add(fileName, data); err != nil {
			return nil, fmt.Errorf("failed to load source maps: %w", err)
		}
	}

	session = NewContext(sessionID, store)
	m.sessions[sessionID] = session

	return session, nil
}

// PruneIdle removes sessions that have not served a request for maxIdle and
// returns how many were removed.
func (m *Manager) PruneIdle(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	pruned := 0
	for sessionID, session := range m.sessions {
		if session.LastAccessed().Before(cutoff) {
			delete(m.sessions, sessionID)
			pruned++
		}
	}
	return pruned
}

// CloseAll drops every session and returns how many there were
func (m *Manager) CloseAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.sessions)
	m.sessions = make(map[string]*Context)
	return count
}
