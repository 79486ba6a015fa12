package session

import (
	"sync"
	"time"

	"github.com/yousuf/jstrace/internal/sourcemap"
)

// Context represents a session context with its associated resources
type Context struct {
	SessionID  string
	SourceMaps *sourcemap.Store

	mu           sync.Mutex
	lastAccessed time.Time
}

// NewContext creates a new session context
func NewContext(sessionID string, store *sourcemap.Store) *Context {
	return &Context{
		SessionID:    sessionID,
		SourceMaps:   store,
		lastAccessed: time.Now(),
	}
}

// UpdateLastAccessed records that the session served a request
func (c *Context) UpdateLastAccessed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAccessed = time.Now()
}

// LastAccessed returns when the session last served a request
func (c *Context) LastAccessed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAccessed
}
