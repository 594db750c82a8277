package editor

import (
	"github.com/google/uuid"

	"github.com/inkwell-blog/inkwell/internal/cache"
)

// Registry tracks open sessions by an opaque token handed to the client.
type Registry struct {
	sessions *cache.Cache[string, *Session]
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: cache.NewCache[string, *Session](),
	}
}

// Add registers a session and returns its token.
func (r *Registry) Add(s *Session) string {
	token := uuid.New().String()
	r.sessions.Set(token, s)
	return token
}

func (r *Registry) Get(token string) (*Session, bool) {
	return r.sessions.Get(token)
}

// Remove disposes and forgets a session. Safe to call for unknown tokens.
func (r *Registry) Remove(token string) {
	if s, ok := r.sessions.Get(token); ok {
		s.Dispose()
	}
	r.sessions.Delete(token)
}
