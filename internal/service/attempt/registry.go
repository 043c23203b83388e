package attempt

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yourusername/examine-api/internal/pkg/errors"
)

// Registry хранит сессии по идентификатору.
// Сессии живут только в памяти процесса.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	clock    Clock
}

// NewRegistry создает пустой реестр. clock == nil означает time.Now.
func NewRegistry(clock Clock) *Registry {
	if clock == nil {
		clock = time.Now
	}
	return &Registry{
		sessions: make(map[string]*Session),
		clock:    clock,
	}
}

// Create создает новую сессию с UUID-идентификатором
func (r *Registry) Create() *Session {
	s := NewSession(uuid.NewString(), r.clock)

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	log.Printf("[Registry] Сессия %s создана", s.ID())
	return s
}

// Get возвращает сессию или ErrNotFound
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %q", apperrors.ErrNotFound, id)
	}
	return s, nil
}

// Delete удаляет сессию вместе с ее попыткой
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: session %q", apperrors.ErrNotFound, id)
	}
	delete(r.sessions, id)
	log.Printf("[Registry] Сессия %s удалена", id)
	return nil
}

// Sweep удаляет сессии, неактивные дольше maxIdle, и возвращает их число
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.clock().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[Registry] Удалено %d неактивных сессий, осталось %d", removed, len(r.sessions))
	}
	return removed
}

// Len возвращает число активных сессий
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
