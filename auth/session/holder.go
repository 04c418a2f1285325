package session

import (
	"sync"
	"time"

	"github.com/goserg/clubshub/auth/users"
)

// Holder keeps the current user of one browser session.
// At most one user is held at a time.
type Holder struct {
	mu        sync.RWMutex
	user      users.User
	ok        bool
	touchedAt time.Time
}

func New() *Holder {
	return &Holder{touchedAt: time.Now()}
}

// Login replaces the held user unconditionally.
func (h *Holder) Login(user users.User) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.user = user
	h.ok = true
	h.touchedAt = time.Now()
}

func (h *Holder) Logout() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.user = users.User{}
	h.ok = false
	h.touchedAt = time.Now()
}

func (h *Holder) User() (users.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.user, h.ok
}

func (h *Holder) IsAuthenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.ok
}

// TouchedAt is the time of the last login or logout.
func (h *Holder) TouchedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.touchedAt
}
