package mint

import "sync"

// Guard makes the one-run-per-session assumption explicit: a second
// concurrent run presenting the same token is rejected rather than queued.
type Guard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{active: make(map[string]struct{})}
}

// Acquire claims the token for the duration of one run, failing with
// ErrMintInProgress if it is already held.
func (g *Guard) Acquire(token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.active[token]; ok {
		return ErrMintInProgress
	}
	g.active[token] = struct{}{}
	return nil
}

// Release frees the token. Releasing an unheld token is a no-op.
func (g *Guard) Release(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, token)
}
