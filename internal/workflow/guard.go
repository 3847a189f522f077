package workflow

import "sync"

// InflightGuard tracks outstanding destructive submissions keyed by
// reservation ID so a second click while the first request is in flight is a
// no-op. It is a UI-layer guard only; the upstream still rejects duplicates
// on its side.
type InflightGuard struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewInflightGuard builds an empty guard.
func NewInflightGuard() *InflightGuard {
	return &InflightGuard{ids: make(map[string]struct{})}
}

// Begin marks the ID as in flight. It returns false when a submission for
// the same ID is already outstanding.
func (g *InflightGuard) Begin(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.ids[id]; exists {
		return false
	}
	g.ids[id] = struct{}{}
	return true
}

// End releases the ID after the submission resolves.
func (g *InflightGuard) End(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.ids, id)
}
