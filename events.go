package linereader

import (
	"sync"

	"github.com/google/uuid"
)

type subscription[H any] struct {
	id uuid.UUID
	h  H
}

// registry keeps handlers in registration order.
type registry[H any] struct {
	mu   sync.Mutex
	subs []subscription[H]
}

func (g *registry[H]) add(h H) func() {
	id := uuid.New()

	g.mu.Lock()
	g.subs = append(g.subs, subscription[H]{id: id, h: h})
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		for i, s := range g.subs {
			if s.id == id {
				g.subs = append(g.subs[:i:i], g.subs[i+1:]...)
				return
			}
		}
	}
}

func (g *registry[H]) snapshot() []H {
	g.mu.Lock()
	defer g.mu.Unlock()
	hs := make([]H, len(g.subs))
	for i, s := range g.subs {
		hs[i] = s.h
	}
	return hs
}
