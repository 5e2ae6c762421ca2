package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/postline/internal/models"
)

// State is the gate's view of the identity provider.
type State int

const (
	// Loading means the provider has not yet reported; nothing is rendered
	// and navigation decisions are blocked.
	Loading State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Gate tracks principal-change notifications from the identity provider.
// The first notification resolves Loading exactly once; later notifications
// move directly between Authenticated and Unauthenticated.
type Gate struct {
	mu        sync.Mutex
	state     State
	principal *models.Principal
	resolved  chan struct{}
	once      sync.Once
}

func NewGate() *Gate {
	return &Gate{state: Loading, resolved: make(chan struct{})}
}

// OnPrincipalChange is the notification callback to register with the
// identity provider. A nil principal means signed out.
func (g *Gate) OnPrincipalChange(p *models.Principal) {
	g.mu.Lock()
	if p != nil {
		g.state = Authenticated
		cp := *p
		g.principal = &cp
	} else {
		g.state = Unauthenticated
		g.principal = nil
	}
	g.mu.Unlock()

	g.once.Do(func() { close(g.resolved) })
}

// State returns the current state and, when authenticated, the principal.
func (g *Gate) State() (State, *models.Principal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state, g.principal
}

// Wait blocks until the gate has left Loading or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.resolved:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
