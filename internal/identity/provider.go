// Package identity models the remote identity collaborator: it issues a
// session principal for email/password credentials and raises change
// notifications, the way the mobile auth SDKs do.
package identity

import (
	"context"

	"github.com/dmitrijs2005/postline/internal/models"
	"github.com/dmitrijs2005/postline/internal/session"
)

// Provider is the identity contract consumed by the session gate and the
// login flow.
//
// Subscribe registers a principal-change callback and fires it immediately
// with the current principal (nil when signed out), so a late subscriber
// still observes the current state. The returned function removes the
// subscription.
type Provider interface {
	SignUp(ctx context.Context, email string, password []byte) (*session.Session, error)
	SignIn(ctx context.Context, email string, password []byte) (*session.Session, error)
	SignOut(ctx context.Context) error
	Current() *session.Session
	Subscribe(fn func(*models.Principal)) (unsubscribe func())
}
