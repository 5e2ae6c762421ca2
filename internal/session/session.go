// Package session carries the authenticated session context that is passed
// explicitly into every repository call, and the gate that decides between
// the authenticated surface and the login flow.
package session

import "github.com/dmitrijs2005/postline/internal/models"

// Session is the explicit session-context value for one signed-in user:
// the principal plus the access token the identity provider issued for it.
// Repositories verify the token themselves rather than trusting Principal.
type Session struct {
	Principal   models.Principal
	AccessToken string
}
