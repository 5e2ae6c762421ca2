package models

// Principal is the authenticated identity performing an action. Produced by
// the identity provider; read-only everywhere else.
type Principal struct {
	UID   string
	Email string
}
