// Package cli implements the interactive terminal client for postline:
// signup/login, the global feed with like toggles, publishing and editing
// posts, and the own/other-user profile listings.
//
// The command surface is a small REPL. Until the session gate has resolved
// (the identity provider reported a principal or its absence), nothing is
// rendered.
package cli
