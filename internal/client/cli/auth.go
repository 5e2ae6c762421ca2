package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/postline/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts the user for an email and password and attempts to create
// a new account via the identity provider. A successful signup also signs
// the user in. The password byte slice is wiped before returning.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.provider.SignUp(ctx, email, password); err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			printlnFn("That email is already registered.")
			return err
		}
		printlnFn("Signup failed:", err.Error())
		return err
	}

	printlnFn("Welcome aboard!")
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
// On success the session gate flips to Authenticated and the feed commands
// become available. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.provider.SignIn(ctx, email, password); err != nil {
		if errors.Is(err, common.ErrAuth) {
			printlnFn("Wrong email or password.")
		} else {
			printlnFn("Login failed:", err.Error())
		}
		return err
	}

	printlnFn("Logged in.")
	return nil
}

// Logout signs the current user out and discards the per-session view
// state, including local like marks.
func (a *App) Logout(ctx context.Context) error {
	if err := a.provider.SignOut(ctx); err != nil {
		return err
	}
	a.feed.teardown()
	a.feed = newFeedView()
	printlnFn("Logged out.")
	return nil
}
