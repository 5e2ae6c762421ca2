package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it
// with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Feed(ctx context.Context) error
	NewPost(ctx context.Context) error
	EditPost(ctx context.Context) error
	DeletePost(ctx context.Context) error
	ToggleLike(ctx context.Context) error
	MyPosts(ctx context.Context) error
	UserPosts(ctx context.Context) error
	Logout(ctx context.Context) error
}

func (a *App) getStatus() string {
	sess := a.session()
	if sess == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", sess.Principal.Email)
}

// Root starts the interactive loop on stdin.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to postline (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// runREPL is a simple read-eval-print loop for the postline CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands while signed out:
//
//	help, signup, login, exit | quit
//
// Commands while signed in:
//
//	help, feed, post, edit, delete, like, mine, user, logout, exit | quit
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pl> %s ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: feed, post, edit, delete, like, mine, user, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, exit")
			}

		case "signup":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "f", "feed", "refresh":
			_ = a.Feed(ctx)

		case "post":
			_ = a.NewPost(ctx)

		case "edit":
			_ = a.EditPost(ctx)

		case "delete":
			_ = a.DeletePost(ctx)

		case "like":
			_ = a.ToggleLike(ctx)

		case "mine":
			_ = a.MyPosts(ctx)

		case "user":
			_ = a.UserPosts(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
