package cli

import (
	"context"
	"fmt"
	"os"
)

// MyPosts lists the current user's posts.
func (a *App) MyPosts(ctx context.Context) error {
	sess := a.session()
	if sess == nil {
		printlnFn("Not logged in.")
		return nil
	}

	list, err := a.repo.ListByAuthor(ctx, sess.Principal.UID)
	if err != nil {
		printlnFn("Error loading posts:", err.Error())
		return err
	}

	if len(list) == 0 {
		printlnFn("You have no posts yet.")
		return nil
	}

	printlnFn(fmt.Sprintf("Your posts (%d):", len(list)))
	for _, p := range list {
		a.renderPost(p)
	}
	return nil
}

// UserPosts lists another user's posts by their id.
func (a *App) UserPosts(ctx context.Context) error {
	uid, err := getSimpleText(a.reader, "User id", os.Stdout)
	if err != nil {
		return err
	}

	list, err := a.repo.ListByAuthor(ctx, uid)
	if err != nil {
		printlnFn("Error loading posts:", err.Error())
		return err
	}

	if len(list) == 0 {
		printlnFn("This user has no posts.")
		return nil
	}

	printlnFn(fmt.Sprintf("Posts by @%s (%d):", shortUID(uid), len(list)))
	for _, p := range list {
		a.renderPost(p)
	}
	return nil
}
