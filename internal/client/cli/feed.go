package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/postline/internal/models"
	"github.com/dmitrijs2005/postline/internal/posts"
)

// feedView holds the rendered state of the feed screen: the last
// successfully fetched posts, the store-backed like counts and the
// session-local like marks. A failed refresh leaves all of it untouched.
type feedView struct {
	posts  []*models.Post
	likes  *posts.LikeSet
	counts map[string]int64
	closed bool
}

func newFeedView() *feedView {
	return &feedView{likes: posts.NewLikeSet(), counts: make(map[string]int64)}
}

// apply replaces the view state with a fresh fetch result. Results arriving
// after teardown are dropped; with overlapping refreshes the last response
// to resolve wins.
func (v *feedView) apply(list []*models.Post, counts map[string]int64) {
	if v.closed {
		return
	}
	v.posts = list
	v.counts = counts
}

func (v *feedView) teardown() {
	v.closed = true
}

// Feed refreshes and renders the global feed, newest first. On a fetch
// error the previously rendered posts stay on screen.
func (a *App) Feed(ctx context.Context) error {
	list, err := a.repo.ListFeed(ctx)
	if err != nil {
		a.logger.Error(ctx, "feed refresh failed", "err", err.Error())
		printlnFn("Error loading posts:", err.Error())
		a.renderFeed()
		return err
	}

	counts := make(map[string]int64, len(list))
	for _, p := range list {
		n, err := a.repo.LikeCount(ctx, p.ID)
		if err != nil {
			a.logger.Warn(ctx, "like count unavailable", "post", p.ID, "err", err.Error())
			continue
		}
		counts[p.ID] = n
	}

	a.feed.apply(list, counts)
	a.renderFeed()
	return nil
}

func (a *App) renderFeed() {
	if len(a.feed.posts) == 0 {
		printlnFn("No posts yet.")
		return
	}
	for _, p := range a.feed.posts {
		a.renderPost(p)
	}
}

func (a *App) renderPost(p *models.Post) {
	likeMark := ""
	if a.feed.likes.Liked(p.ID) {
		likeMark = " ♥"
	}
	printlnFn(fmt.Sprintf("[%s] @%s  %s", p.ID, shortUID(p.AuthorID), formatCreatedAt(p.CreatedAt)))
	printlnFn("  " + p.Title)
	printlnFn("  " + p.Content)
	if p.ImageURL != "" {
		printlnFn("  image: " + p.ImageURL)
	}
	printlnFn(fmt.Sprintf("  %d likes%s", a.feed.counts[p.ID], likeMark))
}

// ToggleLike flips the session-local like mark for a post and records the
// new state in the store. The local mark flips regardless; a failed remote
// write is reported and can be retried by toggling again.
func (a *App) ToggleLike(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Post id", os.Stdout)
	if err != nil {
		return err
	}

	liked := a.feed.likes.Toggle(id)

	if err := a.repo.SetLiked(ctx, a.session(), id, liked); err != nil {
		printlnFn("Error saving like:", err.Error())
		return err
	}

	if liked {
		printlnFn("Liked.")
	} else {
		printlnFn("Unliked.")
	}
	return nil
}

func shortUID(uid string) string {
	if len(uid) > 6 {
		return uid[:6]
	}
	return uid
}

func formatCreatedAt(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return t.Local().Format("2006-01-02 15:04")
}
