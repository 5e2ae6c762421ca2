package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/postline/internal/common"
	"github.com/dmitrijs2005/postline/internal/docstore"
	"github.com/dmitrijs2005/postline/internal/models"
)

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	orig := printlnFn
	t.Cleanup(func() { printlnFn = orig })

	var lines []string
	printlnFn = func(args ...any) (int, error) {
		lines = append(lines, strings.TrimRight(fmt.Sprintln(args...), "\n"))
		return 0, nil
	}
	return &lines
}

func TestFeedView_ApplyAfterTeardownDropped(t *testing.T) {
	v := newFeedView()

	v.apply([]*models.Post{{ID: "p1"}}, map[string]int64{"p1": 1})
	require.Len(t, v.posts, 1)

	v.teardown()
	v.apply([]*models.Post{{ID: "p2"}}, nil)

	assert.Len(t, v.posts, 1)
	assert.Equal(t, "p1", v.posts[0].ID)
}

func TestFeedView_LastResponseWins(t *testing.T) {
	v := newFeedView()

	v.apply([]*models.Post{{ID: "stale"}}, nil)
	v.apply([]*models.Post{{ID: "fresh"}}, nil)

	require.Len(t, v.posts, 1)
	assert.Equal(t, "fresh", v.posts[0].ID)
}

func TestApp_Feed_RendersNewestFirst(t *testing.T) {
	silencePrintln(t)
	a := newTestApp(t)
	ctx := context.Background()

	stubPrompts(t, "alice@example.com", []byte("password"))
	require.NoError(t, a.Signup(ctx))

	_, err := a.repo.Create(ctx, a.session(), "older", "first body")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = a.repo.Create(ctx, a.session(), "newer", "second body")
	require.NoError(t, err)

	lines := capturePrintln(t)
	require.NoError(t, a.Feed(ctx))

	out := strings.Join(*lines, "\n")
	newerIdx := strings.Index(out, "newer")
	olderIdx := strings.Index(out, "older")
	require.GreaterOrEqual(t, newerIdx, 0)
	require.GreaterOrEqual(t, olderIdx, 0)
	assert.Less(t, newerIdx, olderIdx)
}

func TestApp_Feed_ErrorKeepsPriorView(t *testing.T) {
	silencePrintln(t)
	a := newTestApp(t)
	ctx := context.Background()

	stubPrompts(t, "alice@example.com", []byte("password"))
	require.NoError(t, a.Signup(ctx))

	_, err := a.repo.Create(ctx, a.session(), "keep me", "body")
	require.NoError(t, err)
	require.NoError(t, a.Feed(ctx))

	// a record the feed can no longer decode
	_, err = a.store.Add(ctx, common.CollectionPosts, docstore.Record{
		"title": 42, "content": "x", "userId": "u", "createdAt": "now",
	})
	require.NoError(t, err)

	lines := capturePrintln(t)
	err = a.Feed(ctx)
	assert.ErrorIs(t, err, common.ErrSchema)

	out := strings.Join(*lines, "\n")
	assert.Contains(t, out, "keep me")
}

func TestApp_Feed_Empty(t *testing.T) {
	a := newTestApp(t)

	lines := capturePrintln(t)
	require.NoError(t, a.Feed(context.Background()))
	assert.Contains(t, strings.Join(*lines, "\n"), "No posts yet.")
}

func TestApp_ToggleLike(t *testing.T) {
	silencePrintln(t)
	a := newTestApp(t)
	ctx := context.Background()

	stubPrompts(t, "alice@example.com", []byte("password"))
	require.NoError(t, a.Signup(ctx))

	id, err := a.repo.Create(ctx, a.session(), "title", "body")
	require.NoError(t, err)

	origText := getSimpleText
	t.Cleanup(func() { getSimpleText = origText })
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		return id, nil
	}

	require.NoError(t, a.ToggleLike(ctx))
	assert.True(t, a.feed.likes.Liked(id))

	n, err := a.repo.LikeCount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, a.ToggleLike(ctx))
	assert.False(t, a.feed.likes.Liked(id))

	n, err = a.repo.LikeCount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
