package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/postline/internal/common"
)

// stubTextQueue makes getSimpleText return the given answers in order.
func stubTextQueue(t *testing.T, answers ...string) {
	t.Helper()
	orig := getSimpleText
	t.Cleanup(func() { getSimpleText = orig })

	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			t.Fatalf("unexpected prompt, answers exhausted")
		}
		a := answers[i]
		i++
		return a, nil
	}
}

type fakeBlobStore struct {
	uploaded map[string][]byte
	failPut  bool
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, data []byte) (string, error) {
	if f.failPut {
		return "", common.ErrUpload
	}
	if f.uploaded == nil {
		f.uploaded = make(map[string][]byte)
	}
	f.uploaded[key] = data
	return key, nil
}

func (f *fakeBlobStore) DownloadURL(ctx context.Context, key string) (string, error) {
	return "https://blobs.example/" + key, nil
}

func signedUpApp(t *testing.T) *App {
	t.Helper()
	a := newTestApp(t)
	stubPrompts(t, "alice@example.com", []byte("password"))
	require.NoError(t, a.Signup(context.Background()))
	return a
}

func TestApp_NewPost(t *testing.T) {
	silencePrintln(t)
	a := signedUpApp(t)
	ctx := context.Background()

	stubTextQueue(t, "my title")
	a.reader = rdr("first line\nsecond line\n\n")

	require.NoError(t, a.NewPost(ctx))

	list, err := a.repo.ListFeed(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "my title", list[0].Title)
	assert.Equal(t, "first line\nsecond line", list[0].Content)
}

func TestApp_NewPost_ValidationError(t *testing.T) {
	silencePrintln(t)
	a := signedUpApp(t)
	ctx := context.Background()

	stubTextQueue(t, "")
	a.reader = rdr("\n")

	err := a.NewPost(ctx)
	assert.ErrorIs(t, err, common.ErrValidation)

	list, err := a.repo.ListFeed(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestApp_EditPost(t *testing.T) {
	silencePrintln(t)
	a := signedUpApp(t)
	ctx := context.Background()

	id, err := a.repo.Create(ctx, a.session(), "old title", "old body")
	require.NoError(t, err)

	t.Run("title only, empty keeps the rest", func(t *testing.T) {
		stubTextQueue(t, id, "new title", "")
		a.reader = rdr("\n")

		require.NoError(t, a.EditPost(ctx))

		p, err := a.repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "new title", p.Title)
		assert.Equal(t, "old body", p.Content)
	})

	t.Run("attach image", func(t *testing.T) {
		origRead := readFile
		t.Cleanup(func() { readFile = origRead })
		readFile = func(string) ([]byte, error) { return []byte("imgdata"), nil }

		blobs := &fakeBlobStore{}
		a.blobs = blobs

		stubTextQueue(t, id, "", "photo.png")
		a.reader = rdr("\n")

		require.NoError(t, a.EditPost(ctx))

		p, err := a.repo.Get(ctx, id)
		require.NoError(t, err)
		require.NotEmpty(t, p.ImageURL)
		assert.True(t, strings.HasPrefix(p.ImageURL, "https://blobs.example/images/"))
		assert.Len(t, blobs.uploaded, 1)
	})

	t.Run("upload failure leaves post untouched", func(t *testing.T) {
		origRead := readFile
		t.Cleanup(func() { readFile = origRead })
		readFile = func(string) ([]byte, error) { return []byte("imgdata"), nil }

		a.blobs = &fakeBlobStore{failPut: true}

		before, err := a.repo.Get(ctx, id)
		require.NoError(t, err)

		stubTextQueue(t, id, "", "photo.png")
		a.reader = rdr("\n")

		err = a.EditPost(ctx)
		assert.ErrorIs(t, err, common.ErrUpload)

		after, err := a.repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("missing post", func(t *testing.T) {
		stubTextQueue(t, "nope")

		err := a.EditPost(ctx)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestApp_DeletePost(t *testing.T) {
	silencePrintln(t)
	a := signedUpApp(t)
	ctx := context.Background()

	t.Run("confirmed", func(t *testing.T) {
		id, err := a.repo.Create(ctx, a.session(), "title", "body")
		require.NoError(t, err)

		stubTextQueue(t, id, "y")
		require.NoError(t, a.DeletePost(ctx))

		_, err = a.repo.Get(ctx, id)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("declined", func(t *testing.T) {
		id, err := a.repo.Create(ctx, a.session(), "title", "body")
		require.NoError(t, err)

		stubTextQueue(t, id, "n")
		require.NoError(t, a.DeletePost(ctx))

		_, err = a.repo.Get(ctx, id)
		assert.NoError(t, err)
	})
}
