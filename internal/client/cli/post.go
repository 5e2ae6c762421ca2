package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/postline/internal/blobstore"
	"github.com/dmitrijs2005/postline/internal/common"
	"github.com/dmitrijs2005/postline/internal/posts"
)

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// NewPost prompts for a title and content and publishes a new post.
// Validation failures (empty fields, over-limit lengths) are reported
// before anything is written.
func (a *App) NewPost(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}

	content, err := GetMultiline(a.reader, "Share your thoughts...", os.Stdout)
	if err != nil {
		return err
	}

	id, err := a.repo.Create(ctx, a.session(), title, content)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			printlnFn("Please fill all fields (title up to 100 chars, content up to 1000).")
		} else {
			printlnFn("Error creating post:", err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("Post created (id=%s).", id))
	return nil
}

// EditPost updates an owned post: new title and/or content (empty input
// keeps the current value) and optionally a new image. The image is
// uploaded to the blob store and resolved to a URL before the update is
// issued.
func (a *App) EditPost(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Post id", os.Stdout)
	if err != nil {
		return err
	}

	current, err := a.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No such post.")
		} else {
			printlnFn("Error loading post:", err.Error())
		}
		return err
	}

	printlnFn("Editing: " + current.Title)

	title, err := getSimpleText(a.reader, "New title (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "New content (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	imagePath, err := getSimpleText(a.reader, "Image file to attach (empty to skip)", os.Stdout)
	if err != nil {
		return err
	}

	var fields posts.UpdateFields
	if title != "" {
		fields.Title = &title
	}
	if content != "" {
		fields.Content = &content
	}

	if imagePath != "" {
		url, err := a.uploadImage(ctx, imagePath)
		if err != nil {
			printlnFn("Error uploading image:", err.Error())
			return err
		}
		fields.ImageURL = &url
	}

	if err := a.repo.Update(ctx, a.session(), id, fields); err != nil {
		printlnFn("Error updating post:", err.Error())
		return err
	}

	printlnFn("Post updated.")
	return nil
}

// DeletePost removes an owned post after confirmation.
func (a *App) DeletePost(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Post id", os.Stdout)
	if err != nil {
		return err
	}

	confirm, err := getSimpleText(a.reader, "Are you sure you want to delete this post? (y/N)", os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "y" && confirm != "Y" {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.repo.Delete(ctx, a.session(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No such post.")
		} else {
			printlnFn("Error deleting post:", err.Error())
		}
		return err
	}

	printlnFn("Post deleted.")
	return nil
}

func (a *App) uploadImage(ctx context.Context, path string) (string, error) {
	data, err := readFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpload, err)
	}

	key, err := a.blobs.Upload(ctx, blobstore.RandomImageKey(), data)
	if err != nil {
		return "", err
	}

	return a.blobs.DownloadURL(ctx, key)
}
