// Package posts implements the post repository: fetching, ordering and
// filtering post records for the feed and profile views, and issuing
// create/update/delete mutations with ownership checks at the store
// boundary.
package posts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/postline/internal/auth"
	"github.com/dmitrijs2005/postline/internal/common"
	"github.com/dmitrijs2005/postline/internal/docstore"
	"github.com/dmitrijs2005/postline/internal/models"
	"github.com/dmitrijs2005/postline/internal/session"
)

// Like record field names in the likes collection.
const (
	fieldLikePost = "postId"
	fieldLikeUser = "userId"
)

// Repository is the view-model logic for posts. Every mutation takes the
// session explicitly and re-verifies its access token instead of trusting
// the caller's principal.
type Repository struct {
	store  docstore.Store
	secret []byte
}

func NewRepository(store docstore.Store, secret []byte) *Repository {
	return &Repository{store: store, secret: secret}
}

// ListFeed fetches all posts ordered by server timestamp descending
// (newest first). A malformed record fails the whole read with
// common.ErrSchema; an unreachable store surfaces common.ErrUnavailable.
// Callers keep their prior view state on error.
func (r *Repository) ListFeed(ctx context.Context) ([]*models.Post, error) {
	docs, err := r.store.Query(ctx, common.CollectionPosts, docstore.Query{
		OrderBy: docstore.FieldServerTime,
		Desc:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	return decodePosts(docs)
}

// ListByAuthor fetches the posts of one author. No ordering guarantee
// beyond store default.
func (r *Repository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	docs, err := r.store.Query(ctx, common.CollectionPosts, docstore.Query{
		Filter: map[string]string{models.FieldAuthorID: authorID},
	})
	if err != nil {
		return nil, fmt.Errorf("fetching posts for author: %w", err)
	}
	return decodePosts(docs)
}

// Get fetches a single post by id. Fails with common.ErrNotFound if the
// record does not exist and common.ErrSchema if it is malformed.
func (r *Repository) Get(ctx context.Context, id string) (*models.Post, error) {
	rec, err := r.store.Get(ctx, common.CollectionPosts, id)
	if err != nil {
		return nil, err
	}
	return models.DecodePost(id, rec)
}

// Create validates and writes a new post, returning the store-assigned
// identifier. Title and content are trimmed first; empty or over-limit
// values fail with common.ErrValidation before any network call.
func (r *Repository) Create(ctx context.Context, sess *session.Session, title, content string) (string, error) {
	uid, err := r.authorize(sess)
	if err != nil {
		return "", err
	}

	post := &models.Post{
		Title:     strings.TrimSpace(title),
		Content:   strings.TrimSpace(content),
		AuthorID:  uid,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := post.Validate(); err != nil {
		return "", err
	}

	id, err := r.store.Add(ctx, common.CollectionPosts, models.EncodePost(post))
	if err != nil {
		return "", fmt.Errorf("creating post: %w", err)
	}
	return id, nil
}

// UpdateFields is a partial update: nil fields are left unchanged. Any new
// image must already be uploaded and resolved to a URL before calling.
type UpdateFields struct {
	Title    *string
	Content  *string
	ImageURL *string
}

// Update applies a partial update to an owned post. Fails with
// common.ErrNotFound for a missing id and common.ErrUnauthorized when the
// session user does not own the post.
func (r *Repository) Update(ctx context.Context, sess *session.Session, id string, fields UpdateFields) error {
	uid, err := r.authorize(sess)
	if err != nil {
		return err
	}

	post, err := r.getOwned(ctx, id, uid)
	if err != nil {
		return err
	}

	if fields.Title != nil {
		post.Title = strings.TrimSpace(*fields.Title)
	}
	if fields.Content != nil {
		post.Content = strings.TrimSpace(*fields.Content)
	}
	if fields.ImageURL != nil {
		post.ImageURL = *fields.ImageURL
	}
	if err := post.Validate(); err != nil {
		return err
	}

	rec := docstore.Record{}
	if fields.Title != nil {
		rec[models.FieldTitle] = post.Title
	}
	if fields.Content != nil {
		rec[models.FieldContent] = post.Content
	}
	if fields.ImageURL != nil {
		rec[models.FieldImageURL] = post.ImageURL
	}
	if len(rec) == 0 {
		return nil
	}

	if err := r.store.Update(ctx, common.CollectionPosts, id, rec); err != nil {
		return fmt.Errorf("updating post: %w", err)
	}
	return nil
}

// Delete removes an owned post. Deleting an id that is already gone fails
// with common.ErrNotFound; the operation never partially succeeds, so
// retrying a reported failure is safe.
func (r *Repository) Delete(ctx context.Context, sess *session.Session, id string) error {
	uid, err := r.authorize(sess)
	if err != nil {
		return err
	}

	if _, err := r.getOwned(ctx, id, uid); err != nil {
		return err
	}

	if err := r.store.Delete(ctx, common.CollectionPosts, id); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

// LikeCount returns the number of stored like marks for a post.
func (r *Repository) LikeCount(ctx context.Context, postID string) (int64, error) {
	n, err := r.store.Count(ctx, common.CollectionLikes, map[string]string{fieldLikePost: postID})
	if err != nil {
		return 0, fmt.Errorf("counting likes: %w", err)
	}
	return n, nil
}

// SetLiked records or removes the session user's like mark for a post.
// Setting an already-set state is a no-op.
func (r *Repository) SetLiked(ctx context.Context, sess *session.Session, postID string, liked bool) error {
	uid, err := r.authorize(sess)
	if err != nil {
		return err
	}

	filter := map[string]string{fieldLikePost: postID, fieldLikeUser: uid}
	docs, err := r.store.Query(ctx, common.CollectionLikes, docstore.Query{Filter: filter})
	if err != nil {
		return fmt.Errorf("fetching like marks: %w", err)
	}

	if liked {
		if len(docs) > 0 {
			return nil
		}
		_, err := r.store.Add(ctx, common.CollectionLikes, docstore.Record{
			fieldLikePost: postID,
			fieldLikeUser: uid,
		})
		if err != nil {
			return fmt.Errorf("recording like: %w", err)
		}
		return nil
	}

	for _, d := range docs {
		if err := r.store.Delete(ctx, common.CollectionLikes, d.ID); err != nil {
			return fmt.Errorf("removing like: %w", err)
		}
	}
	return nil
}

// authorize verifies the session token and returns the user id embedded in
// it. The token, not the principal struct, is the source of truth.
func (r *Repository) authorize(sess *session.Session) (string, error) {
	if sess == nil {
		return "", common.ErrNoSession
	}
	uid, err := auth.GetUserIDFromToken(sess.AccessToken, r.secret)
	if err != nil {
		return "", err
	}
	return uid, nil
}

// getOwned loads and decodes a post and checks that uid owns it.
func (r *Repository) getOwned(ctx context.Context, id, uid string) (*models.Post, error) {
	rec, err := r.store.Get(ctx, common.CollectionPosts, id)
	if err != nil {
		return nil, err
	}
	post, err := models.DecodePost(id, rec)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != uid {
		return nil, common.ErrUnauthorized
	}
	return post, nil
}

func decodePosts(docs []docstore.Doc) ([]*models.Post, error) {
	result := make([]*models.Post, 0, len(docs))
	for _, d := range docs {
		post, err := models.DecodePost(d.ID, d.Data)
		if err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	return result, nil
}
