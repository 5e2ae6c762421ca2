// Package models defines the typed shapes this client imposes on the
// schema-free records of the document store, together with the validating
// decode step at the store boundary.
package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/postline/internal/common"
	"github.com/dmitrijs2005/postline/internal/docstore"
)

// Record field names for posts. They follow the conventions of the posts
// collection; nothing enforces them server-side.
const (
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldAuthorID  = "userId"
	FieldCreatedAt = "createdAt"
	FieldImageURL  = "imageUrl"
)

// Post is one published post.
//
// CreatedAt is the client-captured ISO-8601 timestamp string; ServerTime is
// the store-assigned ordering timestamp. ImageURL is optional and set only
// through the edit flow.
type Post struct {
	ID         string
	Title      string `validate:"required,max=100"`
	Content    string `validate:"required,max=1000"`
	AuthorID   string `validate:"required"`
	CreatedAt  string
	ServerTime time.Time
	ImageURL   string
}

var validate = validator.New()

// Validate checks the writable fields against their limits. Returns an
// error wrapping common.ErrValidation so callers can match it.
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

// EncodePost lays a post out as a store record. The server timestamp is not
// included: the store assigns it.
func EncodePost(p *Post) docstore.Record {
	rec := docstore.Record{
		FieldTitle:     p.Title,
		FieldContent:   p.Content,
		FieldAuthorID:  p.AuthorID,
		FieldCreatedAt: p.CreatedAt,
	}
	if p.ImageURL != "" {
		rec[FieldImageURL] = p.ImageURL
	}
	return rec
}

// DecodePost validates and converts a raw record into a Post. Malformed
// records (missing or mistyped fields) surface common.ErrSchema instead of
// being passed through silently.
func DecodePost(id string, rec docstore.Record) (*Post, error) {
	title, err := stringField(rec, FieldTitle)
	if err != nil {
		return nil, err
	}
	content, err := stringField(rec, FieldContent)
	if err != nil {
		return nil, err
	}
	authorID, err := stringField(rec, FieldAuthorID)
	if err != nil {
		return nil, err
	}
	createdAt, err := stringField(rec, FieldCreatedAt)
	if err != nil {
		return nil, err
	}

	serverTime, ok := rec[docstore.FieldServerTime].(time.Time)
	if !ok {
		return nil, fmt.Errorf("%w: field %q", common.ErrSchema, docstore.FieldServerTime)
	}

	p := &Post{
		ID:         id,
		Title:      title,
		Content:    content,
		AuthorID:   authorID,
		CreatedAt:  createdAt,
		ServerTime: serverTime,
	}

	// imageUrl is optional, but when present it must be a string
	if raw, ok := rec[FieldImageURL]; ok {
		url, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %q", common.ErrSchema, FieldImageURL)
		}
		p.ImageURL = url
	}

	return p, nil
}

func stringField(rec docstore.Record, name string) (string, error) {
	v, ok := rec[name].(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q", common.ErrSchema, name)
	}
	return v, nil
}
