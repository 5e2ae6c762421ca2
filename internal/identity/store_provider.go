package identity

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/postline/internal/auth"
	"github.com/dmitrijs2005/postline/internal/common"
	"github.com/dmitrijs2005/postline/internal/cryptox"
	"github.com/dmitrijs2005/postline/internal/docstore"
	"github.com/dmitrijs2005/postline/internal/models"
	"github.com/dmitrijs2005/postline/internal/session"
)

// User record field names in the users collection. Salt and verifier are
// hex-encoded so they survive every backend's round trip unchanged.
const (
	fieldEmail     = "email"
	fieldSalt      = "salt"
	fieldVerifier  = "verifier"
	fieldCreatedAt = "createdAt"
)

// StoreProvider implements Provider against the users collection of the
// document store. Credentials follow the salt/verifier scheme from cryptox;
// the password itself is never stored. Session tokens are HS256 JWTs.
type StoreProvider struct {
	store         docstore.Store
	secret        []byte
	tokenValidity time.Duration

	mu      sync.Mutex
	current *session.Session
	subs    map[int]func(*models.Principal)
	nextSub int
}

// NewStoreProvider builds a provider over store, signing session tokens
// with secret for tokenValidity.
func NewStoreProvider(store docstore.Store, secret []byte, tokenValidity time.Duration) *StoreProvider {
	return &StoreProvider{
		store:         store,
		secret:        secret,
		tokenValidity: tokenValidity,
		subs:          make(map[int]func(*models.Principal)),
	}
}

func (p *StoreProvider) SignUp(ctx context.Context, email string, password []byte) (*session.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	existing, err := p.store.Query(ctx, common.CollectionUsers, docstore.Query{
		Filter: map[string]string{fieldEmail: email},
	})
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if len(existing) > 0 {
		return nil, common.ErrEmailTaken
	}

	salt := cryptox.NewSalt()
	verifier := cryptox.MakeVerifier(cryptox.DeriveKey(password, salt))

	uid, err := p.store.Add(ctx, common.CollectionUsers, docstore.Record{
		fieldEmail:     email,
		fieldSalt:      hex.EncodeToString(salt),
		fieldVerifier:  hex.EncodeToString(verifier),
		fieldCreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return p.establishSession(uid, email)
}

func (p *StoreProvider) SignIn(ctx context.Context, email string, password []byte) (*session.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	docs, err := p.store.Query(ctx, common.CollectionUsers, docstore.Query{
		Filter: map[string]string{fieldEmail: email},
	})
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if len(docs) == 0 {
		return nil, common.ErrAuth
	}

	doc := docs[0]
	salt, err := hexField(doc.Data, fieldSalt)
	if err != nil {
		return nil, err
	}
	verifier, err := hexField(doc.Data, fieldVerifier)
	if err != nil {
		return nil, err
	}

	candidate := cryptox.MakeVerifier(cryptox.DeriveKey(password, salt))
	if !cryptox.CheckVerifier(verifier, candidate) {
		return nil, common.ErrAuth
	}

	return p.establishSession(doc.ID, email)
}

func (p *StoreProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	subs := p.snapshotSubs()
	p.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
	return nil
}

func (p *StoreProvider) Current() *session.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *StoreProvider) Subscribe(fn func(*models.Principal)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	current := p.current
	p.mu.Unlock()

	// late subscribers still observe the current state
	if current != nil {
		principal := current.Principal
		fn(&principal)
	} else {
		fn(nil)
	}

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *StoreProvider) establishSession(uid, email string) (*session.Session, error) {
	token, err := auth.GenerateToken(uid, p.secret, p.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	sess := &session.Session{
		Principal:   models.Principal{UID: uid, Email: email},
		AccessToken: token,
	}

	p.mu.Lock()
	p.current = sess
	subs := p.snapshotSubs()
	p.mu.Unlock()

	principal := sess.Principal
	for _, fn := range subs {
		fn(&principal)
	}
	return sess, nil
}

func (p *StoreProvider) snapshotSubs() []func(*models.Principal) {
	out := make([]func(*models.Principal), 0, len(p.subs))
	for _, fn := range p.subs {
		out = append(out, fn)
	}
	return out
}

func hexField(rec docstore.Record, name string) ([]byte, error) {
	raw, ok := rec[name].(string)
	if !ok {
		return nil, fmt.Errorf("%w: field %q", common.ErrSchema, name)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: field %q", common.ErrSchema, name)
	}
	return b, nil
}
