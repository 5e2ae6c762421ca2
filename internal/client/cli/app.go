package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/postline/internal/blobstore"
	"github.com/dmitrijs2005/postline/internal/client/config"
	"github.com/dmitrijs2005/postline/internal/docstore"
	"github.com/dmitrijs2005/postline/internal/identity"
	"github.com/dmitrijs2005/postline/internal/logging"
	"github.com/dmitrijs2005/postline/internal/posts"
	"github.com/dmitrijs2005/postline/internal/session"
)

// App wires the client together: the session gate over the identity
// provider, the post repository over the document store, and the blob
// store for image attachments.
type App struct {
	config   *config.Config
	logger   logging.Logger
	store    docstore.Store
	provider identity.Provider
	repo     *posts.Repository
	blobs    blobstore.Store
	gate     *session.Gate
	unsub    func()
	reader   *bufio.Reader
	feed     *feedView
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	store, err := docstore.Open(ctx, c.StoreBackend, c.StoreDSN, c.StoreDatabase)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	provider := identity.NewStoreProvider(store, []byte(c.SecretKey), c.SessionTokenValidity)
	repo := posts.NewRepository(store, []byte(c.SecretKey))

	blobs := blobstore.NewS3Store(blobstore.S3Config{
		User:         c.S3User,
		Password:     c.S3Password,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})

	gate := session.NewGate()
	unsub := provider.Subscribe(gate.OnPrincipalChange)

	return &App{
		config:   c,
		logger:   logger.With("module", "cli"),
		store:    store,
		provider: provider,
		repo:     repo,
		blobs:    blobs,
		gate:     gate,
		unsub:    unsub,
		reader:   bufio.NewReader(os.Stdin),
		feed:     newFeedView(),
	}, nil
}

// Run blocks while the gate is still loading, then enters the REPL.
// Nothing is rendered until the identity provider has reported.
func (a *App) Run(ctx context.Context) error {
	if err := a.gate.Wait(ctx); err != nil {
		return err
	}
	a.Root(ctx)
	return nil
}

func (a *App) Close(ctx context.Context) error {
	a.unsub()
	a.feed.teardown()
	return a.store.Close(ctx)
}

func (a *App) isLoggedIn() bool {
	state, _ := a.gate.State()
	return state == session.Authenticated
}

func (a *App) session() *session.Session {
	return a.provider.Current()
}
