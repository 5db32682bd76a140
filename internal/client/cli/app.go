package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/venuehub/internal/client/config"
	"github.com/dmitrijs2005/venuehub/internal/client/localdb"
	"github.com/dmitrijs2005/venuehub/internal/client/metrics"
	"github.com/dmitrijs2005/venuehub/internal/client/models"
	"github.com/dmitrijs2005/venuehub/internal/client/provider"
	"github.com/dmitrijs2005/venuehub/internal/client/provider/pgprofiles"
	"github.com/dmitrijs2005/venuehub/internal/client/provider/s3store"
	"github.com/dmitrijs2005/venuehub/internal/client/provider/supabase"
	"github.com/dmitrijs2005/venuehub/internal/client/sessioncache"
	"github.com/dmitrijs2005/venuehub/internal/client/store"
	"github.com/dmitrijs2005/venuehub/internal/filex"
	"github.com/dmitrijs2005/venuehub/internal/logging"
)

// sessionStore is the part of *store.Store the commands use.
type sessionStore interface {
	store.View
	Init(ctx context.Context) error
	SignIn(ctx context.Context, email string, password []byte) error
	FetchUserProfile(ctx context.Context) error
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) error
	UploadAvatar(ctx context.Context, avatar models.Avatar) (string, error)
	SignOut(ctx context.Context) error
	ToggleModal() bool
	SetModal(visible bool)
}

type App struct {
	config   *config.Config
	store    sessionStore
	logger   logging.Logger
	gatherer prometheus.Gatherer
	reader   *bufio.Reader
	out      io.Writer
	closers  []io.Closer
}

// NewApp builds the providers described by c and a store over them.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{
		config: c,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := localdb.Open(ctx, filepath.Join(dir, localdb.FileName))
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}
	app.closers = append(app.closers, db)

	reg := prometheus.NewRegistry()
	app.gatherer = reg

	remote, err := supabase.New(c.ProviderURL, c.AnonKey, sessioncache.New(db, c.Secret()),
		supabase.WithTimeout(c.RequestTimeout),
		supabase.WithRateLimit(c.RequestsPerSecond),
		supabase.WithMetrics(metrics.New(reg)),
		supabase.WithLogger(logger.With("component", "supabase")),
	)
	if err != nil {
		app.Close()
		return nil, err
	}

	var profiles provider.Profiles = remote
	if c.ProfilesDSN != "" {
		pdb, err := pgprofiles.Open(ctx, c.ProfilesDSN)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, pdb)
		profiles = pgprofiles.NewPostgresRepository(pdb)
	}

	var storage provider.Storage = remote
	if c.StorageBackend == config.BackendS3 {
		s3, err := s3store.New(ctx, s3store.Config{
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			PublicURL: c.S3PublicURL,
		})
		if err != nil {
			app.Close()
			return nil, err
		}
		storage = s3
	}

	app.store = store.New(remote, profiles, storage, logger, store.WithAvatarBucket(c.AvatarBucket))
	return app, nil
}

// Run restores the session and runs the REPL until the user exits or the
// input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	unsubscribe := a.store.Subscribe(func(st store.State) {
		a.logger.Debug(ctx, "state changed",
			"authenticated", st.Authenticated(), "loading", st.Loading, "modal", st.Modal)
	})
	defer unsubscribe()

	if err := a.store.Init(ctx); err != nil {
		a.logger.Warn(ctx, "session restore incomplete", "error", err)
	}

	fmt.Fprintln(a.out, "Welcome to venuehub CLI (type 'help' for commands)")
	if !a.isLoggedIn() {
		a.report(a.Login(ctx))
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

// Close releases the databases opened by NewApp.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.store.User() != nil
}

func (a *App) status() string {
	if u := a.store.User(); u != nil {
		return fmt.Sprintf("(%s)", u.Email)
	}
	return "(signed out)"
}
