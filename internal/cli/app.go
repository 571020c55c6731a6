package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrijs2005/imgdrop/internal/auth"
	"github.com/dmitrijs2005/imgdrop/internal/config"
	"github.com/dmitrijs2005/imgdrop/internal/journal"
	"github.com/dmitrijs2005/imgdrop/internal/logging"
	"github.com/dmitrijs2005/imgdrop/internal/picker"
	"github.com/dmitrijs2005/imgdrop/internal/repositories/uploads"
	"github.com/dmitrijs2005/imgdrop/internal/storage"
	"github.com/dmitrijs2005/imgdrop/internal/store"
	"github.com/dmitrijs2005/imgdrop/internal/uploader"
	"golang.org/x/sync/errgroup"
)

// Constructors swapped in tests.
var (
	openStore  = store.Open
	newStorage = storage.New
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	storage uploader.Storage
	auth    auth.Authenticator
	orch    *uploader.Orchestrator
	journal *journal.Journal
	session *auth.Session
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the database and the storage backend, then wires the
// orchestrator with the console and journal listeners. in and out are the
// user's terminal.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewSlogLogger(slog.New(slog.DiscardHandler))
	}

	var (
		db *sql.DB
		st uploader.Storage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if db, err = openStore(gctx, c.DatabasePath); err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// ctx, not gctx: cloud clients keep it for token refreshes.
		var err error
		if st, err = newStorage(ctx, c); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		closeAll(db, st)
		return nil, err
	}

	reader := bufio.NewReader(in)

	var authn auth.Authenticator = auth.Anonymous{}
	if c.OAuthClientID != "" {
		authn = auth.NewDeviceAuth(auth.DeviceOptions{
			ClientID:      c.OAuthClientID,
			ClientSecret:  c.OAuthClientSecret,
			Scopes:        c.OAuthScopes,
			DeviceAuthURL: c.OAuthDeviceAuthURL,
			TokenURL:      c.OAuthTokenURL,
		}, db, out, logger)
	}

	var pick uploader.Picker = picker.NewPromptPicker(reader, out)
	if c.UploadFile != "" {
		pick = picker.StaticPicker{Path: c.UploadFile}
	}

	j := journal.New(uploads.NewSQLiteRepository(db), logger)
	orch := uploader.New(pick, st, authn,
		uploader.WithLogger(logger),
		uploader.WithKeyPrefix(c.KeyPrefix),
		uploader.WithListeners(newConsoleListener(out), j),
	)

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		storage: st,
		auth:    authn,
		orch:    orch,
		journal: j,
		reader:  reader,
		out:     out,
	}, nil
}

// Run starts the one-shot upload when -f is set and the REPL otherwise.
// It returns the process exit code.
func (a *App) Run(ctx context.Context) int {
	defer a.Close()

	if a.config.UploadFile != "" {
		return a.runOnce(ctx)
	}
	a.Root(ctx)
	return 0
}

// Close releases the storage client and the database.
func (a *App) Close() {
	closeAll(a.db, a.storage)
}

func closeAll(db *sql.DB, st uploader.Storage) {
	if c, ok := st.(io.Closer); ok {
		_ = c.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
