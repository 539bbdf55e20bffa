// Package cli implements the interactive jobtrack shell. It wires the
// credential store, session state, auth coordinator, and request gate
// together and maps REPL commands onto them.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/dmitrijs2005/jobtrack/internal/client/api"
	"github.com/dmitrijs2005/jobtrack/internal/client/auth"
	"github.com/dmitrijs2005/jobtrack/internal/client/config"
	"github.com/dmitrijs2005/jobtrack/internal/client/credentials"
	"github.com/dmitrijs2005/jobtrack/internal/client/gate"
	"github.com/dmitrijs2005/jobtrack/internal/client/models"
	"github.com/dmitrijs2005/jobtrack/internal/client/session"
	"github.com/dmitrijs2005/jobtrack/internal/logging"

	_ "modernc.org/sqlite"
)

// AuthService is the slice of the auth coordinator the REPL commands use.
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) error
	ConfirmEmail(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// ApplicationService is the application CRUD surface used by the REPL.
type ApplicationService interface {
	List(ctx context.Context, status *models.ApplicationStatus) ([]models.Application, error)
	Create(ctx context.Context, app models.Application) (*models.Application, error)
	Delete(ctx context.Context, id int64) error
}

// DocumentService is the attachment surface used by the REPL.
type DocumentService interface {
	List(ctx context.Context, applicationID int64) ([]models.Document, error)
	Upload(ctx context.Context, applicationID int64, fileName string, content []byte) (*models.Document, error)
	Download(ctx context.Context, applicationID, documentID int64) ([]byte, error)
}

type App struct {
	config      *config.Config
	authService AuthService
	appService  ApplicationService
	docService  DocumentService
	sessions    *session.Manager
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer
}

// refresherProxy breaks the construction cycle between the gate (which
// needs a Refresher) and the coordinator (whose requests go through the
// gate). The gate never calls it before the coordinator is assigned.
type refresherProxy struct {
	c *auth.Coordinator
}

func (p *refresherProxy) RefreshToken(ctx context.Context) (string, error) {
	return p.c.RefreshToken(ctx)
}

func (p *refresherProxy) ClearSession(ctx context.Context) {
	p.c.ClearSession(ctx)
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	store, db, err := credentials.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	sessions := session.NewManager(store)
	sessions.Init(ctx)

	app := &App{
		config:   c,
		sessions: sessions,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}

	proxy := &refresherProxy{}
	transport := gate.NewTransport(store, proxy, gate.NavigatorFunc(app.onSessionExpired), log,
		gate.WithRefreshTimeout(c.RefreshTimeout))
	httpClient := &http.Client{Transport: transport}

	coordinator := auth.NewCoordinator(c.ServerBaseURL, httpClient, store, sessions, log)
	proxy.c = coordinator

	app.authService = coordinator
	app.appService = api.NewApplications(c.ServerBaseURL, httpClient)
	app.docService = api.NewDocuments(c.ServerBaseURL, httpClient)

	return app, nil
}

// onSessionExpired is the gate's login-surface redirect: in a terminal
// client that means telling the user and dropping to the logged-out prompt.
func (a *App) onSessionExpired() {
	printf(a.out, "Session expired. Please log in again.\n")
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.sessions.Authenticated(ctx)
}
