package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/time/rate"

	"github.com/aussiebroadwan/lyftrides/pkg/credstore"
	"github.com/aussiebroadwan/lyftrides/pkg/credstore/sqlite"
	"github.com/aussiebroadwan/lyftrides/pkg/ridesdk"
	"github.com/aussiebroadwan/lyftrides/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application wires the SDK, credential store and logger into the example
// CLI flow: load a stored credential or run the interactive authorization
// code grant, then call the profile endpoint to prove the token works.
type Application struct {
	cfg    Config
	logger *slog.Logger

	store  credstore.Store
	client *ridesdk.Client
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("LYFT_CLIENT_ID and LYFT_CLIENT_SECRET are required")
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "rides-cli",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.client = ridesdk.NewClient(cfg.APIHost)
	app.client.Sandbox = cfg.Sandbox
	if cfg.RateLimit > 0 {
		app.client.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return app, nil
}

// Run authenticates and fetches the user's profile. The latest credential is
// persisted on the way out, since any API call may have refreshed it.
func (app *Application) Run() error {
	ctx := slogx.WithContext(context.Background(), app.logger)

	session, err := app.loadSession(ctx)
	if err != nil {
		if !errors.Is(err, credstore.ErrNotFound) {
			return err
		}

		app.logger.Info("no stored credential, starting authorization flow", "client_id", app.cfg.ClientID)
		session, err = app.authorize(ctx)
		if err != nil {
			return err
		}
	}

	rides, err := ridesdk.NewRidesClient(app.client, session)
	if err != nil {
		return err
	}

	resp, err := rides.GetUserProfile(ctx)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var profile struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return fmt.Errorf("failed to decode profile response: %w", err)
	}

	app.logger.Info("access token granted", "user_id", profile.ID)
	fmt.Printf("Hello. Successfully granted access token to user %s.\n", profile.ID)

	return app.store.Save(ctx, rides.Session().Credential().Record())
}

// Close releases the credential store if the driver holds resources.
func (app *Application) Close() error {
	if closer, ok := app.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "sqlite":
		store, err := sqlite.NewStore(app.cfg.StoreFile)
		if err != nil {
			return fmt.Errorf("failed to open credential store: %w", err)
		}
		if err := store.ApplyMigrations(); err != nil {
			_ = store.Close()
			return fmt.Errorf("failed to apply credential store migrations: %w", err)
		}
		app.store = store

	case "file":
		store := credstore.NewFileStore(app.cfg.StoreFile)
		store.Passphrase = app.cfg.StorePassphrase
		app.store = store

	default:
		return fmt.Errorf("unknown credential store driver %q", app.cfg.StoreDriver)
	}

	return nil
}

// loadSession rebuilds a session from the stored credential record.
func (app *Application) loadSession(ctx context.Context) (*ridesdk.Session, error) {
	rec, err := app.store.Load(ctx, app.cfg.ClientID)
	if err != nil {
		return nil, err
	}

	credential, err := ridesdk.NewCredentialFromRecord(rec)
	if err != nil {
		return nil, err
	}

	return ridesdk.NewSession(credential)
}

// authorize runs the interactive authorization code flow: print the consent
// URL, read the redirect URL back from stdin, exchange it for a session and
// persist the credential.
func (app *Application) authorize(ctx context.Context) (*ridesdk.Session, error) {
	grant, err := app.client.NewAuthorizationCodeGrant(
		app.cfg.ClientID,
		app.cfg.ClientSecret,
		app.cfg.Scopes,
		"",
	)
	if err != nil {
		return nil, err
	}

	authURL, err := grant.AuthorizationURL()
	if err != nil {
		return nil, err
	}

	fmt.Printf("Login and grant access by going to:\n\n    %s\n\n", authURL)
	fmt.Print("Copy the URL you are redirected to and paste it here: ")

	redirectURL, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read redirect url: %w", err)
	}

	session, err := grant.GetSession(ctx, strings.TrimSpace(redirectURL))
	if err != nil {
		return nil, err
	}

	if err := app.store.Save(ctx, session.Credential().Record()); err != nil {
		return nil, err
	}

	return session, nil
}
