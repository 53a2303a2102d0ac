package commands

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/internal/config"
	"github.com/jakechorley/relief-camps/pkg/campdesk"
	"github.com/jakechorley/relief-camps/pkg/clients/gmailclient"
	"github.com/jakechorley/relief-camps/pkg/clients/sheetsclient"
	"github.com/jakechorley/relief-camps/pkg/core/services"
	"github.com/jakechorley/relief-camps/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Desk     *campdesk.Client
	Logger   *zap.Logger
	Ctx      context.Context
	Out      io.Writer
	// JSON prints raw result envelopes instead of human-readable output
	JSON bool

	Sessions *SessionKeeper

	googleOnce   sync.Once
	googleErr    error
	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
}

// AssignmentOptions derives assignment defaults from the config
func (app *AppContext) AssignmentOptions() services.AssignmentOptions {
	return services.AssignmentOptions{
		DefaultSchedule: app.Cfg.DefaultShiftRule,
		UpcomingShifts:  app.Cfg.UpcomingShifts,
	}
}

// google creates the Sheets and Gmail clients on first use. Both share one OAuth token.
func (app *AppContext) google() error {
	app.googleOnce.Do(func() {
		oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
		if err != nil {
			app.googleErr = fmt.Errorf("failed to load OAuth client config: %w", err)
			return
		}

		app.Logger.Info("Initializing sheets client")
		app.sheetsClient, err = sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
		if err != nil {
			app.googleErr = fmt.Errorf("failed to create sheets client: %w", err)
			return
		}

		app.Logger.Info("Initializing gmail client")
		app.gmailClient, err = gmailclient.NewClient(app.Ctx, oauthCfg, app.sheetsClient.Token(), app.Cfg.GmailSender)
		if err != nil {
			app.googleErr = fmt.Errorf("failed to create gmail client: %w", err)
		}
	})
	return app.googleErr
}

// SheetsClient returns the Google Sheets client, authorizing if needed
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if err := app.google(); err != nil {
		return nil, err
	}
	return app.sheetsClient, nil
}

// GmailClient returns the Gmail client, authorizing if needed
func (app *AppContext) GmailClient() (*gmailclient.Client, error) {
	if err := app.google(); err != nil {
		return nil, err
	}
	return app.gmailClient, nil
}
