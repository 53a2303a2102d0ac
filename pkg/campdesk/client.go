// Package campdesk is the caller-facing API of the relief camp system. Every
// operation returns a Result instead of an error.
package campdesk

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/core/services"
	"github.com/jakechorley/relief-camps/pkg/db"
)

// Options tunes the services behind a Client
type Options struct {
	Auth        services.AuthOptions
	Assignments services.AssignmentOptions
}

// Client groups the auth, database and subscription facades over one store
type Client struct {
	Auth          *Auth
	DB            *Database
	Subscriptions *Subscriptions
}

// New creates a Client backed by store
func New(store db.Database, logger *zap.Logger, opts Options) *Client {
	return &Client{
		Auth:          &Auth{store: store, logger: logger, opts: opts.Auth},
		DB:            &Database{store: store, logger: logger, opts: opts.Assignments},
		Subscriptions: &Subscriptions{feed: store, logger: logger},
	}
}

// Auth manages accounts and sessions
type Auth struct {
	store  db.AuthStore
	logger *zap.Logger
	opts   services.AuthOptions
}

func (a *Auth) SignUp(ctx context.Context, email, password string, fields services.ProfileFields) Result[*db.Session] {
	return from(services.SignUp(ctx, a.store, a.logger, a.opts, email, password, fields))
}

func (a *Auth) SignIn(ctx context.Context, email, password string) Result[*db.Session] {
	return from(services.SignIn(ctx, a.store, a.logger, email, password))
}

func (a *Auth) SignOut(ctx context.Context, token string) Result[Empty] {
	return from(Empty{}, services.SignOut(ctx, a.store, a.logger, token))
}

// GetCurrentUser returns a nil account when the token names no live session
func (a *Auth) GetCurrentUser(ctx context.Context, token string) Result[*db.Account] {
	return from(services.CurrentUser(ctx, a.store, token))
}

// Database exposes camps, reservations and volunteer assignments
type Database struct {
	store interface {
		db.CampStore
		db.SelectionStore
		db.AssignmentStore
	}
	logger *zap.Logger
	opts   services.AssignmentOptions
}

func (d *Database) GetCamps(ctx context.Context) Result[[]db.CampListing] {
	return from(services.ListCamps(ctx, d.store, d.logger))
}

func (d *Database) CreateCamp(ctx context.Context, fields services.CampFields, userID string) Result[*db.CampListing] {
	return from(services.CreateCamp(ctx, d.store, d.logger, fields, userID))
}

func (d *Database) DeleteCamp(ctx context.Context, campID string) Result[Empty] {
	return from(Empty{}, services.DeleteCamp(ctx, d.store, d.logger, campID))
}

func (d *Database) SelectCamp(ctx context.Context, userID, campID string) Result[*db.CampSelection] {
	return from(services.SelectCamp(ctx, d.store, d.logger, userID, campID))
}

func (d *Database) CancelCampSelection(ctx context.Context, userID string) Result[Empty] {
	return from(Empty{}, services.CancelCampSelection(ctx, d.store, d.logger, userID))
}

// GetUserCampSelection returns nil data when the user holds no reservation
func (d *Database) GetUserCampSelection(ctx context.Context, userID string) Result[*db.CampSelectionWithCamp] {
	return from(services.GetUserCampSelection(ctx, d.store, d.logger, userID))
}

func (d *Database) CreateVolunteerAssignment(ctx context.Context, volunteerID, campID, schedule string) Result[*db.VolunteerAssignment] {
	return from(services.CreateVolunteerAssignment(ctx, d.store, d.logger, d.opts, volunteerID, campID, schedule))
}

func (d *Database) GetVolunteerAssignments(ctx context.Context, volunteerID string) Result[[]db.AssignmentWithCamp] {
	return from(services.GetVolunteerAssignments(ctx, d.store, d.logger, d.opts, volunteerID))
}

// Subscriptions delivers change notifications. Delivery is best effort.
type Subscriptions struct {
	feed   db.ChangeFeed
	logger *zap.Logger
}

func (s *Subscriptions) SubscribeToCamps(ctx context.Context, handler db.ChangeHandler) Result[db.Unsubscribe] {
	unsubscribe, err := s.feed.SubscribeToCamps(ctx, handler)
	if err != nil {
		s.logger.Warn("Failed to subscribe to camps", zap.Error(err))
	}
	return subscription(unsubscribe, err)
}

func (s *Subscriptions) SubscribeToCampSelections(ctx context.Context, handler db.ChangeHandler) Result[db.Unsubscribe] {
	unsubscribe, err := s.feed.SubscribeToCampSelections(ctx, handler)
	if err != nil {
		s.logger.Warn("Failed to subscribe to camp selections", zap.Error(err))
	}
	return subscription(unsubscribe, err)
}

// subscription never carries a nil Unsubscribe, so deferring Data is always safe
func subscription(unsubscribe db.Unsubscribe, err error) Result[db.Unsubscribe] {
	r := from(unsubscribe, err)
	if r.Data == nil {
		r.Data = func() {}
	}
	return r
}
