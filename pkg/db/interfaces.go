package db

import (
	"context"
	"time"
)

// Change table names
const (
	TableCamp          = "camp"
	TableCampSelection = "camp_selection"
)

// ChangeOp is the kind of row change carried by a ChangeEvent
type ChangeOp string

const (
	OpInsert ChangeOp = "INSERT"
	OpUpdate ChangeOp = "UPDATE"
	OpDelete ChangeOp = "DELETE"
)

// ChangeEvent describes a committed change to a camp or camp selection row
type ChangeEvent struct {
	Table    string    `json:"table"`
	Op       ChangeOp  `json:"op"`
	RecordID string    `json:"id"`
	At       time.Time `json:"at"`
}

// ChangeHandler receives change events
type ChangeHandler func(ChangeEvent)

// Unsubscribe stops delivery to a handler. Calling it more than once is safe.
type Unsubscribe func()

// UserStore defines the interface for user and profile operations
type UserStore interface {
	InsertAccount(ctx context.Context, account *Account) error
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByID(ctx context.Context, id string) (*Account, error)
}

// SessionStore defines the interface for session operations
type SessionStore interface {
	InsertSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// AuthStore is everything the auth service needs
type AuthStore interface {
	UserStore
	SessionStore
}

// CampStore defines the interface for camp operations
type CampStore interface {
	SeedCamps(ctx context.Context, camps []Camp) error
	GetCamps(ctx context.Context) ([]CampListing, error)
	GetCamp(ctx context.Context, id string) (*Camp, error)
	InsertCamp(ctx context.Context, camp *Camp) (*CampListing, error)
	DeleteCamp(ctx context.Context, id string) error
}

// SelectionStore defines the reservation operations.
// Implementations must apply SelectCamp and CancelCampSelection atomically with
// respect to each other and to DeleteCamp.
type SelectionStore interface {
	SelectCamp(ctx context.Context, selection *CampSelection) error
	CancelCampSelection(ctx context.Context, userID string) error
	// GetUserCampSelection returns nil, nil when the user holds no selection
	GetUserCampSelection(ctx context.Context, userID string) (*CampSelectionWithCamp, error)
}

// AssignmentStore defines the volunteer assignment operations
type AssignmentStore interface {
	InsertVolunteerAssignment(ctx context.Context, assignment *VolunteerAssignment) error
	GetVolunteerAssignments(ctx context.Context, volunteerID string) ([]AssignmentWithCamp, error)
}

// ChangeFeed delivers change notifications for camps and camp selections.
// Events reach each handler in commit order.
type ChangeFeed interface {
	SubscribeToCamps(ctx context.Context, handler ChangeHandler) (Unsubscribe, error)
	SubscribeToCampSelections(ctx context.Context, handler ChangeHandler) (Unsubscribe, error)
}

// Database defines the interface for all database operations.
// Both the in-memory MemoryDB and postgres.DB implement this interface.
type Database interface {
	AuthStore
	CampStore
	SelectionStore
	AssignmentStore
	ChangeFeed
	Close()
}
