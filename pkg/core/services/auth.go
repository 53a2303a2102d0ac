package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jakechorley/relief-camps/pkg/db"
)

var validate = validator.New()

// ProfileFields are the profile details captured at sign-up
type ProfileFields struct {
	Name         string `json:"name" validate:"required"`
	Role         string `json:"role" validate:"required,oneof=affected-person volunteer coordinator"`
	Contact      string `json:"contact"`
	Address      string `json:"address"`
	Needs        string `json:"needs"`
	Skills       string `json:"skills"`
	Availability string `json:"availability"`
	Age          *int   `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

// AuthOptions tunes password hashing. Zero values use bcrypt.DefaultCost.
type AuthOptions struct {
	BcryptCost int
}

func (o AuthOptions) cost() int {
	if o.BcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return o.BcryptCost
}

// SignUp registers a new user with its profile and opens a session for it
func SignUp(
	ctx context.Context,
	store db.AuthStore,
	logger *zap.Logger,
	opts AuthOptions,
	email, password string,
	fields ProfileFields,
) (*db.Session, error) {
	email = normalizeEmail(email)
	logger.Debug("Signing up user", zap.String("email", email), zap.String("role", fields.Role))

	if err := validate.Struct(credentials{Email: email, Password: password}); err != nil {
		return nil, invalidInput(err)
	}
	if err := validate.Struct(fields); err != nil {
		return nil, invalidInput(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), opts.cost())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	account := &db.Account{
		User: db.User{
			ID:           id,
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    now,
		},
		Profile: db.Profile{
			ID:           id,
			Email:        email,
			Name:         strings.TrimSpace(fields.Name),
			Role:         fields.Role,
			Contact:      fields.Contact,
			Address:      fields.Address,
			Needs:        fields.Needs,
			Skills:       fields.Skills,
			Availability: fields.Availability,
			Age:          fields.Age,
			CreatedAt:    now,
		},
	}

	if err := store.InsertAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User registered", zap.String("user_id", id), zap.String("role", fields.Role))

	return openSession(ctx, store, logger, account)
}

// SignIn verifies the credentials and opens a new session.
// An unknown email and a wrong password fail identically.
func SignIn(ctx context.Context, store db.AuthStore, logger *zap.Logger, email, password string) (*db.Session, error) {
	email = normalizeEmail(email)
	logger.Debug("Signing in user", zap.String("email", email))

	account, err := store.GetAccountByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		logger.Debug("Sign-in rejected: unknown email", zap.String("email", email))
		return nil, db.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.User.PasswordHash), []byte(password)); err != nil {
		logger.Debug("Sign-in rejected: wrong password", zap.String("user_id", account.User.ID))
		return nil, db.ErrInvalidCredentials
	}

	return openSession(ctx, store, logger, account)
}

// SignOut ends a session. Unknown tokens are ignored.
func SignOut(ctx context.Context, store db.SessionStore, logger *zap.Logger, token string) error {
	if token == "" {
		return nil
	}
	if err := store.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	logger.Debug("Session closed")
	return nil
}

// CurrentUser returns the account behind a live session, or nil when the token
// is empty or does not name a session
func CurrentUser(ctx context.Context, store db.AuthStore, token string) (*db.Account, error) {
	if token == "" {
		return nil, nil
	}

	session, err := store.GetSession(ctx, token)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	account, err := store.GetAccountByID(ctx, session.UserID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return account, nil
}

func openSession(ctx context.Context, store db.SessionStore, logger *zap.Logger, account *db.Account) (*db.Session, error) {
	session := &db.Session{
		Token:     uuid.New().String(),
		UserID:    account.User.ID,
		CreatedAt: time.Now().UTC(),
	}

	if err := store.InsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger.Debug("Session opened", zap.String("user_id", account.User.ID))

	session.Account = account
	return session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// invalidInput converts validator errors into a single InvalidInput error
func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return db.NewError(db.KindInvalidInput, "%v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return db.NewError(db.KindInvalidInput, "%s", strings.Join(msgs, "; "))
}
