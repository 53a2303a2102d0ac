package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jakechorley/relief-camps/pkg/db"
)

// PostgreSQL error codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// Constraint names from migrations/001_init.sql
const (
	emailConstraint     = "app_user_email_key"
	selectionConstraint = "camp_selection_user_id_key"
)

// mapError classifies known constraint violations and wraps everything else
// as a backend error. The original error stays in the chain.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return db.BackendError(op, err)
	}

	switch pgErr.Code {
	case uniqueViolation:
		switch pgErr.ConstraintName {
		case emailConstraint:
			return &db.Error{Kind: db.KindDuplicateEmail, Message: db.ErrDuplicateEmail.Message, Err: err}
		case selectionConstraint:
			return &db.Error{Kind: db.KindAlreadyReserved, Message: db.ErrAlreadyReserved.Message, Err: err}
		}
	case foreignKeyViolation:
		return &db.Error{Kind: db.KindNotFound, Message: op + ": referenced record not found", Err: err}
	case checkViolation:
		return &db.Error{Kind: db.KindInvalidInput, Message: op + ": " + pgErr.Message, Err: err}
	}

	return db.BackendError(op, err)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
