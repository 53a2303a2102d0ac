package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/relief-camps/pkg/db"
)

const accountColumns = `
	u.id, u.email, u.password_hash, u.created_at,
	p.id, p.email, p.name, p.role, p.contact, p.address, p.needs, p.skills, p.availability, p.age, p.created_at`

// InsertAccount inserts a user and its profile in one transaction
func (d *DB) InsertAccount(ctx context.Context, account *db.Account) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return db.BackendError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	u := account.User
	_, err = tx.Exec(ctx, `
		INSERT INTO app_user (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.Email, u.PasswordHash, u.CreatedAt.UTC())
	if err != nil {
		return mapError("failed to insert user", err)
	}

	p := account.Profile
	_, err = tx.Exec(ctx, `
		INSERT INTO profile (id, email, name, role, contact, address, needs, skills, availability, age, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID, p.Email, p.Name, p.Role, p.Contact, p.Address, p.Needs, p.Skills, p.Availability, p.Age, p.CreatedAt.UTC())
	if err != nil {
		return mapError("failed to insert profile", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return db.BackendError("failed to commit transaction", err)
	}
	return nil
}

// GetAccountByEmail retrieves an account by its (case-insensitive) email
func (d *DB) GetAccountByEmail(ctx context.Context, email string) (*db.Account, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM app_user u
		JOIN profile p ON p.id = u.id
		WHERE lower(u.email) = lower($1)
	`, email)

	account, err := scanAccount(row)
	if isNoRows(err) {
		return nil, db.NewError(db.KindNotFound, "no user with email %s", email)
	}
	if err != nil {
		return nil, mapError("failed to query user", err)
	}
	return account, nil
}

// GetAccountByID retrieves an account by user ID
func (d *DB) GetAccountByID(ctx context.Context, id string) (*db.Account, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM app_user u
		JOIN profile p ON p.id = u.id
		WHERE u.id = $1
	`, id)

	account, err := scanAccount(row)
	if isNoRows(err) {
		return nil, db.NewError(db.KindNotFound, "user %s not found", id)
	}
	if err != nil {
		return nil, mapError("failed to query user", err)
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*db.Account, error) {
	var a db.Account
	u, p := &a.User, &a.Profile
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt,
		&p.ID, &p.Email, &p.Name, &p.Role, &p.Contact, &p.Address, &p.Needs, &p.Skills, &p.Availability, &p.Age, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &a, nil
}
