package postgres

import (
	"context"

	"github.com/jakechorley/relief-camps/pkg/db"
)

// SelectCamp reserves one bed for the selection's user. The camp row is locked
// for the duration of the transaction; the unique index on camp_selection.user_id
// rejects a concurrent second reservation by the same user.
func (d *DB) SelectCamp(ctx context.Context, selection *db.CampSelection) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return db.BackendError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var reserved bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM camp_selection WHERE user_id = $1)
	`, selection.UserID).Scan(&reserved)
	if err != nil {
		return mapError("failed to check existing selection", err)
	}
	if reserved {
		return db.ErrAlreadyReserved
	}

	var beds int
	err = tx.QueryRow(ctx, `SELECT beds FROM camp WHERE id = $1 FOR UPDATE`, selection.CampID).Scan(&beds)
	if isNoRows(err) {
		return db.NewError(db.KindNotFound, "camp %s not found", selection.CampID)
	}
	if err != nil {
		return mapError("failed to lock camp", err)
	}
	if beds <= 0 {
		return db.ErrNoCapacity
	}

	if _, err := tx.Exec(ctx, `UPDATE camp SET beds = beds - 1 WHERE id = $1`, selection.CampID); err != nil {
		return mapError("failed to update camp beds", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO camp_selection (id, user_id, camp_id, selected_at)
		VALUES ($1, $2, $3, $4)
	`, selection.ID, selection.UserID, selection.CampID, selection.SelectedAt.UTC())
	if err != nil {
		return mapError("failed to insert camp selection", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError("failed to commit camp selection", err)
	}
	return nil
}

// CancelCampSelection deletes the user's selection and releases its bed,
// never raising beds above original_beds
func (d *DB) CancelCampSelection(ctx context.Context, userID string) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return db.BackendError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var campID string
	err = tx.QueryRow(ctx, `
		DELETE FROM camp_selection WHERE user_id = $1 RETURNING camp_id
	`, userID).Scan(&campID)
	if isNoRows(err) {
		return db.NewError(db.KindNotFound, "no camp selection found")
	}
	if err != nil {
		return mapError("failed to delete camp selection", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE camp SET beds = LEAST(beds + 1, original_beds) WHERE id = $1
	`, campID)
	if err != nil {
		return mapError("failed to restore camp beds", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return db.BackendError("failed to commit transaction", err)
	}
	return nil
}

// GetUserCampSelection returns the user's selection with its camp, or nil if none
func (d *DB) GetUserCampSelection(ctx context.Context, userID string) (*db.CampSelectionWithCamp, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT s.id, s.user_id, s.camp_id, s.selected_at, `+campColumns+`
		FROM camp_selection s
		JOIN camp c ON c.id = s.camp_id
		WHERE s.user_id = $1
	`, userID)

	var result db.CampSelectionWithCamp
	var c db.Camp
	s := &result.CampSelection
	err := row.Scan(append([]any{&s.ID, &s.UserID, &s.CampID, &s.SelectedAt}, campFields(&c)...)...)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("failed to query camp selection", err)
	}
	result.Camp = &c
	return &result, nil
}
