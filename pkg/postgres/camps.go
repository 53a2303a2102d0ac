package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/relief-camps/pkg/db"
)

const campColumns = `c.id, c.name, c.beds, c.original_beds, c.resources, c.contact, c.ambulance, c.type, c.added_by_user_id, c.created_at`

// The creator profile is only resolved for volunteer-added camps
const campListingQuery = `
	SELECT ` + campColumns + `,
		CASE WHEN c.type <> 'default' THEN to_jsonb(p) END
	FROM camp c
	LEFT JOIN profile p ON p.id = c.added_by_user_id`

// SeedCamps inserts camps that do not exist yet. Existing camps are left untouched.
func (d *DB) SeedCamps(ctx context.Context, camps []db.Camp) error {
	if len(camps) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return db.BackendError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range camps {
		_, err := tx.Exec(ctx, `
			INSERT INTO camp (id, name, beds, original_beds, resources, contact, ambulance, type, added_by_user_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO NOTHING
		`, campArgs(&c)...)
		if err != nil {
			return mapError(fmt.Sprintf("failed to seed camp %s", c.ID), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return db.BackendError("failed to commit transaction", err)
	}
	return nil
}

// GetCamps retrieves all camps ordered by creation time, annotated with their creator
func (d *DB) GetCamps(ctx context.Context) ([]db.CampListing, error) {
	rows, err := d.pool.Query(ctx, campListingQuery+` ORDER BY c.created_at, c.id`)
	if err != nil {
		return nil, mapError("failed to query camps", err)
	}
	defer rows.Close()

	listings := []db.CampListing{}
	for rows.Next() {
		listing, err := scanCampListing(rows)
		if err != nil {
			return nil, db.BackendError("failed to scan camp", err)
		}
		listings = append(listings, *listing)
	}

	if err := rows.Err(); err != nil {
		return nil, db.BackendError("error iterating camps", err)
	}

	return listings, nil
}

// GetCamp retrieves a single camp
func (d *DB) GetCamp(ctx context.Context, id string) (*db.Camp, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+campColumns+` FROM camp c WHERE c.id = $1`, id)

	var c db.Camp
	err := row.Scan(campFields(&c)...)
	if isNoRows(err) {
		return nil, db.NewError(db.KindNotFound, "camp %s not found", id)
	}
	if err != nil {
		return nil, mapError("failed to query camp", err)
	}
	return &c, nil
}

// InsertCamp inserts a new camp and returns it with its creator annotation
func (d *DB) InsertCamp(ctx context.Context, camp *db.Camp) (*db.CampListing, error) {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO camp (id, name, beds, original_beds, resources, contact, ambulance, type, added_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, campArgs(camp)...)
	if err != nil {
		return nil, mapError("failed to insert camp", err)
	}

	listing, err := scanCampListing(d.pool.QueryRow(ctx, campListingQuery+` WHERE c.id = $1`, camp.ID))
	if err != nil {
		return nil, mapError("failed to read back camp", err)
	}
	return listing, nil
}

// DeleteCamp removes a volunteer-added camp. Selections cascade in the schema.
func (d *DB) DeleteCamp(ctx context.Context, id string) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return db.BackendError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var campType string
	err = tx.QueryRow(ctx, `SELECT type FROM camp WHERE id = $1 FOR UPDATE`, id).Scan(&campType)
	if isNoRows(err) {
		return db.NewError(db.KindNotFound, "camp %s not found", id)
	}
	if err != nil {
		return mapError("failed to query camp", err)
	}
	if campType == db.CampTypeDefault {
		return db.NewError(db.KindForbidden, "cannot delete default camps")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM camp WHERE id = $1`, id); err != nil {
		return mapError("failed to delete camp", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return db.BackendError("failed to commit transaction", err)
	}
	return nil
}

func campArgs(c *db.Camp) []any {
	resources := c.Resources
	if resources == nil {
		resources = []string{}
	}
	return []any{c.ID, c.Name, c.Beds, c.OriginalBeds, resources, c.Contact, c.Ambulance, c.Type, c.AddedByUserID, c.CreatedAt.UTC()}
}

func campFields(c *db.Camp) []any {
	return []any{&c.ID, &c.Name, &c.Beds, &c.OriginalBeds, &c.Resources, &c.Contact, &c.Ambulance, &c.Type, &c.AddedByUserID, &c.CreatedAt}
}

func scanCampListing(row pgx.Row) (*db.CampListing, error) {
	var listing db.CampListing
	var creator []byte
	if err := row.Scan(append(campFields(&listing.Camp), &creator)...); err != nil {
		return nil, err
	}

	if len(creator) > 0 && string(creator) != "null" {
		var p db.Profile
		if err := json.Unmarshal(creator, &p); err != nil {
			return nil, fmt.Errorf("failed to decode camp creator: %w", err)
		}
		// to_jsonb of an unmatched LEFT JOIN row yields all-null fields
		if p.ID != "" {
			listing.AddedByUser = &p
		}
	}
	return &listing, nil
}
