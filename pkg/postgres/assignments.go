package postgres

import (
	"context"
	"encoding/json"

	"github.com/jakechorley/relief-camps/pkg/db"
)

// InsertVolunteerAssignment records an assignment for an existing camp
func (d *DB) InsertVolunteerAssignment(ctx context.Context, assignment *db.VolunteerAssignment) error {
	tag, err := d.pool.Exec(ctx, `
		INSERT INTO volunteer_assignment (id, volunteer_id, camp_id, schedule, assigned_at)
		SELECT $1::text, $2::text, $3::text, $4::text, $5::timestamptz
		WHERE EXISTS (SELECT 1 FROM camp WHERE id = $3)
	`, assignment.ID, assignment.VolunteerID, assignment.CampID, assignment.Schedule, assignment.AssignedAt.UTC())
	if err != nil {
		return mapError("failed to insert volunteer assignment", err)
	}
	if tag.RowsAffected() == 0 {
		return db.NewError(db.KindNotFound, "camp %s not found", assignment.CampID)
	}
	return nil
}

// GetVolunteerAssignments returns the volunteer's assignments joined with the
// current camp. Camp is nil for assignments whose camp has been deleted.
func (d *DB) GetVolunteerAssignments(ctx context.Context, volunteerID string) ([]db.AssignmentWithCamp, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT a.id, a.volunteer_id, a.camp_id, a.schedule, a.assigned_at, to_jsonb(c)
		FROM volunteer_assignment a
		LEFT JOIN camp c ON c.id = a.camp_id
		WHERE a.volunteer_id = $1
		ORDER BY a.assigned_at, a.id
	`, volunteerID)
	if err != nil {
		return nil, mapError("failed to query volunteer assignments", err)
	}
	defer rows.Close()

	result := []db.AssignmentWithCamp{}
	for rows.Next() {
		var entry db.AssignmentWithCamp
		var camp []byte
		a := &entry.VolunteerAssignment
		if err := rows.Scan(&a.ID, &a.VolunteerID, &a.CampID, &a.Schedule, &a.AssignedAt, &camp); err != nil {
			return nil, db.BackendError("failed to scan volunteer assignment", err)
		}

		if len(camp) > 0 && string(camp) != "null" {
			var c db.Camp
			if err := json.Unmarshal(camp, &c); err != nil {
				return nil, db.BackendError("failed to decode assignment camp", err)
			}
			if c.ID != "" {
				entry.Camp = &c
			}
		}
		result = append(result, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, db.BackendError("error iterating volunteer assignments", err)
	}

	return result, nil
}
