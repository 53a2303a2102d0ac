package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/db"
)

const defaultUpcomingShifts = 3

// AssignmentOptions controls schedule defaults for volunteer assignments
type AssignmentOptions struct {
	// DefaultSchedule is used when an assignment is created without one
	DefaultSchedule string
	// UpcomingShifts is how many future shifts to expand per assignment
	UpcomingShifts int
}

func (o AssignmentOptions) upcoming() int {
	if o.UpcomingShifts <= 0 {
		return defaultUpcomingShifts
	}
	return o.UpcomingShifts
}

// CreateVolunteerAssignment assigns a volunteer to an existing camp
func CreateVolunteerAssignment(
	ctx context.Context,
	store db.AssignmentStore,
	logger *zap.Logger,
	opts AssignmentOptions,
	volunteerID, campID, schedule string,
) (*db.VolunteerAssignment, error) {
	if volunteerID == "" || campID == "" {
		return nil, db.NewError(db.KindInvalidInput, "volunteer id and camp id are required")
	}

	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		schedule = opts.DefaultSchedule
	}
	if err := ValidateSchedule(schedule); err != nil {
		return nil, err
	}

	assignment := &db.VolunteerAssignment{
		ID:          uuid.New().String(),
		VolunteerID: volunteerID,
		CampID:      campID,
		Schedule:    schedule,
		AssignedAt:  time.Now().UTC(),
	}

	logger.Debug("Creating volunteer assignment",
		zap.String("volunteer_id", volunteerID),
		zap.String("camp_id", campID),
		zap.String("schedule", schedule))

	if err := store.InsertVolunteerAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create volunteer assignment: %w", err)
	}

	logger.Info("Volunteer assigned", zap.String("assignment_id", assignment.ID), zap.String("camp_id", campID))
	return assignment, nil
}

// GetVolunteerAssignments lists a volunteer's assignments with their next shifts
func GetVolunteerAssignments(
	ctx context.Context,
	store db.AssignmentStore,
	logger *zap.Logger,
	opts AssignmentOptions,
	volunteerID string,
) ([]db.AssignmentWithCamp, error) {
	if volunteerID == "" {
		return nil, db.NewError(db.KindInvalidInput, "volunteer id is required")
	}

	assignments, err := store.GetVolunteerAssignments(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer assignments: %w", err)
	}

	now := time.Now().UTC()
	for i := range assignments {
		a := &assignments[i]
		shifts, err := UpcomingShifts(a.Schedule, a.AssignedAt, now, opts.upcoming())
		if err != nil {
			// Schedules are validated on insert
			logger.Warn("Skipping unparseable schedule",
				zap.String("assignment_id", a.ID),
				zap.String("schedule", a.Schedule),
				zap.Error(err))
			continue
		}
		a.UpcomingShifts = shifts
	}

	logger.Debug("Fetched volunteer assignments",
		zap.String("volunteer_id", volunteerID),
		zap.Int("count", len(assignments)))
	return assignments, nil
}
