package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/db"
)

func TestCreateVolunteerAssignment(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	opts := AssignmentOptions{UpcomingShifts: 2}

	assignment, err := CreateVolunteerAssignment(ctx, store, zap.NewNop(), opts, "vol-1", "camp-2", "FREQ=DAILY;BYHOUR=8")
	require.NoError(t, err)
	assert.NotEmpty(t, assignment.ID)
	assert.Equal(t, "FREQ=DAILY;BYHOUR=8", assignment.Schedule)

	assignments, err := GetVolunteerAssignments(ctx, store, zap.NewNop(), opts, "vol-1")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	require.NotNil(t, assignments[0].Camp)
	assert.Equal(t, "Government High School", assignments[0].Camp.Name)
	require.Len(t, assignments[0].UpcomingShifts, 2)

	now := time.Now()
	for _, shift := range assignments[0].UpcomingShifts {
		assert.True(t, shift.After(now))
		assert.Equal(t, 8, shift.Hour())
	}
}

func TestCreateVolunteerAssignment_DefaultSchedule(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	opts := AssignmentOptions{DefaultSchedule: "FREQ=WEEKLY;BYDAY=SU;BYHOUR=9"}

	assignment, err := CreateVolunteerAssignment(ctx, store, zap.NewNop(), opts, "vol-1", "camp-1", "  ")
	require.NoError(t, err)
	assert.Equal(t, opts.DefaultSchedule, assignment.Schedule)

	assignments, err := GetVolunteerAssignments(ctx, store, zap.NewNop(), opts, "vol-1")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Len(t, assignments[0].UpcomingShifts, defaultUpcomingShifts)
}

func TestCreateVolunteerAssignment_Errors(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	_, err := CreateVolunteerAssignment(ctx, store, zap.NewNop(), AssignmentOptions{}, "vol-1", "missing", "")
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = CreateVolunteerAssignment(ctx, store, zap.NewNop(), AssignmentOptions{}, "vol-1", "camp-1", "FREQ=BOGUS")
	assert.ErrorIs(t, err, db.ErrInvalidInput)

	_, err = CreateVolunteerAssignment(ctx, store, zap.NewNop(), AssignmentOptions{}, "", "camp-1", "")
	assert.ErrorIs(t, err, db.ErrInvalidInput)

	assignments, err := GetVolunteerAssignments(ctx, store, zap.NewNop(), AssignmentOptions{}, "vol-1")
	require.NoError(t, err)
	assert.NotNil(t, assignments)
	assert.Empty(t, assignments)
}

func TestGetVolunteerAssignments_WithoutScheduleOrCamp(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	camp, err := CreateCamp(ctx, store, zap.NewNop(), CampFields{Name: "Pop-up", Beds: 1}, "")
	require.NoError(t, err)

	_, err = CreateVolunteerAssignment(ctx, store, zap.NewNop(), AssignmentOptions{}, "vol-2", camp.ID, "")
	require.NoError(t, err)
	require.NoError(t, DeleteCamp(ctx, store, zap.NewNop(), camp.ID))

	assignments, err := GetVolunteerAssignments(ctx, store, zap.NewNop(), AssignmentOptions{}, "vol-2")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Nil(t, assignments[0].Camp)
	assert.Empty(t, assignments[0].UpcomingShifts)
}
