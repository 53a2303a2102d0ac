package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/db"
)

func TestNotifyVolunteerAssignment(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	mailer := &mockMailer{}

	session, err := SignUp(ctx, store, zap.NewNop(), testAuthOpts, "nia@x.com", "secret1", volunteerFields("Nia"))
	require.NoError(t, err)

	opts := AssignmentOptions{UpcomingShifts: 2}
	assignment, err := CreateVolunteerAssignment(ctx, store, zap.NewNop(), opts, session.UserID, "camp-3", "FREQ=DAILY;BYHOUR=7")
	require.NoError(t, err)

	require.NoError(t, NotifyVolunteerAssignment(ctx, store, mailer, zap.NewNop(), opts, assignment))
	require.Len(t, mailer.sent, 1)

	email := mailer.sent[0]
	assert.Equal(t, "nia@x.com", email.to)
	assert.Equal(t, "Relief camp assignment: Sports Complex", email.subject)
	assert.Contains(t, email.body, "Hi Nia,")
	assert.Contains(t, email.body, "Camp contact: +1-555-0103")
	assert.Contains(t, email.body, "Beds available: 100 of 100")
	assert.Contains(t, email.body, "Your next shifts:")
}

func TestNotifyVolunteerAssignment_UnknownVolunteer(t *testing.T) {
	mailer := &mockMailer{}
	assignment := &db.VolunteerAssignment{ID: "a1", VolunteerID: "ghost", CampID: "camp-1"}

	err := NotifyVolunteerAssignment(context.Background(), seededStore(t), mailer, zap.NewNop(), AssignmentOptions{}, assignment)
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.Empty(t, mailer.sent)
}

func TestNotifyVolunteerAssignment_SendFailure(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	mailer := &mockMailer{err: errBackend}

	session, err := SignUp(ctx, store, zap.NewNop(), testAuthOpts, "o@x.com", "secret1", volunteerFields("O"))
	require.NoError(t, err)

	assignment := &db.VolunteerAssignment{ID: "a1", VolunteerID: session.UserID, CampID: "camp-1"}
	err = NotifyVolunteerAssignment(ctx, store, mailer, zap.NewNop(), AssignmentOptions{}, assignment)
	assert.ErrorIs(t, err, errBackend)
}

func TestAssignmentEmailBody_NoShifts(t *testing.T) {
	body := assignmentEmailBody(db.Profile{}, &db.Camp{Name: "Hall", Beds: 1, OriginalBeds: 2}, nil)
	assert.Contains(t, body, "Hi volunteer,")
	assert.NotContains(t, body, "next shifts")
	assert.NotContains(t, body, "Camp contact")
}
