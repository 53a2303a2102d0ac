package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/db"
)

// EmailSender sends plain-text email
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// NotifyStore is what assignment notification reads
type NotifyStore interface {
	GetAccountByID(ctx context.Context, id string) (*db.Account, error)
	GetCamp(ctx context.Context, id string) (*db.Camp, error)
}

// NotifyVolunteerAssignment emails a volunteer the details of their assignment
// and its next shifts
func NotifyVolunteerAssignment(
	ctx context.Context,
	store NotifyStore,
	mailer EmailSender,
	logger *zap.Logger,
	opts AssignmentOptions,
	assignment *db.VolunteerAssignment,
) error {
	account, err := store.GetAccountByID(ctx, assignment.VolunteerID)
	if err != nil {
		return fmt.Errorf("failed to look up volunteer: %w", err)
	}

	camp, err := store.GetCamp(ctx, assignment.CampID)
	if err != nil {
		return fmt.Errorf("failed to look up camp: %w", err)
	}

	shifts, err := UpcomingShifts(assignment.Schedule, assignment.AssignedAt, time.Now().UTC(), opts.upcoming())
	if err != nil {
		return fmt.Errorf("failed to expand schedule: %w", err)
	}

	subject := fmt.Sprintf("Relief camp assignment: %s", camp.Name)
	body := assignmentEmailBody(account.Profile, camp, shifts)

	logger.Debug("Sending assignment email",
		zap.String("volunteer_id", assignment.VolunteerID),
		zap.String("email", account.Profile.Email),
		zap.String("camp_id", camp.ID))

	if err := mailer.SendEmail(account.Profile.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send assignment email: %w", err)
	}

	logger.Info("Assignment email sent", zap.String("volunteer_id", assignment.VolunteerID), zap.String("camp_id", camp.ID))
	return nil
}

func assignmentEmailBody(profile db.Profile, camp *db.Camp, shifts []time.Time) string {
	var b strings.Builder

	name := profile.Name
	if name == "" {
		name = "volunteer"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "You have been assigned to %s.\n\n", camp.Name)

	if camp.Contact != "" {
		fmt.Fprintf(&b, "Camp contact: %s\n", camp.Contact)
	}
	if len(camp.Resources) > 0 {
		fmt.Fprintf(&b, "Resources on site: %s\n", strings.Join(camp.Resources, ", "))
	}
	fmt.Fprintf(&b, "Beds available: %d of %d\n", camp.Beds, camp.OriginalBeds)

	if len(shifts) > 0 {
		b.WriteString("\nYour next shifts:\n")
		for _, s := range shifts {
			fmt.Fprintf(&b, "  - %s\n", s.Format("Mon 02 Jan 2006 15:04 MST"))
		}
	}

	b.WriteString("\nThank you for helping.\n")
	return b.String()
}
