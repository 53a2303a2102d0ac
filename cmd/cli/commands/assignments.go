package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/core/services"
	"github.com/jakechorley/relief-camps/pkg/db"
)

// AssignVolunteerCmd creates the assignVolunteer command
func AssignVolunteerCmd(app *AppContext) *cobra.Command {
	var schedule string
	var notify bool

	cmd := &cobra.Command{
		Use:   "assignVolunteer <volunteer_id> <camp_id>",
		Short: "Assign a volunteer to a camp",
		Long: `Assign a volunteer to a camp, optionally with a recurring shift schedule
given as an RRULE (e.g. "FREQ=WEEKLY;BYDAY=SA,SU;BYHOUR=9").
With --notify the volunteer is emailed the assignment through Gmail.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteerID, campID := args[0], args[1]
			app.Logger.Debug("assignVolunteer command",
				zap.String("volunteer_id", volunteerID),
				zap.String("camp_id", campID),
				zap.Bool("notify", notify))

			r := app.Desk.DB.CreateVolunteerAssignment(app.Ctx, volunteerID, campID, schedule)
			if err := render(app, r, func(w io.Writer, a *db.VolunteerAssignment) {
				fmt.Fprintf(w, "\n✅ Volunteer %s assigned to camp %s\n", a.VolunteerID, a.CampID)
				if a.Schedule != "" {
					fmt.Fprintf(w, "Schedule: %s\n", a.Schedule)
				}
				fmt.Fprintln(w)
			}); err != nil || !notify {
				return err
			}

			mailer, err := app.GmailClient()
			if err != nil {
				return err
			}
			if err := services.NotifyVolunteerAssignment(app.Ctx, app.Database, mailer, app.Logger, app.AssignmentOptions(), r.Data); err != nil {
				return err
			}
			if !app.JSON {
				fmt.Fprintln(app.Out, "📧 Volunteer notified")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "Recurring shift schedule as an RRULE")
	cmd.Flags().BoolVar(&notify, "notify", false, "Email the volunteer about the assignment")

	return cmd
}

// ListAssignmentsCmd creates the listAssignments command
func ListAssignmentsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listAssignments [volunteer_id]",
		Short: "List a volunteer's assignments (defaults to the signed-in user)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var volunteerID string
			if len(args) > 0 {
				volunteerID = args[0]
			} else {
				account, err := currentAccount(app)
				if err != nil {
					return err
				}
				volunteerID = account.User.ID
			}

			return render(app, app.Desk.DB.GetVolunteerAssignments(app.Ctx, volunteerID), printAssignments)
		},
	}
}

func printAssignments(w io.Writer, assignments []db.AssignmentWithCamp) {
	if len(assignments) == 0 {
		fmt.Fprintln(w, "No assignments.")
		return
	}

	for _, a := range assignments {
		name := colorDim + "(camp removed)" + colorReset
		if a.Camp != nil {
			name = a.Camp.Name
		}
		fmt.Fprintf(w, "\n%s  %s\n", a.CampID, name)
		fmt.Fprintf(w, "  Assigned: %s\n", a.AssignedAt.Local().Format("2006-01-02 15:04"))
		if a.Schedule == "" {
			continue
		}
		fmt.Fprintf(w, "  Schedule: %s\n", a.Schedule)
		for _, shift := range a.UpcomingShifts {
			fmt.Fprintf(w, "    - %s\n", formatShift(shift))
		}
	}
	fmt.Fprintln(w)
}
