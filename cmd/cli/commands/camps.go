package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/campdesk"
	"github.com/jakechorley/relief-camps/pkg/core/services"
	"github.com/jakechorley/relief-camps/pkg/db"
)

// ListCampsCmd creates the listCamps command
func ListCampsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listCamps",
		Short: "List all camps with their remaining beds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(app, app.Desk.DB.GetCamps(app.Ctx), printCampTable)
		},
	}
}

// CreateCampCmd creates the createCamp command
func CreateCampCmd(app *AppContext) *cobra.Command {
	var fields services.CampFields

	cmd := &cobra.Command{
		Use:   "createCamp <name>",
		Short: "Add a volunteer camp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields.Name = args[0]

			// Signed-in users are recorded as the creator
			userID := ""
			if account, err := currentAccount(app); err == nil {
				userID = account.User.ID
			}

			app.Logger.Debug("createCamp command", zap.String("name", fields.Name), zap.Int("beds", fields.Beds))

			return render(app, app.Desk.DB.CreateCamp(app.Ctx, fields, userID), func(w io.Writer, c *db.CampListing) {
				fmt.Fprintf(w, "\n✅ Camp created\n\n")
				printCamp(w, &c.Camp)
				fmt.Fprintln(w)
			})
		},
	}

	cmd.Flags().IntVar(&fields.Beds, "beds", 0, "Number of beds")
	cmd.Flags().StringSliceVar(&fields.Resources, "resources", nil, "Comma separated resources (e.g. Food,Water)")
	cmd.Flags().StringVar(&fields.Contact, "contact", "", "Contact phone number")
	cmd.Flags().StringVar(&fields.Ambulance, "ambulance", "", "Ambulance availability: Yes, No or Nearby")

	return cmd
}

// DeleteCampCmd creates the deleteCamp command
func DeleteCampCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteCamp <camp_id>",
		Short: "Delete a volunteer-added camp and its reservations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("deleteCamp command", zap.String("camp_id", args[0]))

			return render(app, app.Desk.DB.DeleteCamp(app.Ctx, args[0]), func(w io.Writer, _ campdesk.Empty) {
				fmt.Fprintf(w, "✅ Camp %s deleted\n", args[0])
			})
		},
	}
}
