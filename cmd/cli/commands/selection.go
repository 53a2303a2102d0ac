package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/campdesk"
	"github.com/jakechorley/relief-camps/pkg/db"
)

// SelectCampCmd creates the selectCamp command
func SelectCampCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "selectCamp <camp_id>",
		Short: "Reserve a bed in a camp for the signed-in user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := currentAccount(app)
			if err != nil {
				return err
			}

			app.Logger.Debug("selectCamp command", zap.String("user_id", account.User.ID), zap.String("camp_id", args[0]))

			return render(app, app.Desk.DB.SelectCamp(app.Ctx, account.User.ID, args[0]), func(w io.Writer, s *db.CampSelection) {
				fmt.Fprintf(w, "\n✅ Bed reserved in camp %s\n", s.CampID)
				fmt.Fprintf(w, "Selection ID: %s\n\n", s.ID)
			})
		},
	}
}

// CancelSelectionCmd creates the cancelSelection command
func CancelSelectionCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancelSelection",
		Short: "Release the signed-in user's reserved bed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := currentAccount(app)
			if err != nil {
				return err
			}

			return render(app, app.Desk.DB.CancelCampSelection(app.Ctx, account.User.ID), func(w io.Writer, _ campdesk.Empty) {
				fmt.Fprintln(w, "✅ Reservation cancelled")
			})
		},
	}
}

// MySelectionCmd creates the mySelection command
func MySelectionCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mySelection",
		Short: "Show the signed-in user's reserved camp",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := currentAccount(app)
			if err != nil {
				return err
			}

			return render(app, app.Desk.DB.GetUserCampSelection(app.Ctx, account.User.ID), func(w io.Writer, s *db.CampSelectionWithCamp) {
				if s == nil {
					fmt.Fprintln(w, "No camp selected.")
					return
				}
				fmt.Fprintf(w, "\nSelected at: %s\n", s.SelectedAt.Local().Format("2006-01-02 15:04"))
				if s.Camp == nil {
					fmt.Fprintf(w, "Camp %s no longer exists\n\n", s.CampID)
					return
				}
				printCamp(w, s.Camp)
				fmt.Fprintln(w)
			})
		},
	}
}
