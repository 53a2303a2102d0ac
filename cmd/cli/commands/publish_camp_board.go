package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/campdesk"
	"github.com/jakechorley/relief-camps/pkg/core/services"
	"github.com/jakechorley/relief-camps/pkg/db"
	"github.com/jakechorley/relief-camps/pkg/sheetssql"
)

// PublishCampBoardCmd creates the publishCampBoard command
func PublishCampBoardCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishCampBoard",
		Short: "Publish current camp capacity to the camp board sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.CampBoardSheetID == "" {
				return errors.New("campBoardSheetID is not configured")
			}

			app.Logger.Debug("publishCampBoard command", zap.String("sheet_id", app.Cfg.CampBoardSheetID))

			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			schema, err := sheetssql.SchemaFromModels(db.CampBoardRow{})
			if err != nil {
				return fmt.Errorf("failed to build camp board schema: %w", err)
			}
			board, err := sheetssql.NewDB(client, app.Cfg.CampBoardSheetID, schema)
			if err != nil {
				return fmt.Errorf("failed to open camp board: %w", err)
			}

			result, err := services.PublishCampBoard(app.Ctx, app.Database, board, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to publish camp board: %w", err)
			}

			return render(app, campdesk.Succeed(result), func(w io.Writer, res *services.CampBoardResult) {
				if res.Skipped {
					fmt.Fprintf(w, "Camp board already up to date (snapshot %s)\n", res.SnapshotID)
					return
				}
				fmt.Fprintf(w, "\n✅ Camp board published\n\n")
				fmt.Fprintf(w, "Snapshot: %s\n", res.SnapshotID)
				fmt.Fprintf(w, "Camps:    %d\n", len(res.Rows))
				fmt.Fprintf(w, "Sheet ID: %s\n\n", app.Cfg.CampBoardSheetID)
			})
		},
	}
}
