package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/db"
)

// WatchCmd creates the watch command
func WatchCmd(app *AppContext) *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print camp and reservation changes as they happen (Ctrl+C to stop)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			var mu sync.Mutex
			show := func(ev db.ChangeEvent) {
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintln(app.Out, formatEvent(ev))
			}

			camps := app.Desk.Subscriptions.SubscribeToCamps(ctx, show)
			if err := camps.Err(); err != nil {
				return err
			}
			defer camps.Data()

			selections := app.Desk.Subscriptions.SubscribeToCampSelections(ctx, show)
			if err := selections.Err(); err != nil {
				return err
			}
			defer selections.Data()

			app.Logger.Info("Watching for changes", zap.Duration("duration", duration))
			fmt.Fprintf(app.Out, "👀 Watching camps and reservations...\n\n")

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().DurationVar(&duration, "for", 0, "Stop after this long (e.g. 30s); 0 watches until interrupted")

	return cmd
}
