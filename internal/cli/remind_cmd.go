package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRemindCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run the reminder scheduler until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.load(ctx); err != nil {
				return err
			}

			app.Scheduler.Start(app.Todos)
			defer app.Scheduler.Stop()

			fmt.Println("Watching reminders, press Ctrl-C to stop.")
			<-ctx.Done()
			return nil
		},
	}
}
