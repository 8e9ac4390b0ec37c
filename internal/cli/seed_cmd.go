package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/vtodo/internal/seed"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty database with demo lists and todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			seeded, err := seed.Seed(context.Background(), app.ListRepo, app.TodoRepo)
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Println("Database already has todos, nothing seeded.")
				return nil
			}
			fmt.Println("Seeded demo lists and todos.")
			return nil
		},
	}
}
