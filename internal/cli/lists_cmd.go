package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/vtodo/internal/domain"
)

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show and manage todo lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := app.load(ctx); err != nil {
				return err
			}

			todos := app.Todos.Todos()
			counts := make(map[string]int)
			for _, t := range todos {
				if !t.Completed() {
					counts[t.ListID]++
				}
			}

			for _, l := range app.Lists.Lists() {
				fmt.Printf("%-12s  %-20s  %d open\n", l.ID, l.Name, counts[l.ID])
			}
			return nil
		},
	}

	cmd.AddCommand(
		newListsAddCmd(app),
		newListsRenameCmd(app),
		newListsRmCmd(app),
	)

	return cmd
}

func newListsAddCmd(app *App) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a new list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := app.load(ctx); err != nil {
				return err
			}

			var opts []domain.ListOption
			if color != "" {
				opts = append(opts, domain.WithListColor(color))
			}
			l, err := app.Lists.Add(ctx, args[0], opts...)
			if err != nil {
				return err
			}
			fmt.Printf("Created list %s (%s)\n", l.Name, l.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "List color (hex, e.g. #3b82f6)")

	return cmd
}

func newListsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename LIST NAME",
		Short: "Rename a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			listID, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Lists.Update(ctx, listID, domain.ListPatch{Name: domain.Ptr(args[1])}); err != nil {
				return err
			}
			fmt.Printf("Renamed list %s to %s\n", listID, args[1])
			return nil
		},
	}
}

func newListsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm LIST",
		Short: "Delete a list and all its todos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			listID, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if listID == domain.InboxListID {
				return fmt.Errorf("the inbox cannot be deleted")
			}
			if err := app.Lists.Remove(ctx, listID); err != nil {
				return err
			}
			fmt.Printf("Removed list %s\n", listID)
			return nil
		},
	}
}
