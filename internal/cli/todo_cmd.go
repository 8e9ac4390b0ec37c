package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/vtodo/internal/domain"
)

func parseDue(input string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if due, err := time.Parse(layout, input); err == nil {
			return due, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD or RFC 3339", input)
}

func formatTodoLine(t domain.Todo) string {
	check := " "
	if t.Completed() {
		check = "x"
	}
	line := fmt.Sprintf("[%s] %-8s  %s", check, t.ID[:min(8, len(t.ID))], t.Summary)
	if t.Due != nil {
		line += fmt.Sprintf("  (due %s)", t.Due.Format("2006-01-02 15:04"))
	}
	if len(t.Tags) > 0 {
		line += "  #" + strings.Join(t.Tags, " #")
	}
	return line
}

func newAddCmd(app *App) *cobra.Command {
	var listRef, description, due, rrule string
	var priority int
	var tags []string
	var remindOffsets []int

	cmd := &cobra.Command{
		Use:   "add SUMMARY",
		Short: "Add a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			listID, err := resolveListID(ctx, app, listRef)
			if err != nil {
				return err
			}

			var opts []domain.TodoOption
			if description != "" {
				opts = append(opts, domain.WithDescription(description))
			}
			if cmd.Flags().Changed("priority") {
				opts = append(opts, domain.WithPriority(priority))
			}
			if due != "" {
				dueAt, err := parseDue(due)
				if err != nil {
					return err
				}
				opts = append(opts, domain.WithDue(dueAt))
			}
			if rrule != "" {
				opts = append(opts, domain.WithRRule(rrule))
			}
			if len(tags) > 0 {
				opts = append(opts, domain.WithTags(tags...))
			}
			if len(remindOffsets) > 0 {
				if due == "" {
					return fmt.Errorf("--remind requires --due")
				}
				reminders := make([]domain.Reminder, 0, len(remindOffsets))
				for _, off := range remindOffsets {
					reminders = append(reminders, domain.Reminder{OffsetMinutes: off})
				}
				opts = append(opts, domain.WithReminders(reminders...))
			}

			t, err := app.Todos.Add(ctx, listID, args[0], opts...)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s to %s\n", t.ID[:min(8, len(t.ID))], listID)
			return nil
		},
	}

	cmd.Flags().StringVar(&listRef, "list", domain.InboxListID, "Target list (ID or name)")
	cmd.Flags().StringVar(&description, "description", "", "Longer description")
	cmd.Flags().IntVar(&priority, "priority", 0, "Priority 1 (highest) to 9, 0 = none")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&rrule, "rrule", "", "Recurrence rule (e.g. FREQ=DAILY)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tags (repeatable)")
	cmd.Flags().IntSliceVar(&remindOffsets, "remind", nil, "Reminder offset in minutes relative to due (negative = before)")

	return cmd
}

func newTodosCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "todos [LIST]",
		Short: "Show todos, optionally scoped to one list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := app.load(ctx); err != nil {
				return err
			}

			listID := ""
			if len(args) == 1 {
				resolved, err := resolveListID(ctx, app, args[0])
				if err != nil {
					return err
				}
				listID = resolved
			}

			shown := 0
			for _, t := range app.Todos.Todos() {
				if listID != "" && t.ListID != listID {
					continue
				}
				if !all && t.Completed() {
					continue
				}
				fmt.Println(formatTodoLine(t))
				shown++
			}
			if shown == 0 {
				fmt.Println("No todos found.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include completed todos")

	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a todo between completed and open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTodoID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Todos.ToggleStatus(ctx, id); err != nil {
				return err
			}
			for _, t := range app.Todos.Todos() {
				if t.ID == id {
					fmt.Println(formatTodoLine(t))
				}
			}
			return nil
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTodoID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Todos.Remove(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", id[:min(8, len(id))])
			return nil
		},
	}
}

func newReorderCmd(app *App) *cobra.Command {
	var lists bool

	cmd := &cobra.Command{
		Use:   "reorder ID...",
		Short: "Reorder todos (or lists) into the given sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := app.load(ctx); err != nil {
				return err
			}
			if lists {
				ids := make([]string, 0, len(args))
				for _, arg := range args {
					id, err := resolveListID(ctx, app, arg)
					if err != nil {
						return err
					}
					ids = append(ids, id)
				}
				return app.Lists.Reorder(ctx, ids)
			}

			ids := make([]string, 0, len(args))
			for _, arg := range args {
				id, err := resolveTodoID(ctx, app, arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return app.Todos.Reorder(ctx, ids)
		},
	}

	cmd.Flags().BoolVar(&lists, "lists", false, "Reorder lists instead of todos")

	return cmd
}
