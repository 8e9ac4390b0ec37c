package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/vtodo/internal/reminder"
	"github.com/alexanderramin/vtodo/internal/repository"
	"github.com/alexanderramin/vtodo/internal/store"
)

// App holds the wired stores and collaborators used by CLI commands.
type App struct {
	Lists     *store.ListStore
	Todos     *store.TodoStore
	ListRepo  repository.ListRepo
	TodoRepo  repository.TodoRepo
	Scheduler *reminder.Scheduler
	Log       zerolog.Logger
}

// load brings both caches to Ready. Idempotent, so every command can
// call it unconditionally.
func (a *App) load(ctx context.Context) error {
	if err := a.Lists.Load(ctx); err != nil {
		return fmt.Errorf("loading lists: %w", err)
	}
	if err := a.Todos.Load(ctx); err != nil {
		return fmt.Errorf("loading todos: %w", err)
	}
	return nil
}

// resolveTodoID resolves an exact todo ID or an unambiguous prefix.
func resolveTodoID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("todo ID is required")
	}
	if err := app.load(ctx); err != nil {
		return "", err
	}

	todos := app.Todos.Todos()
	for _, t := range todos {
		if t.ID == input {
			return t.ID, nil
		}
	}

	var matches []string
	for _, t := range todos {
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("todo not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("todo ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveListID resolves a list by exact ID or case-insensitive name.
func resolveListID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("list is required")
	}
	if err := app.load(ctx); err != nil {
		return "", err
	}

	for _, l := range app.Lists.Lists() {
		if l.ID == input || strings.EqualFold(l.Name, input) {
			return l.ID, nil
		}
	}
	return "", fmt.Errorf("list not found: %q", input)
}

// NewRootCmd creates the top-level "vtodo" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "vtodo",
		Short:         "Local-first todo manager with lists and reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newListsCmd(app),
		newAddCmd(app),
		newTodosCmd(app),
		newDoneCmd(app),
		newRmCmd(app),
		newReorderCmd(app),
		newSeedCmd(app),
		newRemindCmd(app),
	)

	return root
}
