package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/vtodo/internal/cli"
	"github.com/alexanderramin/vtodo/internal/db"
	"github.com/alexanderramin/vtodo/internal/notify"
	"github.com/alexanderramin/vtodo/internal/reminder"
	"github.com/alexanderramin/vtodo/internal/repository"
	"github.com/alexanderramin/vtodo/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(os.Getenv("VTODO_LOG")); err == nil && lvl != zerolog.NoLevel {
		level = lvl
	}

	var out = zerolog.New(os.Stderr)
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return out.Level(level).With().Timestamp().Logger()
}

func run() error {
	// Determine DB path: env var or default ~/.vtodo/vtodo.db
	dbPath := os.Getenv("VTODO_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".vtodo", "vtodo.db")
	}

	log := newLogger()

	// Open database through the shared lazy handle
	handle := db.NewHandle(dbPath)
	database, err := handle.Get(context.Background())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer handle.Close()

	// Wire repositories and unit of work
	uow := db.NewSQLiteUnitOfWork(database)
	listRepo := repository.NewSQLiteListRepo(database, uow)
	todoRepo := repository.NewSQLiteTodoRepo(database, uow)

	// Wire stores: list deletion cascades through the todo store
	todos := store.NewTodoStore(todoRepo, log)
	lists := store.NewListStore(listRepo, todos, log)

	// Wire reminder scheduler
	schedOpts := []reminder.Option{}
	if raw := os.Getenv("VTODO_REMINDER_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid VTODO_REMINDER_INTERVAL %q: %w", raw, err)
		}
		schedOpts = append(schedOpts, reminder.WithInterval(interval))
	}
	scheduler := reminder.NewScheduler(notify.NewConsoleNotifier(log), log, schedOpts...)

	app := &cli.App{
		Lists:     lists,
		Todos:     todos,
		ListRepo:  listRepo,
		TodoRepo:  todoRepo,
		Scheduler: scheduler,
		Log:       log,
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
