package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/aria/reminders/internal/application/services"
	"github.com/aria/reminders/internal/domain/entities"
	"github.com/aria/reminders/internal/infrastructure/config"
	"github.com/aria/reminders/internal/infrastructure/logger"
	"github.com/aria/reminders/internal/infrastructure/ratelimit"
	"github.com/aria/reminders/internal/infrastructure/server"
	"github.com/aria/reminders/internal/ports"
)

// NewRootCommand builds the aria command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "aria",
		Short:         "ARIA reminders",
		Long:          "Create, list and complete ARIA reminders, resolve time phrases, and serve the reminders API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newTestCommand(),
		newUpcomingCommand(),
		newOverdueCommand(),
		newSummaryCommand(),
		newProactiveCommand(),
		newCompleteCommand(),
		newSnoozeCommand(),
		newDeleteCommand(),
		newNowCommand(),
		newParseCommand(),
		NewServeCommand(),
		NewMigrateCommand(),
		newTokenCommand(),
	)

	return rootCmd
}

// withApp loads the application for the duration of one command
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func newTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Create a test reminder due in one hour",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			reminder, err := a.reminders.CreateReminder(cmd.Context(), ports.CreateReminderRequest{
				Text:     "Test reminder from ARIA",
				When:     "in 1 hour",
				Priority: "normal",
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created reminder: %s\n", reminder.ID)
			return printJSON(cmd.OutOrStdout(), reminder)
		}),
	}
}

func newUpcomingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upcoming [hours]",
		Short: "List reminders due within the next hours (default 24)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			hours := services.DefaultUpcomingHours
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid hours %q: %w", args[0], err)
				}
				hours = n
			}
			if hours <= 0 {
				hours = services.DefaultUpcomingHours
			}

			reminders, err := a.reminders.ListUpcoming(cmd.Context(), "", hours)
			if err != nil {
				return err
			}
			if reminders == nil {
				reminders = []*entities.UpcomingReminder{}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Upcoming reminders (%dh):\n", hours)
			return printJSON(cmd.OutOrStdout(), reminders)
		}),
	}
}

func newOverdueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List overdue reminders",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			reminders, err := a.reminders.ListOverdue(cmd.Context(), "")
			if err != nil {
				return err
			}
			if reminders == nil {
				reminders = []*entities.OverdueReminder{}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Overdue reminders:")
			return printJSON(cmd.OutOrStdout(), reminders)
		}),
	}
}

func newSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show reminder counts",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			summary, err := a.reminders.Summary(cmd.Context(), "")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Reminder summary:")
			return printJSON(cmd.OutOrStdout(), summary)
		}),
	}
}

func newProactiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "proactive",
		Short: "Print the conversation-start reminder digest",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			msg, ok, err := a.reminders.ProactiveMessage(cmd.Context(), "")
			if err != nil {
				return err
			}

			if !ok {
				msg = "No reminders to surface"
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		}),
	}
}

func newCompleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete a reminder, scheduling the next occurrence if it recurs",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			result, err := a.reminders.CompleteReminder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		}),
	}
}

func newSnoozeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snooze <id> [minutes]",
		Short: "Snooze a reminder (default 30 minutes)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			minutes := services.DefaultSnoozeMinutes
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid minutes %q: %w", args[1], err)
				}
				minutes = n
			}

			ok, err := a.reminders.SnoozeReminder(cmd.Context(), args[0], minutes)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ports.SnoozeResponse{Success: ok})
		}),
	}
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			deleted, err := a.reminders.DeleteReminder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ports.DeleteResponse{Deleted: deleted})
		}),
	}
}

func newNowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Print the current time context and prompt block",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			now := a.resolver.CurrentTime()
			if err := printJSON(cmd.OutOrStdout(), a.resolver.FullContext(now)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), a.resolver.PromptBlock(now))
			return nil
		}),
	}
}

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <phrase>",
		Short: "Resolve a time phrase against the current time",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			phrase := strings.Join(args, " ")
			resolved, variant, err := a.resolver.Resolve(phrase, a.resolver.CurrentTime())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ports.ParseTimeResponse{
				Phrase:     phrase,
				Variant:    string(variant),
				ResolvesTo: resolved,
			})
		}),
	}
}

func newTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token <user>",
		Short: "Issue a bearer token for the reminders API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := cfg.ValidateForServer(); err != nil {
				return err
			}

			auth := services.NewAuthService(cfg.JWT, logger.NewNop())
			token, expiresAt, err := auth.IssueToken(args[0])
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"token":      token,
				"token_type": "Bearer",
				"expires_at": expiresAt.Format(time.RFC3339),
			})
		},
	}
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the reminders API server",
		Long:  "Start the reminders API server with all configured routes and middleware",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			return runServer(cmd.Context(), a)
		}),
	}
}

func runServer(ctx context.Context, a *app) error {
	if err := a.cfg.ValidateForServer(); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}

	deps := server.Dependencies{
		Reminders: a.reminders,
		Auth:      services.NewAuthService(a.cfg.JWT, a.logger),
		Metrics:   a.metrics,
		DB:        a.db,
	}

	if a.cfg.Redis.Addr != "" {
		store, err := ratelimit.NewRedisStore(a.cfg.Redis, a.cfg.Security, a.logger)
		if err != nil {
			return err
		}
		defer store.Close()
		deps.RateLimitStore = store
	}

	srv, err := server.New(a.cfg, deps, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	a.logger.Infow("Starting ARIA reminders API server",
		"port", a.cfg.Server.Port,
		"environment", a.cfg.App.Environment,
		"store", a.cfg.Store.Driver,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port))
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the reminder schema migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			return runMigration(cmd.OutOrStdout(), a, "up")
		}),
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			return runMigration(cmd.OutOrStdout(), a, "down")
		}),
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			return showMigrationVersion(cmd.OutOrStdout(), a)
		}),
	})

	return migrateCmd
}

func newMigrator(a *app) (*migrate.Migrate, error) {
	if a.db == nil {
		return nil, fmt.Errorf("migrations need the %s store driver", config.StoreDriverPostgres)
	}

	driver, err := postgres.WithInstance(a.db.DB.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+a.cfg.Database.MigrationsPath,
		"postgres",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

func runMigration(w io.Writer, a *app, direction string) error {
	m, err := newMigrator(a)
	if err != nil {
		return err
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(w, "No migrations to run")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintf(w, "Migration %s completed successfully\n", direction)
	return nil
}

func showMigrationVersion(w io.Writer, a *app) error {
	m, err := newMigrator(a)
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(w, "No migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Fprintf(w, "Current migration version: %d\n", version)
	fmt.Fprintf(w, "Dirty: %t\n", dirty)
	return nil
}
