package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/database"
	"github.com/akyairhashvil/streakboard/internal/report"
	"github.com/akyairhashvil/streakboard/internal/session"
	"github.com/akyairhashvil/streakboard/internal/streak"
	"github.com/akyairhashvil/streakboard/internal/tui"
	"github.com/akyairhashvil/streakboard/internal/util"
)

// passphraseEnv supplies the export passphrase non-interactively.
const passphraseEnv = config.EnvPrefix + "_PASSPHRASE"

func (a *app) streakCmd() *cobra.Command {
	var rebuild bool
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show the daily completion streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, closeSess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSess()

			if rebuild {
				if _, err := sess.RebuildStreak(); err != nil {
					return err
				}
			}
			snap := sess.Streak.Snapshot()
			tier := sess.Streak.Tier()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current streak: %d day(s) (%s)\n", snap.CurrentStreak, tier.Info().Label)
			fmt.Fprintf(out, "Longest streak: %d day(s)\n", snap.LongestStreak)
			fmt.Fprintf(out, "Tasks completed: %d\n", snap.TotalTasksCompleted)
			if snap.LastActiveDate != nil {
				fmt.Fprintf(out, "Last active: %s\n", *snap.LastActiveDate)
			}
			if next := streak.NextMilestone(snap.CurrentStreak); next > 0 {
				fmt.Fprintf(out, "Next tier in %d day(s)\n", next)
			}
			return flushToasts(out, sess)
		},
	}
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "recompute from completed tasks")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the reminder scheduler in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, closeSess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSess()

			out := cmd.OutOrStdout()
			if once {
				fired := sess.CheckReminders(cmd.Context())
				if len(fired) == 0 {
					fmt.Fprintln(out, "No reminders due.")
				}
				return flushToasts(out, sess)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(out, "Watching %d task(s), checking every %s. Ctrl+C to stop.\n",
				sess.Tasks.Len(), sess.Scheduler.Interval())
			return watch(ctx, out, sess)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "check once and exit")
	return cmd
}

// watch runs the scheduler and prints toasts as they arrive.
func watch(ctx context.Context, out io.Writer, sess *session.Session) error {
	errc := make(chan error, 1)
	go func() { errc <- sess.RunReminders(ctx) }()

	ticker := time.NewTicker(config.UITickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = flushToasts(out, sess)
		case err := <-errc:
			_ = flushToasts(out, sess)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func (a *app) reportCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF progress report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, closeSess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSess()

			if dir == "" {
				dir = util.ReportsDir(config.AppName)
			}
			r := report.Build(sess.Tasks.List(), sess.Streak.Snapshot(), sess.Streak.Tier(), sess.Clock.Now())
			path, err := report.WriteFile(dir, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "o", "", "output directory")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		output  string
		encrypt bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all stored data as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, closeSess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSess()

			snap, ok := sess.KV.(database.Snapshotter)
			if !ok {
				return fmt.Errorf("export: store cannot enumerate keys")
			}
			opts := database.ExportOptions{AppVersion: tui.AppVersion, Now: sess.Clock.Now()}
			if encrypt {
				pass, err := readPassphrase(cmd.ErrOrStderr(), true)
				if err != nil {
					return err
				}
				opts.Passphrase = pass
			}
			payload, err := database.ExportVault(cmd.Context(), snap, opts)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(append(payload, '\n'))
				return err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("create export dir: %w", err)
			}
			if err := os.WriteFile(output, payload, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "seal the export with a passphrase")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import data written by export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			sess, closeSess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSess()
			if sess.InMemory() {
				return fmt.Errorf("import: %w", database.ErrStoreUnavailable)
			}

			opts := database.ImportOptions{Replace: replace}
			n, err := database.ImportVault(cmd.Context(), sess.KV, payload, opts)
			if errors.Is(err, database.ErrPassphraseRequired) {
				if opts.Passphrase, err = readPassphrase(cmd.ErrOrStderr(), false); err != nil {
					return err
				}
				n, err = database.ImportVault(cmd.Context(), sess.KV, payload, opts)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d key(s) into %s\n", n, sess.StorePath())
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "remove keys missing from the import")
	return cmd
}

// readPassphrase takes the passphrase from the environment or prompts for
// it. New passphrases must pass the strength check.
func readPassphrase(w io.Writer, isNew bool) (string, error) {
	pass := strings.TrimSpace(os.Getenv(passphraseEnv))
	if pass == "" {
		if !util.IsTerminal(os.Stdin) {
			return "", fmt.Errorf("%w: set %s or run interactively", database.ErrPassphraseRequired, passphraseEnv)
		}
		var err error
		if pass, err = util.PromptPassphrase(w, "Passphrase: "); err != nil {
			return "", fmt.Errorf("read passphrase: %w", err)
		}
	}
	if pass == "" {
		return "", database.ErrPassphraseRequired
	}
	if isNew {
		if err := util.ValidatePassphrase(pass); err != nil {
			return "", fmt.Errorf("passphrase too weak: %w", err)
		}
	}
	return pass, nil
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
			fmt.Fprintf(out, "db_path: %s\n", cfg.DBPath())
			fmt.Fprintf(out, "reminder_interval: %s\n", cfg.ReminderInterval)
			fmt.Fprintf(out, "theme: %s\n", cfg.Theme)
			fmt.Fprintf(out, "notifications: %t\n", cfg.Notifications)
			return nil
		},
	}
	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
