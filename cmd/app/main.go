package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/session"
	"github.com/akyairhashvil/streakboard/internal/tui"
	"github.com/akyairhashvil/streakboard/internal/util"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the global flags shared by every command.
type app struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "A task board that rewards finishing something every day",
		Version:       tui.VersionLabel(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDashboard(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "verbose logging to stderr")

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.moveCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.timerCmd(),
		a.streakCmd(),
		a.watchCmd(),
		a.reportCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.configCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// cliLogger logs to the data directory, or to stderr with --debug: console
// format on a terminal, JSON otherwise.
func (a *app) cliLogger(cfg *config.Config) (*zap.Logger, error) {
	if a.debug {
		if util.IsTerminal(os.Stderr) {
			return util.NewDevelopmentLogger(true)
		}
		return util.NewProductionLogger(true)
	}
	return util.NewFileLogger(cfg.LogPath(), cfg.Debug)
}

// openSession loads config and opens the session for a one-shot command.
// The returned closer flushes the logger and closes the store.
func (a *app) openSession(ctx context.Context) (*session.Session, func(), error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := a.cliLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	sess := session.New(ctx, cfg, logger.Named("cli"))
	closer := func() {
		util.LogError(logger, "close_store", sess.Close())
		_ = util.Sync(logger)
	}
	return sess, closer, nil
}

func (a *app) runDashboard(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	logger, err := util.NewFileLogger(cfg.LogPath(), cfg.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = util.Sync(logger) }()

	logger.Info("app_started",
		zap.String("version", tui.AppVersion),
		zap.String("db_path", cfg.DBPath()),
	)
	sess := session.New(ctx, cfg, logger)
	defer func() { util.LogError(logger, "close_store", sess.Close()) }()

	model := tui.NewDashboardModel(sess)
	defer model.Shutdown()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.AppName, tui.VersionLabel())
		},
	}
}
