// Package cmd provides the planit command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/planit-ai/planit/internal/auth"
	"github.com/planit-ai/planit/internal/config"
	"github.com/planit-ai/planit/internal/imageurl"
	"github.com/planit-ai/planit/internal/logging"
	"github.com/planit-ai/planit/internal/notify"
	"github.com/planit-ai/planit/internal/storage"
	"github.com/planit-ai/planit/internal/trip"
	"github.com/planit-ai/planit/internal/tui"
	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/client"
)

var (
	cfgFile string
	v       = viper.New()
)

// errNotSignedIn is returned by commands that need a session.
var errNotSignedIn = errors.New("not signed in, run `planit login` first")

var rootCmd = &cobra.Command{
	Use:   "planit",
	Short: "Planit in your terminal",
	Long: `planit is a terminal client for the Planit travel planner.

Run it without arguments to open the interactive app: your itinerary,
the community board, notifications and your profile.

Configuration:
  Config is loaded from planit.yaml in the current directory or
  $HOME/.planit/. A .env file in the current directory is read first.

  Environment variables override config values with the PLANIT_ prefix.
  Example: PLANIT_API_URL=http://localhost:8080/api`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./planit.yaml or ~/.planit/planit.yaml)")
}

func initConfig() {
	config.InitViper(v, cfgFile)
}

// env is what a command needs to talk to the API on behalf of the
// persisted session.
type env struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *auth.Store
	client    *client.Client
	validator *validate.Validator
	images    *imageurl.Resolver
}

// newEnv restores the session from st, dropping it when the token has
// expired, and builds an API client bound to it.
func newEnv(cfg *config.Config, st storage.Storage, logger *slog.Logger, onUnauthorized func()) *env {
	store := auth.NewStore(st, logger)
	store.Hydrate()
	if tok := store.AccessToken(); tok != "" && auth.IsExpired(tok) {
		logger.Info("stored session expired, signing out")
		store.ClearAuth()
	}

	opts := []client.Option{
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
		client.WithLogger(logger),
	}
	if onUnauthorized != nil {
		opts = append(opts, client.WithOnUnauthorized(onUnauthorized))
	}

	return &env{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		client:    client.New(cfg.APIURL, store, opts...),
		validator: validate.New(),
		images:    imageurl.New(cfg.CDNBaseURL, cfg.DefaultAvatarURL),
	}
}

// loadEnv is newEnv for CLI subcommands: file-backed session, stderr
// logging, and a sign-in hint when the server rejects the token.
func loadEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	logger := logging.Stderr(cfg.LogLevel)
	st := storage.NewFileStorage(cfg.StoragePath(), logger)
	errOut := cmd.ErrOrStderr()
	return newEnv(cfg, st, logger, func() {
		fmt.Fprintln(errOut, "session expired, run `planit login` to sign in again")
	}), nil
}

func (e *env) requireSession() error {
	if !e.store.Snapshot().LoggedIn() {
		return errNotSignedIn
	}
	return nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	// The TUI owns the terminal, so logs go to a file.
	logger, closeLog, err := logging.OpenFile(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck // best-effort close

	// No redirect hook: the app watches the store and shows the login
	// screen when a 401 clears it.
	e := newEnv(cfg, storage.NewFileStorage(cfg.StoragePath(), logger), logger, nil)
	logger.Info("starting tui", "api_url", cfg.APIURL, "signed_in", e.store.Snapshot().LoggedIn())

	app := tui.NewApp(tui.Deps{
		Client:          e.client,
		Auth:            e.store,
		Hub:             notify.NewHub(),
		Images:          e.images,
		Validator:       e.validator,
		Poller:          trip.NewPoller(e.client, cfg.TripPollInterval, logger),
		ScheduleRefresh: cfg.ScheduleRefreshInterval,
		Logger:          logger,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
