package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/marshallshelly/stockroom/cmd/stockroom/output"
	"github.com/marshallshelly/stockroom/pkg/apierr"
	"github.com/marshallshelly/stockroom/pkg/client"
	"github.com/marshallshelly/stockroom/pkg/config"
	"github.com/marshallshelly/stockroom/pkg/forms"
	"github.com/marshallshelly/stockroom/pkg/session"
	"github.com/marshallshelly/stockroom/pkg/workflow"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	apiURL      string
	sessionFile string
	timeout     time.Duration
	verbose     bool
	jsonOutput  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stockroom",
	Short: "Stockroom - inventory management from the terminal",
	Long: `Stockroom is a terminal client for the inventory management REST backend.

Features:
  - Categories, products and orders with the backend's validation rules
  - Dashboard with category summary, stock movement and order status charts
  - Low-stock and pending-order notifications with background refresh
  - Interactive TUI and non-interactive CLI modes
  - Built-in sandbox backend for local use`,
	Version:       "0.4.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		switch {
		case errors.Is(err, session.ErrLoginRequired), errors.Is(err, apierr.ErrUnauthorized):
			output.Error("Not logged in. Run `stockroom login` first.")
		case errors.Is(err, workflow.ErrCancelled):
			output.Muted("Cancelled")
			return
		default:
			fmt.Fprintln(os.Stderr, message(err))
		}
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API base URL (default from "+config.EnvAPIURL+" or "+client.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file", "", "File holding the login session")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// message prefers the classified user-facing text of a failed request and
// lists any field errors under it.
func message(err error) string {
	var ve *forms.ValidationError
	if errors.As(err, &ve) {
		return "Error: " + ve.Message
	}
	e, ok := apierr.As(err)
	if !ok {
		return "Error: " + err.Error()
	}

	var b strings.Builder
	b.WriteString("Error: " + e.Message)
	for _, name := range slices.Sorted(maps.Keys(e.Fields)) {
		fmt.Fprintf(&b, "\n  %s: %s", name, e.Field(name))
	}
	return b.String()
}

// env is everything a command needs to talk to the backend.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	session *session.Session
	client  *client.Client
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig layers flags over environment over defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if sessionFile != "" {
		cfg.SessionFile = sessionFile
	}
	if timeout > 0 {
		cfg.RequestTimeout = timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup builds the session and client for the current invocation.
func setup() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger()
	slog.SetDefault(logger)

	sess, err := session.Open(session.NewFileStore(cfg.SessionFile))
	if err != nil {
		return nil, err
	}
	sess.OnInvalidate(func(r session.Reason) {
		if r == session.ReasonUnauthorized {
			logger.Warn("session expired, login required")
		}
	})

	c, err := client.New(cfg.APIURL, sess,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &env{cfg: cfg, logger: logger, session: sess, client: c}, nil
}

// authed is setup for commands that need a logged-in user.
func authed() (*env, error) {
	e, err := setup()
	if err != nil {
		return nil, err
	}
	if err := e.session.Require(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *env) options() []workflow.Option {
	return []workflow.Option{
		workflow.WithLogger(e.logger),
		workflow.WithThresholds(e.cfg.Thresholds()),
	}
}
