package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sigpesq/cmd/sigpesq/ui"
	"sigpesq/internal/api"
	"sigpesq/internal/config"
	"sigpesq/internal/logging"
	"sigpesq/internal/session"
)

var (
	// Global flags
	verbose bool
	apiURL  string

	// Logger for the non-interactive subcommands; the TUI logs to the
	// category files instead.
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sigpesq",
	Short: "SIGPesq - cliente do Sistema de Gestão de Pesquisa",
	Long: `sigpesq is a terminal client for the SIGPesq research management API:
participants, research projects, funding awards and scientific productions.

Run without arguments to start the interactive interface. The subcommands
expose the same data for scripting and quick lookups.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive UI has its own logging; zap is for subcommands.
		if cmd.Use == "sigpesq" && cmd.CalledAs() == "sigpesq" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// env bundles everything a command needs to talk to the server.
type env struct {
	cfg     *config.Config
	client  *api.Client
	store   *session.Store
	manager *session.Manager
	expired chan struct{}
}

// newEnv resolves config, wires the HTTP client with the one-shot 401
// policy, and restores any persisted session.
func newEnv() (*env, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	if err := logging.Initialize(dir, logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		return nil, err
	}
	logging.Boot("api base url: %s", cfg.API.BaseURL)

	e := &env{cfg: cfg, expired: make(chan struct{}, 1)}
	e.store = session.NewStore(dir)
	e.client = api.New(cfg.API.BaseURL, cfg.RequestTimeout(), e.store,
		api.WithUnauthorizedPolicy(func() {
			if e.manager != nil {
				e.manager.ForceLogout()
			}
			select {
			case e.expired <- struct{}{}:
			default:
			}
		}))
	e.manager = session.NewManager(e.client, e.store)
	return e, nil
}

// requireSession restores the session and fails when nobody is logged in.
// Used by the subcommands; the TUI shows the login page instead.
func (e *env) requireSession() error {
	e.manager.Initialize()
	if !e.manager.Authenticated() {
		return fmt.Errorf("não autenticado; use 'sigpesq login'")
	}
	return nil
}

func runTUI() error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	theme := ui.DetectTheme()
	if e.cfg.UI.DarkMode {
		theme = ui.DarkTheme()
	}
	styles := ui.NewStyles(theme)

	app := ui.NewApp(e.client, e.manager, styles, e.cfg.Debounce(), e.expired)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interface failed: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "SIGPesq API base URL (overrides config)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(participantesCmd)
	rootCmd.AddCommand(projetosCmd)
	rootCmd.AddCommand(financiamentosCmd)
	rootCmd.AddCommand(producoesCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(consultasCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
