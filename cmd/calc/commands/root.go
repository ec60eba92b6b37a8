package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calc/internal/app"
	"calc/internal/logging"
	"calc/internal/ui"
)

// skipPreload marks commands that load persisted state themselves.
const skipPreload = "skip-preload"

var (
	home       string
	configPath string
	storeName  string
	passphrase string
	verbose    bool

	logger  *zap.Logger
	appWire *app.Wire
)

// Execute runs the CLI with os.Args.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return execute(ctx, newRootCmd())
}

// execute runs root and reports its error once on root's error stream.
// Cobra's own error printing is silenced.
func execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	closeWire()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "calc",
		Short:         "Calculator with history and plotting",
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{skipPreload: "true"},
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, err = logging.New(logging.Options{
				Level:   cfg.Logging.Level,
				File:    cfg.LogPath(),
				Verbose: verbose,
			})
			if err != nil {
				return err
			}

			appWire, err = app.NewWire(*cfg, logger)
			if err != nil {
				return err
			}
			if cmd.Annotations[skipPreload] == "" {
				if _, err := appWire.Preload(cmd.Context()); err != nil {
					return err
				}
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.Run(cmd.Context(), appWire)
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default $CALC_HOME or ~/.calc)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVar(&storeName, "store", "", "storage backend: file, sealed, sqlite or memory")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase for the sealed store")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(evalCmd(), historyCmd(), plotCmd(), themeCmd(), tuiCmd())
	return root
}

// loadConfig resolves the home directory and layers flags over the config
// file and environment.
func loadConfig() (*app.Config, error) {
	dir := home
	if dir == "" {
		dir = app.DefaultHome()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create home: %w", err)
	}

	path := configPath
	if path == "" {
		path = filepath.Join(dir, app.ConfigFileName)
	}
	cfg, err := app.Load(path)
	if err != nil {
		return nil, err
	}

	cfg.Home = dir
	cfg.Passphrase = passphrase
	if storeName != "" {
		cfg.Store = storeName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func closeWire() {
	if appWire == nil {
		return
	}
	if err := appWire.Close(); err != nil && logger != nil {
		logger.Warn("Error closing store", zap.Error(err))
	}
	appWire = nil
}
