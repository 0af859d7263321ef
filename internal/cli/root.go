// Package cli implements the themed command line interface.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/deskshell/themed/internal/broadcast"
	"github.com/deskshell/themed/internal/config"
	"github.com/deskshell/themed/internal/logging"
	"github.com/deskshell/themed/internal/manager"
	"github.com/deskshell/themed/internal/store"
	"github.com/deskshell/themed/internal/surface"
)

var (
	flagConfigDir    string
	flagStoreBackend string
	flagStorePath    string
	flagLogLevel     string
)

var rootCmd = &cobra.Command{
	Use:           "themed",
	Short:         "Dynamic theme engine for the desktop shell",
	Long:          "themed derives an accessible color scheme from a small theme descriptor,\npersists it per user and mirrors it to running shell instances.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagStoreBackend, "store", "", "settings store backend: file or sqlite")
	rootCmd.PersistentFlags().StringVar(&flagStorePath, "store-path", "", "settings store location")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// stderrAlerter surfaces warnings on the terminal.
type stderrAlerter struct {
	w io.Writer
}

func (a stderrAlerter) Alert(title, detail string) {
	fmt.Fprintf(a.w, "Warning: %s (%s)\n", title, detail)
}

// runtime bundles the wired collaborators behind a command.
type runtime struct {
	cfg     *config.Config
	manager *manager.Manager
	vars    *surface.VarSet
	close   func()
}

// newRuntime loads configuration and wires store, broadcast bus,
// surface and manager for a command invocation.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	overrides := map[string]any{}
	if flagStoreBackend != "" {
		overrides[config.KeyStoreBackend] = flagStoreBackend
	}
	if flagStorePath != "" {
		overrides[config.KeyStorePath] = flagStorePath
	}
	if flagLogLevel != "" {
		overrides[config.KeyLogLevel] = flagLogLevel
	}

	var opts []config.Option
	if flagConfigDir != "" {
		opts = append(opts, config.WithConfigDir(flagConfigDir))
	}

	cfg, err := config.Load(overrides, opts...)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)

	var (
		st      store.Store
		cleanup = func() {}
	)
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		sqliteStore, err := store.OpenSQLite(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		st = sqliteStore
		cleanup = func() { sqliteStore.Close() }
	default:
		st, err = store.NewFileStore(cfg.StorePath)
		if err != nil {
			return nil, err
		}
	}

	vars := surface.NewVarSet()
	mgr, err := manager.New(
		manager.Config{Key: cfg.ThemeKey, Debounce: cfg.Debounce},
		st,
		broadcast.NewBus(),
		vars,
		stderrAlerter{w: cmd.ErrOrStderr()},
		logger,
	)
	if err != nil {
		cleanup()
		return nil, err
	}

	return &runtime{cfg: cfg, manager: mgr, vars: vars, close: cleanup}, nil
}
