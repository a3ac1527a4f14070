// Package cli implements hopsctl, which runs single lookups against the same stores the
// server uses.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hops-cache/internal/app"
	"hops-cache/internal/config"
)

type appKey struct{}

// GlobalFlags are the persistent flags shared by every command
type GlobalFlags struct {
	ConfigFile  string
	LocalDriver string
	Verbose     bool
}

// Session owns the app built for one command invocation.
type Session struct {
	app *app.App
}

// App returns the app built by the running command, or nil once closed.
func (s *Session) App() *app.App {
	return s.app
}

// Close releases the app's stores. It is safe to call more than once.
func (s *Session) Close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

// NewRootCmd creates the root cobra command. The caller closes the returned session
// after the command finishes, whether or not it failed.
func NewRootCmd() (*cobra.Command, *Session) {
	var flags GlobalFlags
	sess := &Session{}

	cmd := &cobra.Command{
		Use:           "hopsctl",
		Short:         "Query the hops-cache tiers from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}

			cfg, err := config.LoadConfigFile(flags.ConfigFile)
			if err != nil {
				return err
			}
			if flags.LocalDriver != "" {
				cfg.Local.Driver = flags.LocalDriver
			}

			logger := zap.NewNop()
			if flags.Verbose {
				cfg.Logger.Level = "debug"
				cfg.Logger.Format = "console"
				cfg.Logger.OutputPath = "stderr"
				if logger, err = app.NewLogger(&cfg.Logger); err != nil {
					return err
				}
			}

			a, err := app.Build(cfg, logger)
			if err != nil {
				return err
			}
			sess.app = a
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "Config file (default: search ., ./config, /etc/hops-cache)")
	cmd.PersistentFlags().StringVar(&flags.LocalDriver, "local-driver", "", "Override local.driver (sqlite, redis, memory)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log to stderr at debug level")

	cmd.AddCommand(
		newSearchCmd(),
		newRandomCmd(),
		newBeerCmd(),
		newPopularCmd(),
		newBudgetCmd(),
		newCacheCmd(),
		newPlacesCmd(),
	)
	return cmd, sess
}

// Execute runs the root command.
func Execute() {
	cmd, sess := NewRootCmd()
	err := cmd.ExecuteContext(context.Background())
	if closeErr := sess.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func appFrom(cmd *cobra.Command) *app.App {
	if cmd.Context() == nil {
		return nil
	}
	a, _ := cmd.Context().Value(appKey{}).(*app.App)
	return a
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
