// cmd/timeclock/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"timeclock-kiosk/internal/app"
	"timeclock-kiosk/internal/common/config"
	"timeclock-kiosk/internal/common/logger"
	"timeclock-kiosk/internal/common/observability"
	"timeclock-kiosk/internal/server"
)

// buildMode is stamped by the release build:
//
//	go build -ldflags "-X main.buildMode=packaged" ./cmd/timeclock
var buildMode = ""

type Dependencies struct {
	Config     *config.Config
	ZapLog     *zap.Logger
	Log        logger.Logger
	ConfigFile string
	ResDir     string
}

func main() {
	if err := newRootCmd(&Dependencies{}).ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

// newRootCmd builds the command tree. Only serve, invoke and commands load
// configuration, so help and completion work without Grist settings.
func newRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "timeclock",
		Short:         "Backend for the timeclock kiosk: local gallery assets and Grist-backed hours.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if deps.ZapLog != nil {
				_ = deps.ZapLog.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&deps.ConfigFile, "config", "", "YAML config file (default: search ./configs and .)")
	rootCmd.PersistentFlags().StringVar(&deps.ResDir, "resource-dir", "", "Directory holding public/ (overrides build mode lookup)")

	rootCmd.AddCommand(cmdServe(deps))
	rootCmd.AddCommand(cmdInvoke(deps))
	rootCmd.AddCommand(cmdCommands(deps))

	return rootCmd
}

// load reads configuration and builds the logger. Missing Grist settings
// fail here, before any command runs.
func (d *Dependencies) load(quiet bool) error {
	if buildMode != "" && os.Getenv("APP_BUILD_MODE") == "" {
		_ = os.Setenv("APP_BUILD_MODE", buildMode)
	}

	var (
		cfg *config.Config
		err error
	)
	if d.ConfigFile != "" {
		cfg, err = config.LoadFromFile(d.ConfigFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if d.ResDir != "" {
		cfg.Resources.Dir = d.ResDir
	}

	output := cfg.Logging.Output
	if quiet && output == "stdout" {
		// keep stdout for the command result
		output = "stderr"
	}

	d.Config = cfg
	d.ZapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format, output)
	d.Log = logger.NewZapAdapter(d.ZapLog)
	return nil
}

func cmdServe(deps *Dependencies) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the command API and gallery images to the kiosk UI",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.load(false)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.Config
			if addr != "" {
				cfg.Server.Address = addr
			}

			obs, err := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
			if err != nil {
				deps.Log.Warn("observability disabled", map[string]interface{}{"error": err})
				obs = observability.NewNoop()
			}

			a, err := app.New(cfg, deps.Log, app.WithObservability(obs))
			if err != nil {
				return err
			}

			srv := server.New(cfg.Server.Address, a.Registry, a.Assets.ImageDir(), deps.Log)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-sigCh:
				deps.Log.Info("Shutdown signal received, stopping server...", nil)
			}

			ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				deps.Log.Error("Error shutting down server", map[string]interface{}{"error": err})
			}
			if err := a.Shutdown(ctx); err != nil {
				deps.Log.Error("Error shutting down telemetry", map[string]interface{}{"error": err})
			}

			deps.Log.Info("Server stopped", nil)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides SERVER_ADDRESS)")

	return cmd
}

func cmdInvoke(deps *Dependencies) *cobra.Command {
	var rawArgs string

	cmd := &cobra.Command{
		Use:   "invoke <command>",
		Short: "Run one command and print its JSON result",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.load(true)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if rawArgs != "" && !json.Valid([]byte(rawArgs)) {
				return fmt.Errorf("--args is not valid JSON")
			}

			a, err := app.New(deps.Config, deps.Log)
			if err != nil {
				return err
			}

			result, err := a.Registry.Invoke(cmd.Context(), args[0], json.RawMessage(rawArgs))
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&rawArgs, "args", "", `Command arguments as JSON, e.g. '{"newEntry":{"mdoc":"1234"}}'`)

	return cmd
}

func cmdCommands(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the available commands",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.load(false)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(deps.Config, deps.Log)
			if err != nil {
				return err
			}
			for _, c := range a.Registry.Commands() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%v\t%s\n", c.Name, c.Aliases, c.Description)
			}
			return nil
		},
	}
}
