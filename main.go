package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rhettg/sysinfo/internal/cmd/reload"
	"github.com/rhettg/sysinfo/internal/cmd/server"
	"github.com/rhettg/sysinfo/internal/cmd/show"
	"github.com/rhettg/sysinfo/internal/config"
	"github.com/rhettg/sysinfo/internal/sysinfo"
	"github.com/spf13/cobra"
	"gitlab.com/greyxor/slogor"
)

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}

	slog.SetDefault(slog.New(slogor.NewHandler(os.Stderr, &slogor.Options{
		Level:      l,
		TimeFormat: time.Stamp,
	})))
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(file)
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print platform and revision facts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, _ := cmd.Flags().GetString("server")
			format, _ := cmd.Flags().GetString("format")

			var conf *config.Config
			if serverURL == "" {
				var err error
				conf, err = loadConfig(cmd)
				if err != nil {
					return err
				}
			}

			return show.DoShow(cmd.Context(), cmd.OutOrStdout(), conf, serverURL, format)
		},
	}
	cmd.Flags().String("server", "", "Read facts from a running server instead of this host")
	cmd.Flags().String("format", show.FormatTable, "Output format (table or json)")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the sysinfo server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx, conf)
		},
	}
}

func newReloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Ask a running server to resolve its scripts revision again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, _ := cmd.Flags().GetString("server")
			return reload.DoReload(cmd.Context(), cmd.OutOrStdout(), serverURL)
		},
	}
	cmd.Flags().String("server", "http://localhost:8080", "Server URL")
	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a running server's scripts revision after every reload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, _ := cmd.Flags().GetString("server")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return reload.DoWatch(ctx, cmd.OutOrStdout(), serverURL)
		},
	}
	cmd.Flags().String("server", "http://localhost:8080", "Server URL")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the revision this binary was built from",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			s := sysinfo.NewSnapshot()
			rev := s.Source()
			id := rev.ID
			if id == "" {
				id = "unknown"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sysinfo %s %s (%s)\n", rev.Kind, id, s.Compiler())
		},
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sysinfo",
		Short:         "Report build and host facts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			if err := setupLogging(level); err != nil {
				return err
			}

			if err := config.LoadDotEnv(".env"); err != nil {
				slog.Warn("failed loading .env", "error", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().String("log-level", "info", "Set the logging level (debug, info, warn or error)")
	rootCmd.PersistentFlags().String("config", "", "Config file (yaml, json or toml)")

	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newReloadCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("error", "error", err)
		os.Exit(1)
	}
}
