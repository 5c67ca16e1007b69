package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kubeseed/cmd/kubeseed/addon"
	"kubeseed/cmd/kubeseed/node"
	"kubeseed/cmd/kubeseed/status"
	"kubeseed/config"
	"kubeseed/internal/logging"
	"kubeseed/internal/support/buildinfo"

	"github.com/spf13/cobra"
)

func main() {
	var (
		debug      bool
		configPath string
	)
	if err := logging.Configure(logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "kubeseed",
		Short:         "Install and converge a kubernetes cluster on debian hosts",
		Version:       buildinfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelWarn
			if debug {
				level = logging.LevelDebug
			}
			return logging.Configure(level)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default "+config.DefaultPath+")")

	root.AddCommand(node.Cmd(&configPath))
	root.AddCommand(addon.Cmd(&configPath))
	root.AddCommand(status.Cmd(&configPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
