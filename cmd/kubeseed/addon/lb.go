package addon

import (
	"fmt"
	"os"

	"kubeseed/cmd/kubeseed/cmdutil"
	"kubeseed/cmd/kubeseed/ui"
	"kubeseed/pkg/iprange"

	"github.com/spf13/cobra"
)

func lbCmd(configPath *string) *cobra.Command {
	var poolFlag string

	cmd := &cobra.Command{
		Use:   "lb",
		Short: "Install the bare-metal load balancer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cmdutil.Open(*configPath, "addon lb")
			if err != nil {
				return err
			}
			defer sess.Close()

			pool, err := resolvePool(poolFlag, sess.Config.LB.Pool)
			if err != nil {
				return err
			}

			if err := sess.Installer.InstallLoadBalancer(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Println(ui.Success("load balancer installed, pool " + pool.String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&poolFlag, "pool", "", "Address pool in CIDR or start-end notation")
	return cmd
}

// resolvePool takes the pool from the flag, then the config file, then an
// interactive prompt. Flag and config values that fail to parse are hard
// errors; only the prompt re-asks.
func resolvePool(flagValue, configValue string) (iprange.Range, error) {
	for _, src := range []struct{ value, origin string }{
		{flagValue, "--pool"},
		{configValue, "config loadBalancer.pool"},
	} {
		if src.value == "" {
			continue
		}
		pool, err := iprange.Parse(src.value)
		if err != nil {
			return iprange.Range{}, fmt.Errorf("%s: %w", src.origin, err)
		}
		return pool, nil
	}

	if !ui.Interactive() {
		return iprange.Range{}, fmt.Errorf("no address pool configured: %w (pass --pool or set loadBalancer.pool)", ui.ErrNoInteraction)
	}
	return ui.PromptPool(os.Stdin, os.Stderr)
}
