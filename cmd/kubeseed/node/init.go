package node

import (
	"fmt"
	"os"

	"kubeseed/cmd/kubeseed/cmdutil"
	"kubeseed/cmd/kubeseed/ui"

	"github.com/spf13/cobra"
)

func initCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize this host as the control plane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cmdutil.Open(*configPath, "node init")
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx := cmd.Context()
			inst := sess.Installer

			fmt.Fprintln(os.Stderr, ui.Muted("running preflight checks"))
			if err := inst.Preflight(ctx); err != nil {
				return err
			}

			fmt.Fprintln(os.Stderr, ui.Muted("installing container runtime and kubernetes tools"))
			if err := inst.InstallRuntime(ctx); err != nil {
				return err
			}

			fmt.Fprintln(os.Stderr, ui.Muted("initializing control plane"))
			join, err := inst.InitControlPlane(ctx)
			if err != nil {
				return err
			}

			fmt.Println(ui.Success("control plane ready"))
			fmt.Println(ui.Muted("run this on each worker:"))
			fmt.Println("  " + join.String())
			return nil
		},
	}
}
