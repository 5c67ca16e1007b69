package addon

import (
	"fmt"

	"kubeseed/cmd/kubeseed/cmdutil"
	"kubeseed/cmd/kubeseed/ui"

	"github.com/spf13/cobra"
)

func gpuCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "gpu",
		Short: "Install NVIDIA GPU drivers and the container toolkit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cmdutil.Open(*configPath, "addon gpu")
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Installer.InstallGPU(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.Success("gpu drivers installed"))
			return nil
		},
	}
}
