package node

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"kubeseed/cmd/kubeseed/cmdutil"
	"kubeseed/cmd/kubeseed/ui"

	"github.com/spf13/cobra"
)

func resetCmd(configPath *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Tear down the kubernetes installation on this host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !ui.Interactive() {
					return fmt.Errorf("reset is destructive; pass --yes to confirm on a non-interactive terminal")
				}
				fmt.Print(ui.Warn("This removes the kubernetes installation from this host.") + " Continue? [y/N] ")
				line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
				if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
					fmt.Println(ui.Muted("aborted"))
					return nil
				}
			}

			sess, err := cmdutil.Open(*configPath, "node reset")
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Installer.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.Success("node reset"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}
