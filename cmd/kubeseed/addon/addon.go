// Package addon implements the kubeseed addon installation commands.
package addon

import "github.com/spf13/cobra"

// Cmd returns the addon command tree.
func Cmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addon",
		Short: "Install cluster addons",
	}
	cmd.AddCommand(lbCmd(configPath))
	cmd.AddCommand(gitopsCmd(configPath))
	cmd.AddCommand(gpuCmd(configPath))
	return cmd
}
