// Package node implements the kubeseed node lifecycle commands.
package node

import "github.com/spf13/cobra"

// Cmd returns the node command tree.
func Cmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Initialize, join, or reset a cluster node",
	}
	cmd.AddCommand(initCmd(configPath))
	cmd.AddCommand(joinCmd(configPath))
	cmd.AddCommand(resetCmd(configPath))
	return cmd
}
