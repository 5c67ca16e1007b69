package node

import (
	"fmt"
	"os"

	"kubeseed"
	"kubeseed/cmd/kubeseed/cmdutil"
	"kubeseed/cmd/kubeseed/ui"
	"kubeseed/internal/install"

	"github.com/spf13/cobra"
)

func joinCmd(configPath *string) *cobra.Command {
	var (
		endpoint   string
		token      string
		caCertHash string
		joinFile   string
	)

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join this host to an existing cluster as a worker",
		Long: "Join this host to an existing cluster as a worker.\n\n" +
			"The join parameters come from --endpoint/--token/--ca-cert-hash, or\n" +
			"from a join-command file written by `kubeseed node init` on the\n" +
			"control plane.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			join, err := resolveJoin(endpoint, token, caCertHash, joinFile)
			if err != nil {
				return err
			}

			sess, err := cmdutil.Open(*configPath, "node join")
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

			fmt.Fprintln(os.Stderr, ui.Muted("joining "+join.Endpoint))
			if err := inst.JoinWorker(ctx, join); err != nil {
				return err
			}

			fmt.Println(ui.Success("worker joined " + join.Endpoint))
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Control plane endpoint host:port")
	cmd.Flags().StringVar(&token, "token", "", "Bootstrap token")
	cmd.Flags().StringVar(&caCertHash, "ca-cert-hash", "", "Discovery token CA certificate hash")
	cmd.Flags().StringVar(&joinFile, "join-file", "", "Path to a saved join command (default "+install.JoinFilePath+")")
	return cmd
}

// resolveJoin prefers explicit flags; all three must then be present.
// Without flags it falls back to the saved join-command file.
func resolveJoin(endpoint, token, caCertHash, joinFile string) (kubeseed.JoinCommand, error) {
	if endpoint != "" || token != "" || caCertHash != "" {
		if endpoint == "" || token == "" || caCertHash == "" {
			return kubeseed.JoinCommand{}, fmt.Errorf("--endpoint, --token and --ca-cert-hash must be given together")
		}
		return kubeseed.JoinCommand{Endpoint: endpoint, Token: token, CACertHash: caCertHash}, nil
	}

	join, err := install.LoadJoinCommand(joinFile)
	if err != nil {
		return kubeseed.JoinCommand{}, fmt.Errorf("no join parameters: %w (pass --endpoint/--token/--ca-cert-hash or --join-file)", err)
	}
	return join, nil
}
