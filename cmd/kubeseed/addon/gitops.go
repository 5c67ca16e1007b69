package addon

import (
	"fmt"

	"kubeseed/cmd/kubeseed/cmdutil"
	"kubeseed/cmd/kubeseed/ui"

	"github.com/spf13/cobra"
)

func gitopsCmd(configPath *string) *cobra.Command {
	var (
		repoURL string
		branch  string
		path    string
	)

	cmd := &cobra.Command{
		Use:   "gitops",
		Short: "Install the GitOps controller",
		Long: "Install the GitOps controller.\n\n" +
			"With --repo the controller is also pointed at a cluster application\n" +
			"tracking that repository; without it only the controller is installed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cmdutil.Open(*configPath, "addon gitops")
			if err != nil {
				return err
			}
			defer sess.Close()

			if repoURL != "" {
				sess.Config.GitOps.RepoURL = repoURL
			}
			if branch != "" {
				sess.Config.GitOps.Branch = branch
			}
			if path != "" {
				sess.Config.GitOps.Path = path
			}

			if err := sess.Installer.InstallGitOps(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.Success("gitops controller installed"))
			if repo := sess.Config.GitOps.RepoURL; repo != "" {
				fmt.Println(ui.Muted("tracking " + repo))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoURL, "repo", "", "Git repository URL for the cluster application")
	cmd.Flags().StringVar(&branch, "branch", "", "Git branch to track")
	cmd.Flags().StringVar(&path, "path", "", "Path within the repository")
	return cmd
}
