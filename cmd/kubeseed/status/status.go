// Package status reports the health of the local node and recent
// installation runs.
package status

import (
	"context"
	"fmt"
	"os"
	"strings"

	"kubeseed/cmd/kubeseed/cmdutil"
	"kubeseed/cmd/kubeseed/ui"
	"kubeseed/internal/converge"
	"kubeseed/internal/hostrun"
	"kubeseed/internal/kubeapi"
	"kubeseed/internal/sysd"

	"github.com/spf13/cobra"
)

func Cmd(configPath *string) *cobra.Command {
	var history int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show node health and recent checkpoint history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cmdutil.Open(*configPath, "")
			if err != nil {
				return err
			}
			defer sess.Close()

			if history > 0 {
				return printHistory(sess, history)
			}

			fmt.Print(ui.Checklist(collect(cmd.Context())))
			return nil
		},
	}

	cmd.Flags().IntVar(&history, "history", 0, "Show the last N recorded checkpoints instead of live health")
	return cmd
}

// collect probes the local services once each. Status never retries; a
// point-in-time answer is the whole job.
func collect(ctx context.Context) []ui.CheckItem {
	runner := hostrun.ExecRunner{}
	items := []ui.CheckItem{
		check(ctx, "containerd", sysd.ActiveProbe(runner, "containerd")),
		check(ctx, "kubelet", sysd.ActiveProbe(runner, "kubelet")),
		check(ctx, "api server", kubeapi.NewHealthClient("127.0.0.1:6443").HealthzProbe()),
	}
	items = append(items, nodeCheck(ctx))
	return items
}

func nodeCheck(ctx context.Context) ui.CheckItem {
	cs, err := kubeapi.NewClientset(kubeapi.AdminKubeconfigPath)
	if err != nil {
		return ui.CheckItem{Name: "node ready", Detail: "no admin kubeconfig"}
	}
	hostname, err := os.Hostname()
	if err != nil {
		return ui.CheckItem{Name: "node ready", Detail: err.Error()}
	}
	return check(ctx, "node ready", kubeapi.NodeReadyProbe(cs, strings.ToLower(hostname)))
}

func check(ctx context.Context, name string, probe converge.Probe) ui.CheckItem {
	res := probe(ctx)
	return ui.CheckItem{
		Name:   name,
		OK:     res.Status == converge.StatusReady,
		Detail: res.Snapshot(),
	}
}

func printHistory(sess *cmdutil.Session, limit int) error {
	if sess.Journal == nil {
		return fmt.Errorf("journal unavailable at %s", sess.Config.JournalPath)
	}
	records, err := sess.Journal.History(limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println(ui.Muted("no recorded checkpoints"))
		return nil
	}

	for _, rec := range records {
		mark := ui.Success("✓")
		if rec.Outcome != "converged" {
			mark = ui.Error("✗")
		}
		line := fmt.Sprintf("%s %s  %s  %s (%d attempts", mark,
			rec.RecordedAt.Format("2006-01-02 15:04:05"), rec.Name, rec.Outcome, rec.Attempts)
		if rec.Remediations > 0 {
			line += fmt.Sprintf(", %d remediations", rec.Remediations)
		}
		line += ")"
		if rec.LastState != "" && rec.Outcome != "converged" {
			line += ui.Muted("  " + rec.LastState)
		}
		fmt.Println(line)
	}
	return nil
}
