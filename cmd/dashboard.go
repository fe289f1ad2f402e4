package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathmind/internal/progression"
	"github.com/abhisek/pathmind/internal/screens/nav"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <topic>",
	Short: "Show the learning path for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := strings.TrimSpace(args[0])
		if open, _ := cmd.Flags().GetBool("open"); open {
			return runApp(cmd, &nav.GoMsg{Route: nav.RouteDashboard, Topic: topic})
		}

		d, err := buildDeps(cmd, depsOptions{quiet: true, withoutLLM: true})
		if err != nil {
			return err
		}
		defer d.close()

		user, err := d.user()
		if err != nil {
			return err
		}

		dash, err := d.progress.Dashboard(cmd.Context(), user, topic)
		if errors.Is(err, progression.ErrNoLearningPath) {
			fmt.Fprintf(cmd.OutOrStdout(), "No learning path for %q yet. Run `pathmind` and take the diagnostic test.\n", topic)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load dashboard: %w", err)
		}

		return printDashboard(cmd.OutOrStdout(), dash)
	},
}

func printDashboard(w io.Writer, d *progression.Dashboard) error {
	fmt.Fprintf(w, "%s  (%d/%d modules, %d%%)\n", d.Topic, d.CompletedCount, d.TotalModules, d.Percent)
	if d.Analysis != nil {
		fmt.Fprintf(w, "Diagnostic score: %d%%\n\n", d.Analysis.OverallScore)
	}

	tw := table(w)
	fmt.Fprintln(tw, "#\tMODULE\tSTATUS\t")
	for _, m := range d.Modules {
		badge := ""
		if m.Badge != progression.BadgeNone {
			badge = "[" + string(m.Badge) + "]"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.Index+1, truncate(m.Step, 40), m.Status, badge)
	}
	return tw.Flush()
}

func init() {
	dashboardCmd.Flags().Bool("open", false, "Open the dashboard in the terminal app instead of printing it")
}
