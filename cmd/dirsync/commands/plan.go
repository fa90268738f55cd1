package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var planForce bool

func init() {
	planCmd.Flags().BoolVar(&planForce, "force", false, "Evaluate the guard as sync --force would.")
	rootCmd.AddCommand(planCmd)
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Shows the changes a sync would make without applying them or sending a report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, closeHistory, err := config.newService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeHistory()

		p := service.Preview(cmd.Context(), config.newRunContext(true, planForce))

		t := newTable()
		t.AppendHeader(table.Row{"Action", "Email", "Group", "Allowed"})
		for _, email := range p.Plan.Adds() {
			t.AppendRow(table.Row{"add", email, p.Source[email].Group, p.Verdict.AllowAdds})
		}
		for _, email := range p.Plan.Removes() {
			t.AppendRow(table.Row{"remove", email, "", p.Verdict.AllowRemovals})
		}
		t.AppendFooter(table.Row{
			"",
			fmt.Sprintf("source: %d, target: %d", p.Report.SourceCount, p.Report.TargetCount),
			"",
			"",
		})
		t.Render()

		if len(p.Report.Hints) > 0 {
			hints := newTable()
			hints.AppendHeader(table.Row{"Removed", "Added", "Similarity"})
			for _, h := range p.Report.Hints {
				hints.AppendRow(table.Row{h.Removed, h.Added, fmt.Sprintf("%.2f", h.Similarity)})
			}
			hints.Render()
		}

		if len(p.Report.Diagnostics) > 0 {
			lines := make([]string, len(p.Report.Diagnostics))
			for i, d := range p.Report.Diagnostics {
				lines[i] = fmt.Sprintf("[%s] %s", d.Kind, d.Message)
			}
			return fmt.Errorf("plan has problems:\n%s", strings.Join(lines, "\n"))
		}
		return nil
	},
}
