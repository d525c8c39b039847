package cmd

import (
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/ui/theme"
)

var consistencyCmd = &cobra.Command{
	Use:   "consistency <user-id>",
	Short: "Compare each habit's level with what its workload implies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apply, _ := cmd.Flags().GetBool("apply")

		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		report, err := d.Service.CheckConsistency(cmd.Context(), args[0], apply)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, report)
		}

		out := cmd.OutOrStdout()
		if len(report.Results) == 0 {
			lipgloss.Fprintln(out, theme.Hint.Render("No habits to check."))
			return nil
		}
		t := theme.Table("Habit", "Assessed", "Workload est.", "Diff", "Recommendation")
		for _, r := range report.Results {
			rec := theme.Good.Render(string(r.Recommendation))
			if !r.IsConsistent {
				rec = theme.Warn.Render(string(r.Recommendation))
			}
			t.Row(r.HabitID, levelString(r.AssessedLevel), strconv.Itoa(r.EstimatedLevelFromWorkload),
				strconv.Itoa(r.LevelDifference), rec)
		}
		lipgloss.Fprintln(out, t)
		if len(report.Reassessed) > 0 {
			lipgloss.Fprintln(out, theme.Hint.Render("Reassessed "+strconv.Itoa(len(report.Reassessed))+" habit(s) to their workload level."))
		}
		return nil
	},
}

func init() {
	consistencyCmd.Flags().Bool("apply", false, "Reassess habits whose level is out of line with their workload")
}
