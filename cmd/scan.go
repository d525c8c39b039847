package cmd

import (
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/habits"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/ui/theme"
)

var scanCmd = &cobra.Command{
	Use:   "scan [user-id]",
	Short: "Run the level mismatch scan once, for one user or everyone",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		var report *habits.ScanReport
		if len(args) == 1 {
			report, err = d.Scanner.ScanUser(cmd.Context(), args[0])
		} else {
			report, err = d.Scanner.ScanAll(cmd.Context())
		}
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, report)
		}

		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, theme.Label.Render("Scanned"), report.Scanned)
		lipgloss.Fprintln(out, theme.Label.Render("Notified"), theme.Warn.Render(strconv.Itoa(report.Notified)))
		lipgloss.Fprintln(out, theme.Label.Render("Resolved"), theme.Good.Render(strconv.Itoa(report.Resolved)))
		lipgloss.Fprintln(out, theme.Label.Render("Unchanged"), report.Unchanged)
		lipgloss.Fprintln(out, theme.Hint.Render("took "+report.Duration.String()))
		return nil
	},
}
