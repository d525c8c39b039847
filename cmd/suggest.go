package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/habits"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/ui/theme"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a starting level for a habit without saving it",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		freq, _ := f.GetString("frequency")
		frequency := leveling.Frequency(freq)
		if frequency != "" && !frequency.Valid() {
			return fmt.Errorf("unknown frequency %q", freq)
		}

		var duration, target *float64
		if f.Changed("duration") {
			v, _ := f.GetFloat64("duration")
			duration = &v
		}
		if f.Changed("target") {
			v, _ := f.GetFloat64("target")
			target = &v
		}

		level := habits.SuggestLevel(frequency, duration, target)
		if jsonOutput(cmd) {
			return printJSON(cmd, map[string]int{"level": level})
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), theme.Label.Render("Suggested"), theme.Title.Render(fmt.Sprintf("Lv.%d", level)))
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringP("frequency", "f", "", "daily, weekly or monthly")
	suggestCmd.Flags().Float64P("duration", "d", 0, "Minutes per session")
	suggestCmd.Flags().Float64P("target", "t", 0, "Target count per period")
}
