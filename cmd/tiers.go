package cmd

import (
	"fmt"
	"math"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/ui/theme"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Show the XP multiplier tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		locale, _ := cmd.Flags().GetString("locale")
		bands := leveling.Tiers()

		if jsonOutput(cmd) {
			type row struct {
				Tier       leveling.Tier `json:"tier"`
				From       float64       `json:"from"`
				Below      *float64      `json:"below"`
				Multiplier float64       `json:"multiplier"`
				Rationale  string        `json:"rationale"`
			}
			rows := make([]row, 0, len(bands))
			for i, b := range bands {
				r := row{Tier: b.Tier, From: lowerBound(bands, i), Multiplier: b.Multiplier,
					Rationale: leveling.Message(locale, leveling.RationaleKey(b.Tier))}
				if !math.IsInf(b.Upper, 1) {
					upper := b.Upper
					r.Below = &upper
				}
				rows = append(rows, r)
			}
			return printJSON(cmd, rows)
		}

		t := theme.Table("Rate", "Tier", "Multiplier", "Rationale")
		for i, b := range bands {
			rate := fmt.Sprintf("%g%%+", lowerBound(bands, i))
			if !math.IsInf(b.Upper, 1) {
				rate = fmt.Sprintf("%g–%g%%", lowerBound(bands, i), b.Upper)
			}
			t.Row(rate,
				theme.TierStyle(b.Tier).Render(string(b.Tier)),
				fmt.Sprintf("×%.1f", b.Multiplier),
				leveling.Message(locale, leveling.RationaleKey(b.Tier)))
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

func lowerBound(bands []leveling.TierBand, i int) float64 {
	if i == 0 {
		return 0
	}
	return bands[i-1].Upper
}

func init() {
	tiersCmd.Flags().String("locale", "", "Message locale (en, ja)")
}
