package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/habits"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/store"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/ui/theme"
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage habits, record completions and review mismatches",
}

var habitAddCmd = &cobra.Command{
	Use:   "add <user-id> <name>",
	Short: "Create a habit; the level is suggested when --level is omitted",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		freq, _ := f.GetString("frequency")
		workload, _ := f.GetFloat64("workload")
		unit, _ := f.GetString("unit")
		target, _ := f.GetFloat64("target")
		locale, _ := f.GetString("locale")

		in := habits.NewHabit{
			UserID:           args[0],
			Name:             args[1],
			Frequency:        leveling.Frequency(freq),
			WorkloadPerCount: workload,
			WorkloadUnit:     unit,
			TargetCount:      target,
			Locale:           locale,
		}
		if f.Changed("level") {
			level, _ := f.GetInt("level")
			in.Level = &level
		}

		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		res, err := d.Service.CreateHabit(cmd.Context(), in)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, res)
		}

		out := cmd.OutOrStdout()
		printHabit(cmd, res.Habit)
		if res.LevelSuggested {
			lipgloss.Fprintln(out, theme.Hint.Render("Level suggested from frequency and workload."))
		}
		printMismatch(cmd, res.Mismatch)
		if res.Plans != nil {
			printPlans(cmd, *res.Plans, res.Personalized)
		}
		return nil
	},
}

var habitListCmd = &cobra.Command{
	Use:   "list <user-id>",
	Short: "List a user's habits",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		list, err := d.Service.ListHabits(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, list)
		}
		if len(list) == 0 {
			lipgloss.Fprintln(cmd.OutOrStdout(), theme.Hint.Render("No habits yet."))
			return nil
		}
		t := theme.Table("ID", "Name", "Level", "Frequency", "Workload", "Target", "Ack")
		for _, h := range list {
			t.Row(h.ID, h.Name, levelString(h.Level), h.Frequency,
				workloadString(h.WorkloadPerCount, h.WorkloadUnit),
				strconv.FormatFloat(h.TargetCount, 'g', -1, 64), ackString(h.MismatchAcknowledged))
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

var habitShowCmd = &cobra.Command{
	Use:   "show <habit-id>",
	Short: "Show a habit with its level and XP history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		h, err := d.Service.GetHabit(ctx, args[0])
		if err != nil {
			return err
		}
		levels, err := d.Service.LevelHistory(ctx, h.ID, limit)
		if err != nil {
			return err
		}
		xp, err := d.Service.XPHistory(ctx, h.ID, limit)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, map[string]any{"habit": h, "level_history": levels, "xp_history": xp})
		}

		out := cmd.OutOrStdout()
		printHabit(cmd, h)

		if len(levels) > 0 {
			lipgloss.Fprintln(out)
			lipgloss.Fprintln(out, theme.Title.Render("Level history"))
			t := theme.Table("When", "From", "To", "Reason")
			for _, l := range levels {
				t.Row(l.Timestamp.Local().Format("2006-01-02 15:04"), levelString(l.FromLevel), strconv.Itoa(l.ToLevel), l.Reason)
			}
			lipgloss.Fprintln(out, t)
		}
		if len(xp) > 0 {
			lipgloss.Fprintln(out)
			lipgloss.Fprintln(out, theme.Title.Render("XP history"))
			t := theme.Table("When", "Actual", "Rate", "Tier", "XP")
			for _, e := range xp {
				t.Row(e.Timestamp.Local().Format("2006-01-02 15:04"),
					fmt.Sprintf("%g/%g", e.Actual, e.Target),
					fmt.Sprintf("%.0f%%", e.CompletionRate),
					theme.TierStyle(leveling.Tier(e.Tier)).Render(e.Tier),
					strconv.Itoa(e.AwardedXP))
			}
			lipgloss.Fprintln(out, t)
		}
		return nil
	},
}

var habitCompleteCmd = &cobra.Command{
	Use:   "complete <habit-id> <actual>",
	Short: "Record a completion and award XP",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		actual, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[1], err)
		}
		locale, _ := cmd.Flags().GetString("locale")

		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		res, err := d.Service.RecordCompletion(cmd.Context(), args[0], actual, locale)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, res)
		}

		out := cmd.OutOrStdout()
		tier := theme.TierStyle(res.XP.Tier)
		lipgloss.Fprintln(out, theme.Label.Render("Completion"), fmt.Sprintf("%.0f%%", res.XP.CompletionRate))
		lipgloss.Fprintln(out, theme.Label.Render("Tier"), tier.Render(string(res.XP.Tier)), fmt.Sprintf("×%.1f", res.XP.Multiplier))
		lipgloss.Fprintln(out, theme.Label.Render("XP"), theme.XP.Render(fmt.Sprintf("+%d", res.AwardedXP)), theme.Hint.Render(fmt.Sprintf("(total %d)", res.TotalXP)))
		lipgloss.Fprintln(out, theme.Hint.Render(res.XP.Rationale))
		return nil
	},
}

var habitCheckCmd = &cobra.Command{
	Use:   "check <habit-id>",
	Short: "Check a habit against the user's level and its own workload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		check, err := d.Service.CheckHabit(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, check)
		}

		out := cmd.OutOrStdout()
		printHabit(cmd, check.Habit)
		lipgloss.Fprintln(out, theme.Label.Render("User level"), check.UserLevel)
		if check.Mismatch == nil {
			lipgloss.Fprintln(out, theme.Hint.Render("Habit level not assessed yet."))
		} else {
			printMismatch(cmd, *check.Mismatch)
			lipgloss.Fprintln(out, theme.Label.Render("Next action"), string(check.Transition.Action))
		}
		printConsistency(cmd, check.Consistency)
		return nil
	},
}

var habitPlansCmd = &cobra.Command{
	Use:   "plans <habit-id>",
	Short: "Show the baby-step plans for a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		locale, _ := cmd.Flags().GetString("locale")

		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		plans, personalized, err := d.Service.BabyStepPlans(cmd.Context(), args[0], locale)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, map[string]any{"plans": plans, "personalized": personalized})
		}
		printPlans(cmd, *plans, personalized)
		return nil
	},
}

var habitAdoptCmd = &cobra.Command{
	Use:   "adopt <habit-id> <50|10>",
	Short: "Switch a habit to one of its baby-step plans",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid target level %q: %w", args[1], err)
		}

		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		h, err := d.Service.AdoptBabyStep(cmd.Context(), args[0], target)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, h)
		}
		printHabit(cmd, h)
		return nil
	},
}

func printHabit(cmd *cobra.Command, h *store.Habit) {
	out := cmd.OutOrStdout()
	lipgloss.Fprintln(out, theme.Title.Render(h.Name))
	lipgloss.Fprintln(out, theme.Label.Render("ID"), h.ID)
	lipgloss.Fprintln(out, theme.Label.Render("Level"), levelString(h.Level))
	lipgloss.Fprintln(out, theme.Label.Render("Frequency"), h.Frequency)
	lipgloss.Fprintln(out, theme.Label.Render("Workload"), workloadString(h.WorkloadPerCount, h.WorkloadUnit),
		"×", strconv.FormatFloat(h.TargetCount, 'g', -1, 64))
}

func printMismatch(cmd *cobra.Command, m leveling.LevelMismatchResult) {
	out := cmd.OutOrStdout()
	sev := theme.SeverityStyle(m.Severity)
	lipgloss.Fprintln(out, theme.Label.Render("Level gap"), sev.Render(fmt.Sprintf("%+d (%s)", m.LevelGap, m.Severity)))
	if m.IsMismatch {
		lipgloss.Fprintln(out, sev.Render("This habit is well above your level."), theme.Hint.Render(string(m.Recommendation)))
	}
}

func printPlans(cmd *cobra.Command, plans leveling.BabyStepPlans, personalized bool) {
	out := cmd.OutOrStdout()
	title := "Baby steps"
	if personalized {
		title += " (coached)"
	}
	lipgloss.Fprintln(out, theme.Title.Render(title))
	cards := make([]string, 0, 2)
	for _, p := range plans.Plans() {
		body := lipgloss.JoinVertical(lipgloss.Left,
			theme.Body.Bold(true).Render(p.Name),
			theme.Hint.Render(fmt.Sprintf("Level %d", p.TargetLevel)),
			p.Rationale,
		)
		cards = append(cards, theme.Card.Width(40).Render(body))
	}
	lipgloss.Fprintln(out, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}

func printConsistency(cmd *cobra.Command, c leveling.WorkloadLevelConsistencyResult) {
	out := cmd.OutOrStdout()
	status := theme.Good.Render("consistent")
	if !c.IsConsistent {
		status = theme.Warn.Render(string(c.Recommendation))
	}
	lipgloss.Fprintln(out, theme.Label.Render("Workload est."), c.EstimatedLevelFromWorkload, status)
}

func levelString(l *int) string {
	if l == nil {
		return "-"
	}
	return strconv.Itoa(*l)
}

func ackString(b *bool) string {
	if b == nil {
		return "-"
	}
	if *b {
		return "yes"
	}
	return "no"
}

func workloadString(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if unit != "" {
		s += " " + unit
	}
	return s
}

func init() {
	habitAddCmd.Flags().IntP("level", "l", 0, "Habit level (0-199); suggested when omitted")
	habitAddCmd.Flags().StringP("frequency", "f", string(leveling.FrequencyDaily), "daily, weekly or monthly")
	habitAddCmd.Flags().Float64P("workload", "w", 0, "Workload per count, in minutes or the given unit")
	habitAddCmd.Flags().String("unit", "min", "Workload unit")
	habitAddCmd.Flags().Float64P("target", "t", 1, "Target count per period")
	habitAddCmd.Flags().String("locale", "", "Message locale (en, ja)")

	habitShowCmd.Flags().IntP("limit", "n", 10, "History entries to show")
	habitCompleteCmd.Flags().String("locale", "", "Message locale (en, ja)")
	habitPlansCmd.Flags().String("locale", "", "Message locale (en, ja)")

	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitShowCmd)
	habitCmd.AddCommand(habitCompleteCmd)
	habitCmd.AddCommand(habitCheckCmd)
	habitCmd.AddCommand(habitPlansCmd)
	habitCmd.AddCommand(habitAdoptCmd)
}
