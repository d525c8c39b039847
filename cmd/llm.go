package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/llm"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/store"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect coach LLM requests and usage",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent coach LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if purpose != "" {
			filtered := events[:0]
			for _, e := range events {
				if e.Purpose == purpose {
					filtered = append(filtered, e)
				}
			}
			events = filtered
		}

		if jsonOutput(cmd) {
			return printJSON(cmd, events)
		}
		if len(events) == 0 {
			lipgloss.Fprintln(cmd.OutOrStdout(), theme.Hint.Render("No LLM events found."))
			return nil
		}

		t := theme.Table("ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		for _, e := range events {
			ok := theme.Good.Render("✓")
			if !e.Success {
				ok = theme.Bad.Render("✗")
			}
			t.Row(
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				ok,
			)
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one LLM call with its full prompt and response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, e)
		}

		out := cmd.OutOrStdout()
		field := func(name string, v any) {
			lipgloss.Fprintln(out, theme.Label.Render(name), v)
		}
		field("ID", e.ID)
		field("Time", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		field("Provider", e.Provider)
		field("Model", e.Model)
		field("Purpose", e.Purpose)
		field("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
		field("Latency", fmt.Sprintf("%dms", e.LatencyMs))
		field("Success", e.Success)
		if e.ErrorMessage != "" {
			field("Error", theme.Bad.Render(e.ErrorMessage))
		}

		for _, section := range []struct{ title, body string }{
			{"REQUEST", e.RequestBody},
			{"RESPONSE", e.ResponseBody},
		} {
			lipgloss.Fprintln(out)
			lipgloss.Fprintln(out, theme.Title.Render(section.title))
			body := section.body
			if body == "" {
				body = theme.Hint.Render("(not captured)")
			}
			lipgloss.Fprintln(out, body)
		}
		return nil
	},
}

var llmProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show each LLM provider, its resolved model and whether a key is set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		type row struct {
			Provider string `json:"provider"`
			Model    string `json:"model"`
			HasKey   bool   `json:"has_key"`
			Active   bool   `json:"active"`
		}
		var rows []row
		for _, name := range llm.Providers() {
			rows = append(rows, row{
				Provider: name,
				Model:    cfg.LLM.ModelFor(name),
				HasKey:   cfg.LLM.HasKey(name),
				Active:   name == cfg.LLM.Provider,
			})
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, rows)
		}

		t := theme.Table("", "Provider", "Model", "Key")
		for _, r := range rows {
			mark, key := "", theme.Bad.Render("missing")
			if r.Active {
				mark = theme.Good.Render("●")
			}
			if r.HasKey {
				key = theme.Good.Render("set")
			}
			t.Row(mark, r.Provider, r.Model, key)
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), t)
		if !cfg.Coach.Enabled {
			lipgloss.Fprintln(cmd.OutOrStdout(), theme.Hint.Render("Coach is disabled; set [coach] enabled = true to use the active provider."))
		}
		if cfg.LLM.Provider == "mock" {
			if found, ok := llm.DiscoverConfig(); ok {
				lipgloss.Fprintln(cmd.OutOrStdout(), theme.Hint.Render(fmt.Sprintf(
					"Found a %s API key in the environment; set [llm] provider = %q to use it.", found.Provider, found.Provider)))
			}
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		stats, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		modelUsage, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, map[string]any{"by_purpose": stats, "by_model": modelUsage})
		}

		out := cmd.OutOrStdout()
		if len(stats) == 0 {
			lipgloss.Fprintln(out, theme.Hint.Render("No LLM usage recorded yet."))
			return nil
		}

		lipgloss.Fprintln(out, theme.Title.Render("Usage by purpose"))
		t := theme.Table("Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		var totalCalls, totalIn, totalOut int
		for _, st := range stats {
			t.Row(st.Purpose, strconv.Itoa(st.Calls), strconv.Itoa(st.InputTokens), strconv.Itoa(st.OutputTokens),
				strconv.Itoa(st.InputTokens+st.OutputTokens), strconv.FormatInt(st.AvgLatencyMs, 10))
			totalCalls += st.Calls
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}
		t.Row("TOTAL", strconv.Itoa(totalCalls), strconv.Itoa(totalIn), strconv.Itoa(totalOut), strconv.Itoa(totalIn+totalOut), "")
		lipgloss.Fprintln(out, t)

		if len(modelUsage) == 0 {
			return nil
		}

		lipgloss.Fprintln(out)
		lipgloss.Fprintln(out, theme.Title.Render("Estimated cost (USD)"))
		ct := theme.Table("Model", "Calls", "Input", "Output", "Cost")
		var totalCost float64
		var unknownModels []string
		for _, mu := range modelUsage {
			costStr := "?"
			if cost := llm.LookupCost(mu.Model); cost != nil {
				c := cost.Cost(mu.InputTokens, mu.OutputTokens)
				totalCost += c
				costStr = formatCost(c)
			} else {
				unknownModels = append(unknownModels, mu.Model)
			}
			ct.Row(truncate(mu.Model, 32), strconv.Itoa(mu.Calls), strconv.Itoa(mu.InputTokens), strconv.Itoa(mu.OutputTokens), costStr)
		}
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		ct.Row(label, "", "", "", formatCost(totalCost))
		lipgloss.Fprintln(out, ct)

		if len(unknownModels) > 0 {
			lipgloss.Fprintln(out, theme.Hint.Render("Pricing unavailable for: "+strings.Join(unknownModels, ", ")))
		}
		return nil
	},
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. baby-steps)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd, llmProvidersCmd)
}
