package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/kuisku/kuisku/internal/llm"
	"github.com/kuisku/kuisku/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		printLLMEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

func printLLMEvents(out io.Writer, events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No LLM events found.")
		return
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		rows = append(rows, []string{
			strconv.Itoa(e.ID),
			e.Timestamp.Local().Format(timeLayout),
			e.Provider,
			truncate(e.Model, 28),
			e.Purpose,
			strconv.Itoa(e.InputTokens),
			strconv.Itoa(e.OutputTokens),
			strconv.FormatInt(e.LatencyMs, 10),
			ok,
		})
	}
	lipgloss.Fprintln(out, renderTable(
		[]string{"ID", "Time", "Provider", "Model", "Purpose", "In", "Out", "Ms", "OK"}, rows))
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one LLM request",
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
		printLLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

func printLLMEvent(out io.Writer, e *store.LLMEvent) {
	fmt.Fprintf(out, "ID:        %d\n", e.ID)
	fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(out, "Provider:  %s\n", e.Provider)
	fmt.Fprintf(out, "Model:     %s\n", e.Model)
	fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
	fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
	fmt.Fprintf(out, "Success:   %v\n", e.Success)
	if e.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
	}

	section := func(title, body string) {
		sep := strings.Repeat("─", 60)
		fmt.Fprintf(out, "\n%s\n%s\n%s\n", sep, title, sep)
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintln(out, body)
	}
	section("REQUEST", e.RequestBody)
	section("RESPONSE", prettyBody(e.ResponseBody))
}

// prettyBody indents a reply that is valid JSON and leaves anything else,
// such as a truncated batch, as stored.
func prettyBody(body string) string {
	if !gjson.Valid(body) {
		return body
	}
	return strings.TrimRight(gjson.Get(body, "@pretty").Raw, "\n")
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		printLLMStats(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

func printLLMStats(out io.Writer, byPurpose []store.PurposeUsage, byModel []store.ModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(out, "No LLM usage recorded yet.")
		return
	}

	var calls, in, outTok int
	rows := make([][]string, 0, len(byPurpose)+1)
	for _, u := range byPurpose {
		rows = append(rows, []string{
			u.Purpose,
			strconv.Itoa(u.Calls),
			strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens),
			strconv.Itoa(u.InputTokens + u.OutputTokens),
			strconv.FormatInt(u.AvgLatencyMs, 10),
		})
		calls += u.Calls
		in += u.InputTokens
		outTok += u.OutputTokens
	}
	rows = append(rows, []string{"TOTAL", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(outTok), strconv.Itoa(in + outTok), ""})
	fmt.Fprintln(out, "Usage by purpose")
	lipgloss.Fprintln(out, renderTable([]string{"Purpose", "Calls", "Input", "Output", "Total", "Avg ms"}, rows))

	if len(byModel) == 0 {
		return
	}

	var (
		total   float64
		unknown []string
	)
	rows = rows[:0]
	for _, u := range byModel {
		cost := "?"
		if p := llm.LookupCost(u.Model); p != nil {
			c := p.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unknown = append(unknown, u.Model)
		}
		rows = append(rows, []string{
			truncate(u.Model, 32), strconv.Itoa(u.Calls),
			strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), cost,
		})
	}
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	rows = append(rows, []string{label, "", "", "", formatCost(total)})

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Estimated cost (USD)")
	lipgloss.Fprintln(out, renderTable([]string{"Model", "Calls", "Input", "Output", "Cost"}, rows))
	if len(unknown) > 0 {
		fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

// truncate cuts s to at most max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. quiz-gen)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
