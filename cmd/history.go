package cmd

import (
	"fmt"
	"strings"

	"github.com/kuisku/kuisku/internal/ui/components"
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show played and generated quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyListCmd.RunE(cmd, args)
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		quizzes, err := s.QuizRepo().List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(quizzes) == 0 {
			fmt.Fprintln(out, "No quizzes yet.")
			return nil
		}

		rows := make([][]string, 0, len(quizzes))
		for _, q := range quizzes {
			score := fmt.Sprintf("%d/%d", q.Score, q.Total)
			if !q.Finished {
				score += " (unfinished)"
			}
			rows = append(rows, []string{
				q.ID,
				q.CreatedAt.Local().Format(timeLayout),
				truncate(q.Player, 12),
				q.Level,
				truncate(q.Topic, 16),
				score,
			})
		}
		lipgloss.Fprintln(out, renderTable([]string{"ID", "Created", "Player", "Level", "Topic", "Score"}, rows))
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show every question and answer of a quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		q, err := s.QuizRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get quiz: %w", err)
		}
		if q == nil {
			return fmt.Errorf("quiz %s not found", args[0])
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)

		fmt.Fprintf(out, "ID:        %s\n", q.ID)
		fmt.Fprintf(out, "Created:   %s\n", q.CreatedAt.Local().Format(timeLayout))
		fmt.Fprintf(out, "Player:    %s\n", q.Player)
		fmt.Fprintf(out, "Level:     %s\n", q.Level)
		fmt.Fprintf(out, "Topic:     %s\n", q.Topic)
		fmt.Fprintf(out, "Score:     %d/%d\n", q.Score, q.Total)
		fmt.Fprintf(out, "Finished:  %v\n", q.Finished)

		for _, tq := range q.Questions {
			fmt.Fprintln(out, sep)
			fmt.Fprintf(out, "%d. %s\n", tq.Position+1, tq.Question)
			for i, opt := range tq.Options {
				mark := " "
				if strings.TrimSpace(opt) == strings.TrimSpace(tq.CorrectAnswer) {
					mark = "*"
				}
				fmt.Fprintf(out, "   %s %s) %s\n", mark, components.OptionLabels[i%len(components.OptionLabels)], opt)
			}
			switch {
			case !tq.Answered:
				fmt.Fprintln(out, "   (not answered)")
			case tq.IsCorrect:
				fmt.Fprintf(out, "   Answer: %s ✓\n", tq.Answer)
			default:
				fmt.Fprintf(out, "   Answer: %s ✗\n", tq.Answer)
			}
		}
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
	historyCmd.Flags().AddFlagSet(historyListCmd.Flags())

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
}
