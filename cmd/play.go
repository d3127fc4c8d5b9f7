package cmd

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/kuisku/kuisku/internal/play"
	"github.com/kuisku/kuisku/internal/quiz"
	"github.com/kuisku/kuisku/internal/store"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a quiz drawn from the question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		level, _ := cmd.Flags().GetString("level")
		count, _ := cmd.Flags().GetInt("count")
		player, _ := cmd.Flags().GetString("player")
		level = strings.ToUpper(strings.TrimSpace(level))

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		seed := rand.Uint64()
		questions, err := s.QuestionRepo().Sample(ctx, level, count, rand.New(rand.NewPCG(seed, seed>>1)))
		if err != nil {
			return fmt.Errorf("draw questions: %w", err)
		}
		if len(questions) == 0 {
			if level == "" {
				return fmt.Errorf("the question bank is empty; run 'kuisku import' or 'kuisku generate --bank' first")
			}
			return fmt.Errorf("no questions for level %s; run 'kuisku import' first", level)
		}

		items := make([]quiz.ValidatedItem, len(questions))
		for i, q := range questions {
			items[i] = q.ValidatedItem
		}
		return runPlay(cmd, s, store.QuizInput{
			Player: player,
			Level:  questions[0].Level,
			Topic:  topicOf(questions),
			Items:  items,
		})
	},
}

// runPlay starts the quiz UI and prints the final score.
func runPlay(cmd *cobra.Command, s *store.Store, in store.QuizInput) error {
	result, err := play.Run(cmd.Context(), s.QuizRepo(), in)
	if err != nil {
		return err
	}
	if result != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s scored %d of %d (quiz %s).\n",
			result.Player, result.Score, result.Total, result.ID)
	}
	return nil
}

// topicOf returns the shared topic of questions, or "campuran" when they differ.
func topicOf(questions []store.Question) string {
	topic := questions[0].Topic
	for _, q := range questions[1:] {
		if q.Topic != topic {
			return "campuran"
		}
	}
	return topic
}

func init() {
	playCmd.Flags().StringP("level", "l", "", "School level to draw from (SD, SMP, SMA; empty for all)")
	playCmd.Flags().IntP("count", "n", 10, "Number of questions")
	playCmd.Flags().StringP("player", "p", "", "Player name (asked when empty)")
}
