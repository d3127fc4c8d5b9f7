package cmd

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/kuisku/kuisku/internal/engine"
	"github.com/kuisku/kuisku/internal/llm"
	"github.com/kuisku/kuisku/internal/play"
	"github.com/kuisku/kuisku/internal/problemgen"
	"github.com/kuisku/kuisku/internal/quiz"
	"github.com/kuisku/kuisku/internal/store"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a verified quiz with the configured LLM",
	Long: "Asks the LLM (KUISKU_LLM_PROVIDER, default ollama) for questions on a topic,\n" +
		"verifies them and stores the result as a quiz. Questions of the same level from\n" +
		"the bank are shown to the model as reference phrasings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topic, _ := cmd.Flags().GetString("topic")
		level, _ := cmd.Flags().GetString("level")
		count, _ := cmd.Flags().GetInt("count")
		player, _ := cmd.Flags().GetString("player")
		toBank, _ := cmd.Flags().GetBool("bank")
		playNow, _ := cmd.Flags().GetBool("play")

		topic = strings.TrimSpace(topic)
		if topic == "" {
			return errors.New("--topic is required")
		}
		level = strings.ToUpper(strings.TrimSpace(level))

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		provider, llmCfg, err := llm.NewProviderFromEnv(ctx, s.EventRepo(), appLog)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}
		appLog.Info("llm provider ready", "provider", llmCfg.Provider)

		cfg := problemgen.DefaultConfig()
		seed := rand.Uint64()
		samples, err := s.QuestionRepo().Sample(ctx, level, cfg.MaxSamples, rand.New(rand.NewPCG(seed, seed>>1)))
		if err != nil {
			return fmt.Errorf("load reference questions: %w", err)
		}

		gen := problemgen.New(provider, engine.New(engine.DefaultConfig(), appLog), cfg, appLog)
		batch, err := gen.Generate(ctx, problemgen.GenerateInput{
			Topic:   topic,
			Level:   level,
			Count:   count,
			Samples: sampleItems(samples),
			Seed:    seed,
		})
		if err != nil {
			if batch != nil && len(batch.Rejected) > 0 {
				printRejections(cmd, batch.Rejected)
			}
			return fmt.Errorf("generate: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d of %d generated questions passed verification.\n", len(batch.Items), batch.Candidates)
		printRejections(cmd, batch.Rejected)

		if toBank {
			if err := s.QuestionRepo().Add(ctx, batch.Level, "llm", store.WithTopic(batch.Topic, batch.Items)); err != nil {
				return fmt.Errorf("add to question bank: %w", err)
			}
			fmt.Fprintf(out, "Added %d questions to the %s bank.\n", len(batch.Items), batch.Level)
		}

		in := store.QuizInput{Player: player, Level: batch.Level, Topic: batch.Topic, Items: batch.Items}
		if playNow {
			return runPlay(cmd, s, in)
		}

		if in.Player == "" {
			in.Player = play.DefaultPlayer
		}
		q, err := s.QuizRepo().Create(ctx, in)
		if err != nil {
			return fmt.Errorf("store quiz: %w", err)
		}
		fmt.Fprintf(out, "Stored quiz %s with %d questions.\n", q.ID, q.Total)
		return nil
	},
}

func sampleItems(qs []store.Question) []quiz.ValidatedItem {
	out := make([]quiz.ValidatedItem, len(qs))
	for i, q := range qs {
		out[i] = q.ValidatedItem
	}
	return out
}

func printRejections(cmd *cobra.Command, rejected []engine.Rejection) {
	for _, r := range rejected {
		fmt.Fprintf(cmd.ErrOrStderr(), "  rejected #%d %q: %v\n", r.Index+1, truncate(r.Question, 60), r.Err)
	}
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "Topic of the questions, e.g. \"pecahan\"")
	generateCmd.Flags().StringP("level", "l", problemgen.LevelSD, "School level: SD, SMP or SMA")
	generateCmd.Flags().IntP("count", "n", 5, "Number of questions")
	generateCmd.Flags().String("player", "", "Player name for the stored quiz")
	generateCmd.Flags().Bool("bank", false, "Also add the verified questions to the question bank")
	generateCmd.Flags().Bool("play", false, "Play the quiz right away")
}
