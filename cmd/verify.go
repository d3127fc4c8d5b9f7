package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/kuisku/kuisku/internal/engine"
	"github.com/kuisku/kuisku/internal/logger"
	"github.com/kuisku/kuisku/internal/problemgen"
	"github.com/kuisku/kuisku/internal/quiz"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [file|-]",
	Short: "Repair and verify a quiz payload, printing validated items as JSON",
	Long: "Reads an LLM response or any JSON quiz payload (an array of items, {\"quiz\": [...]}\n" +
		"or a single item), repairs it, recomputes every answer it can and prints the\n" +
		"validated items. Reads stdin when no file or \"-\" is given. Nothing is stored.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()
			in = f
		}

		seed, _ := cmd.Flags().GetUint64("seed")
		if !cmd.Flags().Changed("seed") {
			seed = rand.Uint64()
		}
		return runVerify(cmd.Context(), in, cmd.OutOrStdout(), seed, appLog)
	},
}

type verifyRejection struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Error    string `json:"error"`
}

type verifyOutput struct {
	Items    []quiz.ValidatedItem `json:"items"`
	Rejected []verifyRejection    `json:"rejected"`
}

// runVerify parses raw, runs every candidate through the engine and writes
// the outcome to out.
func runVerify(ctx context.Context, in io.Reader, out io.Writer, seed uint64, log *logger.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	candidates, err := problemgen.ParseCandidates(string(raw))
	if err != nil {
		return err
	}

	proc := engine.New(engine.DefaultConfig(), log)
	res, err := proc.ProcessBatch(ctx, candidates, seed)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	result := verifyOutput{
		Items:    res.Items,
		Rejected: make([]verifyRejection, 0, len(res.Rejected)),
	}
	if result.Items == nil {
		result.Items = []quiz.ValidatedItem{}
	}
	for _, r := range res.Rejected {
		result.Rejected = append(result.Rejected, verifyRejection{
			Index:    r.Index,
			Question: r.Question,
			Error:    r.Err.Error(),
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if len(res.Items) == 0 && len(candidates) > 0 {
		return engine.ErrNoValidItems
	}
	return nil
}

func init() {
	verifyCmd.Flags().Uint64("seed", 0, "Seed for option synthesis (random when unset)")
}
