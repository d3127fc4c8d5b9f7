package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/kuisku/kuisku/internal/dataset"
	"github.com/kuisku/kuisku/internal/engine"
	"github.com/kuisku/kuisku/internal/store"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a CSV or XLSX question dataset into the bank",
	Long: "Imports a dataset with the header " + strings.Join(dataset.Columns, ";") + ".\n" +
		"The level comes from the file name prefix (SD_, SMP_, SMA_), else --level.\n" +
		"Importing replaces every question of that level unless --append is set.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]
		levelFlag, _ := cmd.Flags().GetString("level")
		verify, _ := cmd.Flags().GetBool("verify")
		appendRows, _ := cmd.Flags().GetBool("append")
		asJSON, _ := cmd.Flags().GetBool("json")

		level := dataset.LevelFromFilename(path, levelFlag)

		rows, report, err := dataset.Load(path)
		if err != nil {
			return err
		}
		if verify {
			seed := rand.Uint64()
			var vreport *dataset.Report
			rows, vreport, err = dataset.Verify(ctx, engine.New(engine.DefaultConfig(), appLog), rows, seed)
			if err != nil {
				return err
			}
			report.SuccessRows = vreport.SuccessRows
			report.FailedRows += vreport.FailedRows
			report.Corrected = vreport.Corrected
			report.Errors = append(report.Errors, vreport.Errors...)
		}

		questions := make([]store.QuestionInput, len(rows))
		for i, r := range rows {
			questions[i] = store.QuestionInput{Topic: r.Topic, ValidatedItem: r.ValidatedItem}
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		source := filepath.Base(path)
		if appendRows {
			err = s.QuestionRepo().Add(ctx, level, source, questions)
		} else {
			err = s.QuestionRepo().ReplaceLevel(ctx, level, source, questions)
		}
		if err != nil {
			return fmt.Errorf("store questions: %w", err)
		}
		appLog.Info("dataset imported", "file", source, "level", level, "rows", len(questions))

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Fprintf(out, "Imported %d of %d rows into level %s.\n", len(questions), report.TotalRows, level)
		if verify {
			fmt.Fprintf(out, "Answers corrected by verification: %d\n", report.Corrected)
		}
		for _, e := range report.Errors {
			fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Error)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("level", "", "Level to use when the file name has no SD_/SMP_/SMA_ prefix")
	importCmd.Flags().Bool("verify", false, "Recompute answers and options with the verification engine")
	importCmd.Flags().Bool("append", false, "Add to the level instead of replacing it")
	importCmd.Flags().Bool("json", false, "Print the import report as JSON")
}
