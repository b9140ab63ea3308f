package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/converter"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch <file.toml>",
	Short: "Convert every document listed in a batch file",
	Long: `Converts the [[job]] entries of a TOML batch file concurrently:

    concurrency = 3
    output_dir = "build"

    [[job]]
    source = "https://docs.google.com/document/d/XXXX/edit"
    output = "paper.tex"

Relative outputs resolve against output_dir, which itself resolves against
the batch file's directory. A failing job does not stop the others.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "j", 0, "override the batch file's concurrency")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := config.LoadBatchFile(args[0])
	if err != nil {
		return err
	}

	convertCfg, err := convertConfig(cmd, batch.Convert)
	if err != nil {
		return err
	}
	fetchCfg, err := fetchConfig(cmd, batch.Fetch)
	if err != nil {
		return err
	}
	if batchConcurrency > 0 {
		batch.Concurrency = batchConcurrency
	}

	conv, err := newConverter(cmd, convertCfg, fetchCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	results := conv.RunBatch(ctx, batch.Jobs, converter.FileSink{Dir: batch.OutputDir}, batch.Concurrency)
	for _, r := range results {
		if r.Err != nil {
			cmd.PrintErrf("FAILED %s: %v\n", r.Job.Source, r.Err)
			continue
		}
		cmd.Printf("Wrote %s to %s\n", r.Job.Source, r.Job.Output)
	}

	if failed := converter.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(results))
	}
	return nil
}
