package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/converter"
	"gdoc-latex/internal/models"
)

var (
	convertOutput  string
	convertTimeout time.Duration
)

var convertCmd = &cobra.Command{
	Use:   "convert <source>",
	Short: "Convert one document",
	Long: `Converts a single document. The source is a Google Docs URL, a .gdoc
file written by Google Drive for desktop, or a saved .html export.
The text goes to stdout unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "write the text to this file instead of stdout")
	convertCmd.Flags().DurationVar(&convertTimeout, "timeout", 0, "overall time limit (0 uses the fetch timeout plus the browser budget)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	convertCfg, err := convertConfig(cmd, config.DefaultConvertConfig())
	if err != nil {
		return err
	}
	fetchCfg, err := fetchConfig(cmd, config.DefaultFetchConfig())
	if err != nil {
		return err
	}

	conv, err := newConverter(cmd, convertCfg, fetchCfg)
	if err != nil {
		return err
	}

	timeout := convertTimeout
	if timeout <= 0 {
		timeout = time.Duration(fetchCfg.TimeoutMs)*time.Millisecond*time.Duration(fetchCfg.MaxRetries+1) + time.Minute
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	job := models.Job{Source: args[0], Output: convertOutput}
	var sink converter.Sink = converter.NewWriterSink(cmd.OutOrStdout())
	if convertOutput != "" {
		sink = converter.FileSink{}
	}

	results := conv.RunBatch(ctx, []models.Job{job}, sink, 1)
	if err := results[0].Err; err != nil {
		return err
	}
	if convertOutput != "" {
		cmd.PrintErrf("Wrote %s to %s\n", args[0], convertOutput)
	}
	return nil
}
