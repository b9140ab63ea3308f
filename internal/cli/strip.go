package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/converter"
	"gdoc-latex/internal/fetcher"
)

var stripCmd = &cobra.Command{
	Use:   "strip [file.html]",
	Short: "Convert a local HTML export without network access",
	Long: `Reads HTML from a file, or from stdin when the file is omitted or "-",
and writes the converted text to stdout. Sentinels and comment anchors are
handled exactly as for downloaded documents.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStrip,
}

func init() {
	rootCmd.AddCommand(stripCmd)
}

func runStrip(cmd *cobra.Command, args []string) error {
	convertCfg, err := convertConfig(cmd, config.DefaultConvertConfig())
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	markup, _, err := fetcher.DecodeMarkup(raw, "")
	if err != nil {
		return err
	}

	text, err := converter.New(nil, converter.WithConfig(convertCfg), converter.WithLogger(logger)).ConvertMarkup(markup)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), text)
	return err
}
