// Package cli implements the gdoc2latex command line.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/converter"
	"gdoc-latex/internal/fetcher"
	"gdoc-latex/internal/logging"
	"gdoc-latex/internal/stripper"
)

var version = "dev"

var (
	verbose       bool
	logFormat     string
	strict        bool
	commentPrefix string
	format        string
	accessToken   string
	chromeProfile string
	promptToken   bool
)

// logger is set up before every command runs.
var logger = logging.NoOp()

// newFetcher builds the fetcher chain; tests replace it.
var newFetcher = func(ctx context.Context, cfg config.FetchConfig, log logging.Logger) (fetcher.Fetcher, error) {
	return fetcher.NewDefault(ctx, cfg, log)
}

var rootCmd = &cobra.Command{
	Use:   "gdoc2latex",
	Short: "Convert Google Docs to LaTeX-ready text",
	Long: `gdoc2latex downloads the HTML export of Google Docs and turns it into
plain text ready to be \input into a LaTeX document: markup, styles and
reviewer comments are dropped and typographic characters become LaTeX
ligatures (-- --- `+"``"+` '' ...).

Documents must be shared with "anyone with the link", unless an access
token (--access-token, GDOC_ACCESS_TOKEN) or a signed-in Chrome profile
(--chrome-profile, GDOC_CHROME_PROFILE) is supplied.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "log progress at debug level")
	flags.StringVar(&logFormat, "log-format", "", "log output format: console, json or pretty")
	flags.BoolVar(&strict, "strict", false, "fail on malformed markup instead of emitting truncated text")
	flags.StringVar(&commentPrefix, "comment-prefix", stripper.DefaultCommentPrefix, "id prefix of comment anchors to drop (empty keeps them)")
	flags.StringVarP(&format, "format", "f", config.FormatLaTeX, "output format: latex or text")
	flags.StringVar(&accessToken, "access-token", "", "OAuth access token for private documents (Drive API)")
	flags.StringVar(&chromeProfile, "chrome-profile", "", "Chrome user data dir signed in to Google, used as a last resort")
	flags.BoolVar(&promptToken, "prompt-token", false, "read the access token from the terminal without echo")
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	cfg := config.DefaultLogConfig()
	if os.Getenv("GDOC_LOG_LEVEL") == "" {
		// stdout carries converted text
		cfg.Level = "warn"
	}
	if verbose {
		cfg.Level = "debug"
	}
	if logFormat != "" {
		cfg.Format = logFormat
	}

	provider, err := logging.NewProvider(logging.Config{Level: cfg.Level, Format: cfg.Format})
	if err != nil {
		return err
	}
	logger = provider.GetLogger("gdoc2latex")
	return nil
}

// convertConfig applies the global flags on top of base.
func convertConfig(cmd *cobra.Command, base config.ConvertConfig) (config.ConvertConfig, error) {
	flags := cmd.Flags()
	if flags.Changed("strict") {
		base.Strict = strict
	}
	if flags.Changed("comment-prefix") {
		base.CommentPrefix = commentPrefix
	}
	if flags.Changed("format") {
		base.Format = format
	}

	switch base.Format {
	case config.FormatLaTeX, config.FormatText:
		return base, nil
	default:
		return base, fmt.Errorf("unsupported format %q (want %s or %s)", base.Format, config.FormatLaTeX, config.FormatText)
	}
}

// fetchConfig applies the credential flags on top of base.
func fetchConfig(cmd *cobra.Command, base config.FetchConfig) (config.FetchConfig, error) {
	if accessToken != "" {
		base.AccessToken = accessToken
	}
	if chromeProfile != "" {
		base.ChromeProfileDir = chromeProfile
	}
	if promptToken {
		token, err := readToken(cmd)
		if err != nil {
			return base, err
		}
		base.AccessToken = token
	}
	return base, nil
}

func newConverter(cmd *cobra.Command, convertCfg config.ConvertConfig, fetchCfg config.FetchConfig) (*converter.Converter, error) {
	f, err := newFetcher(cmd.Context(), fetchCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("set up fetchers: %w", err)
	}
	return converter.New(f, converter.WithConfig(convertCfg), converter.WithLogger(logger)), nil
}

// readToken reads a token without echo when stdin is a terminal.
func readToken(cmd *cobra.Command) (string, error) {
	cmd.PrintErr("Access token: ")
	defer cmd.PrintErrln()

	var token string
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read token: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return "", errors.New("empty access token")
	}
	return token, nil
}
