package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"gdoc-latex/internal/models"
)

// DefaultConcurrency bounds parallel jobs when a batch file does not say.
const DefaultConcurrency = 4

// BatchConfig is the contents of a batch file. Relative outputs resolve
// against OutputDir, which defaults to the batch file's directory.
type BatchConfig struct {
	Concurrency int           `toml:"concurrency"`
	OutputDir   string        `toml:"output_dir"`
	Convert     ConvertConfig `toml:"convert"`
	Fetch       FetchConfig   `toml:"fetch"`
	Jobs        []models.Job  `toml:"job"`
}

// LoadBatchFile reads and validates a TOML batch file. Settings absent from
// the file keep their defaults.
func LoadBatchFile(path string) (BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BatchConfig{}, fmt.Errorf("read batch file: %w", err)
	}

	cfg, err := ParseBatch(data)
	if err != nil {
		return BatchConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Dir(path)
	} else if !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(filepath.Dir(path), cfg.OutputDir)
	}
	return cfg, nil
}

// ParseBatch decodes a batch document on top of the defaults.
func ParseBatch(data []byte) (BatchConfig, error) {
	cfg := BatchConfig{
		Concurrency: DefaultConcurrency,
		Convert:     DefaultConvertConfig(),
		Fetch:       DefaultFetchConfig(),
	}
	token := cfg.Fetch.AccessToken

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return BatchConfig{}, fmt.Errorf("decode batch file: %w", err)
	}
	cfg.Fetch.AccessToken = token

	if err := cfg.Validate(); err != nil {
		return BatchConfig{}, err
	}
	return cfg, nil
}

// Validate checks jobs and limits.
func (c *BatchConfig) Validate() error {
	if len(c.Jobs) == 0 {
		return errors.New("batch file lists no jobs")
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}

	seen := make(map[string]int, len(c.Jobs))
	for i, job := range c.Jobs {
		if strings.TrimSpace(job.Source) == "" {
			return fmt.Errorf("job %d: missing source", i+1)
		}
		if strings.TrimSpace(job.Output) == "" {
			return fmt.Errorf("job %d: missing output", i+1)
		}
		if prev, ok := seen[job.Output]; ok {
			return fmt.Errorf("job %d: output %q already written by job %d", i+1, job.Output, prev)
		}
		seen[job.Output] = i + 1
	}

	switch c.Convert.Format {
	case FormatLaTeX, FormatText:
	default:
		return fmt.Errorf("unsupported format %q", c.Convert.Format)
	}
	return nil
}
