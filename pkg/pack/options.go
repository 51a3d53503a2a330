package pack

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Default tuning values; each can be overridden by config file or flags.
const (
	DefaultMaxSize         = 10 * 1024 * 1024 // 10MB per output chunk
	DefaultMaxBoost        = 25
	DefaultChannelCapacity = 1024
)

// Options holds the configuration for one pack run.
type Options struct {
	Root             string // Directory to scan.
	OutputDir        string // Destination directory for chunk artifacts.
	Rules            []Rule // Priority rules (regex pattern -> score).
	IgnorePatterns   []string
	GlobalIgnoreFile string // Optional path to a global .packignore file.
	MaxBoost         int    // Upper bound of the recency boost.
	MaxSize          int    // Size budget per chunk, in Sizer units.
	MaxWorkers       int    // Worker count; <=0 means NumCPU.
	ChannelCapacity  int    // Bound of the worker->aggregator channel.
	NoRecency        bool   // Skip the git recency boost entirely.
	Tree             bool   // Also write a tree.txt next to the chunks.
	Verbose          bool   // Per-file debug logging.
}

// Validate checks the option set before a run starts.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Root, validation.Required),
		validation.Field(&o.OutputDir, validation.Required),
		validation.Field(&o.MaxSize, validation.Required, validation.Min(1)),
		validation.Field(&o.MaxBoost, validation.Min(0)),
		validation.Field(&o.ChannelCapacity, validation.Min(1)),
	)
}

// FileConfig is the YAML config file schema. Zero fields leave the
// corresponding Options value untouched, so flags and defaults win when
// the file is silent.
type FileConfig struct {
	Rules           []Rule   `yaml:"rules"`
	Ignore          []string `yaml:"ignore"`
	MaxBoost        *int     `yaml:"max_boost"`
	MaxSize         string   `yaml:"max_size"`
	Workers         *int     `yaml:"workers"`
	ChannelCapacity *int     `yaml:"channel_capacity"`
}

// LoadConfigFile reads a YAML config file and folds it into opts.
func LoadConfigFile(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	opts.Rules = append(opts.Rules, fc.Rules...)
	opts.IgnorePatterns = append(opts.IgnorePatterns, fc.Ignore...)
	if fc.MaxBoost != nil {
		opts.MaxBoost = *fc.MaxBoost
	}
	if fc.MaxSize != "" {
		limit, err := ParseSizeLimit(fc.MaxSize)
		if err != nil {
			return fmt.Errorf("invalid max_size in config file %s: %w", path, err)
		}
		opts.MaxSize = limit
	}
	if fc.Workers != nil {
		opts.MaxWorkers = *fc.Workers
	}
	if fc.ChannelCapacity != nil {
		opts.ChannelCapacity = *fc.ChannelCapacity
	}

	return nil
}
