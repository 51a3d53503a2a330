package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"packflow/pkg/pack"

	"github.com/spf13/cobra"
)

var packFlags struct {
	output          string
	configFile      string
	rules           []string
	ignorePatterns  []string
	globalIgnore    string
	maxSize         string
	maxBoost        int
	workers         int
	channelCapacity int
	noRecency       bool
	tree            bool
	verbose         bool
}

// packCmd runs the ranking-and-chunking engine over a directory tree.
var packCmd = &cobra.Command{
	Use:   "pack [path]",
	Short: "Rank text files under a directory and pack them into chunks",
	Long: `Scan a directory tree, score every text file from regex rules and git
recency, and write the contents into ordered, size-bounded chunk files.
Higher-scored files land in later chunks, closest to the end of the
assembled output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		opts := pack.Options{
			Root:             root,
			OutputDir:        packFlags.output,
			IgnorePatterns:   packFlags.ignorePatterns,
			GlobalIgnoreFile: packFlags.globalIgnore,
			MaxBoost:         packFlags.maxBoost,
			MaxSize:          pack.DefaultMaxSize,
			MaxWorkers:       packFlags.workers,
			ChannelCapacity:  packFlags.channelCapacity,
			NoRecency:        packFlags.noRecency,
			Tree:             packFlags.tree,
			Verbose:          packFlags.verbose,
		}

		if opts.GlobalIgnoreFile == "" {
			opts.GlobalIgnoreFile = os.Getenv("PACKFLOW_GLOBAL_IGNORE")
		}

		if packFlags.configFile != "" {
			if err := pack.LoadConfigFile(packFlags.configFile, &opts); err != nil {
				return err
			}
		}

		// Flags override config file values.
		if cmd.Flags().Changed("max-size") || packFlags.configFile == "" {
			limit, err := pack.ParseSizeLimit(packFlags.maxSize)
			if err != nil {
				return fmt.Errorf("invalid --max-size: %w", err)
			}
			opts.MaxSize = limit
		}

		for _, spec := range packFlags.rules {
			rule, err := parseRuleFlag(spec)
			if err != nil {
				return err
			}
			opts.Rules = append(opts.Rules, rule)
		}

		_, err := pack.Run(opts, rootLogger)
		return err
	},
}

// parseRuleFlag parses a --rule value of the form "pattern=score". The
// split happens at the last '=' so regex patterns containing '=' stay
// intact.
func parseRuleFlag(spec string) (pack.Rule, error) {
	idx := strings.LastIndexByte(spec, '=')
	if idx <= 0 || idx == len(spec)-1 {
		return pack.Rule{}, fmt.Errorf("invalid rule %q: expected pattern=score", spec)
	}

	score, err := strconv.Atoi(spec[idx+1:])
	if err != nil {
		return pack.Rule{}, fmt.Errorf("invalid rule score in %q: %w", spec, err)
	}

	return pack.Rule{Pattern: spec[:idx], Score: score}, nil
}

func init() {
	packCmd.Flags().StringVarP(&packFlags.output, "output", "o", "chunks", "Output directory for chunk artifacts")
	packCmd.Flags().StringVarP(&packFlags.configFile, "config", "c", "", "YAML config file with rules and ignore patterns")
	packCmd.Flags().StringArrayVarP(&packFlags.rules, "rule", "r", nil, "Priority rule pattern=score (repeatable)")
	packCmd.Flags().StringArrayVarP(&packFlags.ignorePatterns, "ignore", "i", nil, "Extra ignore pattern (repeatable)")
	packCmd.Flags().StringVar(&packFlags.globalIgnore, "global-ignore", "", "Path to a global .packignore file")
	packCmd.Flags().StringVar(&packFlags.maxSize, "max-size", "10MB", "Size budget per chunk (e.g. 10MB, 512K)")
	packCmd.Flags().IntVar(&packFlags.maxBoost, "max-boost", pack.DefaultMaxBoost, "Maximum recency boost added to a file's priority")
	packCmd.Flags().IntVarP(&packFlags.workers, "workers", "w", 0, "Worker count (0 = number of CPUs)")
	packCmd.Flags().IntVar(&packFlags.channelCapacity, "channel-capacity", pack.DefaultChannelCapacity, "Capacity of the worker output channel")
	packCmd.Flags().BoolVar(&packFlags.noRecency, "no-recency", false, "Disable the git recency boost")
	packCmd.Flags().BoolVarP(&packFlags.tree, "tree", "t", false, "Also write a tree.txt of the packed layout")
	packCmd.Flags().BoolVarP(&packFlags.verbose, "verbose", "v", false, "Log per-file detail")

	RootCmd.AddCommand(packCmd)
}
