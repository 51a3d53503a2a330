package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootLogger is set by Execute and shared by the subcommands.
var rootLogger *zap.Logger

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "packflow",
	Short: "packflow ranks text files and packs them into size-bounded chunks",
	Long: `packflow scans a directory tree, scores each text file from regex rules
and git recency, and packs the contents into ordered, size-bounded chunk
files suitable for feeding a limited context budget.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is the normal case, not an error.
		_ = godotenv.Load()
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	rootLogger = logger
	return RootCmd.Execute()
}
