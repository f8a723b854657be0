package cmd

import (
	"fmt"
	"os"

	"spare-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "spare-manager",
	Short: "Spare Parts Manager",
	Long: `Spare Manager keeps the registry of tracked spare parts and turns
equipment spreadsheets into a deduplicated vulnerable parts report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		l, logErr := logger.Console()
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
