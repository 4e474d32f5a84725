package main

import (
	"github.com/charly-com/safenaija/internal/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ussdsim",
	Short: "Simulate a handset dialing the SafeNaija USSD gateway",
	Long: `ussdsim plays the phone side of a USSD dialog against a running
SafeNaija webhook, either interactively or from scripted inputs.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level, _ := cmd.Flags().GetString("log-level")
		logger.SetLevel(level)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("url", "http://localhost:8080/ussd/webhook", "webhook URL")
	rootCmd.PersistentFlags().String("phone", "+2348000000000", "caller phone number")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
}
