package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	userName   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "tat",
	Short: "Trivial Attendance Tracker – clock in and out from chat or the shell",
	Long: `tat records when you arrive and leave, one or more intervals per day,
and prints monthly attendance lists with 15-minute rounding and overtime.

The same commands work in Discord (tat bot), in an interactive shell
(tat console) and as one-shot subcommands:

  tat hi                    clock in now
  tat bye 1730              clock out at 17:30
  tat hi 12/24 9-1730       record December 24, 9:00 to 17:30
  tat list 2024/12          attendance list of December 2024

Data is stored in ~/.tat/ unless configured otherwise in ~/.tat/config.json.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.tat/config.json)")
	rootCmd.PersistentFlags().StringVarP(&userName, "user", "u", "", "Act as this user (default $USER)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every command to stderr")

	rootCmd.AddCommand(hiCmd)
	rootCmd.AddCommand(byeCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(csvlistCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(botCmd)
}
