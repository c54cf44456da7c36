package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the monthguard CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("monthguard version %s\n", version)
		fmt.Println("Monthly risk-guarded trading simulator")
		fmt.Println("https://github.com/rustyeddy/monthguard")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
