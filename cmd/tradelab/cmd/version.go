package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradelab/backup"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradelab CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		w := out(cmd)
		fmt.Fprintf(w, "tradelab version %s\n", version)
		fmt.Fprintf(w, "backup format %s\n", backup.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
