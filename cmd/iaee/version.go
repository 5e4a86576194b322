package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/iaee"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of iaee",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "iaee version %s\n", strings.TrimSpace(iaee.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
