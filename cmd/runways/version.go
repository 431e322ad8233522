package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/runways"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "runways %s\n", runways.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
