package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statewise/flume"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the flume version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flume version %s\n", flume.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
