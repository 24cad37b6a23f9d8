package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/talebox"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of talebox",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "talebox version %s\n", strings.TrimSpace(talebox.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
