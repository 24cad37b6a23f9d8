package main

import (
	"fmt"

	"github.com/aretw0/talebox/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <book>",
	Short: "Export the story graph visualization",
	Long:  `Loads a book folder and outputs a Mermaid diagram (graph TD) of its stages and choices.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		story, _, err := loadBook(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(story, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
