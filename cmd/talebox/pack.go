package main

import (
	"fmt"

	"github.com/aretw0/talebox/pkg/pack"
	"github.com/spf13/cobra"
)

var packCmd = &cobra.Command{
	Use:   "pack <book> <output>",
	Short: "Convert a book into an encrypted binary pack",
	Long: `Reads a book folder (descriptor or pack) and writes it as a binary pack:
assets are renamed, encrypted under rf/ and sf/, and the index files are encoded.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		story, assets, err := loadBook(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := pack.Build(args[1], story, assets); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "packed %d stages into %s\n", len(story.Stages), args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
}
