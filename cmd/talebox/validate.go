package main

import (
	"fmt"

	"github.com/aretw0/talebox/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <book>",
	Short: "Check a book for broken links and unreachable stages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		story, _, err := loadBook(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		report := validator.ValidateStory(story)
		for _, w := range report.Warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
		}
		if err := report.Err(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d stages, %d choices, ok\n", args[0], len(story.Stages), len(story.Choices))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
