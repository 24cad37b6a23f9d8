package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/talebox"
	"github.com/aretw0/talebox/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the books of the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		p, err := talebox.New(cmd.Context(), cfg.Library.Path, talebox.WithLogger(logger))
		if err != nil {
			return err
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "# Library `%s`\n\n", p.Library.Root())
		if p.Library.Len() == 0 {
			sb.WriteString("No book found.\n")
		} else {
			sb.WriteString("| # | Folder | Title | Stages | Choices | Night mode |\n")
			sb.WriteString("|---|---|---|---|---|---|\n")
			for i, b := range p.Library.Books() {
				story := b.Story()
				night := ""
				if story.NightMode {
					night = "yes"
				}
				fmt.Fprintf(&sb, "| %d | %s | %s | %d | %d | %s |\n",
					i+1, b.ID(), b.Title(), len(story.Stages), len(story.Choices), night)
			}
		}

		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			fmt.Fprint(cmd.OutOrStdout(), sb.String())
			return nil
		}
		out, err := tui.NewRenderer(0)(sb.String())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("plain", false, "Print raw markdown")
}
