package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/talebox/internal/config"
	"github.com/aretw0/talebox/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talebox",
	Short: "Talebox plays interactive audio storybooks",
	Long: `Talebox reads a library of branching storybooks and plays them: each page
shows an image, narrates its text and waits for the buttons to pick what comes next.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default $HOME/.config/talebox/config.yaml)")
	rootCmd.PersistentFlags().String("library", "", "Library folder (overrides the configuration)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig reads the configuration and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	if lib, _ := cmd.Flags().GetString("library"); lib != "" {
		cfg.Library.Path = lib
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	return cfg, logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format), nil
}
