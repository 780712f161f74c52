package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/config"
)

var (
	configPath  string
	catalogPath string
	rulesPath   string
	logLevel    string

	cfg config.YAMLConfig

	rootCmd = &cobra.Command{
		Use:   "stylist",
		Short: "Build outfit combinations from a wardrobe",
		Long: `stylist turns a set of selected garments into ranked outfit
combinations, either once (generate), interactively (tui) or as a gRPC
service (serve).`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

func main() {
	// Execute the root command. Cobra handles parsing the arguments.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults are used when empty)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "JSON garment catalog, overrides the config")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "YAML list of combination rules, replaces the configured rules")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error, overrides the config")

	rootCmd.AddCommand(generateCmd, tuiCmd, serveCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		cfg = config.Default()
	} else {
		c := &config.ConfigImpl{}
		loaded, err := c.LoadYAML(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if catalogPath != "" {
		cfg.Catalog = catalogPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if rulesPath != "" {
		c := &config.ConfigImpl{}
		rs, err := c.LoadRules(rulesPath)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		cfg.Rules = rs
	}
	return cfg.Validate()
}
