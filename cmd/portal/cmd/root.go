// Package cmd holds the portal CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file. Environment variables and
// flags override what it sets.
type Config struct {
	APIURL        string `yaml:"api_url"`
	ListenAddress string `yaml:"listen_address"`
	LogFormat     string `yaml:"log_format"`
}

var (
	configPath string
	config     Config
)

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Insurance portal: dynamic forms and the submissions table",

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			return nil
		}
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		return nil
	},
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
}
