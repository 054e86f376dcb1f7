// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the occurrence-engine CLI.
// Implements: prd001-identification, prd002-consensus, prd003-ingestion,
//             prd004-export (CLI surface).
// See docs/ARCHITECTURE § Command Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/occurrence-engine/internal/secrets"
	"github.com/pdiddy/occurrence-engine/internal/store"
	"github.com/pdiddy/occurrence-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for
// key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the occurrence-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "occurrence-engine",
	Short: "Community identification consensus for biodiversity occurrences",
	Long: `occurrence-engine manages identification records for biodiversity
occurrences and computes the community consensus for each: the
best-supported taxon, a confidence ratio, and a research/needs_id/casual
quality grade.

Each concern is a subcommand: occurrence and identify manage records,
consensus computes grades, ingest pulls identification events from a remote
occurrence API, and export writes consensus snapshots.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./occurrence-engine.yaml or ~/.config/occurrence-engine/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "base directory for engine data (default: ./data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("occurrence-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "occurrence-engine"))
		}
	}

	viper.SetEnvPrefix("OCCURRENCE_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("store.data_dir", "data")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openStore opens the store at the configured data directory. Flag beats
// config file beats the "data" default.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("store.data_dir")
	}
	return store.NewStore(types.StoreConfig{DataDir: dataDir})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
