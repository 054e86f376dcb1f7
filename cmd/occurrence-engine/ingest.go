// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/occurrence-engine/internal/ingest"
	"github.com/pdiddy/occurrence-engine/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull identification events from a remote occurrence API",
	Long: `Ingest fetches the identification feed of a remote occurrence API page
by page and records each event in the local store. Events the store
rejects (blank names, negative subject indices) are reported and skipped.

The API key defaults to the occurrence-api-key secret when present.`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := ingestConfig(cmd)
	if cfg.SourceURL == "" {
		return fmt.Errorf("source URL required: pass --source or set ingest.source_url")
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	client := &http.Client{Timeout: cfg.Timeout}
	summary, err := ingest.Pull(context.Background(), client, cfg, s, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d event(s) rejected", summary.Failed)
	}
	return nil
}

func ingestConfig(cmd *cobra.Command) types.IngestConfig {
	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		source = viper.GetString("ingest.source_url")
	}
	apiKey, _ := cmd.Flags().GetString("api-key")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	pageDelay, _ := cmd.Flags().GetDuration("page-delay")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	return types.IngestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: "occurrence-engine/" + version,
		},
		SourceURL: source,
		APIKey:    secretDefault("occurrence-api-key", apiKey),
		PageSize:  pageSize,
		PageDelay: pageDelay,
	}
}

func init() {
	ingestCmd.Flags().String("source", "", "base URL of the remote occurrence API")
	ingestCmd.Flags().String("api-key", "", "bearer token for the remote API")
	ingestCmd.Flags().Int("page-size", 100, "events requested per page")
	ingestCmd.Flags().Duration("page-delay", time.Second, "delay between page fetches")
	ingestCmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")

	rootCmd.AddCommand(ingestCmd)
}
