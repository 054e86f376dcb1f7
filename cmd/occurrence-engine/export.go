// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/occurrence-engine/internal/consensus"
	"github.com/pdiddy/occurrence-engine/internal/export"
	"github.com/pdiddy/occurrence-engine/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a consensus snapshot to YAML or JSON",
	Long: `Export computes the current consensus for every subject of every stored
occurrence and writes the snapshot to the output directory. The snapshot
is a point-in-time view; it is regenerated in full on each run.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outputDir, _ := cmd.Flags().GetString("output")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	engine := consensus.NewEngine(s)
	snapshot, err := export.Build(context.Background(), s, engine, os.Stdout)
	if err != nil {
		return err
	}

	var path string
	switch types.ExportFormat(format) {
	case types.ExportYAML, "":
		path, err = snapshot.WriteYAML(outputDir)
	case types.ExportJSON:
		path, err = snapshot.WriteJSON(outputDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d entries to %s\n", len(snapshot.Entries), path)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "snapshot format: yaml or json")
	exportCmd.Flags().String("output", "output", "directory snapshot files are written to")

	rootCmd.AddCommand(exportCmd)
}
