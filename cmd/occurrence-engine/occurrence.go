// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/occurrence-engine/pkg/types"
)

var occurrenceCmd = &cobra.Command{
	Use:   "occurrence",
	Short: "Manage occurrence records",
	Long: `Occurrence manages the observation records identifications attach to.
An occurrence is one field observation, possibly depicting several
organisms (subjects).`,
}

// --- add subcommand ---

var occurrenceAddCmd = &cobra.Command{
	Use:   "add REF",
	Short: "Create or update an occurrence record",
	Args:  cobra.ExactArgs(1),
	RunE:  runOccurrenceAdd,
}

func runOccurrenceAdd(cmd *cobra.Command, args []string) error {
	location, _ := cmd.Flags().GetString("location")
	notes, _ := cmd.Flags().GetString("notes")
	observedAt, _ := cmd.Flags().GetString("observed-at")

	occ := types.Occurrence{
		Ref:      args[0],
		Location: location,
		Notes:    notes,
	}
	if observedAt != "" {
		t, err := parseTimestamp(observedAt)
		if err != nil {
			return fmt.Errorf("parsing --observed-at: %w", err)
		}
		occ.ObservedAt = t
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.PutOccurrence(context.Background(), occ); err != nil {
		return err
	}
	fmt.Printf("Recorded occurrence %s\n", occ.Ref)
	return nil
}

// --- list subcommand ---

var occurrenceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List occurrence records",
	RunE:  runOccurrenceList,
}

func runOccurrenceList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	occurrences, err := s.ListOccurrences(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(occurrences)
	}

	if len(occurrences) == 0 {
		fmt.Println("No occurrences recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-30s  %-20s  %s\n", "Ref", "Location", "Observed", "Notes")
	for _, occ := range occurrences {
		observed := ""
		if !occ.ObservedAt.IsZero() {
			observed = occ.ObservedAt.Format("2006-01-02 15:04")
		}
		location := occ.Location
		if len(location) > 30 {
			location = location[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-30s  %-20s  %s\n", occ.Ref, location, observed, occ.Notes)
	}
	fmt.Fprintf(os.Stdout, "\n%d occurrence(s)\n", len(occurrences))
	return nil
}

// parseTimestamp accepts RFC 3339 or a bare date.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want RFC 3339 or YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

func init() {
	occurrenceAddCmd.Flags().String("location", "", "free-text locality description")
	occurrenceAddCmd.Flags().String("observed-at", "", "observation time (RFC 3339 or YYYY-MM-DD)")
	occurrenceAddCmd.Flags().String("notes", "", "observer remarks")

	occurrenceListCmd.Flags().Bool("json", false, "output as JSON")

	occurrenceCmd.AddCommand(occurrenceAddCmd)
	occurrenceCmd.AddCommand(occurrenceListCmd)

	rootCmd.AddCommand(occurrenceCmd)
}
