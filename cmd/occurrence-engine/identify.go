// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/occurrence-engine/pkg/types"
)

var identifyCmd = &cobra.Command{
	Use:   "identify",
	Short: "Submit and manage identifications",
	Long: `Identify records taxon proposals against occurrence subjects. Each
observer contributes at most one effective vote per subject; a newer
submission supersedes their earlier one at consensus time.`,
}

// --- add subcommand ---

var identifyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Submit an identification for an occurrence subject",
	Long: `Add records one identification. The scientific name is required and
validated here at the submission boundary; the consensus engine treats
stored entries as authoritative.`,
	RunE: runIdentifyAdd,
}

func runIdentifyAdd(cmd *cobra.Command, args []string) error {
	occurrenceRef, _ := cmd.Flags().GetString("occurrence")
	identifier, _ := cmd.Flags().GetString("identifier")
	name, _ := cmd.Flags().GetString("name")
	rank, _ := cmd.Flags().GetString("rank")
	kingdom, _ := cmd.Flags().GetString("kingdom")
	subject, _ := cmd.Flags().GetInt("subject")
	agree, _ := cmd.Flags().GetBool("agree")

	entry := types.IdentificationEntry{
		Identifier:     identifier,
		OccurrenceRef:  occurrenceRef,
		SubjectIndex:   subject,
		ScientificName: name,
		TaxonRank:      rank,
		Kingdom:        kingdom,
		IsAgreement:    agree,
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.AddIdentification(context.Background(), entry); err != nil {
		return err
	}
	fmt.Printf("Recorded %s for %s/%d as %q\n", identifier, occurrenceRef, subject, name)
	return nil
}

// --- list subcommand ---

var identifyListCmd = &cobra.Command{
	Use:   "list OCCURRENCE",
	Short: "List identifications for an occurrence",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentifyList,
}

func runIdentifyList(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetInt("subject")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	var entries []types.IdentificationEntry
	if cmd.Flags().Changed("subject") {
		entries, err = s.FetchSubjectIdentifications(ctx, args[0], subject)
	} else {
		entries, err = s.FetchIdentifications(ctx, args[0])
	}
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No identifications recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-3s  %-30s  %-10s  %-10s  %s\n",
		"Identifier", "Sub", "Scientific name", "Rank", "Kingdom", "Submitted")
	for _, e := range entries {
		name := e.ScientificName
		if e.IsAgreement {
			name += " (agreement)"
		}
		fmt.Fprintf(os.Stdout, "%-16s  %-3d  %-30s  %-10s  %-10s  %s\n",
			e.Identifier, e.SubjectIndex, name, e.TaxonRank, e.Kingdom,
			e.SubmittedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(os.Stdout, "\n%d identification(s)\n", len(entries))
	return nil
}

// --- withdraw subcommand ---

var identifyWithdrawCmd = &cobra.Command{
	Use:   "withdraw OCCURRENCE",
	Short: "Withdraw an observer's identifications for a subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentifyWithdraw,
}

func runIdentifyWithdraw(cmd *cobra.Command, args []string) error {
	identifier, _ := cmd.Flags().GetString("identifier")
	subject, _ := cmd.Flags().GetInt("subject")
	if identifier == "" {
		return fmt.Errorf("--identifier is required")
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.WithdrawIdentifications(context.Background(), args[0], identifier, subject)
	if err != nil {
		return err
	}
	fmt.Printf("Withdrew %d identification(s)\n", n)
	return nil
}

func init() {
	identifyAddCmd.Flags().String("occurrence", "", "occurrence reference (required)")
	identifyAddCmd.Flags().String("identifier", "", "submitting observer (required)")
	identifyAddCmd.Flags().String("name", "", "proposed scientific name (required)")
	identifyAddCmd.Flags().String("rank", "", "taxonomic rank of the proposed name")
	identifyAddCmd.Flags().String("kingdom", "", "kingdom, to keep cross-kingdom homonyms apart")
	identifyAddCmd.Flags().Int("subject", 0, "subject index within the occurrence")
	identifyAddCmd.Flags().Bool("agree", false, "mark as endorsement of an existing identification")

	identifyListCmd.Flags().Int("subject", 0, "restrict to one subject index")
	identifyListCmd.Flags().Bool("json", false, "output as JSON")

	identifyWithdrawCmd.Flags().String("identifier", "", "observer whose identifications to withdraw (required)")
	identifyWithdrawCmd.Flags().Int("subject", 0, "subject index within the occurrence")

	identifyCmd.AddCommand(identifyAddCmd)
	identifyCmd.AddCommand(identifyListCmd)
	identifyCmd.AddCommand(identifyWithdrawCmd)

	rootCmd.AddCommand(identifyCmd)
}
