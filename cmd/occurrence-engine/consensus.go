// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/occurrence-engine/internal/consensus"
	"github.com/pdiddy/occurrence-engine/pkg/types"
)

var consensusCmd = &cobra.Command{
	Use:   "consensus",
	Short: "Compute community consensus and quality grades",
	Long: `Consensus reduces the identifications recorded for an occurrence (or one
of its subjects) to the best-supported taxon, a confidence ratio, and a
quality grade: research, needs_id, or casual.`,
}

// --- calculate subcommand ---

var consensusCalculateCmd = &cobra.Command{
	Use:   "calculate OCCURRENCE",
	Short: "Compute the consensus for one occurrence or subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runConsensusCalculate,
}

func runConsensusCalculate(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetInt("subject")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	engine := consensus.NewEngine(s)
	ctx := context.Background()

	var result *types.ConsensusResult
	if cmd.Flags().Changed("subject") {
		result, err = engine.CalculateSubject(ctx, args[0], subject)
	} else {
		result, err = engine.Calculate(ctx, args[0])
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(result)
	return nil
}

func printResult(result *types.ConsensusResult) {
	if result == nil {
		fmt.Println("No identifications; grade: casual")
		return
	}
	fmt.Printf("Consensus: %s", result.ScientificName)
	if result.Kingdom != "" {
		fmt.Printf(" (%s)", result.Kingdom)
	}
	fmt.Println()
	fmt.Printf("Votes:      %d of %d identifier(s), confidence %.2f\n",
		result.AgreementCount, result.IdentificationCount, result.Confidence)
	fmt.Printf("Grade:      %s\n", types.Grade(result))
}

// --- subjects subcommand ---

var consensusSubjectsCmd = &cobra.Command{
	Use:   "subjects OCCURRENCE",
	Short: "Compute the consensus for every subject of an occurrence",
	RunE:  runConsensusSubjects,
	Args:  cobra.ExactArgs(1),
}

func runConsensusSubjects(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	engine := consensus.NewEngine(s)
	results, err := engine.CalculateAllSubjects(context.Background(), args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	indices := make([]int, 0, len(results))
	for i := range results {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	for _, i := range indices {
		fmt.Printf("--- subject %d ---\n", i)
		printResult(results[i])
	}
	return nil
}

// --- batch subcommand ---

var consensusBatchCmd = &cobra.Command{
	Use:   "batch OCCURRENCE...",
	Short: "Compute the consensus for many occurrences",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConsensusBatch,
}

func runConsensusBatch(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	engine := consensus.NewEngine(s)
	results, err := engine.CalculateBatch(context.Background(), args)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, ref := range args {
		fmt.Printf("--- %s ---\n", ref)
		printResult(results[ref])
	}
	return nil
}

// --- grade subcommand ---

var consensusGradeCmd = &cobra.Command{
	Use:   "grade OCCURRENCE",
	Short: "Print the quality grade for one occurrence or subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runConsensusGrade,
}

func runConsensusGrade(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetInt("subject")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	engine := consensus.NewEngine(s)
	ctx := context.Background()

	var grade types.QualityGrade
	if cmd.Flags().Changed("subject") {
		grade, err = engine.SubjectQualityGrade(ctx, args[0], subject)
	} else {
		grade, err = engine.QualityGrade(ctx, args[0])
	}
	if err != nil {
		return err
	}
	fmt.Println(grade)
	return nil
}

func init() {
	consensusCalculateCmd.Flags().Int("subject", 0, "restrict to one subject index")
	consensusCalculateCmd.Flags().Bool("json", false, "output as JSON")

	consensusSubjectsCmd.Flags().Bool("json", false, "output as JSON")
	consensusBatchCmd.Flags().Bool("json", false, "output as JSON")

	consensusGradeCmd.Flags().Int("subject", 0, "restrict to one subject index")

	consensusCmd.AddCommand(consensusCalculateCmd)
	consensusCmd.AddCommand(consensusSubjectsCmd)
	consensusCmd.AddCommand(consensusBatchCmd)
	consensusCmd.AddCommand(consensusGradeCmd)

	rootCmd.AddCommand(consensusCmd)
}
