package consensus

import (
	"context"
	"errors"
	"testing"

	"github.com/pdiddy/occurrence-engine/pkg/types"
)

func TestCalculateAllSubjects(t *testing.T) {
	oak := ident("ana", "Quercus alba", 0)
	oak2 := ident("ben", "Quercus alba", 1)
	moth := ident("cho", "Actias luna", 2)
	moth.SubjectIndex = 2

	engine := NewEngine(&fakeSource{entries: []types.IdentificationEntry{oak, oak2, moth}})
	results, err := engine.CalculateAllSubjects(context.Background(), "occ-1")
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 2 {
		t.Fatalf("len = %d, want 2 subjects, got %v", len(results), results)
	}
	if results[0] == nil || results[0].ScientificName != "Quercus alba" {
		t.Errorf("subject 0 = %+v, want Quercus alba consensus", results[0])
	}
	if results[2] == nil || results[2].ScientificName != "Actias luna" {
		t.Errorf("subject 2 = %+v, want Actias luna consensus", results[2])
	}
}

func TestCalculateAllSubjectsAlwaysIncludesPrimary(t *testing.T) {
	// All identifications target subject 1; subject 0 still appears because
	// every occurrence implicitly has a primary subject.
	moth := ident("ana", "Actias luna", 0)
	moth.SubjectIndex = 1

	engine := NewEngine(&fakeSource{entries: []types.IdentificationEntry{moth}})
	results, err := engine.CalculateAllSubjects(context.Background(), "occ-1")
	if err != nil {
		t.Fatal(err)
	}

	primary, present := results[0]
	if !present {
		t.Fatal("subject 0 missing from results")
	}
	if primary != nil {
		t.Errorf("subject 0 = %+v, want nil (no identifications target it)", primary)
	}
	if results[1] == nil {
		t.Error("subject 1 should have a consensus")
	}
}

func TestCalculateAllSubjectsEmptyOccurrence(t *testing.T) {
	engine := NewEngine(&fakeSource{})
	results, err := engine.CalculateAllSubjects(context.Background(), "occ-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("len = %d, want just the implicit primary subject", len(results))
	}
	if results[0] != nil {
		t.Errorf("subject 0 = %+v, want nil", results[0])
	}
}

func TestCalculateBatch(t *testing.T) {
	a := ident("ana", "Quercus alba", 0)
	b := ident("ben", "Quercus alba", 1)
	other := ident("cho", "Acer rubrum", 2)
	other.OccurrenceRef = "occ-2"

	engine := NewEngine(&fakeSource{entries: []types.IdentificationEntry{a, b, other}})
	results, err := engine.CalculateBatch(context.Background(), []string{"occ-1", "occ-2", "occ-3"})
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 3 {
		t.Fatalf("len = %d, want 3", len(results))
	}
	if results["occ-1"] == nil || !results["occ-1"].IsResearchGrade {
		t.Errorf("occ-1 = %+v, want research-grade Quercus alba", results["occ-1"])
	}
	if results["occ-2"] == nil || results["occ-2"].ScientificName != "Acer rubrum" {
		t.Errorf("occ-2 = %+v, want Acer rubrum", results["occ-2"])
	}
	if results["occ-3"] != nil {
		t.Errorf("occ-3 = %+v, want nil for unknown occurrence", results["occ-3"])
	}
}

func TestCalculateBatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(&fakeSource{})
	_, err := engine.CalculateBatch(ctx, []string{"occ-1"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCalculateBatchPropagatesSourceError(t *testing.T) {
	srcErr := errors.New("store unavailable")
	engine := NewEngine(&fakeSource{err: srcErr})

	_, err := engine.CalculateBatch(context.Background(), []string{"occ-1"})
	if !errors.Is(err, srcErr) {
		t.Errorf("err = %v, want the source error unchanged", err)
	}
}
