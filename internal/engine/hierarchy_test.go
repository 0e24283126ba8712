package engine

import (
	"testing"

	"loandash/internal/core"
)

func TestHierarchyConservation(t *testing.T) {
	e := testEngine()
	nodes, err := e.Hierarchy("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) == 0 {
		t.Fatal("expected nodes")
	}

	parents := make(map[string]Node)
	childValue := make(map[string]float64)
	childCount := make(map[string]int)
	for _, n := range nodes {
		if n.Parent == "" {
			parents[n.ID] = n
		} else {
			childValue[n.Parent] += n.Value
			childCount[n.Parent] += n.LoanCount
		}
	}
	if len(parents) != 2 {
		t.Fatalf("expected grade nodes A and B, got %d", len(parents))
	}
	for id, p := range parents {
		if childValue[id] != p.Value {
			t.Fatalf("grade %s: children sum %v != parent value %v", id, childValue[id], p.Value)
		}
		if childCount[id] != p.LoanCount {
			t.Fatalf("grade %s: children count %d != parent count %d", id, childCount[id], p.LoanCount)
		}
	}
}

func TestHierarchyUniqueIDs(t *testing.T) {
	e := testEngine()
	nodes, err := e.Hierarchy("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make(map[string]bool)
	for _, n := range nodes {
		if seen[n.ID] {
			t.Fatalf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
	}
	// Subgrade ids are grade-prefixed composites.
	for _, n := range nodes {
		if n.Parent != "" && n.ID != n.Parent+"-"+n.Label {
			t.Fatalf("child id %q not composed from parent %q and label %q", n.ID, n.Parent, n.Label)
		}
	}
}

func TestHierarchyDerivesGrade(t *testing.T) {
	ds := core.NewDataset(testLoans(), core.ColID, core.ColSubGrade, core.ColLoanAmount)
	nodes, err := New(ds).Hierarchy("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var roots int
	for _, n := range nodes {
		if n.Parent == "" {
			roots++
		}
	}
	if roots != 2 {
		t.Fatalf("expected grades A and B derived from subgrades, got %d roots", roots)
	}
}

func TestHierarchyMissingColumns(t *testing.T) {
	ds := core.NewDataset(testLoans(), core.ColID, core.ColGrade, core.ColLoanAmount)
	nodes, err := New(ds).Hierarchy("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 0 {
		t.Fatalf("expected empty result without a subgrade column, got %d nodes", len(nodes))
	}
}

func TestHierarchyEmptyRange(t *testing.T) {
	e := testEngine()
	nodes, err := e.Hierarchy("2030-01-01", "2030-12-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 0 {
		t.Fatalf("expected empty result, got %d nodes", len(nodes))
	}
}
