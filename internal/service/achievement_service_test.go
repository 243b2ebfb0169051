package service

import (
	"testing"

	"placement_prep_backend/internal/catalog"
	"placement_prep_backend/internal/model"
)

func TestDiffUnlocksOnlyNewCrossings(t *testing.T) {
	defs := []catalog.Definition{
		{ID: "a", XPReward: 10, Requirement: catalog.Requirement{Kind: catalog.KindProblemsSolved, Count: 1}},
		{ID: "b", XPReward: 10, Requirement: catalog.Requirement{Kind: catalog.KindProblemsSolved, Count: 5}},
		{ID: "c", XPReward: 10, Requirement: catalog.Requirement{Kind: catalog.KindStreak, Count: 7}},
	}
	evals := map[string]catalog.Evaluation{
		"a": {Unlocked: true, Progress: 100},
		"b": {Unlocked: true, Progress: 100},
		"c": {Unlocked: false, Progress: 40},
	}
	persisted := map[string]struct{}{"a": {}}

	newly := diffUnlocks(defs, evals, persisted)
	if len(newly) != 1 || newly[0].ID != "b" {
		t.Fatalf("diff = %v, want exactly [b]", newly)
	}
}

func TestDiffUnlocksRepeatIsEmpty(t *testing.T) {
	defs := []catalog.Definition{
		{ID: "a", XPReward: 10, Requirement: catalog.Requirement{Kind: catalog.KindProblemsSolved, Count: 1}},
	}
	evals := map[string]catalog.Evaluation{"a": {Unlocked: true, Progress: 100}}
	persisted := map[string]struct{}{"a": {}}

	if newly := diffUnlocks(defs, evals, persisted); len(newly) != 0 {
		t.Fatalf("second reconcile of same state must be empty, got %v", newly)
	}
}

func TestDiffUnlocksNeverRevokes(t *testing.T) {
	// 评估退步（例如准确率下降）不产生任何负向差异
	defs := []catalog.Definition{
		{ID: "sharp", XPReward: 10, Requirement: catalog.Requirement{Kind: catalog.KindAccuracy, Score: 80, Count: 50}},
	}
	evals := map[string]catalog.Evaluation{"sharp": {Unlocked: false, Progress: 0}}
	persisted := map[string]struct{}{"sharp": {}}

	if newly := diffUnlocks(defs, evals, persisted); len(newly) != 0 {
		t.Fatalf("persisted unlock with failing evaluation must yield no diff, got %v", newly)
	}
}

func TestDiffUnlocksAgainstDefaultCatalog(t *testing.T) {
	s := model.NewSnapshot(1)
	s.Solved["two-sum"] = struct{}{}
	s.Attempted["two-sum"] = struct{}{}
	s.RecomputeAccuracy()
	s.TotalXP = SolveXPReward

	cat := catalog.Default()
	newly := diffUnlocks(cat.All(), cat.EvaluateAll(s), map[string]struct{}{})

	found := false
	for _, def := range newly {
		if def.ID == "first_blood" {
			found = true
		}
		if def.Requirement.Kind == catalog.KindProblemsSolved && def.Requirement.Count > 1 {
			t.Fatalf("%s must not unlock after one solve", def.ID)
		}
	}
	if !found {
		t.Fatalf("first solve must cross first_blood, got %v", newly)
	}
}

func TestApplyPersistedUnlocksOverridesRegression(t *testing.T) {
	evals := map[string]catalog.Evaluation{
		"sharpshooter": {Unlocked: false, Progress: 40}, // 正确率回落，评估已退步
		"first_blood":  {Unlocked: true, Progress: 100},
		"xp_hoarder":   {Unlocked: false, Progress: 10},
	}
	persisted := map[string]struct{}{"sharpshooter": {}, "first_blood": {}}

	applyPersistedUnlocks(evals, persisted)

	if ev := evals["sharpshooter"]; !ev.Unlocked || ev.Progress != 100 {
		t.Fatalf("persisted unlock must render unlocked at 100, got %+v", ev)
	}
	if ev := evals["first_blood"]; !ev.Unlocked || ev.Progress != 100 {
		t.Fatalf("first_blood = %+v", ev)
	}
	if ev := evals["xp_hoarder"]; ev.Unlocked || ev.Progress != 10 {
		t.Fatalf("non-persisted evaluation must stay untouched, got %+v", ev)
	}
}
