package catalog

import (
	"testing"

	"placement_prep_backend/internal/model"
)

func snapshot() *model.Snapshot {
	return model.NewSnapshot(1)
}

func TestEvaluateProblemsSolvedProgress(t *testing.T) {
	def := Definition{
		ID: "p50", XPReward: 100,
		Requirement: Requirement{Kind: KindProblemsSolved, Count: 50},
	}
	s := snapshot()
	for _, slug := range []string{"two-sum", "three-sum", "lru-cache"} {
		s.Solved[slug] = struct{}{}
	}

	got := Evaluate(def, s)
	if got.Unlocked {
		t.Fatalf("3/50 should not unlock")
	}
	if got.Progress != 6 {
		t.Fatalf("progress = %d, want 6", got.Progress)
	}

	for i := 0; i < 47; i++ {
		s.Solved[string(rune('a'+i%26))+string(rune('0'+i/26))] = struct{}{}
	}
	got = Evaluate(def, s)
	if !got.Unlocked || got.Progress != 100 {
		t.Fatalf("50/50 should unlock at 100%%, got %+v", got)
	}
}

func TestEvaluateProgressRounding(t *testing.T) {
	def := Definition{Requirement: Requirement{Kind: KindStreak, Count: 30}}
	s := snapshot()
	s.StreakDays = 7 // 7/30 = 23.33% -> 23

	if got := Evaluate(def, s); got.Progress != 23 {
		t.Fatalf("progress = %d, want 23", got.Progress)
	}

	s.StreakDays = 29 // 96.67% -> 97
	if got := Evaluate(def, s); got.Progress != 97 {
		t.Fatalf("progress = %d, want 97", got.Progress)
	}
}

func TestEvaluateAccuracyNeedsBothThresholds(t *testing.T) {
	def := Definition{Requirement: Requirement{Kind: KindAccuracy, Score: 80, Count: 50}}

	// 40/49 = 81.6%：比例达标但样本不足
	s := snapshot()
	for i := 0; i < 49; i++ {
		slug := string(rune('a'+i%26)) + string(rune('0'+i/26))
		s.Attempted[slug] = struct{}{}
		if i < 40 {
			s.Solved[slug] = struct{}{}
		}
	}
	s.RecomputeAccuracy()
	if got := Evaluate(def, s); got.Unlocked {
		t.Fatalf("81.6%% over 49 attempts must not unlock: min submissions unmet")
	}

	// 第 50 次提交且解出：40/50 = 80%，两项同时达标
	s.Attempted["final"] = struct{}{}
	s.Solved["final"] = struct{}{}
	s.RecomputeAccuracy()
	if s.Accuracy != 82 {
		t.Fatalf("accuracy = %v, want 82", s.Accuracy)
	}
	if got := Evaluate(def, s); !got.Unlocked {
		t.Fatalf("82%% over 50 attempts should unlock")
	}
}

func TestEvaluateAccuracyComparesUnroundedRatio(t *testing.T) {
	def := Definition{Requirement: Requirement{Kind: KindAccuracy, Score: 80, Count: 50}}

	// 43/54 = 79.63%，展示取整为 80 但比较不取整
	s := snapshot()
	for i := 0; i < 54; i++ {
		slug := string(rune('a'+i%26)) + string(rune('0'+i/26))
		s.Attempted[slug] = struct{}{}
		if i < 43 {
			s.Solved[slug] = struct{}{}
		}
	}
	s.RecomputeAccuracy()
	if got := Evaluate(def, s); got.Unlocked {
		t.Fatalf("79.63%% must not unlock even though it renders as 80")
	}
}

func TestEvaluateUnknownKindIsTotal(t *testing.T) {
	def := Definition{Requirement: Requirement{Kind: RequirementKind("galaxy_brain"), Count: 1}}
	got := Evaluate(def, snapshot())
	if got.Unlocked || got.Progress != 0 {
		t.Fatalf("unknown kind must evaluate to locked/0, got %+v", got)
	}
}

func TestEvaluateBooleanKinds(t *testing.T) {
	s := snapshot()
	s.BestInterviewScore = 91
	s.FastestSolveSeconds = 540
	s.ResumeScore = 85
	s.ContestsParticipated = 2
	s.BestContestPercentile = 8.5
	s.Milestones["profile_complete"] = struct{}{}
	s.StreakRestores = 1
	s.StreakDays = 9
	s.EarlyBirdSolves = 1

	cases := []struct {
		name string
		req  Requirement
		want bool
	}{
		{"interview score met", Requirement{Kind: KindInterviewScore, Score: 90}, true},
		{"solve time met", Requirement{Kind: KindSolveTime, Count: 600}, true},
		{"solve time unmet", Requirement{Kind: KindSolveTime, Count: 500}, false},
		{"resume score met", Requirement{Kind: KindResumeScore, Score: 85}, true},
		{"percentile met", Requirement{Kind: KindContestRankPercentile, Score: 10}, true},
		{"milestone met", Requirement{Kind: KindMilestone, Name: "profile_complete"}, true},
		{"milestone unmet", Requirement{Kind: KindMilestone, Name: "offer_signed"}, false},
		{"streak restore met", Requirement{Kind: KindStreakRestore, Count: 7}, true},
		{"early bird met", Requirement{Kind: KindSolveHour, BeforeHour: EarlyBirdHour}, true},
		{"night owl unmet", Requirement{Kind: KindSolveHour, AfterHour: NightOwlHour}, false},
	}
	for _, tc := range cases {
		got := Evaluate(Definition{Requirement: tc.req}, s)
		if got.Unlocked != tc.want {
			t.Fatalf("%s: unlocked = %v, want %v", tc.name, got.Unlocked, tc.want)
		}
		wantProgress := 0
		if tc.want {
			wantProgress = 100
		}
		if got.Progress != wantProgress {
			t.Fatalf("%s: progress = %d, want %d", tc.name, got.Progress, wantProgress)
		}
	}
}

func TestEvaluateSolveTimeZeroMeansUnset(t *testing.T) {
	def := Definition{Requirement: Requirement{Kind: KindSolveTime, Count: 600}}
	if got := Evaluate(def, snapshot()); got.Unlocked {
		t.Fatalf("no timed solves recorded, must not unlock")
	}
}

func TestEvaluatePercentileZeroMeansNoContest(t *testing.T) {
	def := Definition{Requirement: Requirement{Kind: KindContestRankPercentile, Score: 10}}
	s := snapshot()
	if got := Evaluate(def, s); got.Unlocked {
		t.Fatalf("never ranked, must not unlock")
	}
	s.ContestsParticipated = 1
	if got := Evaluate(def, s); got.Unlocked {
		t.Fatalf("participated but percentile unset, must not unlock")
	}
}

func TestEvaluateStudyTimeHoursToMinutes(t *testing.T) {
	def := Definition{Requirement: Requirement{Kind: KindStudyTime, Count: 50}}
	s := snapshot()
	s.StudyTimeMinutes = 1500 // 25h
	got := Evaluate(def, s)
	if got.Unlocked || got.Progress != 50 {
		t.Fatalf("25h/50h = 50%%, got %+v", got)
	}
	s.StudyTimeMinutes = 3000
	if got = Evaluate(def, s); !got.Unlocked {
		t.Fatalf("50h should unlock")
	}
}

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()
	if c.Len() < 20 {
		t.Fatalf("default catalog has %d entries, want at least 20", c.Len())
	}
	if _, ok := c.Get("first_blood"); !ok {
		t.Fatalf("first_blood missing from default catalog")
	}
	for _, def := range c.All() {
		if _, ok := evaluators[def.Requirement.Kind]; !ok {
			t.Fatalf("achievement %s uses unregistered kind %s", def.ID, def.Requirement.Kind)
		}
	}
}

func TestNewRejectsDuplicatesAndBadXP(t *testing.T) {
	if _, err := New([]Definition{
		{ID: "a", XPReward: 10, Requirement: Requirement{Kind: KindProblemsSolved, Count: 1}},
		{ID: "a", XPReward: 10, Requirement: Requirement{Kind: KindProblemsSolved, Count: 2}},
	}); err == nil {
		t.Fatalf("duplicate id must be rejected")
	}
	if _, err := New([]Definition{
		{ID: "b", XPReward: 0, Requirement: Requirement{Kind: KindProblemsSolved, Count: 1}},
	}); err == nil {
		t.Fatalf("non-positive xp reward must be rejected")
	}
}
