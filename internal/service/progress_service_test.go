package service

import (
	"encoding/json"
	"testing"
	"time"

	"placement_prep_backend/internal/catalog"
	"placement_prep_backend/internal/model"
)

func twoSum() *model.Problem {
	return &model.Problem{
		Slug:       "two-sum",
		Title:      "Two Sum",
		Difficulty: model.DifficultyEasy,
		Topics:     json.RawMessage(`["Array","Hash Table"]`),
		Companies:  json.RawMessage(`["Google","Amazon"]`),
	}
}

func solveAt(t time.Time) SolveEvent {
	return SolveEvent{ProblemSlug: "two-sum", Language: "go", DurationSeconds: 900, SolvedAt: &t}
}

func TestApplySolveFirstSolve(t *testing.T) {
	s := model.NewSnapshot(1)
	at := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC) // 周三午后

	if changed := applySolve(s, solveAt(at), twoSum(), ""); !changed {
		t.Fatalf("first solve must report a change")
	}

	if _, ok := s.Solved["two-sum"]; !ok {
		t.Fatalf("two-sum missing from solved set")
	}
	if _, ok := s.Attempted["two-sum"]; !ok {
		t.Fatalf("solve must imply attempt")
	}
	if s.TotalXP != SolveXPReward {
		t.Fatalf("totalXP = %d, want %d", s.TotalXP, SolveXPReward)
	}
	if s.TopicStats["Array"] != 1 || s.TopicStats["Hash Table"] != 1 {
		t.Fatalf("topic stats = %v", s.TopicStats)
	}
	if s.DifficultyStats["easy"] != 1 {
		t.Fatalf("difficulty stats = %v", s.DifficultyStats)
	}
	if s.Accuracy != 100 {
		t.Fatalf("accuracy = %v, want 100", s.Accuracy)
	}
	if s.StreakDays != 1 {
		t.Fatalf("streak = %d, want 1", s.StreakDays)
	}

	// 首解后 first_blood 应当判定为可解锁
	def, ok := catalog.Default().Get("first_blood")
	if !ok {
		t.Fatalf("first_blood not in catalog")
	}
	if ev := catalog.Evaluate(def, s); !ev.Unlocked {
		t.Fatalf("first solve should cross first_blood")
	}
}

func TestApplySolveIdempotent(t *testing.T) {
	s := model.NewSnapshot(1)
	at := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)

	applySolve(s, solveAt(at), twoSum(), "")
	xp, topics, streak := s.TotalXP, s.TopicStats["Array"], s.StreakDays

	if changed := applySolve(s, solveAt(at.Add(time.Hour)), twoSum(), ""); changed {
		t.Fatalf("re-solve with slower time must be a no-op")
	}
	if s.TotalXP != xp || s.TopicStats["Array"] != topics || s.StreakDays != streak {
		t.Fatalf("re-solve changed counters: xp %d topic %d streak %d", s.TotalXP, s.TopicStats["Array"], s.StreakDays)
	}
	if len(s.Solved) != 1 || len(s.Attempted) != 1 {
		t.Fatalf("sets grew on re-solve")
	}

	// 更快的用时仍然可以刷新纪录
	faster := solveAt(at.Add(2 * time.Hour))
	faster.DurationSeconds = 300
	if changed := applySolve(s, faster, twoSum(), ""); !changed {
		t.Fatalf("faster re-solve should refresh fastest time")
	}
	if s.FastestSolveSeconds != 300 {
		t.Fatalf("fastest = %d, want 300", s.FastestSolveSeconds)
	}
	if s.TotalXP != xp {
		t.Fatalf("faster re-solve must not grant XP again")
	}
}

func TestApplyAttemptIdempotentAndSubset(t *testing.T) {
	s := model.NewSnapshot(1)

	if !applyAttempt(s, "lru-cache") {
		t.Fatalf("first attempt must change state")
	}
	if applyAttempt(s, "lru-cache") {
		t.Fatalf("repeat attempt must be a no-op")
	}
	if s.Accuracy != 0 {
		t.Fatalf("0 solved / 1 attempted must be 0%%, got %v", s.Accuracy)
	}

	at := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
	applySolve(s, solveAt(at), twoSum(), "")

	// solved ⊆ attempted
	for slug := range s.Solved {
		if _, ok := s.Attempted[slug]; !ok {
			t.Fatalf("solved problem %s missing from attempted", slug)
		}
	}
	if s.Accuracy != 50 {
		t.Fatalf("1/2 solved must be 50%%, got %v", s.Accuracy)
	}

	// 对已解出的题再报提交不改变状态
	if applyAttempt(s, "two-sum") {
		t.Fatalf("attempt on solved problem must be a no-op")
	}
}

func TestApplyStreakDayBoundaries(t *testing.T) {
	s := model.NewSnapshot(1)
	day1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	applyStreak(s, day1)
	if s.StreakDays != 1 {
		t.Fatalf("first solve streak = %d, want 1", s.StreakDays)
	}
	applyStreak(s, day1.Add(6*time.Hour)) // 同日
	if s.StreakDays != 1 {
		t.Fatalf("same-day solve changed streak to %d", s.StreakDays)
	}
	applyStreak(s, day1.AddDate(0, 0, 1)) // 次日
	if s.StreakDays != 2 {
		t.Fatalf("next-day streak = %d, want 2", s.StreakDays)
	}
	applyStreak(s, day1.AddDate(0, 0, 5)) // 断档
	if s.StreakDays != 1 {
		t.Fatalf("gap must reset streak to 1, got %d", s.StreakDays)
	}
}

func TestApplySolveClockCounters(t *testing.T) {
	s := model.NewSnapshot(1)

	applySolveClock(s, time.Date(2026, 3, 7, 6, 30, 0, 0, time.UTC)) // 周六清晨
	if s.WeekendProblems != 1 || s.EarlyBirdSolves != 1 || s.NightOwlSolves != 0 {
		t.Fatalf("saturday 06:30: weekend %d early %d night %d", s.WeekendProblems, s.EarlyBirdSolves, s.NightOwlSolves)
	}
	applySolveClock(s, time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)) // 周一深夜
	if s.WeekendProblems != 1 || s.NightOwlSolves != 1 {
		t.Fatalf("monday 23:00: weekend %d night %d", s.WeekendProblems, s.NightOwlSolves)
	}
	applySolveClock(s, time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)) // 平日正午
	if s.EarlyBirdSolves != 1 || s.NightOwlSolves != 1 || s.WeekendProblems != 1 {
		t.Fatalf("noon solve must not touch clock counters")
	}
}

func TestApplySolveCompanyMatch(t *testing.T) {
	at := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)

	s := model.NewSnapshot(1)
	applySolve(s, solveAt(at), twoSum(), "Google")
	if s.CompanyProblems != 1 {
		t.Fatalf("target company tagged problem must count, got %d", s.CompanyProblems)
	}

	s = model.NewSnapshot(2)
	applySolve(s, solveAt(at), twoSum(), "Netflix")
	if s.CompanyProblems != 0 {
		t.Fatalf("unrelated company must not count, got %d", s.CompanyProblems)
	}
}

func TestApplyInterviewAndContest(t *testing.T) {
	s := model.NewSnapshot(1)

	applyInterview(s, 72)
	applyInterview(s, 91)
	applyInterview(s, 85)
	if s.InterviewsCompleted != 3 || s.BestInterviewScore != 91 {
		t.Fatalf("interviews %d best %v", s.InterviewsCompleted, s.BestInterviewScore)
	}

	applyContest(s, 40)
	applyContest(s, 8.5)
	applyContest(s, 20)
	if s.ContestsParticipated != 3 || s.BestContestPercentile != 8.5 {
		t.Fatalf("contests %d best %v", s.ContestsParticipated, s.BestContestPercentile)
	}
}

func TestApplyMilestoneIdempotent(t *testing.T) {
	s := model.NewSnapshot(1)
	if !applyMilestone(s, "profile_complete") {
		t.Fatalf("new milestone must change state")
	}
	if applyMilestone(s, "profile_complete") {
		t.Fatalf("repeat milestone must be a no-op")
	}
}

func TestApplyStudyTimeAccumulates(t *testing.T) {
	s := model.NewSnapshot(1)
	applyStudyTime(s, 30)
	applyStudyTime(s, 45)
	if s.StudyTimeMinutes != 75 {
		t.Fatalf("study minutes = %d, want 75", s.StudyTimeMinutes)
	}
}
