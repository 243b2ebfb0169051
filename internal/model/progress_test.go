package model

import (
	"encoding/json"
	"testing"
)

func TestDecodeSnapshotEmptyRow(t *testing.T) {
	row := &UserProgress{UserID: 7}
	s, corrupt := DecodeSnapshot(row)
	if len(corrupt) != 0 {
		t.Fatalf("empty row must decode cleanly, corrupt = %v", corrupt)
	}
	if s.UserID != 7 {
		t.Fatalf("userID = %d", s.UserID)
	}
	if len(s.Solved) != 0 || len(s.TopicStats) != 0 {
		t.Fatalf("empty row must decode to empty collections")
	}
}

func TestDecodeSnapshotDegradesPerField(t *testing.T) {
	row := &UserProgress{
		UserID:            1,
		SolvedProblems:    json.RawMessage(`{"not":"an array"`), // 截断的垃圾
		AttemptedProblems: json.RawMessage(`["two-sum","lru-cache"]`),
		TopicStats:        json.RawMessage(`[1,2,3]`), // 类型不对
		LanguagesUsed:     json.RawMessage(`["go"]`),
		TotalXP:           120,
	}

	s, corrupt := DecodeSnapshot(row)

	want := map[string]bool{"solved_problems": true, "topic_stats": true}
	if len(corrupt) != len(want) {
		t.Fatalf("corrupt fields = %v, want solved_problems and topic_stats", corrupt)
	}
	for _, field := range corrupt {
		if !want[field] {
			t.Fatalf("unexpected corrupt field %s", field)
		}
	}

	// 坏字段降级为空，好字段照常解码
	if len(s.Solved) != 0 || len(s.TopicStats) != 0 {
		t.Fatalf("corrupt fields must default to empty")
	}
	if len(s.Attempted) != 2 {
		t.Fatalf("attempted = %v", s.Attempted)
	}
	if _, ok := s.Languages["go"]; !ok {
		t.Fatalf("languages lost in decode")
	}
	if s.TotalXP != 120 {
		t.Fatalf("numeric column must survive, got %d", s.TotalXP)
	}
}

func TestSnapshotEncodeDecodeRoundTrip(t *testing.T) {
	s := NewSnapshot(3)
	s.Solved["two-sum"] = struct{}{}
	s.Attempted["two-sum"] = struct{}{}
	s.Attempted["word-break"] = struct{}{}
	s.TopicStats["Array"] = 2
	s.DifficultyStats["easy"] = 1
	s.Languages["go"] = struct{}{}
	s.Milestones["profile_complete"] = struct{}{}
	s.TotalXP = 35
	s.StreakDays = 4
	s.RecomputeAccuracy()

	var row UserProgress
	if err := s.Encode(&row); err != nil {
		t.Fatalf("encode: %v", err)
	}

	back, corrupt := DecodeSnapshot(&row)
	if len(corrupt) != 0 {
		t.Fatalf("round trip corrupt = %v", corrupt)
	}
	if len(back.Solved) != 1 || len(back.Attempted) != 2 {
		t.Fatalf("sets lost: solved %v attempted %v", back.Solved, back.Attempted)
	}
	if back.TopicStats["Array"] != 2 || back.DifficultyStats["easy"] != 1 {
		t.Fatalf("stats lost")
	}
	if back.TotalXP != 35 || back.StreakDays != 4 || back.Accuracy != 50 {
		t.Fatalf("numeric fields lost: %+v", back)
	}
	if _, ok := back.Milestones["profile_complete"]; !ok {
		t.Fatalf("milestones lost")
	}
}

func TestEncodeStableSetOrder(t *testing.T) {
	s := NewSnapshot(1)
	for _, slug := range []string{"zeta", "alpha", "mid"} {
		s.Attempted[slug] = struct{}{}
	}
	var a, b UserProgress
	if err := s.Encode(&a); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := s.Encode(&b); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(a.AttemptedProblems) != string(b.AttemptedProblems) {
		t.Fatalf("set serialization not stable: %s vs %s", a.AttemptedProblems, b.AttemptedProblems)
	}
	if string(a.AttemptedProblems) != `["alpha","mid","zeta"]` {
		t.Fatalf("sets must serialize sorted, got %s", a.AttemptedProblems)
	}
}

func TestRecomputeAccuracyZeroDenominator(t *testing.T) {
	s := NewSnapshot(1)
	s.Accuracy = 88
	s.RecomputeAccuracy()
	if s.Accuracy != 0 {
		t.Fatalf("no attempts must mean 0%%, got %v", s.Accuracy)
	}
}

func TestDisplayAccuracyRounding(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{79.63, 80},
		{79.4, 79},
		{100, 100},
	}
	for _, tc := range cases {
		if got := DisplayAccuracy(tc.in); got != tc.want {
			t.Fatalf("DisplayAccuracy(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
