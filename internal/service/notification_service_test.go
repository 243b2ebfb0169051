package service

import (
	"strings"
	"testing"
	"time"

	"placement_prep_backend/internal/catalog"
	"placement_prep_backend/internal/model"
)

func TestBucketForRecency(t *testing.T) {
	now := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC) // 周三上午

	cases := []struct {
		name      string
		createdAt time.Time
		want      string
	}{
		{"minutes ago", now.Add(-30 * time.Minute), BucketToday},
		{"midnight today", time.Date(2026, 3, 11, 0, 0, 1, 0, time.UTC), BucketToday},
		{"late last night", time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC), BucketYesterday},
		{"yesterday morning", now.AddDate(0, 0, -1), BucketYesterday},
		{"three days ago", now.AddDate(0, 0, -3), BucketThisWeek},
		{"six days ago", now.AddDate(0, 0, -6), BucketThisWeek},
		{"seven days ago", now.AddDate(0, 0, -7), BucketOlder},
		{"last month", now.AddDate(0, -1, 0), BucketOlder},
	}
	for _, tc := range cases {
		if got := bucketFor(tc.createdAt, now); got != tc.want {
			t.Fatalf("%s: bucket = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestBucketForIsRenderTime(t *testing.T) {
	createdAt := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

	sameDay := time.Date(2026, 3, 11, 22, 0, 0, 0, time.UTC)
	if got := bucketFor(createdAt, sameDay); got != BucketToday {
		t.Fatalf("same-day render = %s, want today", got)
	}

	// 同一条通知隔天再拉取就落入昨天
	nextDay := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)
	if got := bucketFor(createdAt, nextDay); got != BucketYesterday {
		t.Fatalf("next-day render = %s, want yesterday", got)
	}
}

func TestMergeReadStateNeverRegresses(t *testing.T) {
	cases := []struct {
		current, incoming, want bool
	}{
		{false, false, false},
		{false, true, true},
		{true, false, true}, // 迟到的未读状态不能吃掉已读
		{true, true, true},
	}
	for _, tc := range cases {
		if got := mergeReadState(tc.current, tc.incoming); got != tc.want {
			t.Fatalf("merge(%v, %v) = %v, want %v", tc.current, tc.incoming, got, tc.want)
		}
	}
}

func TestBuildUnlockNotifications(t *testing.T) {
	defs := []catalog.Definition{
		{ID: "first_blood", Name: "First Blood", Description: "解出第一道题", Icon: "🩸", XPReward: 25},
		{ID: "streak_7", Name: "Week Warrior", Description: "连续解题 7 天", Icon: "🔥", XPReward: 50},
	}

	ns := buildUnlockNotifications(9, defs)
	if len(ns) != 2 {
		t.Fatalf("len = %d, want 2", len(ns))
	}
	for i, n := range ns {
		if n.UserID != 9 {
			t.Fatalf("UserID = %d, want 9", n.UserID)
		}
		if n.Type != model.NotificationAchievement {
			t.Fatalf("Type = %s, want achievement", n.Type)
		}
		if n.IsRead {
			t.Fatal("unlock notification must start unread")
		}
		if n.ActionRef != "/achievements/"+defs[i].ID {
			t.Fatalf("ActionRef = %s", n.ActionRef)
		}
		if !strings.Contains(n.Title, defs[i].Name) {
			t.Fatalf("Title %q does not mention %q", n.Title, defs[i].Name)
		}
	}

	if got := buildUnlockNotifications(9, nil); len(got) != 0 {
		t.Fatalf("empty unlock list must build no notifications, got %d", len(got))
	}
}
