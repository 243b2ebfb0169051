package service

import (
	"testing"
	"time"
)

// 连击过期的日界必须和解题折叠的日界落在同一处，
// 否则本地时区靠后的部署会把当天还活着的连击提前清零
func TestStreakExpiryCutoffMatchesSolveDayBoundary(t *testing.T) {
	zone := time.FixedZone("UTC+8", 8*3600)
	// 本地 2026-03-10 23:30 = UTC 2026-03-10 15:30
	local := time.Date(2026, 3, 10, 23, 30, 0, 0, zone)

	cutoff := streakExpiryCutoff(local)
	if !cutoff.Equal(streakExpiryCutoff(local.UTC())) {
		t.Fatalf("cutoff depends on zone: local %v vs utc %v", cutoff, streakExpiryCutoff(local.UTC()))
	}

	wantCutoff := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if !cutoff.Equal(wantCutoff) {
		t.Fatalf("cutoff = %v, want %v", cutoff, wantCutoff)
	}

	// 昨天（UTC）解过题的快照不会被过期任务清零
	yesterdaySolve := time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)
	if yesterdaySolve.Before(cutoff) {
		t.Fatal("a solve from yesterday must survive the expiry sweep")
	}
	// 且折叠侧认为今天解题是连击 +1（日差为 1）
	today := local.Truncate(24 * time.Hour)
	last := yesterdaySolve.Truncate(24 * time.Hour)
	if diff := int(today.Sub(last).Hours() / 24); diff != 1 {
		t.Fatalf("fold day diff = %d, want 1", diff)
	}

	// 前天解题的快照会被清零
	staleSolve := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	if !staleSolve.Before(cutoff) {
		t.Fatal("a solve from two days ago must be expired")
	}
}
