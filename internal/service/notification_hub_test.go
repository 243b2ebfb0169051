package service

import "testing"

func TestPushTargetsFiltersOffline(t *testing.T) {
	online := map[uint]bool{1: true, 3: true}
	probe := func(id uint) bool { return online[id] }

	got := pushTargets([]uint{1, 2, 3, 4}, probe)
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("targets = %v, want [1 3]", got)
	}

	// 全部离线时不发布，通知行已落库，拉取列表兜底
	if got := pushTargets([]uint{2, 4}, probe); len(got) != 0 {
		t.Fatalf("offline-only targets = %v, want none", got)
	}
}
