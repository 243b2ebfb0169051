package service

import (
	"time"

	"placement_prep_backend/internal/repository"
	"placement_prep_backend/pkg/logger"

	"go.uber.org/zap"
)

// MaintenanceService 承载日界与周界的后台维护任务：
// 连击过期与周 XP 清零。由 app 层的定时 goroutine 驱动
type MaintenanceService struct {
	ProgressRepo *repository.ProgressRepository

	lastWeeklyReset time.Time
}

func NewMaintenanceService(progressRepo *repository.ProgressRepository) *MaintenanceService {
	return &MaintenanceService{ProgressRepo: progressRepo}
}

// streakExpiryCutoff 昨天的起点。日界与解题连击折叠保持一致：
// 都按 Truncate(24h) 的 UTC 纪元日切分，服务器时区不影响判定
func streakExpiryCutoff(now time.Time) time.Time {
	return now.UTC().Truncate(24 * time.Hour).Add(-24 * time.Hour)
}

// ExpireStaleStreaks 清零昨天没有解题的用户连击。
// 昨天之内解过题的用户今天仍有机会续上
func (s *MaintenanceService) ExpireStaleStreaks() error {
	affected, err := s.ProgressRepo.ExpireStreaks(streakExpiryCutoff(time.Now()))
	if err != nil {
		return err
	}
	if affected > 0 {
		logger.Log.Info("expired stale streaks", zap.Int64("users", affected))
	}
	return nil
}

// ResetWeeklyXPIfDue 周一首次触发时清零周 XP，本进程内去重
func (s *MaintenanceService) ResetWeeklyXPIfDue() error {
	now := time.Now()
	if now.Weekday() != time.Monday {
		return nil
	}
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !s.lastWeeklyReset.Before(weekStart) {
		return nil
	}
	affected, err := s.ProgressRepo.ResetWeeklyXP()
	if err != nil {
		return err
	}
	s.lastWeeklyReset = now
	logger.Log.Info("weekly xp reset", zap.Int64("users", affected))
	return nil
}
