package service

import (
	"errors"
	"fmt"
	"time"

	"placement_prep_backend/internal/catalog"
	"placement_prep_backend/internal/model"
	"placement_prep_backend/internal/repository"
	"placement_prep_backend/internal/util"
	"placement_prep_backend/pkg/logger"
	"placement_prep_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SolveXPReward 每道新解出题目固定奖励的 XP
const SolveXPReward = 10

type ProgressService struct {
	ProgressRepo    *repository.ProgressRepository
	ProblemRepo     *repository.ProblemRepository
	UserRepo        *repository.UserRepository
	Reconciler      *AchievementService
	NotificationSvc *NotificationService
	Catalog         *catalog.Catalog
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	problemRepo *repository.ProblemRepository,
	userRepo *repository.UserRepository,
	reconciler *AchievementService,
	notificationSvc *NotificationService,
	cat *catalog.Catalog,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:    progressRepo,
		ProblemRepo:     problemRepo,
		UserRepo:        userRepo,
		Reconciler:      reconciler,
		NotificationSvc: notificationSvc,
		Catalog:         cat,
	}
}

type AttemptEvent struct {
	ProblemSlug string `json:"problemSlug" binding:"required"`
}

type SolveEvent struct {
	ProblemSlug     string     `json:"problemSlug" binding:"required"`
	Language        string     `json:"language"`
	DurationSeconds int        `json:"durationSeconds"`
	SolvedAt        *time.Time `json:"solvedAt"`
}

type InterviewEvent struct {
	Score float64 `json:"score"`
}

type StudyTimeEvent struct {
	Minutes int `json:"minutes" binding:"required"`
}

type ContestEvent struct {
	Percentile float64 `json:"percentile" binding:"required"`
}

type MilestoneEvent struct {
	Name string `json:"name" binding:"required"`
}

// ProgressReport GET /progress 的响应体
type ProgressReport struct {
	Progress     *model.UserProgress           `json:"progress"`
	Accuracy     int                           `json:"accuracyPct"` // 展示用取整
	Achievements map[string]catalog.Evaluation `json:"achievements"`
}

// EventResult 事件提交后的回执，含本次新解锁的成就
type EventResult struct {
	Progress   *model.UserProgress  `json:"progress"`
	NewUnlocks []catalog.Definition `json:"newUnlocks"`
}

// --- 纯折叠函数：对快照应用事件，返回是否有变化 ---

// applyAttempt 记录一次提交。同一题重复提交不变化，已解出的题不再计入
func applyAttempt(s *model.Snapshot, slug string) bool {
	if _, ok := s.Attempted[slug]; ok {
		return false
	}
	s.Attempted[slug] = struct{}{}
	s.RecomputeAccuracy()
	return true
}

// applySolve 记录一次解出。解出蕴含提交；同一题重复解出不重复累计
// XP、知识点与难度计数（幂等）。首次解出时按事件时间更新连击、
// 周末与清晨/深夜计数
func applySolve(s *model.Snapshot, ev SolveEvent, problem *model.Problem, targetCompany string) bool {
	slug := problem.Slug
	if _, solved := s.Solved[slug]; solved {
		// 已解出过：只可能刷新最快用时
		return applySolveTime(s, ev.DurationSeconds)
	}

	s.Attempted[slug] = struct{}{}
	s.Solved[slug] = struct{}{}

	for _, topic := range problem.TopicTags() {
		s.TopicStats[topic]++
	}
	if d := string(problem.Difficulty); d != "" {
		s.DifficultyStats[d]++
	}
	if targetCompany != "" {
		for _, company := range problem.CompanyTags() {
			if company == targetCompany {
				s.CompanyProblems++
				break
			}
		}
	}
	if ev.Language != "" {
		s.Languages[ev.Language] = struct{}{}
	}

	at := time.Now()
	if ev.SolvedAt != nil {
		at = *ev.SolvedAt
	}
	applySolveClock(s, at)
	applyStreak(s, at)

	s.TotalXP += SolveXPReward
	s.WeeklyXP += SolveXPReward
	applySolveTime(s, ev.DurationSeconds)
	s.RecomputeAccuracy()
	return true
}

func applySolveTime(s *model.Snapshot, seconds int) bool {
	if seconds <= 0 {
		return false
	}
	if s.FastestSolveSeconds == 0 || seconds < s.FastestSolveSeconds {
		s.FastestSolveSeconds = seconds
		return true
	}
	return false
}

// applySolveClock 周末与清晨/深夜解题计数
func applySolveClock(s *model.Snapshot, at time.Time) {
	switch at.Weekday() {
	case time.Saturday, time.Sunday:
		s.WeekendProblems++
	}
	hour := at.Hour()
	if hour < catalog.EarlyBirdHour {
		s.EarlyBirdSolves++
	}
	if hour >= catalog.NightOwlHour {
		s.NightOwlSolves++
	}
}

// applyStreak 按解题日期差维护连击：同日不变，隔日 +1，断档重置为 1
func applyStreak(s *model.Snapshot, at time.Time) {
	day := at.Truncate(24 * time.Hour)
	if s.LastSolvedAt == nil {
		s.StreakDays = 1
	} else {
		last := s.LastSolvedAt.Truncate(24 * time.Hour)
		switch diff := int(day.Sub(last).Hours() / 24); {
		case diff == 0:
			// 同一天再次解题，连击不变
		case diff == 1:
			s.StreakDays++
		case diff > 1:
			s.StreakDays = 1
		}
	}
	if s.LastSolvedAt == nil || at.After(*s.LastSolvedAt) {
		t := at
		s.LastSolvedAt = &t
	}
}

func applyInterview(s *model.Snapshot, score float64) bool {
	s.InterviewsCompleted++
	if score > s.BestInterviewScore {
		s.BestInterviewScore = score
	}
	return true
}

func applyStudyTime(s *model.Snapshot, minutes int) bool {
	s.StudyTimeMinutes += minutes
	return true
}

// applyContest 百分位越小名次越好，0 视为未排名
func applyContest(s *model.Snapshot, percentile float64) bool {
	s.ContestsParticipated++
	if percentile > 0 && (s.BestContestPercentile == 0 || percentile < s.BestContestPercentile) {
		s.BestContestPercentile = percentile
	}
	return true
}

func applyMilestone(s *model.Snapshot, name string) bool {
	if _, ok := s.Milestones[name]; ok {
		return false
	}
	s.Milestones[name] = struct{}{}
	return true
}

// --- 事务入口 ---

// RecordAttempt 记录一次题目提交
func (s *ProgressService) RecordAttempt(userID uint, ev AttemptEvent) (*EventResult, error) {
	if ev.ProblemSlug == "" {
		return nil, util.ErrInvalidEvent
	}
	if _, err := s.ProblemRepo.FindBySlug(ev.ProblemSlug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProblemNotFound
		}
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	return s.mutate(userID, "attempt", func(snap *model.Snapshot, _ *model.User) (bool, error) {
		return applyAttempt(snap, ev.ProblemSlug), nil
	})
}

// RecordSolve 记录一次题目解出
func (s *ProgressService) RecordSolve(userID uint, ev SolveEvent) (*EventResult, error) {
	if ev.ProblemSlug == "" || ev.DurationSeconds < 0 {
		return nil, util.ErrInvalidEvent
	}
	problem, err := s.ProblemRepo.FindBySlug(ev.ProblemSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProblemNotFound
		}
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	return s.mutate(userID, "solve", func(snap *model.Snapshot, user *model.User) (bool, error) {
		target := ""
		if user != nil {
			target = user.TargetCompany
		}
		return applySolve(snap, ev, problem, target), nil
	})
}

// RecordInterview 记录一次模拟面试完成
func (s *ProgressService) RecordInterview(userID uint, ev InterviewEvent) (*EventResult, error) {
	if ev.Score < 0 || ev.Score > 100 {
		return nil, util.ErrInvalidEvent
	}
	return s.mutate(userID, "interview", func(snap *model.Snapshot, _ *model.User) (bool, error) {
		return applyInterview(snap, ev.Score), nil
	})
}

// RecordStudyTime 累计学习时长
func (s *ProgressService) RecordStudyTime(userID uint, ev StudyTimeEvent) (*EventResult, error) {
	if ev.Minutes <= 0 {
		return nil, util.ErrInvalidEvent
	}
	return s.mutate(userID, "study_time", func(snap *model.Snapshot, _ *model.User) (bool, error) {
		return applyStudyTime(snap, ev.Minutes), nil
	})
}

// RecordContest 记录竞赛参与与最好名次百分位
func (s *ProgressService) RecordContest(userID uint, ev ContestEvent) (*EventResult, error) {
	if ev.Percentile <= 0 || ev.Percentile > 100 {
		return nil, util.ErrInvalidEvent
	}
	return s.mutate(userID, "contest", func(snap *model.Snapshot, _ *model.User) (bool, error) {
		return applyContest(snap, ev.Percentile), nil
	})
}

// RecordMilestone 记录一次性里程碑标志
func (s *ProgressService) RecordMilestone(userID uint, ev MilestoneEvent) (*EventResult, error) {
	if ev.Name == "" {
		return nil, util.ErrInvalidEvent
	}
	return s.mutate(userID, "milestone", func(snap *model.Snapshot, _ *model.User) (bool, error) {
		return applyMilestone(snap, ev.Name), nil
	})
}

// mutate 进度写入的唯一路径：行锁事务内 读取→折叠→编码→落库→对账，
// 任一步失败整体回滚。解锁通知在事务提交后尽力推送
func (s *ProgressService) mutate(userID uint, eventType string, fold func(*model.Snapshot, *model.User) (bool, error)) (*EventResult, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}

	var (
		row      *model.UserProgress
		newIDs   []catalog.Definition
		unlockNs []model.Notification
	)
	err = s.ProgressRepo.Transaction(func(tx *gorm.DB) error {
		row, err = s.ProgressRepo.FindOrCreateForUpdate(tx, userID)
		if err != nil {
			return err
		}

		snap, corrupt := model.DecodeSnapshot(row)
		for _, field := range corrupt {
			logger.Log.Warn("progress field parse failure, defaulting to empty",
				zap.Uint("userId", userID), zap.String("field", field))
		}

		changed, err := fold(snap, user)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		newIDs, unlockNs, err = s.Reconciler.reconcileInTx(tx, snap)
		if err != nil {
			return err
		}

		if err := snap.Encode(row); err != nil {
			return err
		}
		return s.ProgressRepo.Save(tx, row)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}

	monitoring.ProgressEventCounter.WithLabelValues(eventType).Inc()

	// 通知行已随事务落库，这里只做提交后的尽力推送
	if s.NotificationSvc != nil {
		s.NotificationSvc.PushUnlocks(userID, unlockNs)
	}

	return &EventResult{Progress: row, NewUnlocks: newIDs}, nil
}

// GetProgress 返回进度快照与每个成就的完成度
func (s *ProgressService) GetProgress(userID uint) (*ProgressReport, error) {
	row, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			empty := model.UserProgress{UserID: userID}
			if err := model.NewSnapshot(userID).Encode(&empty); err != nil {
				return nil, err
			}
			row = &empty
		} else {
			return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
		}
	}

	snap, corrupt := model.DecodeSnapshot(row)
	for _, field := range corrupt {
		logger.Log.Warn("progress field parse failure, defaulting to empty",
			zap.Uint("userId", userID), zap.String("field", field))
	}

	evals := s.Catalog.EvaluateAll(snap)
	// 已持久化的解锁为准：评估退步不把已解锁的成就展示回未解锁
	persisted, err := s.Reconciler.AchievementRepo.ListUnlockedIDs(nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	applyPersistedUnlocks(evals, persisted)

	return &ProgressReport{
		Progress:     row,
		Accuracy:     model.DisplayAccuracy(snap.Accuracy),
		Achievements: evals,
	}, nil
}
