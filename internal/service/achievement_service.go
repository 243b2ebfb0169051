package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"placement_prep_backend/internal/catalog"
	"placement_prep_backend/internal/model"
	"placement_prep_backend/internal/repository"
	"placement_prep_backend/internal/util"
	"placement_prep_backend/pkg/logger"
	"placement_prep_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	leaderboardCacheKey = "leaderboard:total_xp"
	leaderboardCacheTTL = 30 * time.Second
)

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	ProgressRepo    *repository.ProgressRepository
	UserRepo        *repository.UserRepository
	Notifications   *NotificationService
	Catalog         *catalog.Catalog
	Redis           *redis.Client
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	progressRepo *repository.ProgressRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
	cat *catalog.Catalog,
	rdb *redis.Client,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		ProgressRepo:    progressRepo,
		UserRepo:        userRepo,
		Notifications:   notifications,
		Catalog:         cat,
		Redis:           rdb,
	}
}

// AchievementView GET /achievements 中每条成就的视图
type AchievementView struct {
	catalog.Definition
	RarityStyle catalog.RarityStyle `json:"rarityStyle"`
	Unlocked    bool                `json:"unlocked"`
	UnlockedAt  *time.Time          `json:"unlockedAt,omitempty"`
	Progress    int                 `json:"progress"`
	HolderCount int64               `json:"holderCount"`
}

type AchievementOverview struct {
	CatalogVersion string            `json:"catalogVersion"`
	UnlockedCount  int               `json:"unlockedCount"`
	TotalCount     int               `json:"totalCount"`
	Achievements   []AchievementView `json:"achievements"`
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"userId"`
	User   string `json:"user"`
	XP     int    `json:"xp"`
	Avatar string `json:"avatar,omitempty"`
}

// diffUnlocks 求评估结果与已持久化解锁集合的差集，只返回新跨过门槛的成就。
// 已持久化的解锁永不撤销，评估退步不会产生负向差异
func diffUnlocks(defs []catalog.Definition, evals map[string]catalog.Evaluation, persisted map[string]struct{}) []catalog.Definition {
	var newly []catalog.Definition
	for _, def := range defs {
		if !evals[def.ID].Unlocked {
			continue
		}
		if _, has := persisted[def.ID]; has {
			continue
		}
		newly = append(newly, def)
	}
	return newly
}

// applyPersistedUnlocks 以持久化解锁集合覆盖评估结果：已解锁的成就
// 即使后续评估退步（如正确率回落）仍展示为已解锁且完成度 100
func applyPersistedUnlocks(evals map[string]catalog.Evaluation, persisted map[string]struct{}) {
	for id := range persisted {
		ev := evals[id]
		ev.Unlocked = true
		ev.Progress = 100
		evals[id] = ev
	}
}

// reconcileInTx 在进度事务内对账：评估全部成就，与持久化解锁集合求差，
// 新解锁连同其通知行一并写入（唯一索引去重），并把成就奖励 XP 累加到
// 快照上。重复调用对同一状态是空操作，奖励只发一次
func (s *AchievementService) reconcileInTx(tx *gorm.DB, snap *model.Snapshot) ([]catalog.Definition, []model.Notification, error) {
	persisted, err := s.AchievementRepo.ListUnlockedIDs(tx, snap.UserID)
	if err != nil {
		return nil, nil, err
	}

	newly := diffUnlocks(s.Catalog.All(), s.Catalog.EvaluateAll(snap), persisted)
	if len(newly) == 0 {
		return nil, nil, nil
	}

	ids := make([]string, len(newly))
	for i, def := range newly {
		ids[i] = def.ID
	}
	inserted, err := s.AchievementRepo.InsertIfAbsent(tx, snap.UserID, ids, time.Now())
	if err != nil {
		return nil, nil, err
	}
	if inserted != int64(len(ids)) {
		// 并发对账抢先落库：本事务不重复发奖
		logger.Log.Info("concurrent reconcile detected, skipping duplicate unlock credit",
			zap.Uint("userId", snap.UserID),
			zap.Int64("inserted", inserted), zap.Int("requested", len(ids)))
		persisted, err = s.AchievementRepo.ListUnlockedIDs(tx, snap.UserID)
		if err != nil {
			return nil, nil, err
		}
		newly = diffUnlocks(newly, s.Catalog.EvaluateAll(snap), persisted)
	}

	for _, def := range newly {
		snap.TotalXP += def.XPReward
		snap.WeeklyXP += def.XPReward
		monitoring.AchievementUnlockCounter.WithLabelValues(def.ID).Inc()
	}

	var unlockNs []model.Notification
	if s.Notifications != nil {
		unlockNs, err = s.Notifications.CreateUnlockRecords(tx, snap.UserID, newly)
		if err != nil {
			return nil, nil, err
		}
	}
	return newly, unlockNs, nil
}

// Reconcile 页面加载路径的显式对账，自成事务。
// 解锁通知行与解锁记录同事务落库，推送在提交后尽力而为
func (s *AchievementService) Reconcile(userID uint) ([]catalog.Definition, error) {
	var (
		newly    []catalog.Definition
		unlockNs []model.Notification
	)
	err := s.ProgressRepo.Transaction(func(tx *gorm.DB) error {
		row, err := s.ProgressRepo.FindOrCreateForUpdate(tx, userID)
		if err != nil {
			return err
		}
		snap, corrupt := model.DecodeSnapshot(row)
		for _, field := range corrupt {
			logger.Log.Warn("progress field parse failure, defaulting to empty",
				zap.Uint("userId", userID), zap.String("field", field))
		}

		newly, unlockNs, err = s.reconcileInTx(tx, snap)
		if err != nil {
			return err
		}
		if len(newly) == 0 {
			return nil
		}
		if err := snap.Encode(row); err != nil {
			return err
		}
		return s.ProgressRepo.Save(tx, row)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}

	if s.Notifications != nil {
		s.Notifications.PushUnlocks(userID, unlockNs)
	}
	return newly, nil
}

// GetOverview 目录全量 + 用户解锁状态与完成度
func (s *AchievementService) GetOverview(userID uint) (*AchievementOverview, error) {
	var snap *model.Snapshot
	row, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
		}
		snap = model.NewSnapshot(userID)
	} else {
		var corrupt []string
		snap, corrupt = model.DecodeSnapshot(row)
		for _, field := range corrupt {
			logger.Log.Warn("progress field parse failure, defaulting to empty",
				zap.Uint("userId", userID), zap.String("field", field))
		}
	}

	unlocked, err := s.AchievementRepo.ListUnlocked(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	unlockedAt := make(map[string]time.Time, len(unlocked))
	for _, ua := range unlocked {
		unlockedAt[ua.AchievementID] = ua.UnlockedAt
	}

	holders, err := s.AchievementRepo.CountByAchievement()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}

	evals := s.Catalog.EvaluateAll(snap)
	defs := s.Catalog.All()
	views := make([]AchievementView, 0, len(defs))
	for _, def := range defs {
		view := AchievementView{
			Definition:  def,
			RarityStyle: catalog.StyleFor(def.Rarity),
			Progress:    evals[def.ID].Progress,
			HolderCount: holders[def.ID],
		}
		// 已持久化的解锁为准，评估结果仅补充完成度
		if at, ok := unlockedAt[def.ID]; ok {
			view.Unlocked = true
			t := at
			view.UnlockedAt = &t
			view.Progress = 100
		}
		views = append(views, view)
	}

	return &AchievementOverview{
		CatalogVersion: catalog.Version,
		UnlockedCount:  len(unlockedAt),
		TotalCount:     len(defs),
		Achievements:   views,
	}, nil
}

// GetLeaderboard 总 XP 排行榜，redis 短缓存挡住热点刷新
func (s *AchievementService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	cacheKey := fmt.Sprintf("%s:%d", leaderboardCacheKey, limit)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal(cached, &entries) == nil {
				return entries, nil
			}
		}
	}

	rows, err := s.ProgressRepo.ListTopByXP(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entry := LeaderboardEntry{Rank: i + 1, UserID: row.UserID, XP: row.TotalXP}
		if user, err := s.UserRepo.FindByID(row.UserID); err == nil {
			entry.User = user.Name
			entry.Avatar = user.Avatar
		}
		entries = append(entries, entry)
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}
	return entries, nil
}
