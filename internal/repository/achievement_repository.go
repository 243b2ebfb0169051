package repository

import (
	"time"

	"placement_prep_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

// ListUnlockedIDs 返回用户已解锁的成就 ID 集合
func (r *AchievementRepository) ListUnlockedIDs(tx *gorm.DB, userID uint) (map[string]struct{}, error) {
	if tx == nil {
		tx = r.DB
	}
	var ids []string
	err := tx.Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *AchievementRepository) ListUnlocked(userID uint) ([]model.UserAchievement, error) {
	var rows []model.UserAchievement
	err := r.DB.Where("user_id = ?", userID).
		Order("unlocked_at asc").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertIfAbsent 写入解锁记录，依赖 (user_id, achievement_id) 唯一索引去重。
// 返回真正新插入的条数，调用方只对新插入的行发放奖励
func (r *AchievementRepository) InsertIfAbsent(tx *gorm.DB, userID uint, achievementIDs []string, at time.Time) (int64, error) {
	if len(achievementIDs) == 0 {
		return 0, nil
	}
	rows := make([]model.UserAchievement, 0, len(achievementIDs))
	for _, id := range achievementIDs {
		rows = append(rows, model.UserAchievement{
			UserID:        userID,
			AchievementID: id,
			UnlockedAt:    at,
		})
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountByAchievement 每个成就的全站解锁人数，用于稀有度统计
func (r *AchievementRepository) CountByAchievement() (map[string]int64, error) {
	type pair struct {
		AchievementID string
		N             int64
	}
	var pairs []pair
	err := r.DB.Model(&model.UserAchievement{}).
		Select("achievement_id, count(*) as n").
		Group("achievement_id").Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(pairs))
	for _, p := range pairs {
		out[p.AchievementID] = p.N
	}
	return out, nil
}
