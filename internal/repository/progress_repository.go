package repository

import (
	"errors"
	"time"

	"placement_prep_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// FindByUserID 普通读取，不存在时返回 gorm.ErrRecordNotFound
func (r *ProgressRepository) FindByUserID(userID uint) (*model.UserProgress, error) {
	var row model.UserProgress
	err := r.DB.Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindOrCreateForUpdate 在事务内按行锁读取进度行，不存在则先创建空行再锁定。
// 所有进度写入都必须经由这条路径，避免并发读-改-写互相覆盖
func (r *ProgressRepository) FindOrCreateForUpdate(tx *gorm.DB, userID uint) (*model.UserProgress, error) {
	var row model.UserProgress
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := model.UserProgress{UserID: userID}
	if err := model.NewSnapshot(userID).Encode(&fresh); err != nil {
		return nil, err
	}
	// 并发首写可能撞 user_id 唯一索引，冲突时忽略并退回锁定读
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, err
	}
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ProgressRepository) Save(tx *gorm.DB, row *model.UserProgress) error {
	return tx.Save(row).Error
}

// ListTopByXP 排行榜查询，按总 XP 降序
func (r *ProgressRepository) ListTopByXP(limit int) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := r.DB.Order("total_xp desc, user_id asc").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProgressRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.DB.Transaction(fn)
}

// ResetWeeklyXP 周一零点清零所有用户的周 XP
func (r *ProgressRepository) ResetWeeklyXP() (int64, error) {
	result := r.DB.Model(&model.UserProgress{}).
		Where("weekly_xp > 0").Update("weekly_xp", 0)
	return result.RowsAffected, result.Error
}

// ExpireStreaks 将最近解题时间早于 cutoff 的连击清零
func (r *ProgressRepository) ExpireStreaks(cutoff time.Time) (int64, error) {
	result := r.DB.Model(&model.UserProgress{}).
		Where("streak_days > 0 AND (last_solved_at IS NULL OR last_solved_at < ?)", cutoff).
		Update("streak_days", 0)
	return result.RowsAffected, result.Error
}
