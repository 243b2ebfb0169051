package model

import "time"

// UserAchievement 已解锁成就记录，(user_id, achievement_id) 唯一，只增不减
// swagger:model UserAchievement
type UserAchievement struct {
	BaseModel
	UserID        uint      `gorm:"index:idx_user_achievement,unique;type:bigint unsigned;not null" json:"userId"`
	AchievementID string    `gorm:"index:idx_user_achievement,unique;size:100;not null" json:"achievementId"`
	UnlockedAt    time.Time `gorm:"not null" json:"unlockedAt"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
