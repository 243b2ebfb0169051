package model

import "time"

type NotificationType string

const (
	NotificationInterview   NotificationType = "interview"
	NotificationProblems    NotificationType = "problems"
	NotificationAchievement NotificationType = "achievement"
	NotificationPlacement   NotificationType = "placement"
	NotificationSystem      NotificationType = "system"
)

// swagger:model Notification
type Notification struct {
	UUIDBase
	UserID    uint             `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Type      NotificationType `gorm:"type:enum('interview','problems','achievement','placement','system');default:'system'" json:"type"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Message   string           `gorm:"type:text" json:"message"`
	IsRead    bool             `gorm:"default:false;index" json:"isRead"`
	ActionRef string           `gorm:"size:255" json:"actionRef"`
	ReadAt    *time.Time       `json:"readAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
