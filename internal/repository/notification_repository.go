package repository

import (
	"time"

	"placement_prep_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) CreateBatch(tx *gorm.DB, ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.DB
	}
	return tx.Create(&ns).Error
}

func (r *NotificationRepository) FindByID(id string, userID uint) (*model.Notification, error) {
	var n model.Notification
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByUserID 按创建时间降序分页；unreadOnly 为真时只取未读
func (r *NotificationRepository) ListByUserID(userID uint, unreadOnly bool, limit, offset int) ([]model.Notification, int64, error) {
	query := r.DB.Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ns []model.Notification
	err := query.Order("created_at desc, id desc").Limit(limit).Offset(offset).Find(&ns).Error
	if err != nil {
		return nil, 0, err
	}
	return ns, total, nil
}

func (r *NotificationRepository) CountUnread(userID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&n).Error
	return n, err
}

// MarkRead 只把未读翻为已读，重复调用不回写 read_at
func (r *NotificationRepository) MarkRead(id string, userID uint) (int64, error) {
	result := r.DB.Model(&model.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) MarkAllRead(userID uint) (int64, error) {
	result := r.DB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) Delete(id string, userID uint) (int64, error) {
	result := r.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}

// clearScope 批量删除的过滤条件：readOnly 为真时只删已读，否则清空全部
func clearScope(userID uint, readOnly bool) map[string]interface{} {
	scope := map[string]interface{}{"user_id": userID}
	if readOnly {
		scope["is_read"] = true
	}
	return scope
}

// DeleteByUser 批量删除用户通知
func (r *NotificationRepository) DeleteByUser(userID uint, readOnly bool) (int64, error) {
	result := r.DB.Where(clearScope(userID, readOnly)).Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}

