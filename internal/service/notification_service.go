package service

import (
	"errors"
	"fmt"
	"time"

	"placement_prep_backend/internal/catalog"
	"placement_prep_backend/internal/model"
	"placement_prep_backend/internal/repository"
	"placement_prep_backend/internal/util"
	"placement_prep_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	Hub              *NotificationHub
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, hub *NotificationHub) *NotificationService {
	return &NotificationService{
		NotificationRepo: notificationRepo,
		Hub:              hub,
	}
}

// 渲染期分组标签，按拉取时刻计算而非入库时刻
const (
	BucketToday     = "today"
	BucketYesterday = "yesterday"
	BucketThisWeek  = "thisWeek"
	BucketOlder     = "older"
)

// bucketFor 通知的新旧分组。昨天指自然日差一天，
// 本周指七个自然日以内，其余归为更早
func bucketFor(createdAt, now time.Time) string {
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	createdDay := time.Date(createdAt.Year(), createdAt.Month(), createdAt.Day(), 0, 0, 0, 0, createdAt.Location())
	switch days := int(nowDay.Sub(createdDay).Hours() / 24); {
	case days <= 0:
		return BucketToday
	case days == 1:
		return BucketYesterday
	case days < 7:
		return BucketThisWeek
	default:
		return BucketOlder
	}
}

// mergeReadState 推送与轮询并发更新已读位时的合并规则：已读永不回退
func mergeReadState(current, incoming bool) bool {
	return current || incoming
}

type NotificationPage struct {
	Notifications []model.Notification `json:"notifications"`
	Total         int64                `json:"total"`
	UnreadCount   int64                `json:"unreadCount"`
}

type GroupedNotifications struct {
	Today       []model.Notification `json:"today"`
	Yesterday   []model.Notification `json:"yesterday"`
	ThisWeek    []model.Notification `json:"thisWeek"`
	Older       []model.Notification `json:"older"`
	Total       int64                `json:"total"`
	UnreadCount int64                `json:"unreadCount"`
}

func (s *NotificationService) List(userID uint, unreadOnly bool, limit, offset int) (*NotificationPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	ns, total, err := s.NotificationRepo.ListByUserID(userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	unread, err := s.NotificationRepo.CountUnread(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	return &NotificationPage{Notifications: ns, Total: total, UnreadCount: unread}, nil
}

// ListGrouped 按拉取时刻的新旧分组返回
func (s *NotificationService) ListGrouped(userID uint, unreadOnly bool, limit, offset int) (*GroupedNotifications, error) {
	page, err := s.List(userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	grouped := &GroupedNotifications{
		Today:       []model.Notification{},
		Yesterday:   []model.Notification{},
		ThisWeek:    []model.Notification{},
		Older:       []model.Notification{},
		Total:       page.Total,
		UnreadCount: page.UnreadCount,
	}
	now := time.Now()
	for _, n := range page.Notifications {
		switch bucketFor(n.CreatedAt, now) {
		case BucketToday:
			grouped.Today = append(grouped.Today, n)
		case BucketYesterday:
			grouped.Yesterday = append(grouped.Yesterday, n)
		case BucketThisWeek:
			grouped.ThisWeek = append(grouped.ThisWeek, n)
		default:
			grouped.Older = append(grouped.Older, n)
		}
	}
	return grouped, nil
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	n, err := s.NotificationRepo.CountUnread(userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	return n, nil
}

// MarkRead 合并客户端上报的已读位后落库：已读永不回退，
// 重复标记返回成功且不改动 read_at
func (s *NotificationService) MarkRead(userID uint, id string, incoming bool) error {
	n, err := s.Get(userID, id)
	if err != nil {
		return err
	}
	if merged := mergeReadState(n.IsRead, incoming); merged == n.IsRead {
		return nil
	}
	if _, err := s.NotificationRepo.MarkRead(id, userID); err != nil {
		return fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	affected, err := s.NotificationRepo.MarkAllRead(userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	return affected, nil
}

// Delete 删除不存在的通知视为已完成
func (s *NotificationService) Delete(userID uint, id string) error {
	if _, err := s.NotificationRepo.Delete(id, userID); err != nil {
		return fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	return nil
}

// Clear 批量删除，默认清空全部；readOnly 为真时保留未读
func (s *NotificationService) Clear(userID uint, readOnly bool) (int64, error) {
	affected, err := s.NotificationRepo.DeleteByUser(userID, readOnly)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	return affected, nil
}

func (s *NotificationService) Get(userID uint, id string) (*model.Notification, error) {
	n, err := s.NotificationRepo.FindByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotificationGone
		}
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	return n, nil
}

// Notify 入库一条通知并尽力推送，推送失败不向上传播
func (s *NotificationService) Notify(userID uint, typ model.NotificationType, title, message, actionRef string) error {
	n := model.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		ActionRef: actionRef,
	}
	if err := s.NotificationRepo.Create(&n); err != nil {
		return fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	monitoring.NotificationCreatedCounter.WithLabelValues(string(typ)).Inc()
	s.push(userID, "NOTIFICATION", n)
	return nil
}

// buildUnlockNotifications 新解锁成就对应的通知行
func buildUnlockNotifications(userID uint, defs []catalog.Definition) []model.Notification {
	ns := make([]model.Notification, 0, len(defs))
	for _, def := range defs {
		ns = append(ns, model.Notification{
			UserID:    userID,
			Type:      model.NotificationAchievement,
			Title:     "Achievement unlocked: " + def.Name,
			Message:   fmt.Sprintf("%s %s — +%d XP", def.Icon, def.Description, def.XPReward),
			ActionRef: "/achievements/" + def.ID,
		})
	}
	return ns
}

// CreateUnlockRecords 在解锁事务内入库通知行，与解锁记录同提交同回滚，
// 保证每次解锁至少留下一条可拉取的通知
func (s *NotificationService) CreateUnlockRecords(tx *gorm.DB, userID uint, defs []catalog.Definition) ([]model.Notification, error) {
	ns := buildUnlockNotifications(userID, defs)
	if len(ns) == 0 {
		return nil, nil
	}
	if err := s.NotificationRepo.CreateBatch(tx, ns); err != nil {
		return nil, err
	}
	return ns, nil
}

// PushUnlocks 事务提交后尽力推送，失败只记日志，拉取列表兜底
func (s *NotificationService) PushUnlocks(userID uint, ns []model.Notification) {
	if len(ns) == 0 {
		return
	}
	monitoring.NotificationCreatedCounter.WithLabelValues(string(model.NotificationAchievement)).Add(float64(len(ns)))
	for _, n := range ns {
		s.push(userID, "ACHIEVEMENT_UNLOCKED", n)
	}
}

func (s *NotificationService) push(userID uint, msgType string, n model.Notification) {
	if s.Hub == nil {
		return
	}
	s.Hub.PushToUser(userID, WSMessage{Type: msgType, Data: n})
}
