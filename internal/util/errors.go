package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidEvent 表示进度事件本身不合法（未知题目、负数等），不会写入存储
	ErrInvalidEvent = errors.New("invalid progress event")
	// ErrStoreUnavailable 表示远端存储读写失败，快照保持最后已知值
	ErrStoreUnavailable = errors.New("progress store unavailable")
	ErrProblemNotFound  = errors.New("problem not found")
	ErrSlugTaken        = errors.New("problem slug already exists")
	ErrNotificationGone = errors.New("notification not found")
)
