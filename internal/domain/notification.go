package domain

import (
	"context"
	"time"
)

type NotificationModel struct {
	ID        string     `json:"id"`
	UserID    string     `json:"-"`
	Kind      string     `json:"kind"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	CreatedAt *time.Time `json:"-"`
	Timestamp int64      `json:"timestamp"`
}

type NotificationRepository interface {
	SaveNotification(ctx context.Context, notification *NotificationModel) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*NotificationModel, error)
	MarkRead(ctx context.Context, userID, id string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}

type NotificationUseCase interface {
	List(ctx context.Context, userID string, unreadOnly bool) ([]*NotificationModel, error)
	MarkRead(ctx context.Context, userID, id string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}
