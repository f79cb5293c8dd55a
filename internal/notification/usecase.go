package notification

import (
	"context"

	"github.com/devtrail/devtrail/internal/domain"
	"go.elastic.co/apm"
)

// NotificationUseCaseImpl ...
type NotificationUseCaseImpl struct {
	NotificationRepository domain.NotificationRepository
}

var _ domain.NotificationUseCase = &NotificationUseCaseImpl{}

// NewNotificationUseCase ...
func NewNotificationUseCase(
	NotificationRepository domain.NotificationRepository,
) *NotificationUseCaseImpl {
	return &NotificationUseCaseImpl{NotificationRepository}
}

// List notifications of the user, newest first
func (nu *NotificationUseCaseImpl) List(ctx context.Context, userID string, unreadOnly bool) ([]*domain.NotificationModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "NotificationUseCaseImpl.List", "service")
	defer apmSpan.End()

	if userID == "" {
		return nil, domain.NewMissingParameterError("user_id")
	}
	items, err := nu.NotificationRepository.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	for _, e := range items {
		if e.CreatedAt != nil {
			e.Timestamp = e.CreatedAt.Unix() * 1e3 // milliseconds
		}
	}
	return items, nil
}

// MarkRead mark one notification read, unknown id is a NotFoundError
func (nu *NotificationUseCaseImpl) MarkRead(ctx context.Context, userID, id string) error {
	apmSpan, _ := apm.StartSpan(ctx, "NotificationUseCaseImpl.MarkRead", "service")
	defer apmSpan.End()

	if userID == "" {
		return domain.NewMissingParameterError("user_id")
	}
	if id == "" {
		return domain.NewMissingParameterError("id")
	}
	affected, err := nu.NotificationRepository.MarkRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NewNotFoundError("notification", id)
	}
	return nil
}

// UnreadCount number of unread notifications
func (nu *NotificationUseCaseImpl) UnreadCount(ctx context.Context, userID string) (int, error) {
	apmSpan, _ := apm.StartSpan(ctx, "NotificationUseCaseImpl.UnreadCount", "service")
	defer apmSpan.End()

	if userID == "" {
		return 0, domain.NewMissingParameterError("user_id")
	}
	return nu.NotificationRepository.CountUnread(ctx, userID)
}
