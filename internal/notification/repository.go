package notification

import (
	"context"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/driver"
)

type NotificationRepository struct {
	Conn driver.ITransactionalDB `dep:""`
}

var _ domain.NotificationRepository = &NotificationRepository{}

func NewNotificationRepository(Conn driver.ITransactionalDB) *NotificationRepository {
	return &NotificationRepository{
		Conn: Conn,
	}
}

func (repo *NotificationRepository) SaveNotification(ctx context.Context, notification *domain.NotificationModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `
INSERT INTO notification (id, user_id, kind, message, "read", created_at)
VALUES ($1, $2, $3, $4, FALSE, NOW())
	`, notification.ID, notification.UserID, notification.Kind, notification.Message)
	if err != nil {
		return domain.NewStoreUnavailableError("notification.SaveNotification", err)
	}
	return nil
}

func (repo *NotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*domain.NotificationModel, error) {
	conn := repo.Conn
	query := `
SELECT
    id, user_id, kind, message, "read", created_at
FROM
    notification
WHERE
    user_id = $1
ORDER BY created_at DESC
	`
	if unreadOnly {
		query = `
SELECT
    id, user_id, kind, message, "read", created_at
FROM
    notification
WHERE
    user_id = $1 AND "read" = FALSE
ORDER BY created_at DESC
	`
	}
	rows, err := conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, domain.NewStoreUnavailableError("notification.ListByUser", err)
	}
	defer rows.Close()

	var result []*domain.NotificationModel
	for rows.Next() {
		item := new(domain.NotificationModel)
		err := rows.Scan(&item.ID, &item.UserID, &item.Kind, &item.Message, &item.Read, &item.CreatedAt)
		if err != nil {
			return nil, domain.NewStoreUnavailableError("notification.ListByUser", err)
		}
		result = append(result, item)
	}
	return result, nil
}

// MarkRead returns the number of rows affected so the use case can
// distinguish an unknown id
func (repo *NotificationRepository) MarkRead(ctx context.Context, userID, id string) (int64, error) {
	conn := repo.Conn
	res, err := conn.ExecContext(ctx, `
UPDATE notification
SET "read" = TRUE
WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return 0, domain.NewStoreUnavailableError("notification.MarkRead", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStoreUnavailableError("notification.MarkRead", err)
	}
	return affected, nil
}

func (repo *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT COUNT(*)
FROM notification
WHERE user_id = $1 AND "read" = FALSE
	`, userID)
	if err != nil {
		return 0, domain.NewStoreUnavailableError("notification.CountUnread", err)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, domain.NewStoreUnavailableError("notification.CountUnread", err)
		}
	}
	return count, nil
}
