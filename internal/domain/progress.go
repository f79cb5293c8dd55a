package domain

import (
	"context"
	"time"
)

// ProgressStatus closed enumeration of per-item completion states
type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "NOT_STARTED"
	StatusInProgress ProgressStatus = "IN_PROGRESS"
	StatusCompleted  ProgressStatus = "COMPLETED"
)

// ParseProgressStatus interpret raw as a ProgressStatus
func ParseProgressStatus(raw string) (ProgressStatus, error) {
	switch ProgressStatus(raw) {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return ProgressStatus(raw), nil
	}
	return "", NewInvalidStatusError(raw)
}

// ProgressRecordModel one user's status for one content item.
// At most one record exists per (user_id, item_id) pair, enforced by a
// unique index at the store.
type ProgressRecordModel struct {
	ID        string         `json:"-"`
	UserID    string         `json:"user_id"`
	ItemID    int            `json:"item_id"`
	Status    ProgressStatus `json:"status"`
	UpdatedAt *time.Time     `json:"-"`
}

// ProgressViewItem a catalog entry annotated with the user's status, not persisted
type ProgressViewItem struct {
	ItemID int            `json:"id"`
	Title  string         `json:"title"`
	Kind   ContentKind    `json:"kind"`
	Status ProgressStatus `json:"status"`
}

type ProgressRepository interface {
	FindByUser(ctx context.Context, userID string) ([]*ProgressRecordModel, error)
	Upsert(ctx context.Context, userID string, itemID int, status ProgressStatus) error
	DeleteAllByUser(ctx context.Context, userID string) error
}

type ProgressUseCase interface {
	GetProgressView(ctx context.Context, userID string) ([]*ProgressViewItem, error)
	SetStatus(ctx context.Context, userID string, itemID int, status ProgressStatus) error
	ResetProgress(ctx context.Context, userID string) error
}
