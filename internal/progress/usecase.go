package progress

import (
	"context"

	"github.com/devtrail/devtrail/internal/domain"
	"go.elastic.co/apm"
)

// ProgressUseCaseImpl reconciles the read-only catalog with a user's sparse
// progress records and applies status mutations.
//
// The two reads in GetProgressView are independent, there is no snapshot
// guarantee across them. A SetStatus racing a ResetProgress for the same user
// resolves to whichever write lands last at the store.
type ProgressUseCaseImpl struct {
	CatalogRepository  domain.CatalogRepository
	ProgressRepository domain.ProgressRepository
}

var _ domain.ProgressUseCase = &ProgressUseCaseImpl{}

// NewProgressUseCase ...
func NewProgressUseCase(
	CatalogRepository domain.CatalogRepository,
	ProgressRepository domain.ProgressRepository,
) *ProgressUseCaseImpl {
	return &ProgressUseCaseImpl{
		CatalogRepository:  CatalogRepository,
		ProgressRepository: ProgressRepository,
	}
}

// GetProgressView merge the full catalog with the user's records. Every
// catalog item appears exactly once, in catalog order, defaulted to
// NOT_STARTED. Records referencing items gone from the catalog are ignored.
// An empty userID is the anonymous browsing case: no record fetch, all items
// NOT_STARTED.
func (pu *ProgressUseCaseImpl) GetProgressView(ctx context.Context, userID string) ([]*domain.ProgressViewItem, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.GetProgressView", "service")
	defer apmSpan.End()

	items, err := pu.CatalogRepository.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	statusByItem := make(map[int]domain.ProgressStatus)
	if userID != "" {
		records, err := pu.ProgressRepository.FindByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			statusByItem[record.ItemID] = record.Status
		}
	}

	view := make([]*domain.ProgressViewItem, 0, len(items))
	for _, item := range items {
		status := domain.StatusNotStarted
		if s, ok := statusByItem[item.ItemID]; ok {
			status = s
		}
		view = append(view, &domain.ProgressViewItem{
			ItemID: item.ItemID,
			Title:  item.Title,
			Kind:   item.Kind,
			Status: status,
		})
	}
	return view, nil
}

// SetStatus upsert the status of one (user, item) pair. The write is a single
// atomic store operation, no read-modify-write. The item is not checked
// against the catalog, a record for an unknown item is simply never surfaced
// by GetProgressView.
func (pu *ProgressUseCaseImpl) SetStatus(ctx context.Context, userID string, itemID int, status domain.ProgressStatus) error {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.SetStatus", "service")
	defer apmSpan.End()

	if userID == "" {
		return domain.NewMissingParameterError("user_id")
	}
	if itemID == 0 {
		return domain.NewMissingParameterError("item_id")
	}
	if _, err := domain.ParseProgressStatus(string(status)); err != nil {
		return err
	}
	return pu.ProgressRepository.Upsert(ctx, userID, itemID, status)
}

// ResetProgress delete every record of the user. Idempotent, resetting a user
// with no records succeeds.
func (pu *ProgressUseCaseImpl) ResetProgress(ctx context.Context, userID string) error {
	apmSpan, _ := apm.StartSpan(ctx, "ProgressUseCaseImpl.ResetProgress", "service")
	defer apmSpan.End()

	if userID == "" {
		return domain.NewMissingParameterError("user_id")
	}
	return pu.ProgressRepository.DeleteAllByUser(ctx, userID)
}
