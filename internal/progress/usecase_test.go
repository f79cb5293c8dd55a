package progress

import (
	"context"
	"testing"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogRepo struct {
	items []*domain.ContentItemModel
	err   error
}

func (f *fakeCatalogRepo) ListItems(ctx context.Context) ([]*domain.ContentItemModel, error) {
	return f.items, f.err
}

func (f *fakeCatalogRepo) ListItemsByKind(ctx context.Context, kind domain.ContentKind) ([]*domain.ContentItemModel, error) {
	var result []*domain.ContentItemModel
	for _, item := range f.items {
		if item.Kind == kind {
			result = append(result, item)
		}
	}
	return result, f.err
}

func (f *fakeCatalogRepo) GetItem(ctx context.Context, itemID int) (*domain.ContentItemModel, error) {
	for _, item := range f.items {
		if item.ItemID == itemID {
			return item, nil
		}
	}
	return nil, domain.NewNotFoundError("content item", "")
}

type fakeProgressRepo struct {
	statuses  map[string]map[int]domain.ProgressStatus
	findCalls int
	findErr   error
	upsertErr error
	deleteErr error
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{statuses: make(map[string]map[int]domain.ProgressStatus)}
}

func (f *fakeProgressRepo) FindByUser(ctx context.Context, userID string) ([]*domain.ProgressRecordModel, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	var result []*domain.ProgressRecordModel
	for itemID, status := range f.statuses[userID] {
		result = append(result, &domain.ProgressRecordModel{
			UserID: userID,
			ItemID: itemID,
			Status: status,
		})
	}
	return result, nil
}

func (f *fakeProgressRepo) Upsert(ctx context.Context, userID string, itemID int, status domain.ProgressStatus) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.statuses[userID] == nil {
		f.statuses[userID] = make(map[int]domain.ProgressStatus)
	}
	f.statuses[userID][itemID] = status
	return nil
}

func (f *fakeProgressRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.statuses, userID)
	return nil
}

func testCatalog() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		items: []*domain.ContentItemModel{
			{ItemID: 1, Title: "Goroutines", Kind: domain.KindTopic},
			{ItemID: 2, Title: "Channels", Kind: domain.KindTopic},
			{ItemID: 3, Title: "testify", Kind: domain.KindLibrary},
			{ItemID: 4, Title: "Worker pool", Kind: domain.KindSnippet},
			{ItemID: 5, Title: "Error handling", Kind: domain.KindBlog},
		},
	}
}

func TestGetProgressView_MergesSparseRecords(t *testing.T) {
	catalogRepo := testCatalog()
	progressRepo := newFakeProgressRepo()
	progressRepo.Upsert(context.Background(), "u1", 2, domain.StatusInProgress)
	progressRepo.Upsert(context.Background(), "u1", 4, domain.StatusCompleted)

	uc := NewProgressUseCase(catalogRepo, progressRepo)
	view, err := uc.GetProgressView(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, view, len(catalogRepo.items))
	// catalog order is preserved
	for i, item := range catalogRepo.items {
		assert.Equal(t, item.ItemID, view[i].ItemID)
		assert.Equal(t, item.Title, view[i].Title)
		assert.Equal(t, item.Kind, view[i].Kind)
	}
	assert.Equal(t, domain.StatusNotStarted, view[0].Status)
	assert.Equal(t, domain.StatusInProgress, view[1].Status)
	assert.Equal(t, domain.StatusNotStarted, view[2].Status)
	assert.Equal(t, domain.StatusCompleted, view[3].Status)
	assert.Equal(t, domain.StatusNotStarted, view[4].Status)
}

func TestGetProgressView_AnonymousSkipsRecordFetch(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	progressRepo.Upsert(context.Background(), "u1", 1, domain.StatusCompleted)
	progressRepo.findCalls = 0

	uc := NewProgressUseCase(testCatalog(), progressRepo)
	view, err := uc.GetProgressView(context.Background(), "")

	require.NoError(t, err)
	assert.Zero(t, progressRepo.findCalls)
	for _, entry := range view {
		assert.Equal(t, domain.StatusNotStarted, entry.Status)
	}
}

func TestGetProgressView_IgnoresRecordsForRemovedItems(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	progressRepo.Upsert(context.Background(), "u1", 99, domain.StatusCompleted)
	progressRepo.Upsert(context.Background(), "u1", 1, domain.StatusInProgress)

	uc := NewProgressUseCase(testCatalog(), progressRepo)
	view, err := uc.GetProgressView(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, view, 5)
	for _, entry := range view {
		assert.NotEqual(t, 99, entry.ItemID)
	}
	assert.Equal(t, domain.StatusInProgress, view[0].Status)
}

func TestGetProgressView_EmptyCatalog(t *testing.T) {
	uc := NewProgressUseCase(&fakeCatalogRepo{}, newFakeProgressRepo())
	view, err := uc.GetProgressView(context.Background(), "u1")

	require.NoError(t, err)
	assert.NotNil(t, view)
	assert.Empty(t, view)
}

func TestGetProgressView_PropagatesCorruptedRecord(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	progressRepo.findErr = domain.NewDataIntegrityError("item_id", "abc")

	uc := NewProgressUseCase(testCatalog(), progressRepo)
	view, err := uc.GetProgressView(context.Background(), "u1")

	assert.Nil(t, view)
	assert.Equal(t, domain.ErrKindDataIntegrity, domain.KindOf(err))
}

func TestSetStatus_RejectsMissingInput(t *testing.T) {
	uc := NewProgressUseCase(testCatalog(), newFakeProgressRepo())

	tests := []struct {
		name   string
		userID string
		itemID int
		status domain.ProgressStatus
	}{
		{"empty user", "", 1, domain.StatusCompleted},
		{"zero item", "u1", 0, domain.StatusCompleted},
		{"unknown status", "u1", 1, domain.ProgressStatus("DONE")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.SetStatus(context.Background(), tc.userID, tc.itemID, tc.status)
			assert.Equal(t, domain.ErrKindMissingParameter, domain.KindOf(err))
		})
	}
}

func TestSetStatus_OverwritesExistingRecord(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	uc := NewProgressUseCase(testCatalog(), progressRepo)

	require.NoError(t, uc.SetStatus(context.Background(), "u1", 2, domain.StatusInProgress))
	require.NoError(t, uc.SetStatus(context.Background(), "u1", 2, domain.StatusCompleted))
	// any transition is allowed, including going backwards
	require.NoError(t, uc.SetStatus(context.Background(), "u1", 2, domain.StatusNotStarted))

	require.Len(t, progressRepo.statuses["u1"], 1)
	assert.Equal(t, domain.StatusNotStarted, progressRepo.statuses["u1"][2])
}

func TestSetStatus_UnknownItemNeverSurfaces(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	uc := NewProgressUseCase(testCatalog(), progressRepo)

	require.NoError(t, uc.SetStatus(context.Background(), "u1", 1234, domain.StatusCompleted))

	view, err := uc.GetProgressView(context.Background(), "u1")
	require.NoError(t, err)
	for _, entry := range view {
		assert.NotEqual(t, 1234, entry.ItemID)
	}
}

func TestResetProgress(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	uc := NewProgressUseCase(testCatalog(), progressRepo)
	require.NoError(t, uc.SetStatus(context.Background(), "u1", 1, domain.StatusCompleted))
	require.NoError(t, uc.SetStatus(context.Background(), "u2", 1, domain.StatusCompleted))

	require.NoError(t, uc.ResetProgress(context.Background(), "u1"))

	view, err := uc.GetProgressView(context.Background(), "u1")
	require.NoError(t, err)
	for _, entry := range view {
		assert.Equal(t, domain.StatusNotStarted, entry.Status)
	}
	// other users keep their records
	assert.Equal(t, domain.StatusCompleted, progressRepo.statuses["u2"][1])

	// idempotent, the second reset is a no-op
	assert.NoError(t, uc.ResetProgress(context.Background(), "u1"))
}

func TestResetProgress_RequiresUser(t *testing.T) {
	uc := NewProgressUseCase(testCatalog(), newFakeProgressRepo())
	err := uc.ResetProgress(context.Background(), "")
	assert.Equal(t, domain.ErrKindMissingParameter, domain.KindOf(err))
}
