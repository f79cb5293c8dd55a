package progress

import (
	"context"
	"strconv"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/driver"
	"github.com/devtrail/devtrail/internal/infrastructure/uuid"
)

// ProgressRepository progress record store over the SQL driver layer.
//
// item_id is persisted as text (the collection this table was migrated from
// stored it that way), so every fetched record is re-validated against the
// catalog's integer key type before it leaves the repository.
type ProgressRepository struct {
	Conn          driver.ITransactionalDB `dep:""`
	UUIDGenerator uuid.Generator
}

var _ domain.ProgressRepository = &ProgressRepository{}

func NewProgressRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *ProgressRepository {
	return &ProgressRepository{
		Conn:          Conn,
		UUIDGenerator: UUIDGenerator,
	}
}

// FindByUser fetch all progress records of one user.
// A record whose item_id or status cannot be interpreted fails the whole
// fetch with a DataIntegrityError naming the offending value.
func (repo *ProgressRepository) FindByUser(ctx context.Context, userID string) ([]*domain.ProgressRecordModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    id, user_id, item_id, status, updated_at
FROM
    progress_record
WHERE
    user_id = $1
	`, userID)
	if err != nil {
		return nil, domain.NewStoreUnavailableError("progress.FindByUser", err)
	}
	defer rows.Close()

	var result []*domain.ProgressRecordModel
	for rows.Next() {
		record := new(domain.ProgressRecordModel)
		var rawItemID, rawStatus string
		if err := rows.Scan(&record.ID, &record.UserID, &rawItemID, &rawStatus, &record.UpdatedAt); err != nil {
			return nil, domain.NewStoreUnavailableError("progress.FindByUser", err)
		}
		itemID, err := strconv.Atoi(rawItemID)
		if err != nil {
			return nil, domain.NewDataIntegrityError("item_id", rawItemID)
		}
		status, err := domain.ParseProgressStatus(rawStatus)
		if err != nil {
			return nil, domain.NewDataIntegrityError("status", rawStatus)
		}
		record.ItemID = itemID
		record.Status = status
		result = append(result, record)
	}
	return result, nil
}

// Upsert create or overwrite the record for (userID, itemID) in one atomic
// statement, keyed on the unique index over (user_id, item_id)
func (repo *ProgressRepository) Upsert(ctx context.Context, userID string, itemID int, status domain.ProgressStatus) error {
	conn := repo.Conn
	id, err := repo.UUIDGenerator.Generate()
	if err != nil {
		return err
	}

	_, err = conn.ExecContext(ctx, `
INSERT INTO progress_record (id, user_id, item_id, status, updated_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (user_id, item_id)
DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`, id, userID, strconv.Itoa(itemID), string(status))
	if err != nil {
		return domain.NewStoreUnavailableError("progress.Upsert", err)
	}
	return nil
}

// DeleteAllByUser bulk delete, zero affected rows is success
func (repo *ProgressRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `
DELETE FROM progress_record
WHERE
    user_id = $1
	`, userID)
	if err != nil {
		return domain.NewStoreUnavailableError("progress.DeleteAllByUser", err)
	}
	return nil
}
