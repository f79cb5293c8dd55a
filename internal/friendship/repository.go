package friendship

import (
	"context"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/driver"
)

type FriendshipRepository struct {
	Conn driver.ITransactionalDB `dep:""`
}

var _ domain.FriendshipRepository = &FriendshipRepository{}

func NewFriendshipRepository(Conn driver.ITransactionalDB) *FriendshipRepository {
	return &FriendshipRepository{
		Conn: Conn,
	}
}

func (repo *FriendshipRepository) SaveFriendship(ctx context.Context, friendship *domain.FriendshipModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `
INSERT INTO friendship (id, requester_id, addressee_id, status, created_at)
VALUES ($1, $2, $3, $4, NOW())
	`, friendship.ID, friendship.RequesterID, friendship.AddresseeID, string(friendship.Status))
	if err != nil {
		if driver.IsUniqueViolation(err) {
			return domain.ErrDuplicatedFriendship
		}
		return domain.NewStoreUnavailableError("friendship.SaveFriendship", err)
	}
	return nil
}

func (repo *FriendshipRepository) FindByID(ctx context.Context, id string) (*domain.FriendshipModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    id, requester_id, addressee_id, status, created_at
FROM
    friendship
WHERE
    id = $1
	`, id)
	if err != nil {
		return nil, domain.NewStoreUnavailableError("friendship.FindByID", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}
	return scanFriendship(rows)
}

func (repo *FriendshipRepository) FindBetween(ctx context.Context, userA, userB string) (*domain.FriendshipModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    id, requester_id, addressee_id, status, created_at
FROM
    friendship
WHERE
    (requester_id = $1 AND addressee_id = $2)
    OR (requester_id = $2 AND addressee_id = $1)
	`, userA, userB)
	if err != nil {
		return nil, domain.NewStoreUnavailableError("friendship.FindBetween", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}
	return scanFriendship(rows)
}

func (repo *FriendshipRepository) UpdateStatus(ctx context.Context, id string, status domain.FriendshipStatus) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `
UPDATE friendship
SET status = $1
WHERE id = $2
	`, string(status), id)
	if err != nil {
		return domain.NewStoreUnavailableError("friendship.UpdateStatus", err)
	}
	return nil
}

func (repo *FriendshipRepository) ListAcceptedByUser(ctx context.Context, userID string) ([]*domain.FriendshipModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    id, requester_id, addressee_id, status, created_at
FROM
    friendship
WHERE
    status = 'accepted'
    AND (requester_id = $1 OR addressee_id = $1)
	`, userID)
	if err != nil {
		return nil, domain.NewStoreUnavailableError("friendship.ListAcceptedByUser", err)
	}
	defer rows.Close()

	var result []*domain.FriendshipModel
	for rows.Next() {
		friendship, err := scanFriendship(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, friendship)
	}
	return result, nil
}

func scanFriendship(rows driver.ISQLRows) (*domain.FriendshipModel, error) {
	friendship := new(domain.FriendshipModel)
	var status string
	err := rows.Scan(&friendship.ID, &friendship.RequesterID, &friendship.AddresseeID, &status, &friendship.CreatedAt)
	if err != nil {
		return nil, domain.NewStoreUnavailableError("friendship.scan", err)
	}
	friendship.Status = domain.FriendshipStatus(status)
	return friendship, nil
}
