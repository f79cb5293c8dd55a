package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/driver"
)

type CatalogRepository struct {
	Conn driver.ITransactionalDB `dep:""`
}

var _ domain.CatalogRepository = &CatalogRepository{}

func NewCatalogRepository(Conn driver.ITransactionalDB) *CatalogRepository {
	return &CatalogRepository{
		Conn: Conn,
	}
}

func (repo *CatalogRepository) ListItems(ctx context.Context) ([]*domain.ContentItemModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    item_id, title, kind, file_ref, difficulty, locked, tags, created_at
FROM
    content_item
ORDER BY item_id
	`)
	if err != nil {
		return nil, domain.NewStoreUnavailableError("catalog.ListItems", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (repo *CatalogRepository) ListItemsByKind(ctx context.Context, kind domain.ContentKind) ([]*domain.ContentItemModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    item_id, title, kind, file_ref, difficulty, locked, tags, created_at
FROM
    content_item
WHERE
    kind = $1
ORDER BY item_id
	`, string(kind))
	if err != nil {
		return nil, domain.NewStoreUnavailableError("catalog.ListItemsByKind", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (repo *CatalogRepository) GetItem(ctx context.Context, itemID int) (*domain.ContentItemModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    item_id, title, kind, file_ref, difficulty, locked, tags, created_at
FROM
    content_item
WHERE
    item_id = $1
	`, itemID)
	if err != nil {
		return nil, domain.NewStoreUnavailableError("catalog.GetItem", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, domain.NewNotFoundError("content item", strconv.Itoa(itemID))
	}
	return scanItem(rows)
}

func scanItems(rows driver.ISQLRows) ([]*domain.ContentItemModel, error) {
	var result []*domain.ContentItemModel
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

func scanItem(rows driver.ISQLRows) (*domain.ContentItemModel, error) {
	item := new(domain.ContentItemModel)
	var tags string
	err := rows.Scan(&item.ItemID, &item.Title, &item.Kind, &item.FileRef,
		&item.Difficulty, &item.Locked, &tags, &item.CreatedAt)
	if err != nil {
		return nil, domain.NewStoreUnavailableError("catalog.scan", err)
	}
	if tags != "" {
		item.Tags = strings.Split(tags, ",")
	}
	return item, nil
}
