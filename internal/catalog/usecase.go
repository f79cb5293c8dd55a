package catalog

import (
	"context"

	"github.com/devtrail/devtrail/internal/domain"
	"go.elastic.co/apm"
)

// CatalogUseCaseImpl ...
type CatalogUseCaseImpl struct {
	CatalogRepository domain.CatalogRepository
}

var _ domain.CatalogUseCase = &CatalogUseCaseImpl{}

// NewCatalogUseCase ...
func NewCatalogUseCase(
	CatalogRepository domain.CatalogRepository,
) *CatalogUseCaseImpl {
	return &CatalogUseCaseImpl{CatalogRepository}
}

// ListCatalog list catalog items, optionally narrowed to one content kind
func (cu *CatalogUseCaseImpl) ListCatalog(ctx context.Context, kind string) ([]*domain.ContentItemModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "CatalogUseCaseImpl.ListCatalog", "service")
	defer apmSpan.End()

	if kind == "" {
		return cu.CatalogRepository.ListItems(ctx)
	}
	ck := domain.ContentKind(kind)
	if !domain.ValidContentKind(ck) {
		return nil, domain.NewMissingParameterError("kind")
	}
	return cu.CatalogRepository.ListItemsByKind(ctx, ck)
}

// GetItem fetch a single catalog item
func (cu *CatalogUseCaseImpl) GetItem(ctx context.Context, itemID int) (*domain.ContentItemModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "CatalogUseCaseImpl.GetItem", "service")
	defer apmSpan.End()

	if itemID == 0 {
		return nil, domain.NewMissingParameterError("item_id")
	}
	return cu.CatalogRepository.GetItem(ctx, itemID)
}
