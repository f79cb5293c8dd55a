package http

import (
	"net/http"
	"strconv"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/validate"
	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogUseCase domain.CatalogUseCase
}

func NewCatalogHandler(CatalogUseCase domain.CatalogUseCase) *CatalogHandler {
	handler := &CatalogHandler{CatalogUseCase}
	return handler
}

// HandleListCatalog full catalog, optional ?kind= filter
func (ch *CatalogHandler) HandleListCatalog(c echo.Context) (err error) {
	kind := c.QueryParam("kind")

	items, err := ch.catalogUseCase.ListCatalog(c.Request().Context(), kind)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NewSuccessEnvelope(items))
}

// HandleGetItem single catalog item by id
func (ch *CatalogHandler) HandleGetItem(c echo.Context) (err error) {
	raw := c.Param("item_id")
	itemID, err := strconv.Atoi(raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewValidationEnvelope([]*validate.FieldError{
			validate.NewFieldError("item_id", "item_id must be an integer"),
		}))
	}

	item, err := ch.catalogUseCase.GetItem(c.Request().Context(), itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NewSuccessEnvelope(item))
}
