package http

import (
	"net/http"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/auth"
	"github.com/devtrail/devtrail/internal/infrastructure/validate"
	"github.com/labstack/echo/v4"
)

type ProgressHandler struct {
	progressUseCase domain.ProgressUseCase
	jwtUtil         *auth.JWTUtil
	validator       validate.Validator
}

func NewProgressHandler(
	ProgressUseCase domain.ProgressUseCase,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *ProgressHandler {
	handler := &ProgressHandler{ProgressUseCase, JWTUtil, Validator}
	return handler
}

// updateStatusPost request body of HandleUpdateStatus
type updateStatusPost struct {
	UserID string `json:"user_id" validate:"required"`
	ItemID int    `json:"item_id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

// HandleGetProgressView merged catalog/status view for the user in the path.
// An empty user id is the anonymous browsing case and yields the catalog with
// every item NOT_STARTED.
func (ph *ProgressHandler) HandleGetProgressView(c echo.Context) (err error) {
	userID := c.Param("user_id")

	view, err := ph.progressUseCase.GetProgressView(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NewSuccessEnvelope(view))
}

// HandleGetOwnProgressView same view, user taken from the session token
func (ph *ProgressHandler) HandleGetOwnProgressView(c echo.Context) (err error) {
	claims := ph.jwtUtil.GetContextToken(c)

	view, err := ph.progressUseCase.GetProgressView(c.Request().Context(), claims.UID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NewSuccessEnvelope(view))
}

// HandleUpdateStatus upsert the status of one (user, item) pair
func (ph *ProgressHandler) HandleUpdateStatus(c echo.Context) (err error) {
	post := new(updateStatusPost)
	if err = c.Bind(post); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorEnvelope("Failed to bind status update"))
	}

	if fields := ph.validator.Struct(post); fields != nil {
		return c.JSON(http.StatusBadRequest, NewValidationEnvelope(fields))
	}
	if fields := ph.validator.OneOf("status", post.Status,
		string(domain.StatusNotStarted), string(domain.StatusInProgress), string(domain.StatusCompleted)); fields != nil {
		return c.JSON(http.StatusBadRequest, NewValidationEnvelope(fields))
	}

	status, err := domain.ParseProgressStatus(post.Status)
	if err != nil {
		return respondError(c, err)
	}
	if err := ph.progressUseCase.SetStatus(c.Request().Context(), post.UserID, post.ItemID, status); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NewSuccessMessageEnvelope("Status updated"))
}

// HandleResetProgress delete every progress record of the user, idempotent
func (ph *ProgressHandler) HandleResetProgress(c echo.Context) (err error) {
	userID := c.Param("user_id")
	if fields := ph.validator.Empty("user_id", userID); fields != nil {
		return c.JSON(http.StatusBadRequest, NewValidationEnvelope(fields))
	}

	if err := ph.progressUseCase.ResetProgress(c.Request().Context(), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NewSuccessMessageEnvelope("Progress reset"))
}
