package http

import (
	"encoding/json"
	"net/http"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/auth"
	"github.com/devtrail/devtrail/internal/infrastructure/validate"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	notificationUseCase domain.NotificationUseCase
	jwtUtil             *auth.JWTUtil
	validator           validate.Validator
}

func NewNotificationHandler(
	NotificationUseCase domain.NotificationUseCase,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *NotificationHandler {
	handler := &NotificationHandler{NotificationUseCase, JWTUtil, Validator}
	return handler
}

// HandleListNotifications notifications of the session user, ?unread=true to filter
func (nh *NotificationHandler) HandleListNotifications(c echo.Context) (err error) {
	claims := nh.jwtUtil.GetContextToken(c)
	unreadOnly := c.QueryParam("unread") == "true"

	items, err := nh.notificationUseCase.List(c.Request().Context(), claims.UID, unreadOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NewSuccessEnvelope(items))
}

// HandleMarkRead mark one notification of the session user read
func (nh *NotificationHandler) HandleMarkRead(c echo.Context) (err error) {
	claims := nh.jwtUtil.GetContextToken(c)
	id := c.Param("id")
	if fields := nh.validator.Empty("id", id); fields != nil {
		return c.JSON(http.StatusBadRequest, NewValidationEnvelope(fields))
	}

	if err := nh.notificationUseCase.MarkRead(c.Request().Context(), claims.UID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NewSuccessMessageEnvelope("Notification marked read"))
}

// HandleUnreadStream websocket loop, answers every client message with the
// current unread count. The heartbeat wrapper owns ping/pong and close.
func (nh *NotificationHandler) HandleUnreadStream(c echo.Context, conn *websocket.Conn) error {
	claims := nh.jwtUtil.GetContextToken(c)

	if _, _, err := conn.ReadMessage(); err != nil {
		return err
	}
	count, err := nh.notificationUseCase.UnreadCount(c.Request().Context(), claims.UID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(map[string]int{"unread": count})
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}
