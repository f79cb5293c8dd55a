package http

import (
	"net/http"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/auth"
	"github.com/devtrail/devtrail/internal/infrastructure/validate"
	"github.com/labstack/echo/v4"
)

type FriendshipHandler struct {
	friendshipUseCase domain.FriendshipUseCase
	jwtUtil           *auth.JWTUtil
	validator         validate.Validator
}

func NewFriendshipHandler(
	FriendshipUseCase domain.FriendshipUseCase,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *FriendshipHandler {
	handler := &FriendshipHandler{FriendshipUseCase, JWTUtil, Validator}
	return handler
}

type friendRequestPost struct {
	AddresseeID string `json:"addressee_id" validate:"required"`
}

// HandleSendRequest create a pending friend request from the session user
func (fh *FriendshipHandler) HandleSendRequest(c echo.Context) (err error) {
	claims := fh.jwtUtil.GetContextToken(c)

	post := new(friendRequestPost)
	if err = c.Bind(post); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorEnvelope("Failed to bind friend request"))
	}
	if fields := fh.validator.Struct(post); fields != nil {
		return c.JSON(http.StatusBadRequest, NewValidationEnvelope(fields))
	}

	request, err := fh.friendshipUseCase.SendRequest(c.Request().Context(), claims.UID, post.AddresseeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NewSuccessEnvelope(request))
}

// HandleAcceptRequest accept a pending request addressed to the session user
func (fh *FriendshipHandler) HandleAcceptRequest(c echo.Context) (err error) {
	claims := fh.jwtUtil.GetContextToken(c)
	requestID := c.Param("request_id")
	if fields := fh.validator.Empty("request_id", requestID); fields != nil {
		return c.JSON(http.StatusBadRequest, NewValidationEnvelope(fields))
	}

	if err := fh.friendshipUseCase.AcceptRequest(c.Request().Context(), claims.UID, requestID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NewSuccessMessageEnvelope("Friend request accepted"))
}

// HandleListFriends accepted friendships of the session user
func (fh *FriendshipHandler) HandleListFriends(c echo.Context) (err error) {
	claims := fh.jwtUtil.GetContextToken(c)

	friends, err := fh.friendshipUseCase.ListFriends(c.Request().Context(), claims.UID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NewSuccessEnvelope(friends))
}
