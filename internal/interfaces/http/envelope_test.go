package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatusCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"missing parameter", domain.NewMissingParameterError("user_id"), http.StatusBadRequest},
		{"invalid status", domain.NewInvalidStatusError("DONE"), http.StatusBadRequest},
		{"not found", domain.NewNotFoundError("notification", "n1"), http.StatusNotFound},
		{"data integrity", domain.NewDataIntegrityError("item_id", "abc"), http.StatusInternalServerError},
		{"store unavailable", domain.NewStoreUnavailableError("progress.Upsert", errors.New("down")), http.StatusInternalServerError},
		{"duplicated user", domain.ErrDuplicatedUser, http.StatusConflict},
		{"duplicated friendship", domain.ErrDuplicatedFriendship, http.StatusConflict},
		{"no such user", domain.ErrNoSuchUser, http.StatusUnauthorized},
		{"self friendship", domain.ErrSelfFriendship, http.StatusBadRequest},
		{"too many retry", domain.ErrUserTooManyRetry, http.StatusForbidden},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("handler: %w", domain.NewNotFoundError("friend request", "f1")), http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, statusCodeOf(tc.err))
		})
	}
}

func TestEnvelopeShape(t *testing.T) {
	success := NewSuccessEnvelope([]int{1, 2})
	assert.Equal(t, "success", success.Status)
	assert.Empty(t, success.Message)
	assert.Empty(t, success.Error)

	failure := NewErrorEnvelope("boom")
	assert.Equal(t, "error", failure.Status)
	assert.Equal(t, "boom", failure.Error)
	assert.Nil(t, failure.Data)
}
