package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/auth"
	"github.com/devtrail/devtrail/internal/infrastructure/validate"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProgressUseCase struct {
	view      []*domain.ProgressViewItem
	viewErr   error
	setErr    error
	resetErr  error
	gotUserID string
	gotItemID int
	gotStatus domain.ProgressStatus
}

func (f *fakeProgressUseCase) GetProgressView(ctx context.Context, userID string) ([]*domain.ProgressViewItem, error) {
	f.gotUserID = userID
	return f.view, f.viewErr
}

func (f *fakeProgressUseCase) SetStatus(ctx context.Context, userID string, itemID int, status domain.ProgressStatus) error {
	f.gotUserID = userID
	f.gotItemID = itemID
	f.gotStatus = status
	return f.setErr
}

func (f *fakeProgressUseCase) ResetProgress(ctx context.Context, userID string) error {
	f.gotUserID = userID
	return f.resetErr
}

func newProgressTestHandler(uc domain.ProgressUseCase) (*ProgressHandler, *auth.JWTUtil) {
	jwtUtil := auth.NewJWTUtil("HS256", "test-secret", "token", time.Minute)
	return NewProgressHandler(uc, jwtUtil, validate.NewValidator()), jwtUtil
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) *Envelope {
	t.Helper()
	envelope := new(Envelope)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), envelope))
	return envelope
}

func TestHandleGetProgressView(t *testing.T) {
	uc := &fakeProgressUseCase{view: []*domain.ProgressViewItem{
		{ItemID: 1, Title: "Goroutines", Kind: domain.KindTopic, Status: domain.StatusCompleted},
		{ItemID: 2, Title: "Channels", Kind: domain.KindTopic, Status: domain.StatusNotStarted},
	}}
	handler, _ := newProgressTestHandler(uc)

	app := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := app.NewContext(req, rec)
	c.SetParamNames("user_id")
	c.SetParamValues("u1")

	require.NoError(t, handler.HandleGetProgressView(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", uc.gotUserID)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "success", envelope.Status)
	items := envelope.Data.([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "COMPLETED", first["status"])
}

func TestHandleGetProgressView_Anonymous(t *testing.T) {
	uc := &fakeProgressUseCase{gotUserID: "sentinel"}
	handler, _ := newProgressTestHandler(uc)

	app := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := app.NewContext(req, rec)

	require.NoError(t, handler.HandleGetProgressView(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, uc.gotUserID)
}

func TestHandleGetOwnProgressView(t *testing.T) {
	uc := &fakeProgressUseCase{}
	handler, jwtUtil := newProgressTestHandler(uc)

	app := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := app.NewContext(req, rec)
	jwtUtil.SetContextToken(c, &auth.AppTokenClaims{UID: "session-user"})

	require.NoError(t, handler.HandleGetOwnProgressView(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session-user", uc.gotUserID)
}

func TestHandleUpdateStatus(t *testing.T) {
	uc := &fakeProgressUseCase{}
	handler, _ := newProgressTestHandler(uc)

	app := echo.New()
	body := `{"user_id":"u1","item_id":7,"status":"IN_PROGRESS"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := app.NewContext(req, rec)

	require.NoError(t, handler.HandleUpdateStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", uc.gotUserID)
	assert.Equal(t, 7, uc.gotItemID)
	assert.Equal(t, domain.StatusInProgress, uc.gotStatus)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, "Status updated", envelope.Message)
}

func TestHandleUpdateStatus_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"item_id":7,"status":"COMPLETED"}`},
		{"missing item_id", `{"user_id":"u1","status":"COMPLETED"}`},
		{"missing status", `{"user_id":"u1","item_id":7}`},
		{"unknown status", `{"user_id":"u1","item_id":7,"status":"DONE"}`},
		{"lowercase status", `{"user_id":"u1","item_id":7,"status":"completed"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc := &fakeProgressUseCase{}
			handler, _ := newProgressTestHandler(uc)

			app := echo.New()
			req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tc.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := app.NewContext(req, rec)

			require.NoError(t, handler.HandleUpdateStatus(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, uc.gotUserID, "use case must not be reached")

			envelope := decodeEnvelope(t, rec)
			assert.Equal(t, "error", envelope.Status)
		})
	}
}

func TestHandleUpdateStatus_StoreFailure(t *testing.T) {
	uc := &fakeProgressUseCase{setErr: domain.NewStoreUnavailableError("progress.Upsert", context.DeadlineExceeded)}
	handler, _ := newProgressTestHandler(uc)

	app := echo.New()
	body := `{"user_id":"u1","item_id":7,"status":"COMPLETED"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := app.NewContext(req, rec)

	require.NoError(t, handler.HandleUpdateStatus(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "error", envelope.Status)
	// internals stay hidden, the message only names the failed operation
	assert.NotContains(t, envelope.Error, "deadline")
}

func TestHandleResetProgress(t *testing.T) {
	uc := &fakeProgressUseCase{}
	handler, _ := newProgressTestHandler(uc)

	app := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := app.NewContext(req, rec)
	c.SetParamNames("user_id")
	c.SetParamValues("u1")

	require.NoError(t, handler.HandleResetProgress(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", uc.gotUserID)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Progress reset", envelope.Message)
}

func TestHandleResetProgress_MissingUser(t *testing.T) {
	uc := &fakeProgressUseCase{}
	handler, _ := newProgressTestHandler(uc)

	app := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := app.NewContext(req, rec)

	require.NoError(t, handler.HandleResetProgress(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, uc.gotUserID)
}
