package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"handwash-backend/application/services"
	"handwash-backend/infrastructure/persistence/memory"
	"handwash-backend/interfaces/http/rest/handlers"
	"handwash-backend/interfaces/http/rest/middleware"
	apperrors "handwash-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := memory.NewStore()
	logger := zap.NewNop()
	errs := apperrors.NewErrorHandler(logger, nil, false)

	families := services.NewFamilyService(store, logger)
	events := services.NewEventService(store, logger)
	push := services.NewPushService(store, logger)
	notifications := services.NewNotificationService(store, push, nil, logger)

	return NewRouter(RouterConfig{
		Families:   handlers.NewFamilyHandler(families, errs, logger),
		Events:     handlers.NewEventHandler(events, errs, logger),
		Push:       handlers.NewPushHandler(push, notifications, errs, logger),
		Profile:    handlers.NewProfileHandler(families, errs, logger),
		Logger:     logger,
		LambdaMode: true,
	})
}

func do(t *testing.T, router http.Handler, method, path, sub string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if sub != "" {
		req.Header.Set(middleware.HeaderAuthSub, sub)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestHealthRoute(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["ok"])
}

func TestRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/families", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, decode(t, rec)["ok"])
}

func TestCreateAndJoinFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/families", "user-owner", map[string]string{"name": "Smiths"})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode(t, rec)
	familyID, _ := created["familyId"].(string)
	inviteCode, _ := created["inviteCode"].(string)
	require.NotEmpty(t, familyID)
	require.NotEmpty(t, inviteCode)

	rec = do(t, router, http.MethodPost, "/families/join", "user-member", map[string]string{"inviteCode": inviteCode})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, familyID, decode(t, rec)["familyId"])

	rec = do(t, router, http.MethodGet, "/families/members?familyId="+familyID, "user-member", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["isOwner"])
	assert.Len(t, body["members"], 2)
}

func TestJoinUnknownCodeIs404(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/families/join", "user-member", map[string]string{"inviteCode": "ZZZZ-ZZZZ"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["ok"])
}

func TestEventRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/families", "user-owner", map[string]string{"name": "Smiths"})
	require.Equal(t, http.StatusOK, rec.Code)
	familyID, _ := decode(t, rec)["familyId"].(string)

	rec = do(t, router, http.MethodPost, "/handwash/events", "user-owner", map[string]interface{}{
		"familyId":    familyID,
		"mode":        "normal",
		"durationSec": 30,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	event, _ := decode(t, rec)["event"].(map[string]interface{})
	assert.NotEmpty(t, event["eventId"])

	rec = do(t, router, http.MethodGet, "/handwash/events?familyId="+familyID, "user-owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["events"], 1)

	// Outsiders get 403.
	rec = do(t, router, http.MethodGet, "/handwash/events?familyId="+familyID, "user-stranger", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestValidationErrorIs400(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/families", "user-owner", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/profile", "user-owner", map[string]string{"displayName": "Sam"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sam", decode(t, rec)["displayName"])

	rec = do(t, router, http.MethodGet, "/me", "user-owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "user-owner", body["sub"])
	assert.Equal(t, "Sam", body["displayName"])
}
