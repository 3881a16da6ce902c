package storeserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusroom/internal/storeserver"
	"github.com/ayoisaiah/focusroom/internal/testutil"
	"github.com/ayoisaiah/focusroom/store"
)

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupTestEngine(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	return storeserver.New(
		testutil.NewBolt(t),
		store.NewDirAssets(
			filepath.Join(t.TempDir(), "assets"),
			"http://example.test/assets",
		),
		store.NewTokens("test-secret", time.Hour),
		nil,
	)
}

func requestJSON(
	t *testing.T,
	engine http.Handler,
	method, path, token string,
	body any,
) (int, []byte) {
	t.Helper()

	var r io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)

		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	return rec.Code, rec.Body.Bytes()
}

func registerUser(t *testing.T, engine http.Handler, email string) storeserver.AuthResponse {
	t.Helper()

	status, raw := requestJSON(
		t,
		engine,
		http.MethodPost,
		"/auth/signup",
		"",
		map[string]string{"email": email, "password": "123456"},
	)
	require.Equal(t, http.StatusCreated, status, string(raw))

	var resp storeserver.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &resp))

	return resp
}

func decodeError(t *testing.T, raw []byte) errorEnvelope {
	t.Helper()

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(raw, &env))

	return env
}

func TestHealth(t *testing.T) {
	engine := setupTestEngine(t)

	status, _ := requestJSON(t, engine, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAuth(t *testing.T) {
	engine := setupTestEngine(t)

	user := registerUser(t, engine, "Ada@Example.com")
	assert.Equal(t, "ada@example.com", user.User.Email)
	assert.NotEmpty(t, user.Token)

	status, raw := requestJSON(
		t,
		engine,
		http.MethodPost,
		"/auth/signup",
		"",
		map[string]string{"email": "ada@example.com", "password": "123456"},
	)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, store.ErrEmailTaken.Error(), decodeError(t, raw).Error.Message)

	status, raw = requestJSON(
		t,
		engine,
		http.MethodPost,
		"/auth/signin",
		"",
		map[string]string{"email": "ada@example.com", "password": "wrong!"},
	)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", decodeError(t, raw).Error.Code)

	status, _ = requestJSON(t, engine, http.MethodGet, "/auth/user", user.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = requestJSON(
		t,
		engine,
		http.MethodPut,
		"/auth/password",
		user.Token,
		map[string]string{"password": "abcdef"},
	)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = requestJSON(
		t,
		engine,
		http.MethodPost,
		"/auth/signin",
		"",
		map[string]string{"email": "ada@example.com", "password": "abcdef"},
	)
	assert.Equal(t, http.StatusOK, status)
}

func TestAuthRequired(t *testing.T) {
	engine := setupTestEngine(t)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "missing header", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, raw := requestJSON(t, engine, http.MethodGet, "/rooms", tc.token, nil)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "unauthorized", decodeError(t, raw).Error.Code)
		})
	}
}

func TestProfilesOwnOnly(t *testing.T) {
	engine := setupTestEngine(t)

	ada := registerUser(t, engine, "ada@example.com")
	bob := registerUser(t, engine, "bob@example.com")

	status, _ := requestJSON(
		t,
		engine,
		http.MethodPost,
		"/profiles",
		ada.Token,
		store.Profile{ID: ada.User.ID, Username: "ada"},
	)
	require.Equal(t, http.StatusCreated, status)

	status, raw := requestJSON(
		t,
		engine,
		http.MethodPut,
		"/profiles/"+ada.User.ID,
		bob.Token,
		store.Profile{Username: "mallory"},
	)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, store.ErrForbidden.Error(), decodeError(t, raw).Error.Message)

	status, raw = requestJSON(
		t,
		engine,
		http.MethodGet,
		"/profiles?id="+ada.User.ID+","+bob.User.ID,
		bob.Token,
		nil,
	)
	require.Equal(t, http.StatusOK, status)

	var profiles []store.Profile
	require.NoError(t, json.Unmarshal(raw, &profiles))
	assert.Equal(t, []store.Profile{{ID: ada.User.ID, Username: "ada"}}, profiles)

	status, _ = requestJSON(t, engine, http.MethodGet, "/profiles/"+bob.User.ID, bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRoomsAndInvitations(t *testing.T) {
	engine := setupTestEngine(t)

	ada := registerUser(t, engine, "ada@example.com")
	bob := registerUser(t, engine, "bob@example.com")

	status, raw := requestJSON(
		t,
		engine,
		http.MethodPost,
		"/rooms",
		ada.Token,
		map[string]string{"name": "Study"},
	)
	require.Equal(t, http.StatusCreated, status)

	var room store.Room
	require.NoError(t, json.Unmarshal(raw, &room))

	status, _ = requestJSON(
		t,
		engine,
		http.MethodPost,
		"/room_users",
		ada.Token,
		map[string]string{"room_id": room.ID, "user_id": ada.User.ID},
	)
	require.Equal(t, http.StatusCreated, status)

	status, raw = requestJSON(
		t,
		engine,
		http.MethodPost,
		"/invitations",
		ada.Token,
		store.Invitation{RoomID: room.ID, ToUserEmail: "BOB@example.com"},
	)
	require.Equal(t, http.StatusCreated, status)

	var inv store.Invitation
	require.NoError(t, json.Unmarshal(raw, &inv))
	assert.Equal(t, ada.User.ID, inv.FromUser)
	assert.Equal(t, store.StatusPending, inv.Status)

	status, raw = requestJSON(
		t,
		engine,
		http.MethodGet,
		"/invitations?to_user_email=bob@example.com&status=pending",
		bob.Token,
		nil,
	)
	require.Equal(t, http.StatusOK, status)

	var invs []store.Invitation
	require.NoError(t, json.Unmarshal(raw, &invs))
	require.Len(t, invs, 1)
	assert.Equal(t, inv.ID, invs[0].ID)

	status, _ = requestJSON(
		t,
		engine,
		http.MethodPatch,
		"/invitations/"+inv.ID,
		bob.Token,
		map[string]string{"status": "accepted"},
	)
	require.Equal(t, http.StatusOK, status)

	status, raw = requestJSON(
		t,
		engine,
		http.MethodPatch,
		"/invitations/"+inv.ID,
		bob.Token,
		map[string]string{"status": "rejected"},
	)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(
		t,
		store.ErrInvalidTransition.Error(),
		decodeError(t, raw).Error.Message,
	)

	status, raw = requestJSON(
		t,
		engine,
		http.MethodDelete,
		"/room_users",
		ada.Token,
		nil,
	)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, store.ErrInvalidFilter.Error(), decodeError(t, raw).Error.Message)

	for _, query := range []string{
		"room_id=" + room.ID + "&user_id=" + ada.User.ID,
		"room_id=" + room.ID,
	} {
		status, raw = requestJSON(
			t,
			engine,
			http.MethodDelete,
			"/room_users?"+query,
			bob.Token,
			nil,
		)
		assert.Equal(t, http.StatusForbidden, status, query)
		assert.Equal(t, store.ErrForbidden.Error(), decodeError(t, raw).Error.Message)
	}

	status, raw = requestJSON(
		t,
		engine,
		http.MethodDelete,
		"/room_users?room_id="+room.ID+"&user_id="+ada.User.ID,
		ada.Token,
		nil,
	)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deleted":1}`, string(raw))

	status, raw = requestJSON(t, engine, http.MethodGet, "/rooms?id="+room.ID, ada.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id":"`+room.ID+`","name":"Study"}]`, string(raw))

	status, raw = requestJSON(t, engine, http.MethodGet, "/room_users?room_id="+room.ID, ada.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestAssets(t *testing.T) {
	engine := setupTestEngine(t)

	ada := registerUser(t, engine, "ada@example.com")

	upload := func(path string, upsert bool) int {
		target := "/assets/" + path
		if upsert {
			target += "?upsert=true"
		}

		req := httptest.NewRequest(http.MethodPut, target, strings.NewReader("png"))
		req.Header.Set("Authorization", "Bearer "+ada.Token)

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, upload("avatars/ada.png", false))
	assert.Equal(t, http.StatusConflict, upload("avatars/ada.png", false))
	assert.Equal(t, http.StatusCreated, upload("avatars/ada.png", true))

	req := httptest.NewRequest(http.MethodGet, "/assets/avatars/ada.png", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())

	status, _ := requestJSON(
		t,
		engine,
		http.MethodDelete,
		"/assets/avatars/ada.png",
		ada.Token,
		nil,
	)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = requestJSON(t, engine, http.MethodGet, "/assets/avatars/ada.png", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
