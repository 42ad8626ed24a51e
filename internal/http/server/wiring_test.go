package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/tasktrack/internal/config"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	adminsvc "github.com/dropDatabas3/tasktrack/internal/http/services/admin"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Storage.Driver = "memory"
	cfg.Cache.Kind = "memory"
	cfg.Cache.SnapshotTTL = 50 * time.Millisecond
	cfg.Session.SigningSecret = strings.Repeat("s", 32)
	cfg.Session.Issuer = "tasktrack-test"
	cfg.Session.TTL = time.Hour
	cfg.Rate.Backend = "memory"
	cfg.Rate.Login.Limit = 50
	cfg.Rate.Login.Window = time.Minute
	cfg.Propagation.PollInterval = 50 * time.Millisecond
	cfg.Propagation.Bus = "memory"
	cfg.Security.PasswordHash = "bcrypt"
	cfg.Security.BcryptCost = bcrypt.MinCost
	cfg.Security.PasswordPolicy.MinLength = 6
	return cfg
}

type harness struct {
	t      *testing.T
	app    *App
	rootID string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	app, err := Build(context.Background(), testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return &harness{t: t, app: app}
}

func (h *harness) do(method, path, token string, body any, hdr ...string) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	h.app.Handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(portal, login, pass string) string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/v1/"+portal+"/login", "", map[string]string{"login": login, "password": pass})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(h.t, out.AccessToken)
	return out.AccessToken
}

func decodeID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

func (h *harness) seedAdmin() string {
	h.t.Helper()
	login := "root@tasktrack.io"
	root, err := h.app.Services.Admin.Principals.Create(context.Background(), adminsvc.CreatePrincipal{
		DisplayName: "Root",
		Login:       &login,
		Password:    "rootpass",
		Role:        types.RoleAdmin,
		IsAdmin:     true,
	})
	require.NoError(h.t, err)
	h.rootID = root.PrincipalID()
	return h.login("admin", login, "rootpass")
}

func TestBuild_AdminAccountsOnlyEditableByPrimary(t *testing.T) {
	h := newHarness(t)
	rootTok := h.seedAdmin()

	rec := h.do(http.MethodPost, "/v1/admin/admins", rootTok, map[string]any{
		"display_name": "Bob",
		"login":        "bob@tasktrack.io",
		"password":     "bobpass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bobID := decodeID(t, rec)
	bobTok := h.login("admin", "bob@tasktrack.io", "bobpass")

	rec = h.do(http.MethodPost, "/v1/admin/admins", bobTok, map[string]any{
		"display_name": "Eve", "login": "eve@tasktrack.io", "password": "evepass",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// la ruta de principals no expone otras cuentas admin
	rec = h.do(http.MethodPatch, "/v1/admin/principals/"+h.rootID, bobTok, map[string]any{"password": "pwned1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = h.do(http.MethodPatch, "/v1/admin/admins/"+h.rootID, bobTok, map[string]any{"password": "pwned1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodPost, "/v1/admin/login", "", map[string]string{"login": "root@tasktrack.io", "password": "pwned1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	h.login("admin", "root@tasktrack.io", "rootpass")

	// la cuenta propia sí se puede editar
	rec = h.do(http.MethodPatch, "/v1/admin/principals/"+bobID, bobTok, map[string]any{"display_name": "Bobby"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Bobby")

	// el primario edita admins por /v1/admin/admins
	rec = h.do(http.MethodPatch, "/v1/admin/admins/"+bobID, rootTok, map[string]any{"password": "newbob1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	h.login("admin", "bob@tasktrack.io", "newbob1")

	rec = h.do(http.MethodPost, "/v1/admin/principals", rootTok, map[string]any{
		"display_name": "Ana", "login": "ana@tasktrack.io", "password": "anapass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = h.do(http.MethodPatch, "/v1/admin/admins/"+decodeID(t, rec), rootTok, map[string]any{"display_name": "Ana B"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuild_PublicGroupsListing(t *testing.T) {
	h := newHarness(t)
	adminTok := h.seedAdmin()

	rec := h.do(http.MethodGet, "/v1/admin/groups/public", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = h.do(http.MethodPost, "/v1/admin/groups", adminTok, map[string]any{"name": "Alpha"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	alphaID := decodeID(t, rec)
	rec = h.do(http.MethodPost, "/v1/admin/groups", adminTok, map[string]any{"name": "Beta"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPost, "/v1/admin/groups/"+alphaID+"/activate", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(http.MethodGet, "/v1/admin/groups/public", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, alphaID, groups[0].ID)

	rec = h.do(http.MethodGet, "/v1/admin/groups/public", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuild_ClientWorkspaceFollowsActivation(t *testing.T) {
	h := newHarness(t)
	adminTok := h.seedAdmin()

	rec := h.do(http.MethodPost, "/v1/admin/groups", adminTok, map[string]any{"name": "Alpha"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	groupID := decodeID(t, rec)

	rec = h.do(http.MethodPost, "/v1/admin/principals", adminTok, map[string]any{
		"display_name": "Ana",
		"login":        "ana@tasktrack.io",
		"password":     "anapass",
		"role":         "client",
		"group_id":     groupID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	clientTok := h.login("client", "ana@tasktrack.io", "anapass")

	// sin grupo activo: workspace informa bloqueo y el tablero redirige
	rec = h.do(http.MethodGet, "/v1/client/workspace", clientTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"blocked":true`)

	rec = h.do(http.MethodGet, "/v1/client/board", clientTok, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "/no-groups", rec.Header().Get("X-Redirect-To"))

	rec = h.do(http.MethodPost, "/v1/admin/groups/"+groupID+"/activate", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Eventually(t, func() bool {
		return h.do(http.MethodGet, "/v1/client/board", clientTok, nil).Code == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	rec = h.do(http.MethodGet, "/v1/client/workspace", clientTok, nil)
	assert.Contains(t, rec.Body.String(), `"blocked":false`)
	assert.Contains(t, rec.Body.String(), groupID)
}

func TestBuild_PortalIsolation(t *testing.T) {
	h := newHarness(t)
	adminTok := h.seedAdmin()

	rec := h.do(http.MethodGet, "/v1/client/workspace", adminTok, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/client/login", rec.Header().Get("X-Redirect-To"))

	rec = h.do(http.MethodGet, "/v1/admin/groups", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// un admin no puede loguearse en el portal cliente
	rec = h.do(http.MethodPost, "/v1/client/login", "", map[string]string{"login": "root@tasktrack.io", "password": "rootpass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuild_PublicSnapshotETag(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/v1/public/active-group", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	rec = h.do(http.MethodGet, "/v1/public/active-group", "", nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestBuild_HealthEndpoints(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"db":"ok"`)

	rec = h.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuild_UnknownRouteIsJSON(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}
