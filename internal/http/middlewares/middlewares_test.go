package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	authsvc "github.com/dropDatabas3/tasktrack/internal/http/services/auth"
	tokens "github.com/dropDatabas3/tasktrack/internal/security/token"
	"github.com/dropDatabas3/tasktrack/internal/store/adapters/memory"
)

type fakeValidator struct {
	p   repository.Principal
	err error
}

func (f fakeValidator) Validate(_ context.Context, _ string, portal types.Portal) (repository.Principal, *tokens.Session, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.p, &tokens.Session{PrincipalID: f.p.PrincipalID(), Portal: portal}, nil
}

type denyAll struct{}

func (denyAll) Allow(repository.Principal, string, string) bool { return false }

type fixedGroup struct{ g *repository.Group }

func (f fixedGroup) Active(context.Context) (*repository.Group, error) { return f.g, nil }

func newRecorder() (*audit.Recorder, repository.AuditRepository) {
	repo := memory.New().Audit()
	return audit.New(repo), repo
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

func clientPrincipal() repository.Principal {
	return repository.FromRecord(&repository.PrincipalRecord{ID: "c-1", DisplayName: "Ana", Role: types.RoleClient})
}

func TestRequirePortal_MissingToken(t *testing.T) {
	rec, _ := newRecorder()
	h := RequirePortal(fakeValidator{p: clientPrincipal()}, rec, types.PortalAdmin)(okHandler)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/groups", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "/admin/login", rr.Header().Get("X-Redirect-To"))
	assert.Equal(t, "TOKEN_MISSING", decode(t, rr)["code"])
}

func TestRequirePortal_WrongPortalRedirectsToLogin(t *testing.T) {
	rec, repo := newRecorder()
	h := RequirePortal(fakeValidator{err: authsvc.ErrWrongPortal}, rec, types.PortalAdmin)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/admin/groups", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "/admin/login", rr.Header().Get("X-Redirect-To"))

	entries, err := repo.Query(context.Background(), repository.AuditFilter{Action: audit.EventUnauthorizedAttempt}, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRequirePortal_SetsPrincipal(t *testing.T) {
	rec, _ := newRecorder()
	var got repository.Principal
	h := RequirePortal(fakeValidator{p: clientPrincipal()}, rec, types.PortalClient)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetPrincipal(r.Context())
		assert.NotNil(t, GetClient(r.Context()))
		assert.Nil(t, GetAdmin(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/client/board?access_token=abc", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "c-1", got.PrincipalID())
}

func TestRequirePermission_Forbidden(t *testing.T) {
	rec, repo := newRecorder()
	h := Chain(okHandler,
		RequirePortal(fakeValidator{p: clientPrincipal()}, rec, types.PortalClient),
		RequirePermission(denyAll{}, rec, "groups", "write"),
	)

	req := httptest.NewRequest(http.MethodPost, "/client/groups", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, ForbiddenPath, rr.Header().Get("X-Redirect-To"))

	entries, err := repo.Query(context.Background(), repository.AuditFilter{Action: audit.EventForbiddenAccess}, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].ActorID)
	assert.Equal(t, "c-1", *entries[0].ActorID)
}

func TestRequireActiveWorkspace(t *testing.T) {
	rec, repo := newRecorder()

	blocked := RequireActiveWorkspace(fixedGroup{}, rec)(okHandler)
	rr := httptest.NewRecorder()
	blocked.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/client/board", nil))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, NoGroupsPath, rr.Header().Get("X-Redirect-To"))
	assert.Equal(t, "WORKSPACE_UNAVAILABLE", decode(t, rr)["code"])

	entries, err := repo.Query(context.Background(), repository.AuditFilter{Action: audit.EventUnauthorizedGroupAccess}, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	g := &repository.Group{ID: "g-1", Name: "Alpha", IsPublic: true}
	var seen *repository.Group
	open := RequireActiveWorkspace(fixedGroup{g: g}, rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetActiveGroup(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	rr = httptest.NewRecorder()
	open.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/client/board", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, g, seen)
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "bad id with spaces")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.NotEqual(t, "bad id with spaces", seen)
	assert.Len(t, seen, 36)
}

func TestWithThrottle(t *testing.T) {
	h := WithThrottle(ThrottleConfig{RequestsPerSecond: 1, Burst: 2, IdleTTL: time.Minute})(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
		if rr.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, rr.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	// otra IP tiene su propio bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestWithThrottle_ForwardedForNeedsTrustedProxy(t *testing.T) {
	send := func(h http.Handler, xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:5555"
		req.Header.Set("X-Forwarded-For", xff)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	// sin proxy de confianza, rotar el header no abre buckets nuevos
	h := WithThrottle(ThrottleConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute})(okHandler)
	assert.Equal(t, http.StatusNoContent, send(h, "1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, send(h, "2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, send(h, "3.3.3.3"))

	// detrás de un proxy, cada IP reenviada tiene su bucket
	h = WithThrottle(ThrottleConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute, TrustForwardedFor: true})(okHandler)
	assert.Equal(t, http.StatusNoContent, send(h, "1.1.1.1"))
	assert.Equal(t, http.StatusNoContent, send(h, "2.2.2.2, 10.0.0.9"))
	assert.Equal(t, http.StatusTooManyRequests, send(h, "1.1.1.1"))
}

func TestWithRecover(t *testing.T) {
	h := WithRecover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
