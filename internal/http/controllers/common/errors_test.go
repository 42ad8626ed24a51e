package common

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	authsvc "github.com/dropDatabas3/tasktrack/internal/http/services/auth"
	clientsvc "github.com/dropDatabas3/tasktrack/internal/http/services/client"
	svccommon "github.com/dropDatabas3/tasktrack/internal/http/services/common"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
		detail string
	}{
		{"credentials", authsvc.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", ""},
		{"rate limited", &authsvc.RateLimitedError{RetryAfter: time.Minute}, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", ""},
		{"not found", fmt.Errorf("get: %w", repository.ErrNotFound), http.StatusNotFound, "NOT_FOUND", ""},
		{"conflict", svccommon.Conflict("group name already exists"), http.StatusBadRequest, "CONFLICT", "group name already exists"},
		{"invalid", svccommon.Invalid("title is required"), http.StatusBadRequest, "BAD_REQUEST", "title is required"},
		{"weak", &svccommon.WeakPasswordError{Reasons: []string{"too_short"}}, http.StatusBadRequest, "PASSWORD_TOO_WEAK", "too_short"},
		{"empty update", svccommon.ErrNoFieldsToUpdate, http.StatusBadRequest, "NO_FIELDS_TO_UPDATE", ""},
		{"workspace", clientsvc.ErrWorkspaceUnavailable, http.StatusConflict, "WORKSPACE_UNAVAILABLE", ""},
		{"store down", fmt.Errorf("pg: boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError(tc.err)
			assert.Equal(t, tc.status, got.HTTPStatus)
			assert.Equal(t, tc.code, got.Code)
			assert.Equal(t, tc.detail, got.Detail)
		})
	}
}

func TestWriteError_RetryAfter(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, &authsvc.RateLimitedError{RetryAfter: 90*time.Second + 300*time.Millisecond})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "91", rr.Header().Get("Retry-After"))
}
