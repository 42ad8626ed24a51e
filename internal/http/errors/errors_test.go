package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_AppErrorWithRedirect(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, ErrWorkspaceUnavailable.WithRedirect("/no-groups"))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "/no-groups", rr.Header().Get("X-Redirect-To"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "WORKSPACE_UNAVAILABLE", body["code"])
	assert.Equal(t, "/no-groups", body["redirect_to"])
}

func TestWriteError_GenericBecomes500(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("pg: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestWithDetail_DoesNotMutateBase(t *testing.T) {
	e := ErrConflict.WithDetail("group name already exists")
	assert.Equal(t, "group name already exists", e.Detail)
	assert.Empty(t, ErrConflict.Detail)
	assert.Equal(t, http.StatusBadRequest, e.HTTPStatus)
}
