package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Alpha","extra":1}`))
	r.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	assert.True(t, ReadJSON(rr, r, &dst))
	assert.Equal(t, "Alpha", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	r.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	assert.False(t, ReadJSON(rr, r, &dst))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_JSON")

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`name=x`))
	rr = httptest.NewRecorder()
	assert.False(t, ReadJSON(rr, r, &dst))
	assert.Contains(t, rr.Body.String(), "INVALID_FORMAT")
}

func TestETag_NotModified(t *testing.T) {
	tag := ETag([]byte(`{"group":null}`))
	assert.Len(t, tag, 18)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, NotModified(r, tag))
	r.Header.Set("If-None-Match", `"other", `+tag)
	assert.True(t, NotModified(r, tag))
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=20&bad=x", nil)
	assert.Equal(t, 20, QueryInt(r, "limit", 100))
	assert.Equal(t, 100, QueryInt(r, "bad", 100))
	assert.Equal(t, 7, QueryInt(r, "missing", 7))
}
