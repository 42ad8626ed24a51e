package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// ETag calcula un ETag estable a partir de bytes.
// Devuelve un ETag fuerte con comillas, usando un hash truncado para hacerlo corto.
func ETag(data []byte) string {
	sum := sha256.Sum256(data)
	// 8 bytes = 16 hex chars
	short := hex.EncodeToString(sum[:8])
	return `"` + short + `"`
}

// NotModified reporta si If-None-Match coincide con etag. Los pollers lo
// usan para no re-descargar un snapshot que no cambió.
func NotModified(r *http.Request, etag string) bool {
	for _, v := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		v = strings.TrimSpace(v)
		if v == etag || v == "*" {
			return true
		}
	}
	return false
}
