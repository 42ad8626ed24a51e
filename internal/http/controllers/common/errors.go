// Package common tiene helpers compartidos por los controllers de todos los portales.
package common

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	httperrors "github.com/dropDatabas3/tasktrack/internal/http/errors"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
	authsvc "github.com/dropDatabas3/tasktrack/internal/http/services/auth"
	clientsvc "github.com/dropDatabas3/tasktrack/internal/http/services/client"
	svccommon "github.com/dropDatabas3/tasktrack/internal/http/services/common"
)

// MapError traduce errores de services a AppError.
func MapError(err error) *httperrors.AppError {
	var weak *svccommon.WeakPasswordError
	switch {
	case errors.As(err, &weak):
		return httperrors.ErrPasswordTooWeak.WithDetail(strings.Join(weak.Reasons, ", "))
	case errors.Is(err, svccommon.ErrNoFieldsToUpdate):
		return httperrors.ErrNoFieldsToUpdate
	case errors.Is(err, clientsvc.ErrWorkspaceUnavailable):
		return httperrors.ErrWorkspaceUnavailable.WithRedirect(mw.NoGroupsPath)

	// auth: nunca se distingue usuario inexistente de contraseña incorrecta
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return httperrors.ErrInvalidCredentials
	case errors.Is(err, authsvc.ErrMissingFields):
		return httperrors.ErrMissingFields
	case errors.Is(err, authsvc.ErrRateLimited):
		return httperrors.ErrRateLimitExceeded

	case errors.Is(err, repository.ErrNotFound):
		return httperrors.ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return httperrors.ErrConflict.WithDetail(svccommon.Reason(err))
	case errors.Is(err, repository.ErrInvalidInput):
		return httperrors.ErrBadRequest.WithDetail(svccommon.Reason(err))
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}

// WriteError escribe el error mapeado. Para rate limit agrega Retry-After.
func WriteError(w http.ResponseWriter, err error) {
	var limited *authsvc.RateLimitedError
	if errors.As(err, &limited) {
		secs := int(math.Ceil(limited.RetryAfter.Seconds()))
		if secs < 1 {
			secs = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	httperrors.WriteError(w, MapError(err))
}

// IsServerError reporta si el error no es uno de negocio conocido (para decidir
// si loguearlo como Error).
func IsServerError(err error) bool {
	return MapError(err).HTTPStatus >= http.StatusInternalServerError
}
