package errors

import (
	"encoding/json"
	"net/http"
)

// errorResponse es la forma JSON de un error hacia el cliente.
type errorResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
// Maneja automáticamente errores de tipo *AppError y errores genéricos.
// Si el error trae RedirectTo, también se expone en X-Redirect-To.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:       appErr.Code,
		Message:    appErr.Message,
		Detail:     appErr.Detail,
		RedirectTo: appErr.RedirectTo,
	}

	if appErr.RedirectTo != "" {
		w.Header().Set("X-Redirect-To", appErr.RedirectTo)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)

	_ = json.NewEncoder(w).Encode(resp)
}
