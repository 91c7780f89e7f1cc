// Package httputil carries the JSON helpers shared by all HTTP handlers:
// request decoding with validation and the single error envelope every
// endpoint uses.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "crudlandia/pkg/domain-errors"
)

// Validatable is implemented by request DTOs that validate and parse
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// statusByCode maps domain error codes to HTTP status. Codes missing from the
// table are treated as internal.
var statusByCode = map[dErrors.Code]int{
	dErrors.CodeNotFound:             http.StatusNotFound,
	dErrors.CodeReferenceNotFound:    http.StatusNotFound,
	dErrors.CodeNameConflict:         http.StatusConflict,
	dErrors.CodeDuplicateCode:        http.StatusConflict,
	dErrors.CodeDuplicateName:        http.StatusConflict,
	dErrors.CodeVersionConflict:      http.StatusConflict,
	dErrors.CodeConflict:             http.StatusConflict,
	dErrors.CodeInvalidSortColumn:    http.StatusBadRequest,
	dErrors.CodeInvalidSortDirection: http.StatusBadRequest,
	dErrors.CodeValidation:           http.StatusBadRequest,
	dErrors.CodeTimeout:              http.StatusGatewayTimeout,
	dErrors.CodeInternal:             http.StatusInternalServerError,
}

type errorEnvelope struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. Internal
// failures get a generic message so infrastructure detail never leaks out.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		code = dErrors.CodeInternal
		status = http.StatusInternalServerError
	}

	env := errorEnvelope{Error: string(code)}
	if code == dErrors.CodeInternal {
		env.Message = "internal error"
	} else {
		var de *dErrors.Error
		if errors.As(err, &de) {
			env.Message = de.Message
			env.Details = de.Details
		} else {
			env.Message = err.Error()
		}
	}
	WriteJSON(w, status, env)
}

// DecodeAndPrepare decodes the request body into T and runs its validation,
// writing the error response itself on failure.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (PT, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(r.Context(), "failed to decode request body", "error", err)
		}
		WriteError(w, dErrors.New(dErrors.CodeValidation, "malformed request body"))
		return nil, false
	}
	pt := PT(&req)
	if err := pt.Validate(); err != nil {
		WriteError(w, err)
		return nil, false
	}
	return pt, true
}
