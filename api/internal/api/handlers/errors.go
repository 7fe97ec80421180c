package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/irgordon/stegocrypt/api/internal/core/domain"
)

// errorBody matches what the web client reads from failed responses.
type errorBody struct {
	Detail      string `json:"detail"`
	MaxBytes    int    `json:"max_bytes,omitempty"`
	MessageSize int    `json:"message_size,omitempty"`
}

// HandleError maps domain error kinds to HTTP status codes. Anything it does
// not recognize is logged and reported as a generic 500 so internals never
// reach the client.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		capErr   *domain.CapacityError
		valErrs  validator.ValidationErrors
		tooLarge *http.MaxBytesError
	)

	switch {
	case errors.As(err, &capErr):
		writeJSON(w, http.StatusBadRequest, errorBody{
			Detail: fmt.Sprintf("Message too large. Max capacity: %.2f KB, Message size: %.2f KB",
				float64(capErr.MaxBytes)/1024, float64(capErr.Size)/1024),
			MaxBytes:    capErr.MaxBytes,
			MessageSize: capErr.Size,
		})
	case errors.As(err, &valErrs):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: validationDetail(valErrs)})
	case errors.As(err, &tooLarge), errors.Is(err, errImageTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Detail: "File too large"})
	case errors.Is(err, errNotMultipart):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Invalid form upload"})
	case errors.Is(err, domain.ErrInvalidImage):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Failed to analyze image: " + err.Error()})
	case errors.Is(err, domain.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Message must not be empty"})
	case errors.Is(err, domain.ErrNoMessage):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "No hidden message found in image"})
	case errors.Is(err, domain.ErrDecryptionFailed):
		writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "Wrong password or message was not encrypted with a password"})
	case errors.Is(err, domain.ErrEncryptionFailed):
		slog.Error("Encryption failed", slog.String("request_id", middleware.GetReqID(r.Context())), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "Encryption error"})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Detail: "Request timed out"})
	default:
		slog.Error("Unhandled request error", slog.String("request_id", middleware.GetReqID(r.Context())), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "Internal server error"})
	}
}

func validationDetail(errs validator.ValidationErrors) string {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return "Invalid request: " + strings.Join(fields, ", ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
