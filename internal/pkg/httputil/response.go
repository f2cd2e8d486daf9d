// Package httputil provides HTTP response helper functions.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// JSON writes a JSON response.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, statusCode int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Error writes a JSON response with a flat {"error": ...} body.
// The UI consumes this shape, so it stays a plain string.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// ErrorWithDetails writes a JSON response with {"error": ..., "details": ...}.
func ErrorWithDetails(w http.ResponseWriter, status int, message, details string) {
	JSON(w, status, map[string]string{"error": message, "details": details})
}

// ValidationError writes a 400 response describing the first failed field.
// If err is validator.ValidationErrors, the message names that field.
func ValidationError(w http.ResponseWriter, err error) {
	var message string
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		e := validationErrors[0]
		field := jsonFieldName(e.Field())
		switch e.Tag() {
		case "required":
			message = field + " is required"
		default:
			message = field + " has an invalid value"
		}
	} else {
		message = err.Error()
	}

	Error(w, http.StatusBadRequest, message)
}

// jsonFieldName lowercases the first rune so validator field names line up
// with the camelCase wire format.
func jsonFieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
