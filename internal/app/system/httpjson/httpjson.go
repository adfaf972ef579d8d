// internal/app/system/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anvarov/qmshub/internal/app/system/inputval"
)

// Write sends v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK sends v as JSON with 200.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Created sends v as JSON with 201.
func Created(w http.ResponseWriter, v any) {
	Write(w, http.StatusCreated, v)
}

// Error sends the API error envelope: {"status":"error","message":...}.
// Validation errors additionally carry per-field messages.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, map[string]any{
		"status":  "error",
		"message": message,
	})
}

// BindError maps a Bind/Check failure to 400 with field details when
// available.
func BindError(w http.ResponseWriter, err error) {
	var verr *inputval.ValidationError
	if errors.As(err, &verr) {
		Write(w, http.StatusBadRequest, map[string]any{
			"status":  "error",
			"message": "validation failed",
			"fields":  verr.Fields,
		})
		return
	}
	Error(w, http.StatusBadRequest, err.Error())
}

// NotFound sends the standard 404 envelope.
func NotFound(w http.ResponseWriter, what string) {
	Error(w, http.StatusNotFound, what+" not found")
}

// List sends the standard paginated list envelope.
func List(w http.ResponseWriter, items any, total int64, skip, limit int64) {
	Write(w, http.StatusOK, map[string]any{
		"status": "success",
		"items":  items,
		"total":  total,
		"skip":   skip,
		"limit":  limit,
	})
}
