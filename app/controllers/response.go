package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"blogapi/app/middleware"
	"blogapi/app/repositories"
	"blogapi/app/schema"
	"blogapi/app/services"

	"github.com/gorilla/mux"
)

// Helper functions for consistent response handling

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendNoContent(w http.ResponseWriter) {
	w.Header().Del("Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

// sendError maps err onto a status code and writes an ErrorV1 body.
// Messages are fixed per class; unexpected errors are logged and reported
// as 500 without detail.
func sendError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr):
		sendJSON(w, http.StatusBadRequest, schema.ErrorV1{Message: "invalid input", Fields: verr.Fields})
	case errors.Is(err, schema.ErrMalformedBody):
		sendJSON(w, http.StatusBadRequest, schema.ErrorV1{Message: schema.ErrMalformedBody.Error()})
	case errors.Is(err, services.ErrInvalid):
		// The wrapped validator text names internal struct fields.
		logger.Debug("invalid record", "error", err, "path", r.URL.Path)
		sendJSON(w, http.StatusBadRequest, schema.ErrorV1{Message: "invalid input"})
	case errors.Is(err, repositories.ErrNotFound):
		sendJSON(w, http.StatusNotFound, schema.ErrorV1{Message: "not found"})
	default:
		logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
		)
		sendJSON(w, http.StatusInternalServerError, schema.ErrorV1{Message: "internal server error"})
	}
}

// pathID reads the {id} route variable. Ids that do not fit an int cannot
// exist, so they read as ErrNotFound.
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, repositories.ErrNotFound
	}
	return id, nil
}
