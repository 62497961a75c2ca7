package httpapi

import (
	"errors"
	"net/http"

	"github.com/yhjeon/assemblybook/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "") }
func notFound(w http.ResponseWriter)               { writeErr(w, http.StatusNotFound, "not_found", "not_found") }

// serviceErr maps service-layer sentinels onto HTTP statuses.
func serviceErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		notFound(w)
	case errors.Is(err, errs.ErrInvalid):
		badRequest(w, "invalid request")
	case errors.Is(err, errs.ErrConflict):
		writeErr(w, http.StatusConflict, "conflict", "conflict")
	case errors.Is(err, errs.ErrLinkedDetail):
		writeErr(w, http.StatusConflict, "detail is synced with a personal expense; edit it there", "linked_detail")
	case errors.Is(err, errs.ErrWithdrawalDone):
		writeErr(w, http.StatusConflict, "withdrawal already recorded for this category", "withdrawal_done")
	default:
		writeErr(w, http.StatusInternalServerError, err.Error(), "")
	}
}
