package httpapi

import (
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"

	"github.com/yhjeon/assemblybook/internal/book"
)

// putCounting records the counted quantity of one denomination for one
// service slot.
func (s *Server) putCounting(w http.ResponseWriter, r *http.Request) {
	day := book.Day(chi.URLParam(r, "day"))
	slot := book.Slot(chi.URLParam(r, "slot"))
	denom, err := strconv.ParseInt(chi.URLParam(r, "denom"), 10, 64)
	if err != nil {
		badRequest(w, "invalid denomination")
		return
	}
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if err := s.svc.SetCounting(r.Context(), day, slot, denom, int64(req.Quantity)); err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, s.svc.Summary())
}

// putAttendance records the headcount for one service slot.
func (s *Server) putAttendance(w http.ResponseWriter, r *http.Request) {
	day := book.Day(chi.URLParam(r, "day"))
	slot := book.Slot(chi.URLParam(r, "slot"))
	var req attendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if err := s.svc.SetAttendance(r.Context(), day, slot, int64(req.Count)); err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, s.svc.Summary())
}

// putManualCount records one denomination of the manual cash recount.
func (s *Server) putManualCount(w http.ResponseWriter, r *http.Request) {
	denom, err := strconv.ParseInt(chi.URLParam(r, "denom"), 10, 64)
	if err != nil {
		badRequest(w, "invalid denomination")
		return
	}
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if err := s.svc.SetManualCount(r.Context(), denom, int64(req.Quantity)); err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, s.svc.Summary())
}
