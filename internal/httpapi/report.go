package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/yhjeon/assemblybook/internal/aggregate"
	"github.com/yhjeon/assemblybook/internal/book"
)

func (s *Server) report(editable bool) reportResponse {
	doc := s.svc.Document()
	income := aggregate.TotalOffering(&doc)
	var rows []aggregate.Row
	var total, net int64
	title := "Settlement Report"
	if editable {
		title = "Settlement Report (edited)"
		rows = aggregate.EditableReportRows(&doc)
		total = aggregate.ReportTotal(&doc)
		net = aggregate.ReportNetBalance(&doc)
	} else {
		rows = aggregate.ReportRows(&doc)
		total = aggregate.TotalExpenses(&doc)
		net = aggregate.NetBookBalance(&doc)
	}
	return reportResponse{
		Title:          title,
		Income:         income,
		IncomeDisplay:  book.Won(income),
		Rows:           toRowResponses(rows),
		ExpenseTotal:   total,
		ExpenseDisplay: book.Won(total),
		NetBalance:     net,
		NetDisplay:     book.Won(net),
	}
}

// getReport renders the canonical settlement report.
func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, s.report(false))
}

// getEditableReport renders the report with display overrides applied.
func (s *Server) getEditableReport(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, s.report(true))
}

func (s *Server) putReportOverride(w http.ResponseWriter, r *http.Request) {
	var req putOverrideRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	var amount *int64
	if req.Amount != nil {
		a := int64(*req.Amount)
		amount = &a
	}
	if err := s.svc.SetReportOverride(r.Context(), chi.URLParam(r, "cat"), req.Name, amount); err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, s.report(true))
}

func (s *Server) deleteReportOverride(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ClearReportOverride(r.Context(), chi.URLParam(r, "cat")); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteReportOverrides(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ClearReportOverrides(r.Context()); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
