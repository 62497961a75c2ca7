package httpapi

import (
	"net/http"

	"github.com/yhjeon/assemblybook/internal/narrative"
)

// getSummary returns every derived figure plus the per-day breakdown.
func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, summaryResponse{
		Summary: s.svc.Summary(),
		Days:    s.svc.Breakdown(),
	})
}

// getNarrative returns the free-text stewardship summary. Without a
// configured narrator the fixed fallback is served.
func (s *Server) getNarrative(w http.ResponseWriter, r *http.Request) {
	text := narrative.Fallback
	if s.narrator != nil {
		text = s.narrator.Summarize(r.Context(), s.svc.Summary(), s.svc.EditableReportRows())
	}
	toJSON(w, http.StatusOK, narrativeResponse{Narrative: text})
}
