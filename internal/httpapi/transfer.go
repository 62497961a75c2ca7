package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yhjeon/assemblybook/internal/book"
)

// getDocument returns the full ledger document.
func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, s.svc.Document())
}

// exportDocument serves the document as a pretty-printed JSON download.
func (s *Server) exportDocument(w http.ResponseWriter, r *http.Request) {
	doc := s.svc.Document()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.log.Error("export marshal failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "export failed", "internal")
		return
	}
	name := fmt.Sprintf("assembly_finance_%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// importDocument replaces the whole document with the posted JSON. A parse
// failure leaves the current document untouched. Unknown fields are ignored
// so older exports keep importing.
func (s *Server) importDocument(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		badRequest(w, "read failed: "+err.Error())
		return
	}
	var doc book.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if err := s.svc.Replace(r.Context(), doc); err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, s.svc.Summary())
}

// resetDocument restores the seeded empty document.
func (s *Server) resetDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reset(r.Context()); err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, s.svc.Summary())
}
