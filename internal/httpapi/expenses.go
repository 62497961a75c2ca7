package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yhjeon/assemblybook/internal/book"
)

// nsParam resolves the {ns} path segment into an expense namespace.
func nsParam(r *http.Request) (book.Namespace, bool) {
	ns := book.Namespace(chi.URLParam(r, "ns"))
	return ns, book.ValidNamespace(ns)
}

func (s *Server) postCategory(w http.ResponseWriter, r *http.Request) {
	ns, ok := nsParam(r)
	if !ok {
		notFound(w)
		return
	}
	var req postCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if err := s.svc.AddCategory(r.Context(), ns, req.Name); err != nil {
		serviceErr(w, err)
		return
	}
	doc := s.svc.Document()
	toJSON(w, http.StatusCreated, doc.Totals(ns))
}

func (s *Server) renameCategory(w http.ResponseWriter, r *http.Request) {
	ns, ok := nsParam(r)
	if !ok {
		notFound(w)
		return
	}
	var req renameCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if err := s.svc.RenameCategory(r.Context(), ns, chi.URLParam(r, "cat"), req.Name); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	ns, ok := nsParam(r)
	if !ok {
		notFound(w)
		return
	}
	if err := s.svc.DeleteCategory(r.Context(), ns, chi.URLParam(r, "cat")); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postDetail(w http.ResponseWriter, r *http.Request) {
	ns, ok := nsParam(r)
	if !ok {
		notFound(w)
		return
	}
	var req postDetailRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	line, err := s.svc.AddDetail(r.Context(), ns, chi.URLParam(r, "cat"), req.Name, int64(req.Amount), req.SyncCategory)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toDetailResponse(line))
}

func (s *Server) patchPersonalDetail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid detail id")
		return
	}
	var req patchDetailRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if err := s.svc.EditPersonalDetail(r.Context(), chi.URLParam(r, "cat"), id, req.Name, int64(req.Amount), req.SyncCategory); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteDetail(w http.ResponseWriter, r *http.Request) {
	ns, ok := nsParam(r)
	if !ok {
		notFound(w)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid detail id")
		return
	}
	if err := s.svc.RemoveDetail(r.Context(), ns, chi.URLParam(r, "cat"), id); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
