package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yhjeon/assemblybook/internal/book"
)

type bankRecordResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Amount  int64  `json:"amount"`
	Display string `json:"display"`
	Date    string `json:"date"`
}

func toBankRecordResponse(rec book.BankRecord) bankRecordResponse {
	return bankRecordResponse{
		ID:      rec.ID.String(),
		Type:    string(rec.Type),
		Name:    rec.Name,
		Amount:  rec.Amount,
		Display: book.Won(rec.Amount),
		Date:    rec.Date,
	}
}

// postBankRecord books a deposit or a withdrawal. Deposits carry a free name
// and amount; withdrawals name a personal category and take its full total.
func (s *Server) postBankRecord(w http.ResponseWriter, r *http.Request) {
	var req postBankRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	switch req.Type {
	case book.BankDeposit:
		rec, err := s.svc.AddBankDeposit(r.Context(), req.Name, int64(req.Amount))
		if err != nil {
			serviceErr(w, err)
			return
		}
		toJSON(w, http.StatusCreated, toBankRecordResponse(rec))
	case book.BankWithdraw:
		rec, err := s.svc.AddBankWithdrawal(r.Context(), req.Category)
		if err != nil {
			serviceErr(w, err)
			return
		}
		toJSON(w, http.StatusCreated, toBankRecordResponse(rec))
	default:
		badRequest(w, "type must be deposit or withdraw")
	}
}

func (s *Server) deleteBankRecord(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid record id")
		return
	}
	if err := s.svc.RemoveBankRecord(r.Context(), id); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
