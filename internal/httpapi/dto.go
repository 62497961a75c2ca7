package httpapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/yhjeon/assemblybook/internal/aggregate"
	"github.com/yhjeon/assemblybook/internal/book"
)

// flexInt accepts an amount or quantity as a JSON number or free-text
// string. Non-numeric or empty input coerces to zero, mirroring the uniform
// input policy; it never rejects.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*f = 0
			return nil
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexInt(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	// Fractional numbers truncate toward zero.
	var fl float64
	if err := json.Unmarshal(b, &fl); err == nil {
		*f = flexInt(fl)
		return nil
	}
	*f = 0
	return nil
}

type postCategoryRequest struct {
	Name string `json:"name"`
}

type renameCategoryRequest struct {
	Name string `json:"name"`
}

type quantityRequest struct {
	Quantity flexInt `json:"quantity"`
}

type attendanceRequest struct {
	Count flexInt `json:"count"`
}

type postDetailRequest struct {
	Name   string  `json:"name"`
	Amount flexInt `json:"amount"`
	// SyncCategory mirrors a personal line into an institutional category.
	// Ignored for the institutional namespace.
	SyncCategory string `json:"sync_category,omitempty"`
}

type patchDetailRequest struct {
	Name   string  `json:"name"`
	Amount flexInt `json:"amount"`
	// SyncCategory keeps, moves, or (when empty) disconnects the line's
	// institutional mirror.
	SyncCategory string `json:"sync_category,omitempty"`
}

type postBankRecordRequest struct {
	Type   book.BankType `json:"type"`
	Name   string        `json:"name,omitempty"`
	Amount flexInt       `json:"amount,omitempty"`
	// Category selects the personal category a withdrawal settles.
	Category string `json:"category,omitempty"`
}

type putOverrideRequest struct {
	Name   *string  `json:"name,omitempty"`
	Amount *flexInt `json:"amount,omitempty"`
}

type detailResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Amount  int64  `json:"amount"`
	Display string `json:"display"`
	Date    string `json:"date,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Linked  bool   `json:"linked"`
}

func toDetailResponse(line book.DetailLine) detailResponse {
	return detailResponse{
		ID:      line.ID.String(),
		Name:    line.Name,
		Amount:  line.Amount,
		Display: book.Won(line.Amount),
		Date:    line.Date,
		Kind:    string(line.Kind),
		Linked:  line.Linked(),
	}
}

type rowResponse struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Display  string `json:"display"`
}

func toRowResponses(rows []aggregate.Row) []rowResponse {
	out := make([]rowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowResponse{
			Category: row.Category,
			Name:     row.Name,
			Amount:   row.Amount,
			Display:  book.Won(row.Amount),
		})
	}
	return out
}

// reportResponse is one rendered settlement report: income, the ordered
// expense table, and the closing balance.
type reportResponse struct {
	Title          string        `json:"title"`
	Income         int64         `json:"income"`
	IncomeDisplay  string        `json:"income_display"`
	Rows           []rowResponse `json:"rows"`
	ExpenseTotal   int64         `json:"expense_total"`
	ExpenseDisplay string        `json:"expense_display"`
	NetBalance     int64         `json:"net_balance"`
	NetDisplay     string        `json:"net_display"`
}

type summaryResponse struct {
	Summary aggregate.Summary        `json:"summary"`
	Days    []aggregate.DayBreakdown `json:"days"`
}

type narrativeResponse struct {
	Narrative string `json:"narrative"`
}
