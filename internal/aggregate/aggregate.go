// Package aggregate derives every reported total from a book.Document.
// All functions are pure and recompute on demand; the document is small
// enough that no caching is warranted.
package aggregate

import (
	"sort"

	"github.com/yhjeon/assemblybook/internal/book"
)

// SettleTolerance is the absolute reconciliation difference (in won) under
// which the books are considered settled. It absorbs manual counting noise;
// amounts themselves are exact integers.
const SettleTolerance = 10

// CountingTotal sums faceValue*quantity for one service. Slots that are not
// held on the given day total zero regardless of stored data.
func CountingTotal(doc *book.Document, day book.Day, slot book.Slot) int64 {
	if !book.SlotHeld(day, slot) {
		return 0
	}
	var sum int64
	for denom, qty := range doc.Counting[day][slot] {
		sum += denom * qty
	}
	return sum
}

// DayIncomeTotal sums counting totals across a day's services.
func DayIncomeTotal(doc *book.Document, day book.Day) int64 {
	var sum int64
	for _, slot := range book.Slots {
		sum += CountingTotal(doc, day, slot)
	}
	return sum
}

// TotalOffering is the accumulated offering across all assembly days.
func TotalOffering(doc *book.Document) int64 {
	var sum int64
	for _, day := range book.Days {
		sum += DayIncomeTotal(doc, day)
	}
	return sum
}

// AttendanceTotal returns the headcount for one service, zero when unheld
// or unrecorded.
func AttendanceTotal(doc *book.Document, day book.Day, slot book.Slot) int64 {
	if !book.SlotHeld(day, slot) {
		return 0
	}
	return doc.Attendance[day][slot]
}

// DayAttendanceTotal sums attendance across a day's services.
func DayAttendanceTotal(doc *book.Document, day book.Day) int64 {
	var sum int64
	for _, slot := range book.Slots {
		sum += AttendanceTotal(doc, day, slot)
	}
	return sum
}

// TotalAttendance sums attendance across all days.
func TotalAttendance(doc *book.Document) int64 {
	var sum int64
	for _, day := range book.Days {
		sum += DayAttendanceTotal(doc, day)
	}
	return sum
}

// NamespaceTotal sums the category totals of one expense namespace.
func NamespaceTotal(doc *book.Document, ns book.Namespace) int64 {
	var sum int64
	for _, v := range doc.Totals(ns) {
		sum += v
	}
	return sum
}

// TotalExpenses is the institutional expense total.
func TotalExpenses(doc *book.Document) int64 {
	return NamespaceTotal(doc, book.Institutional)
}

// TotalPersonalExpenses is the personal expense total.
func TotalPersonalExpenses(doc *book.Document) int64 {
	return NamespaceTotal(doc, book.Personal)
}

// ManualCashTotal values the physically recounted cash.
func ManualCashTotal(doc *book.Document) int64 {
	var sum int64
	for denom, qty := range doc.ManualCount {
		sum += denom * qty
	}
	return sum
}

// BankNet nets the bank records: deposits add, withdrawals subtract.
func BankNet(doc *book.Document) int64 {
	var sum int64
	for _, rec := range doc.BankRecords {
		if rec.Type == book.BankWithdraw {
			sum -= rec.Amount
		} else {
			sum += rec.Amount
		}
	}
	return sum
}

// PhysicalCashTotal is everything actually held: counted cash plus bank net.
func PhysicalCashTotal(doc *book.Document) int64 {
	return ManualCashTotal(doc) + BankNet(doc)
}

// NetBookBalance is offering income minus institutional expenses.
func NetBookBalance(doc *book.Document) int64 {
	return TotalOffering(doc) - TotalExpenses(doc)
}

// Difference is physical assets minus the book balance.
func Difference(doc *book.Document) int64 {
	return PhysicalCashTotal(doc) - NetBookBalance(doc)
}

// Settled reports whether the difference falls inside the tolerance.
func Settled(doc *book.Document) bool {
	d := Difference(doc)
	if d < 0 {
		d = -d
	}
	return d < SettleTolerance
}

// ReportAmount resolves a category's amount for the editable report: the
// override when present, the canonical amount otherwise.
func ReportAmount(doc *book.Document, cat string) int64 {
	if ov, ok := doc.ReportOverrides[cat]; ok && ov.Amount != nil {
		return *ov.Amount
	}
	return doc.Expenses[cat]
}

// ReportName resolves a category's display name for the editable report.
func ReportName(doc *book.Document, cat string) string {
	if ov, ok := doc.ReportOverrides[cat]; ok && ov.Name != nil {
		return *ov.Name
	}
	return cat
}

// ReportTotal sums the editable report's expense amounts.
func ReportTotal(doc *book.Document) int64 {
	var sum int64
	for cat := range doc.Expenses {
		sum += ReportAmount(doc, cat)
	}
	return sum
}

// ReportNetBalance is offering income minus the editable report's expenses.
func ReportNetBalance(doc *book.Document) int64 {
	return TotalOffering(doc) - ReportTotal(doc)
}

// Row is one printable expense line of a report projection.
type Row struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
}

// orderedCategories returns institutional categories with the instructor
// honorarium first when present, then the remaining keys in sorted order.
func orderedCategories(doc *book.Document) []string {
	rest := make([]string, 0, len(doc.Expenses))
	hasHonorarium := false
	for cat := range doc.Expenses {
		if cat == book.CategoryInstructorHonorarium {
			hasHonorarium = true
			continue
		}
		rest = append(rest, cat)
	}
	sort.Strings(rest)
	if hasHonorarium {
		return append([]string{book.CategoryInstructorHonorarium}, rest...)
	}
	return rest
}

// ReportRows projects the canonical expense table.
func ReportRows(doc *book.Document) []Row {
	cats := orderedCategories(doc)
	rows := make([]Row, 0, len(cats))
	for _, cat := range cats {
		rows = append(rows, Row{Category: cat, Name: cat, Amount: doc.Expenses[cat]})
	}
	return rows
}

// EditableReportRows projects the expense table with overrides applied.
func EditableReportRows(doc *book.Document) []Row {
	cats := orderedCategories(doc)
	rows := make([]Row, 0, len(cats))
	for _, cat := range cats {
		rows = append(rows, Row{Category: cat, Name: ReportName(doc, cat), Amount: ReportAmount(doc, cat)})
	}
	return rows
}

// Summary bundles every derived figure for the summary and narrative views.
type Summary struct {
	TotalOffering         int64 `json:"total_offering"`
	TotalAttendance       int64 `json:"total_attendance"`
	TotalExpenses         int64 `json:"total_expenses"`
	TotalPersonalExpenses int64 `json:"total_personal_expenses"`
	ManualCashTotal       int64 `json:"manual_cash_total"`
	BankNet               int64 `json:"bank_net"`
	PhysicalCashTotal     int64 `json:"physical_cash_total"`
	NetBookBalance        int64 `json:"net_book_balance"`
	Difference            int64 `json:"difference"`
	Settled               bool  `json:"settled"`
	ReportTotal           int64 `json:"report_total"`
	ReportNetBalance      int64 `json:"report_net_balance"`
}

// Summarize computes the full derived summary in one pass.
func Summarize(doc *book.Document) Summary {
	return Summary{
		TotalOffering:         TotalOffering(doc),
		TotalAttendance:       TotalAttendance(doc),
		TotalExpenses:         TotalExpenses(doc),
		TotalPersonalExpenses: TotalPersonalExpenses(doc),
		ManualCashTotal:       ManualCashTotal(doc),
		BankNet:               BankNet(doc),
		PhysicalCashTotal:     PhysicalCashTotal(doc),
		NetBookBalance:        NetBookBalance(doc),
		Difference:            Difference(doc),
		Settled:               Settled(doc),
		ReportTotal:           ReportTotal(doc),
		ReportNetBalance:      ReportNetBalance(doc),
	}
}

// DayBreakdown is the per-day card shown on the counting and attendance tabs.
type DayBreakdown struct {
	Day        book.Day        `json:"day"`
	Income     int64           `json:"income"`
	Attendance int64           `json:"attendance"`
	Slots      []SlotBreakdown `json:"slots"`
}

// SlotBreakdown is one held service's figures within a day.
type SlotBreakdown struct {
	Slot       book.Slot `json:"slot"`
	Income     int64     `json:"income"`
	Attendance int64     `json:"attendance"`
}

// Breakdown lists per-day, per-held-slot figures in calendar order.
func Breakdown(doc *book.Document) []DayBreakdown {
	out := make([]DayBreakdown, 0, len(book.Days))
	for _, day := range book.Days {
		db := DayBreakdown{
			Day:        day,
			Income:     DayIncomeTotal(doc, day),
			Attendance: DayAttendanceTotal(doc, day),
		}
		for _, slot := range book.Slots {
			if !book.SlotHeld(day, slot) {
				continue
			}
			db.Slots = append(db.Slots, SlotBreakdown{
				Slot:       slot,
				Income:     CountingTotal(doc, day, slot),
				Attendance: AttendanceTotal(doc, day, slot),
			})
		}
		out = append(out, db)
	}
	return out
}
