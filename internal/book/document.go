// Package book defines the ledger document for a multi-day assembly:
// cash counting per service, attendance, institutional and personal expense
// categories with dated detail lines, bank records, and the report override
// projection. The document is pure data; derivation lives in aggregate and
// mutation rules in the service layer.
package book

import (
	"time"

	"github.com/google/uuid"
)

// Day identifies one day of the assembly.
type Day string

const (
	DaySunday    Day = "sunday"
	DayMonday    Day = "monday"
	DayTuesday   Day = "tuesday"
	DayWednesday Day = "wednesday"
)

// Days lists assembly days in calendar order.
var Days = []Day{DaySunday, DayMonday, DayTuesday, DayWednesday}

// Slot identifies a service time within a day.
type Slot string

const (
	SlotDawn    Slot = "dawn"
	SlotNoon    Slot = "noon"
	SlotEvening Slot = "evening"
)

// Slots lists service slots in chronological order.
var Slots = []Slot{SlotDawn, SlotNoon, SlotEvening}

// Denominations lists the bill/coin face values counted, largest first (won).
var Denominations = []int64{50000, 10000, 5000, 1000, 100}

// ValidDay reports whether d is a known assembly day.
func ValidDay(d Day) bool {
	for _, day := range Days {
		if day == d {
			return true
		}
	}
	return false
}

// ValidSlot reports whether s is a known service slot.
func ValidSlot(s Slot) bool {
	for _, slot := range Slots {
		if slot == s {
			return true
		}
	}
	return false
}

// SlotHeld reports whether a service actually takes place at (day, slot).
// The assembly opens on Sunday with a single evening service; the dawn and
// noon slots do not exist for it.
func SlotHeld(d Day, s Slot) bool {
	if !ValidDay(d) || !ValidSlot(s) {
		return false
	}
	if d == DaySunday && (s == SlotDawn || s == SlotNoon) {
		return false
	}
	return true
}

// ValidDenomination reports whether v is a counted face value.
func ValidDenomination(v int64) bool {
	for _, d := range Denominations {
		if d == v {
			return true
		}
	}
	return false
}

// DetailKind distinguishes real expense lines from bookkeeping markers.
type DetailKind string

const (
	// DetailExpense is an ordinary dated expense line.
	DetailExpense DetailKind = "expense"
	// DetailWithdrawalMark flags that the category's total has already been
	// withdrawn from the bank. It always carries a zero amount.
	DetailWithdrawalMark DetailKind = "withdrawal_mark"
)

// DetailLine is a single dated, named, amount-bearing entry under a category.
type DetailLine struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Amount int64     `json:"amount"`
	// Date is the MM.DD the line was recorded.
	Date string     `json:"date,omitempty"`
	Kind DetailKind `json:"kind,omitempty"`
	// LinkedID names the counterpart line when this line takes part in a
	// personal/institutional sync: on a personal line it points at the
	// mirrored institutional line, on an institutional line at its personal
	// source. uuid.Nil means unlinked.
	LinkedID uuid.UUID `json:"linked_id,omitempty"`
}

// Linked reports whether the line has a sync counterpart.
func (l DetailLine) Linked() bool { return l.LinkedID != uuid.Nil }

// BankType distinguishes bank record directions.
type BankType string

const (
	BankDeposit  BankType = "deposit"
	BankWithdraw BankType = "withdraw"
)

// BankRecord is one deposit or withdrawal against the assembly account.
type BankRecord struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Amount int64     `json:"amount"`
	Type   BankType  `json:"type"`
	Date   string    `json:"date,omitempty"`
}

// ReportOverride carries per-category display overrides for the editable
// report. Nil fields inherit the canonical value.
type ReportOverride struct {
	Name   *string `json:"name,omitempty"`
	Amount *int64  `json:"amount,omitempty"`
}

// Namespace selects one of the two expense category families.
type Namespace string

const (
	// Institutional is the assembly's own expense namespace.
	Institutional Namespace = "institutional"
	// Personal is the reimbursable personal spending namespace.
	Personal Namespace = "personal"
)

// ValidNamespace reports whether ns is a known expense namespace.
func ValidNamespace(ns Namespace) bool {
	return ns == Institutional || ns == Personal
}

// StorageKey identifies the persisted document in every backing store.
const StorageKey = "assembly_ledger_v1"

// CategoryInstructorHonorarium is always listed first in report projections.
const CategoryInstructorHonorarium = "Instructor Honorarium"

// SeedCategories are the institutional categories present in a fresh document.
var SeedCategories = []string{
	CategoryInstructorHonorarium,
	"Lodging & Hospitality",
	"Church Thanksgiving",
	"Praise Team",
	"Superintendent Honorarium",
	"Staff Honorarium",
	"Operations",
	"Printing & Publicity",
	"Review Meeting",
}

// Document is the single normalized ledger state. Only raw inputs live here;
// every total is recomputed from it on demand.
type Document struct {
	Counting    map[Day]map[Slot]map[int64]int64 `json:"counting"`
	ManualCount map[int64]int64                  `json:"manual_count"`
	Attendance  map[Day]map[Slot]int64           `json:"attendance"`

	Expenses               map[string]int64        `json:"expenses"`
	ExpenseDetails         map[string][]DetailLine `json:"expense_details"`
	PersonalExpenses       map[string]int64        `json:"personal_expenses"`
	PersonalExpenseDetails map[string][]DetailLine `json:"personal_expense_details"`

	BankRecords []BankRecord `json:"bank_records"`

	ReportOverrides map[string]ReportOverride `json:"report_overrides"`

	LastUpdated time.Time `json:"last_updated"`
}

// NewDocument returns the empty default document with the institutional
// category list seeded at zero.
func NewDocument() Document {
	doc := Document{
		Counting:               make(map[Day]map[Slot]map[int64]int64),
		ManualCount:            make(map[int64]int64),
		Attendance:             make(map[Day]map[Slot]int64),
		Expenses:               make(map[string]int64, len(SeedCategories)),
		ExpenseDetails:         make(map[string][]DetailLine),
		PersonalExpenses:       make(map[string]int64),
		PersonalExpenseDetails: make(map[string][]DetailLine),
		BankRecords:            []BankRecord{},
		ReportOverrides:        make(map[string]ReportOverride),
		LastUpdated:            time.Now().UTC(),
	}
	for _, cat := range SeedCategories {
		doc.Expenses[cat] = 0
	}
	return doc
}

// Normalize fills in nil maps after JSON decoding so callers never index a
// nil container. Imported documents pass through here verbatim otherwise.
func (d *Document) Normalize() {
	if d.Counting == nil {
		d.Counting = make(map[Day]map[Slot]map[int64]int64)
	}
	if d.ManualCount == nil {
		d.ManualCount = make(map[int64]int64)
	}
	if d.Attendance == nil {
		d.Attendance = make(map[Day]map[Slot]int64)
	}
	if d.Expenses == nil {
		d.Expenses = make(map[string]int64)
	}
	if d.ExpenseDetails == nil {
		d.ExpenseDetails = make(map[string][]DetailLine)
	}
	if d.PersonalExpenses == nil {
		d.PersonalExpenses = make(map[string]int64)
	}
	if d.PersonalExpenseDetails == nil {
		d.PersonalExpenseDetails = make(map[string][]DetailLine)
	}
	if d.BankRecords == nil {
		d.BankRecords = []BankRecord{}
	}
	if d.ReportOverrides == nil {
		d.ReportOverrides = make(map[string]ReportOverride)
	}
}

// Clone returns a deep copy. Mutations always operate on a clone so the
// previous document state is never aliased by callers.
func (d Document) Clone() Document {
	out := d
	out.Counting = make(map[Day]map[Slot]map[int64]int64, len(d.Counting))
	for day, slots := range d.Counting {
		out.Counting[day] = make(map[Slot]map[int64]int64, len(slots))
		for slot, counts := range slots {
			cc := make(map[int64]int64, len(counts))
			for denom, qty := range counts {
				cc[denom] = qty
			}
			out.Counting[day][slot] = cc
		}
	}
	out.ManualCount = make(map[int64]int64, len(d.ManualCount))
	for denom, qty := range d.ManualCount {
		out.ManualCount[denom] = qty
	}
	out.Attendance = make(map[Day]map[Slot]int64, len(d.Attendance))
	for day, slots := range d.Attendance {
		aa := make(map[Slot]int64, len(slots))
		for slot, n := range slots {
			aa[slot] = n
		}
		out.Attendance[day] = aa
	}
	out.Expenses = cloneTotals(d.Expenses)
	out.ExpenseDetails = cloneDetails(d.ExpenseDetails)
	out.PersonalExpenses = cloneTotals(d.PersonalExpenses)
	out.PersonalExpenseDetails = cloneDetails(d.PersonalExpenseDetails)
	out.BankRecords = make([]BankRecord, len(d.BankRecords))
	copy(out.BankRecords, d.BankRecords)
	out.ReportOverrides = make(map[string]ReportOverride, len(d.ReportOverrides))
	for cat, ov := range d.ReportOverrides {
		oc := ReportOverride{}
		if ov.Name != nil {
			n := *ov.Name
			oc.Name = &n
		}
		if ov.Amount != nil {
			a := *ov.Amount
			oc.Amount = &a
		}
		out.ReportOverrides[cat] = oc
	}
	return out
}

func cloneTotals(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneDetails(m map[string][]DetailLine) map[string][]DetailLine {
	out := make(map[string][]DetailLine, len(m))
	for k, lines := range m {
		ll := make([]DetailLine, len(lines))
		copy(ll, lines)
		out[k] = ll
	}
	return out
}

// Totals returns the category total map for a namespace.
func (d *Document) Totals(ns Namespace) map[string]int64 {
	if ns == Personal {
		return d.PersonalExpenses
	}
	return d.Expenses
}

// Details returns the category detail map for a namespace.
func (d *Document) Details(ns Namespace) map[string][]DetailLine {
	if ns == Personal {
		return d.PersonalExpenseDetails
	}
	return d.ExpenseDetails
}

// HasCategory reports whether the namespace contains the category.
func (d *Document) HasCategory(ns Namespace, cat string) bool {
	_, ok := d.Totals(ns)[cat]
	return ok
}

// RecomputeCategory resets a category's stored total to the sum of its detail
// line amounts, restoring the totals invariant after any detail mutation.
func (d *Document) RecomputeCategory(ns Namespace, cat string) {
	totals := d.Totals(ns)
	if _, ok := totals[cat]; !ok {
		return
	}
	var sum int64
	for _, line := range d.Details(ns)[cat] {
		sum += line.Amount
	}
	totals[cat] = sum
}

// FindDetail locates a detail line by ID within a namespace. It returns the
// owning category and index, or ok=false when no line carries the ID.
func (d *Document) FindDetail(ns Namespace, id uuid.UUID) (cat string, idx int, ok bool) {
	if id == uuid.Nil {
		return "", 0, false
	}
	for c, lines := range d.Details(ns) {
		for i, line := range lines {
			if line.ID == id {
				return c, i, true
			}
		}
	}
	return "", 0, false
}

// Stamp records a detail line date the way the counting sheets do: MM.DD.
func Stamp(t time.Time) string {
	return t.Format("01.02")
}
