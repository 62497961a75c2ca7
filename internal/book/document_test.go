package book

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewDocumentSeedsCategories(t *testing.T) {
	doc := NewDocument()
	if len(doc.Expenses) != len(SeedCategories) {
		t.Fatalf("expected %d seeded categories, got %d", len(SeedCategories), len(doc.Expenses))
	}
	for _, cat := range SeedCategories {
		if v, ok := doc.Expenses[cat]; !ok || v != 0 {
			t.Fatalf("category %q not seeded at zero: %d (present=%v)", cat, v, ok)
		}
	}
	if len(doc.PersonalExpenses) != 0 {
		t.Fatalf("personal namespace should start empty")
	}
}

func TestSlotHeld(t *testing.T) {
	cases := []struct {
		day  Day
		slot Slot
		want bool
	}{
		{DaySunday, SlotDawn, false},
		{DaySunday, SlotNoon, false},
		{DaySunday, SlotEvening, true},
		{DayMonday, SlotDawn, true},
		{DayWednesday, SlotEvening, true},
		{Day("friday"), SlotDawn, false},
		{DayMonday, Slot("midnight"), false},
	}
	for _, c := range cases {
		if got := SlotHeld(c.day, c.slot); got != c.want {
			t.Errorf("SlotHeld(%s, %s) = %v, want %v", c.day, c.slot, got, c.want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	doc := NewDocument()
	doc.Counting[DayMonday] = map[Slot]map[int64]int64{SlotDawn: {10000: 3}}
	doc.PersonalExpenses["Taxi"] = 12000
	line := DetailLine{ID: uuid.New(), Name: "fare", Amount: 12000, Kind: DetailExpense}
	doc.PersonalExpenseDetails["Taxi"] = []DetailLine{line}
	name := "Renamed"
	doc.ReportOverrides["Operations"] = ReportOverride{Name: &name}

	clone := doc.Clone()
	clone.Counting[DayMonday][SlotDawn][10000] = 99
	clone.PersonalExpenses["Taxi"] = 0
	clone.PersonalExpenseDetails["Taxi"][0].Amount = 1
	*clone.ReportOverrides["Operations"].Name = "Changed"

	if doc.Counting[DayMonday][SlotDawn][10000] != 3 {
		t.Fatalf("counting mutated through clone")
	}
	if doc.PersonalExpenses["Taxi"] != 12000 {
		t.Fatalf("totals mutated through clone")
	}
	if doc.PersonalExpenseDetails["Taxi"][0].Amount != 12000 {
		t.Fatalf("details mutated through clone")
	}
	if *doc.ReportOverrides["Operations"].Name != "Renamed" {
		t.Fatalf("override mutated through clone")
	}
}

func TestRecomputeCategory(t *testing.T) {
	doc := NewDocument()
	doc.Expenses["Operations"] = 999
	doc.ExpenseDetails["Operations"] = []DetailLine{
		{ID: uuid.New(), Name: "paper", Amount: 3000, Kind: DetailExpense},
		{ID: uuid.New(), Name: "ink", Amount: 2000, Kind: DetailExpense},
	}
	doc.RecomputeCategory(Institutional, "Operations")
	if doc.Expenses["Operations"] != 5000 {
		t.Fatalf("expected 5000, got %d", doc.Expenses["Operations"])
	}

	// Unknown categories are left alone.
	doc.RecomputeCategory(Institutional, "Nope")
	if _, ok := doc.Expenses["Nope"]; ok {
		t.Fatalf("recompute created a category")
	}
}

func TestFindDetail(t *testing.T) {
	doc := NewDocument()
	id := uuid.New()
	doc.ExpenseDetails["Operations"] = []DetailLine{{ID: id, Name: "paper", Amount: 100}}

	cat, idx, ok := doc.FindDetail(Institutional, id)
	if !ok || cat != "Operations" || idx != 0 {
		t.Fatalf("FindDetail = (%q, %d, %v)", cat, idx, ok)
	}
	if _, _, ok := doc.FindDetail(Institutional, uuid.New()); ok {
		t.Fatalf("found a line that does not exist")
	}
	if _, _, ok := doc.FindDetail(Institutional, uuid.Nil); ok {
		t.Fatalf("nil ID must never match")
	}
}

func TestNormalizeFillsNilMaps(t *testing.T) {
	var doc Document
	doc.Normalize()
	doc.Counting[DayMonday] = map[Slot]map[int64]int64{}
	doc.Expenses["Operations"] = 1
	doc.ReportOverrides["Operations"] = ReportOverride{}
	if doc.BankRecords == nil {
		t.Fatalf("bank records not initialised")
	}
}

func TestStamp(t *testing.T) {
	ts := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	if got := Stamp(ts); got != "08.03" {
		t.Fatalf("Stamp = %q, want 08.03", got)
	}
}
