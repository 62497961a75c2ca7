// Package ledger implements the mutation facade over the assembly document.
// It owns the single in-memory document, applies every change as an atomic
// clone-mutate-swap transition, stamps last_updated, and persists the result
// after each mutation. Persistence failures are logged, never surfaced to
// the mutating caller.
package ledger

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yhjeon/assemblybook/internal/aggregate"
	"github.com/yhjeon/assemblybook/internal/book"
	"github.com/yhjeon/assemblybook/internal/errs"
	"github.com/yhjeon/assemblybook/internal/linkage"
)

// Store persists the whole document under one fixed storage key.
type Store interface {
	Load(ctx context.Context) (book.Document, bool, error)
	Save(ctx context.Context, doc book.Document) error
}

// Service is the single writer of the ledger document.
type Service struct {
	mu    sync.Mutex
	doc   book.Document
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// New loads the persisted document, or starts from the seeded default when
// none exists.
func New(ctx context.Context, store Store, logger *slog.Logger) (*Service, error) {
	doc, ok, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		doc = book.NewDocument()
	}
	doc.Normalize()
	return &Service{doc: doc, store: store, log: logger, now: time.Now}, nil
}

// mutate clones the current document, applies fn, stamps and swaps it in,
// then persists. On error the previous document is untouched.
func (s *Service) mutate(ctx context.Context, fn func(doc *book.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	next.LastUpdated = s.now().UTC()
	s.doc = next
	if err := s.store.Save(ctx, next); err != nil {
		s.log.Error("persist failed", "err", err)
	}
	return nil
}

// Document returns a deep copy of the current state.
func (s *Service) Document() book.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Summary recomputes the full derived summary.
func (s *Service) Summary() aggregate.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregate.Summarize(&s.doc)
}

// Breakdown returns the per-day income/attendance cards.
func (s *Service) Breakdown() []aggregate.DayBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregate.Breakdown(&s.doc)
}

// ReportRows projects the canonical report table.
func (s *Service) ReportRows() []aggregate.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregate.ReportRows(&s.doc)
}

// EditableReportRows projects the override-aware report table.
func (s *Service) EditableReportRows() []aggregate.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregate.EditableReportRows(&s.doc)
}

// clampAmount applies the uniform non-negative rule for amounts.
func clampAmount(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// SetCounting records the quantity of one denomination for one service.
func (s *Service) SetCounting(ctx context.Context, day book.Day, slot book.Slot, denom, qty int64) error {
	if !book.SlotHeld(day, slot) || !book.ValidDenomination(denom) {
		return errs.ErrInvalid
	}
	return s.mutate(ctx, func(doc *book.Document) error {
		if doc.Counting[day] == nil {
			doc.Counting[day] = make(map[book.Slot]map[int64]int64)
		}
		if doc.Counting[day][slot] == nil {
			doc.Counting[day][slot] = make(map[int64]int64)
		}
		doc.Counting[day][slot][denom] = clampAmount(qty)
		return nil
	})
}

// SetAttendance records the headcount for one service.
func (s *Service) SetAttendance(ctx context.Context, day book.Day, slot book.Slot, n int64) error {
	if !book.SlotHeld(day, slot) {
		return errs.ErrInvalid
	}
	return s.mutate(ctx, func(doc *book.Document) error {
		if doc.Attendance[day] == nil {
			doc.Attendance[day] = make(map[book.Slot]int64)
		}
		doc.Attendance[day][slot] = clampAmount(n)
		return nil
	})
}

// SetManualCount records the physically recounted quantity of a denomination.
func (s *Service) SetManualCount(ctx context.Context, denom, qty int64) error {
	if !book.ValidDenomination(denom) {
		return errs.ErrInvalid
	}
	return s.mutate(ctx, func(doc *book.Document) error {
		doc.ManualCount[denom] = clampAmount(qty)
		return nil
	})
}

// AddCategory creates an empty category. Adding an existing name is a no-op.
func (s *Service) AddCategory(ctx context.Context, ns book.Namespace, name string) error {
	name = strings.TrimSpace(name)
	if !book.ValidNamespace(ns) || name == "" {
		return errs.ErrInvalid
	}
	return s.mutate(ctx, func(doc *book.Document) error {
		if doc.HasCategory(ns, name) {
			return nil
		}
		doc.Totals(ns)[name] = 0
		return nil
	})
}

// RenameCategory moves a category's total, details, and report overrides to
// a new name. Renaming to the same or an empty name is a no-op; renaming
// onto an existing category is a conflict.
func (s *Service) RenameCategory(ctx context.Context, ns book.Namespace, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if !book.ValidNamespace(ns) {
		return errs.ErrInvalid
	}
	if newName == "" || newName == oldName {
		return nil
	}
	return s.mutate(ctx, func(doc *book.Document) error {
		totals := doc.Totals(ns)
		if _, ok := totals[oldName]; !ok {
			return errs.ErrNotFound
		}
		if _, ok := totals[newName]; ok {
			return errs.ErrConflict
		}
		totals[newName] = totals[oldName]
		delete(totals, oldName)
		details := doc.Details(ns)
		if lines, ok := details[oldName]; ok {
			details[newName] = lines
			delete(details, oldName)
		}
		if ns == book.Institutional {
			if ov, ok := doc.ReportOverrides[oldName]; ok {
				doc.ReportOverrides[newName] = ov
				delete(doc.ReportOverrides, oldName)
			}
		}
		return nil
	})
}

// DeleteCategory removes a category, its details, and any report overrides
// keyed to it. Links held by the opposite namespace are cleared first.
func (s *Service) DeleteCategory(ctx context.Context, ns book.Namespace, name string) error {
	if !book.ValidNamespace(ns) {
		return errs.ErrInvalid
	}
	return s.mutate(ctx, func(doc *book.Document) error {
		if !doc.HasCategory(ns, name) {
			return errs.ErrNotFound
		}
		linkage.UnlinkCategory(doc, ns, name)
		delete(doc.Totals(ns), name)
		delete(doc.Details(ns), name)
		if ns == book.Institutional {
			delete(doc.ReportOverrides, name)
		}
		return nil
	})
}

// AddDetail appends a detail line to a category. For the personal namespace
// an optional target institutional category mirrors the line there. The
// created line is returned.
func (s *Service) AddDetail(ctx context.Context, ns book.Namespace, cat, name string, amount int64, target string) (book.DetailLine, error) {
	name = strings.TrimSpace(name)
	if !book.ValidNamespace(ns) || name == "" {
		return book.DetailLine{}, errs.ErrInvalid
	}
	amount = clampAmount(amount)
	var created book.DetailLine
	err := s.mutate(ctx, func(doc *book.Document) error {
		if !doc.HasCategory(ns, cat) {
			return errs.ErrNotFound
		}
		date := book.Stamp(s.now())
		if ns == book.Personal {
			created = linkage.AddPersonal(doc, cat, name, amount, date, target)
			return nil
		}
		created = book.DetailLine{ID: uuid.New(), Name: name, Amount: amount, Date: date, Kind: book.DetailExpense}
		doc.ExpenseDetails[cat] = append(doc.ExpenseDetails[cat], created)
		doc.RecomputeCategory(book.Institutional, cat)
		return nil
	})
	if err != nil {
		return book.DetailLine{}, err
	}
	return created, nil
}

// EditPersonalDetail updates a personal line and reconciles its mirror. An
// empty target disconnects the sync; a different target moves it.
func (s *Service) EditPersonalDetail(ctx context.Context, cat string, id uuid.UUID, name string, amount int64, target string) error {
	name = strings.TrimSpace(name)
	if name == "" || id == uuid.Nil {
		return errs.ErrInvalid
	}
	amount = clampAmount(amount)
	return s.mutate(ctx, func(doc *book.Document) error {
		if !doc.HasCategory(book.Personal, cat) {
			return errs.ErrNotFound
		}
		return linkage.EditPersonal(doc, cat, id, name, amount, target)
	})
}

// RemoveDetail deletes a detail line. Institutional lines that mirror a
// personal expense are refused: they must be edited at the source.
func (s *Service) RemoveDetail(ctx context.Context, ns book.Namespace, cat string, id uuid.UUID) error {
	if !book.ValidNamespace(ns) || id == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.mutate(ctx, func(doc *book.Document) error {
		if !doc.HasCategory(ns, cat) {
			return errs.ErrNotFound
		}
		if ns == book.Personal {
			return linkage.RemovePersonal(doc, cat, id)
		}
		for i, line := range doc.ExpenseDetails[cat] {
			if line.ID != id {
				continue
			}
			if line.Linked() {
				return errs.ErrLinkedDetail
			}
			doc.ExpenseDetails[cat] = append(doc.ExpenseDetails[cat][:i], doc.ExpenseDetails[cat][i+1:]...)
			doc.RecomputeCategory(book.Institutional, cat)
			return nil
		}
		return errs.ErrNotFound
	})
}

// AddBankDeposit appends a deposit record.
func (s *Service) AddBankDeposit(ctx context.Context, name string, amount int64) (book.BankRecord, error) {
	name = strings.TrimSpace(name)
	amount = clampAmount(amount)
	if name == "" || amount == 0 {
		return book.BankRecord{}, errs.ErrInvalid
	}
	rec := book.BankRecord{ID: uuid.New(), Name: name, Amount: amount, Type: book.BankDeposit}
	err := s.mutate(ctx, func(doc *book.Document) error {
		rec.Date = book.Stamp(s.now())
		doc.BankRecords = append(doc.BankRecords, rec)
		return nil
	})
	if err != nil {
		return book.BankRecord{}, err
	}
	return rec, nil
}

// AddBankWithdrawal books a withdrawal of a personal category's full current
// total and flags the category with the withdrawal marker. The category's
// monetary total is not reduced: the withdrawal only records that funds left
// the account for an already-recorded obligation. A second withdrawal for
// the same category is refused while the marker stands.
func (s *Service) AddBankWithdrawal(ctx context.Context, cat string) (book.BankRecord, error) {
	var rec book.BankRecord
	err := s.mutate(ctx, func(doc *book.Document) error {
		if !doc.HasCategory(book.Personal, cat) {
			return errs.ErrNotFound
		}
		if linkage.HasWithdrawalMark(doc, cat) {
			return errs.ErrWithdrawalDone
		}
		date := book.Stamp(s.now())
		rec = book.BankRecord{
			ID:     uuid.New(),
			Name:   cat,
			Amount: doc.PersonalExpenses[cat],
			Type:   book.BankWithdraw,
			Date:   date,
		}
		doc.BankRecords = append(doc.BankRecords, rec)
		linkage.MarkWithdrawn(doc, cat, date)
		return nil
	})
	if err != nil {
		return book.BankRecord{}, err
	}
	return rec, nil
}

// RemoveBankRecord deletes a bank record. Removing the last withdrawal
// booked against a personal category clears that category's marker.
func (s *Service) RemoveBankRecord(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.mutate(ctx, func(doc *book.Document) error {
		idx := -1
		for i, rec := range doc.BankRecords {
			if rec.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errs.ErrNotFound
		}
		removed := doc.BankRecords[idx]
		doc.BankRecords = append(doc.BankRecords[:idx], doc.BankRecords[idx+1:]...)
		if removed.Type == book.BankWithdraw && doc.HasCategory(book.Personal, removed.Name) {
			stillWithdrawn := false
			for _, rec := range doc.BankRecords {
				if rec.Type == book.BankWithdraw && rec.Name == removed.Name {
					stillWithdrawn = true
					break
				}
			}
			if !stillWithdrawn {
				linkage.ClearWithdrawn(doc, removed.Name)
			}
		}
		return nil
	})
}

// SetReportOverride records display overrides for one category of the
// editable report. Nil fields leave the existing override component alone;
// overriding never touches the canonical expense data.
func (s *Service) SetReportOverride(ctx context.Context, cat string, name *string, amount *int64) error {
	return s.mutate(ctx, func(doc *book.Document) error {
		if !doc.HasCategory(book.Institutional, cat) {
			return errs.ErrNotFound
		}
		ov := doc.ReportOverrides[cat]
		if name != nil {
			n := strings.TrimSpace(*name)
			if n == "" {
				ov.Name = nil
			} else {
				ov.Name = &n
			}
		}
		if amount != nil {
			a := clampAmount(*amount)
			ov.Amount = &a
		}
		if ov.Name == nil && ov.Amount == nil {
			delete(doc.ReportOverrides, cat)
		} else {
			doc.ReportOverrides[cat] = ov
		}
		return nil
	})
}

// ClearReportOverride drops one category's overrides, restoring canonical
// display values for it.
func (s *Service) ClearReportOverride(ctx context.Context, cat string) error {
	return s.mutate(ctx, func(doc *book.Document) error {
		if !doc.HasCategory(book.Institutional, cat) {
			return errs.ErrNotFound
		}
		delete(doc.ReportOverrides, cat)
		return nil
	})
}

// ClearReportOverrides resets the editable report to canonical values.
func (s *Service) ClearReportOverrides(ctx context.Context) error {
	return s.mutate(ctx, func(doc *book.Document) error {
		doc.ReportOverrides = make(map[string]book.ReportOverride)
		return nil
	})
}

// Reset discards everything and restores the seeded empty document.
func (s *Service) Reset(ctx context.Context) error {
	return s.mutate(ctx, func(doc *book.Document) error {
		*doc = book.NewDocument()
		return nil
	})
}

// Replace swaps in an imported document verbatim. The imported last_updated
// is kept; only later mutations stamp a new one.
func (s *Service) Replace(ctx context.Context, doc book.Document) error {
	doc.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	if err := s.store.Save(ctx, doc); err != nil {
		s.log.Error("persist failed", "err", err)
	}
	return nil
}
