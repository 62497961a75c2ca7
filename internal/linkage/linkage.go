// Package linkage keeps the three related entity families consistent:
// personal expense details, institutional expense details, and bank
// withdrawal records. A personal line may mirror exactly one institutional
// line; the correspondence is held as a stable ID on both lines rather than
// inferred by value, so edits and removals always target the right
// counterpart. All functions mutate the given document in place and leave
// category totals recomputed; callers clone first.
package linkage

import (
	"github.com/google/uuid"

	"github.com/yhjeon/assemblybook/internal/book"
	"github.com/yhjeon/assemblybook/internal/errs"
)

// WithdrawalMarkName labels the zero-amount marker line left behind when a
// category's total has been withdrawn from the bank.
const WithdrawalMarkName = "bank withdrawal complete"

// AddPersonal appends a personal detail line and, when target names an
// existing institutional category, mirrors the line there and links the two.
// The created personal line is returned.
func AddPersonal(doc *book.Document, cat string, name string, amount int64, date string, target string) book.DetailLine {
	line := book.DetailLine{
		ID:     uuid.New(),
		Name:   name,
		Amount: amount,
		Date:   date,
		Kind:   book.DetailExpense,
	}
	if target != "" && doc.HasCategory(book.Institutional, target) {
		mirror := book.DetailLine{
			ID:       uuid.New(),
			Name:     name,
			Amount:   amount,
			Date:     date,
			Kind:     book.DetailExpense,
			LinkedID: line.ID,
		}
		line.LinkedID = mirror.ID
		doc.ExpenseDetails[target] = append(doc.ExpenseDetails[target], mirror)
		doc.RecomputeCategory(book.Institutional, target)
	}
	doc.PersonalExpenseDetails[cat] = append(doc.PersonalExpenseDetails[cat], line)
	doc.RecomputeCategory(book.Personal, cat)
	return line
}

// EditPersonal renames/re-amounts a personal line and reconciles its
// institutional mirror:
//
//   - target empty: any existing mirror is removed (explicit disconnect).
//   - target equal to the mirror's current category: the mirror is updated
//     in place.
//   - target naming a different existing category: the mirror moves there.
//   - no previous mirror and a valid target: a mirror is created.
//
// A mirror that cannot be found is skipped; the personal edit still lands.
func EditPersonal(doc *book.Document, cat string, id uuid.UUID, name string, amount int64, target string) error {
	lines := doc.PersonalExpenseDetails[cat]
	idx := -1
	for i, line := range lines {
		if line.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.ErrNotFound
	}
	line := lines[idx]
	line.Name = name
	line.Amount = amount

	prevCat, prevIdx, hasMirror := doc.FindDetail(book.Institutional, line.LinkedID)
	targetOK := target != "" && doc.HasCategory(book.Institutional, target)

	switch {
	case hasMirror && target == "":
		removeAt(doc, book.Institutional, prevCat, prevIdx)
		line.LinkedID = uuid.Nil
	case hasMirror && targetOK && target != prevCat:
		removeAt(doc, book.Institutional, prevCat, prevIdx)
		line.LinkedID = attachMirror(doc, target, line)
	case hasMirror:
		// Same category, or a target that does not exist: keep the link and
		// update the mirror in place.
		mirror := doc.ExpenseDetails[prevCat][prevIdx]
		mirror.Name = name
		mirror.Amount = amount
		doc.ExpenseDetails[prevCat][prevIdx] = mirror
		doc.RecomputeCategory(book.Institutional, prevCat)
	case targetOK:
		line.LinkedID = attachMirror(doc, target, line)
	default:
		// No mirror involved, or the stored link points nowhere: update the
		// personal side only.
		line.LinkedID = uuid.Nil
	}

	doc.PersonalExpenseDetails[cat][idx] = line
	doc.RecomputeCategory(book.Personal, cat)
	return nil
}

// RemovePersonal deletes a personal line and its institutional mirror, if
// any. A dangling link is ignored.
func RemovePersonal(doc *book.Document, cat string, id uuid.UUID) error {
	lines := doc.PersonalExpenseDetails[cat]
	idx := -1
	for i, line := range lines {
		if line.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.ErrNotFound
	}
	line := lines[idx]
	if mirrorCat, mirrorIdx, ok := doc.FindDetail(book.Institutional, line.LinkedID); ok {
		removeAt(doc, book.Institutional, mirrorCat, mirrorIdx)
	}
	removeAt(doc, book.Personal, cat, idx)
	return nil
}

// MarkWithdrawn appends the withdrawal marker to a personal category. It is
// idempotent: an existing marker is left untouched and reported.
func MarkWithdrawn(doc *book.Document, cat string, date string) (already bool) {
	if HasWithdrawalMark(doc, cat) {
		return true
	}
	doc.PersonalExpenseDetails[cat] = append(doc.PersonalExpenseDetails[cat], book.DetailLine{
		ID:   uuid.New(),
		Name: WithdrawalMarkName,
		Date: date,
		Kind: book.DetailWithdrawalMark,
	})
	// Marker amount is zero; the total is unaffected but recompute anyway to
	// keep the invariant mechanical.
	doc.RecomputeCategory(book.Personal, cat)
	return false
}

// ClearWithdrawn removes the withdrawal marker from a personal category.
func ClearWithdrawn(doc *book.Document, cat string) {
	lines := doc.PersonalExpenseDetails[cat]
	for i, line := range lines {
		if line.Kind == book.DetailWithdrawalMark {
			removeAt(doc, book.Personal, cat, i)
			return
		}
	}
}

// HasWithdrawalMark reports whether the category is flagged as withdrawn.
func HasWithdrawalMark(doc *book.Document, cat string) bool {
	for _, line := range doc.PersonalExpenseDetails[cat] {
		if line.Kind == book.DetailWithdrawalMark {
			return true
		}
	}
	return false
}

// UnlinkCategory clears links on the opposite namespace that point into the
// given category's lines. Used when a whole category is deleted so the other
// side is left editable rather than orphaned.
func UnlinkCategory(doc *book.Document, ns book.Namespace, cat string) {
	ids := make(map[uuid.UUID]struct{})
	for _, line := range doc.Details(ns)[cat] {
		if line.Linked() {
			ids[line.LinkedID] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return
	}
	other := book.Institutional
	if ns == book.Institutional {
		other = book.Personal
	}
	details := doc.Details(other)
	for c, lines := range details {
		changed := false
		for i, line := range lines {
			if _, ok := ids[line.ID]; ok {
				lines[i].LinkedID = uuid.Nil
				changed = true
			}
		}
		if changed {
			details[c] = lines
		}
	}
}

// attachMirror appends an institutional mirror of line to target and returns
// the mirror's ID.
func attachMirror(doc *book.Document, target string, line book.DetailLine) uuid.UUID {
	mirror := book.DetailLine{
		ID:       uuid.New(),
		Name:     line.Name,
		Amount:   line.Amount,
		Date:     line.Date,
		Kind:     book.DetailExpense,
		LinkedID: line.ID,
	}
	doc.ExpenseDetails[target] = append(doc.ExpenseDetails[target], mirror)
	doc.RecomputeCategory(book.Institutional, target)
	return mirror.ID
}

// removeAt deletes one detail line by index and recomputes the total.
func removeAt(doc *book.Document, ns book.Namespace, cat string, idx int) {
	details := doc.Details(ns)
	lines := details[cat]
	details[cat] = append(lines[:idx], lines[idx+1:]...)
	doc.RecomputeCategory(ns, cat)
}
