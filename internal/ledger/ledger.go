// Package ledger owns the business-day transaction ledger: one mutable live
// day, a bounded read-only archive of past days, rollover at the 07:00
// boundary, and wholesale snapshot persistence.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/onasu66/totalcash/internal/types"
)

// Ledger routes every mutation of the persisted state through its methods.
// It assumes a single active writer; persistence is a full read-modify-write
// of the snapshot with no locking.
type Ledger struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
	state  State
}

// New loads the snapshot (or starts fresh if it is missing or unreadable)
// and brings the live date up to the current business date. now supplies
// wall-clock time in the ledger's local timezone.
func New(store Store, logger *log.Logger, now func() time.Time) *Ledger {
	l := &Ledger{store: store, logger: logger, now: now}

	state, err := store.Load()
	if err != nil {
		// The snapshot is unreadable; starting fresh beats refusing to run.
		logger.Warn("failed to load ledger snapshot, starting fresh", "error", err)
		state = State{}
	}
	l.state = state
	if l.state.Archive == nil {
		l.state.Archive = make(map[string][]types.Transaction)
	}
	if l.state.LiveDate == "" {
		l.state.LiveDate = BusinessDate(l.now())
	}

	l.checkRollover()
	return l
}

// checkRollover moves the live day into the archive and starts a fresh one
// when the business date has advanced past the stored live date. Called on
// every access so the liveDate invariant holds no matter which operation
// crosses the boundary.
func (l *Ledger) checkRollover() {
	date := BusinessDate(l.now())
	if date == l.state.LiveDate {
		return
	}

	if len(l.state.LiveDay) > 0 {
		l.state.Archive[l.state.LiveDate] = l.state.LiveDay
	}
	l.prune(date)

	l.logger.Info("business day rolled over", "from", l.state.LiveDate, "to", date)
	l.state.LiveDate = date
	l.state.LiveDay = nil
	l.persist()
}

// prune drops archived days more than retentionDays calendar days before the
// given business date.
func (l *Ledger) prune(businessDate string) {
	current, err := time.Parse(dateLayout, businessDate)
	if err != nil {
		return
	}
	cutoff := current.AddDate(0, 0, -retentionDays)

	for date := range l.state.Archive {
		archived, err := time.Parse(dateLayout, date)
		if err != nil || archived.Before(cutoff) {
			l.logger.Info("pruning archived day past retention", "date", date)
			delete(l.state.Archive, date)
		}
	}
}

// persist rewrites the snapshot. A write failure is a warning, not a fatal
// error: the in-memory state stays authoritative for the session.
func (l *Ledger) persist() {
	if err := l.store.Save(l.state); err != nil {
		l.logger.Warn("failed to persist ledger snapshot", "error", err)
	}
}

// Append records a transaction on the live day and returns it as recorded.
// A transaction without a recording time is stamped with the current
// wall-clock time.
func (l *Ledger) Append(tx types.Transaction) types.Transaction {
	l.checkRollover()
	if tx.Time == "" {
		tx.Time = l.now().Format("15:04")
	}
	l.state.LiveDay = append(l.state.LiveDay, tx)
	l.persist()
	return tx
}

// DeleteAt removes the i-th transaction from the live day.
func (l *Ledger) DeleteAt(i int) error {
	l.checkRollover()
	if i < 0 || i >= len(l.state.LiveDay) {
		return fmt.Errorf("no transaction at index %d (live day has %d)", i, len(l.state.LiveDay))
	}
	l.state.LiveDay = append(l.state.LiveDay[:i], l.state.LiveDay[i+1:]...)
	l.persist()
	return nil
}

// CurrentDay returns a copy of the live day.
func (l *Ledger) CurrentDay() types.BusinessDay {
	l.checkRollover()
	return types.BusinessDay{
		Date:         l.state.LiveDate,
		Transactions: append([]types.Transaction(nil), l.state.LiveDay...),
	}
}

// ArchiveCurrentDay copies the live day into the archive without clearing
// it, so a day can be kept without waiting for rollover. Idempotent: a
// repeat call just overwrites the copy.
func (l *Ledger) ArchiveCurrentDay() {
	l.checkRollover()
	l.state.Archive[l.state.LiveDate] = append([]types.Transaction(nil), l.state.LiveDay...)
	l.persist()
}

// ListArchive returns the archived days newest-first.
func (l *Ledger) ListArchive() []types.BusinessDay {
	l.checkRollover()

	dates := make([]string, 0, len(l.state.Archive))
	for date := range l.state.Archive {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	days := make([]types.BusinessDay, 0, len(dates))
	for _, date := range dates {
		days = append(days, types.BusinessDay{
			Date:         date,
			Transactions: append([]types.Transaction(nil), l.state.Archive[date]...),
		})
	}
	return days
}

// DeleteArchived removes one archived day.
func (l *Ledger) DeleteArchived(date string) error {
	l.checkRollover()
	if _, ok := l.state.Archive[date]; !ok {
		return fmt.Errorf("no archived day for %s", date)
	}
	delete(l.state.Archive, date)
	l.persist()
	return nil
}

// Day returns the live or archived day for a date.
func (l *Ledger) Day(date string) (types.BusinessDay, bool) {
	l.checkRollover()
	if date == l.state.LiveDate {
		return l.CurrentDay(), true
	}
	txs, ok := l.state.Archive[date]
	if !ok {
		return types.BusinessDay{}, false
	}
	return types.BusinessDay{
		Date:         date,
		Transactions: append([]types.Transaction(nil), txs...),
	}, true
}
