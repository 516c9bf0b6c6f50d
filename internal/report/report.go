// Package report holds the read-only folds over a business day: per-store
// and per-operator sums, the grand total, and the flat CSV export.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/onasu66/totalcash/internal/types"
)

// SumByStore folds a day's transactions into per-store totals.
func SumByStore(day types.BusinessDay) map[string]int {
	sums := make(map[string]int)
	for _, tx := range day.Transactions {
		sums[tx.Store] += tx.Amount
	}
	return sums
}

// SumByOperator folds a day's transactions into per-operator totals.
func SumByOperator(day types.BusinessDay) map[string]int {
	sums := make(map[string]int)
	for _, tx := range day.Transactions {
		sums[tx.Operator] += tx.Amount
	}
	return sums
}

// GrandTotal sums all amounts for the day.
func GrandTotal(day types.BusinessDay) int {
	total := 0
	for _, tx := range day.Transactions {
		total += tx.Amount
	}
	return total
}

// Total is one row of a ranked sum table.
type Total struct {
	Name   string
	Amount int
}

// Ranked orders a sum map largest-first, ties broken by name, for display.
func Ranked(sums map[string]int) []Total {
	totals := make([]Total, 0, len(sums))
	for name, amount := range sums {
		totals = append(totals, Total{Name: name, Amount: amount})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Amount != totals[j].Amount {
			return totals[i].Amount > totals[j].Amount
		}
		return totals[i].Name < totals[j].Name
	})
	return totals
}

// WriteCSV writes a day's transactions as a flat delimited table. The output
// starts with a UTF-8 BOM so spreadsheet imports keep multibyte store and
// operator names intact.
func WriteCSV(w io.Writer, day types.BusinessDay) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "operator", "store", "content", "amount"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, tx := range day.Transactions {
		row := []string{tx.Time, tx.Operator, tx.Store, tx.Content, strconv.Itoa(tx.Amount)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
