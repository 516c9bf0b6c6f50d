package ledger

import "time"

// rolloverHour is the local hour at which the business day turns over.
// Before 07:00 a recording still belongs to the previous day's business.
const rolloverHour = 7

// retentionDays is how many calendar days an archived day is kept after the
// current business date moves past it.
const retentionDays = 3

const dateLayout = "2006-01-02"

// BusinessDate returns the accounting date for a wall-clock time: the
// calendar date, or the previous one before the rollover hour.
func BusinessDate(t time.Time) string {
	if t.Hour() < rolloverHour {
		t = t.AddDate(0, 0, -1)
	}
	return t.Format(dateLayout)
}
