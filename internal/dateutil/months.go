package dateutil

import "time"

// AddMonths adds n calendar months to t, clamping the day to the last day of
// the target month instead of letting it roll over (Jan 31 + 1 month is
// Feb 28/29, not Mar 2/3). Billing periods are computed with this, never with
// fixed 30-day increments.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()

	months := int(m) - 1 + n
	year := y + months/12
	month := time.Month(months%12 + 1)
	if months < 0 && months%12 != 0 {
		year--
		month = time.Month(months%12 + 12 + 1)
	}

	if last := daysIn(year, month); d > last {
		d = last
	}

	return time.Date(year, month, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
