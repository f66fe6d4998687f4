package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	testCases := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{"six months mid-month", date(2024, time.January, 15), 6, date(2024, time.July, 15)},
		{"twelve months", date(2024, time.March, 1), 12, date(2025, time.March, 1)},
		{"year rollover", date(2024, time.November, 20), 3, date(2025, time.February, 20)},
		{"clamp to leap february", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"clamp to non-leap february", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"clamp to thirty days", date(2024, time.March, 31), 1, date(2024, time.April, 30)},
		{"zero months", date(2024, time.May, 10), 0, date(2024, time.May, 10)},
		{"negative month", date(2024, time.January, 15), -1, date(2023, time.December, 15)},
		{"negative clamp", date(2024, time.March, 31), -1, date(2024, time.February, 29)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AddMonths(tc.start, tc.months))
		})
	}
}

func TestAddMonthsPreservesClock(t *testing.T) {
	start := time.Date(2024, time.June, 5, 13, 45, 30, 0, time.UTC)
	got := AddMonths(start, 2)
	assert.Equal(t, time.Date(2024, time.August, 5, 13, 45, 30, 0, time.UTC), got)
}
