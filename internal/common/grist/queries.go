package grist

import (
	"fmt"
	"time"
)

const (
	WorkersTable = "Workers"
	HoursTable   = "TimeclockHours"
)

// WorkersQuery selects workers that are still active: either no end date,
// or a start date after the last end date (rehired).
func WorkersQuery() string {
	return "SELECT * FROM " + WorkersTable + " WHERE start_date > end_date OR end_date IS NULL"
}

// HoursQuery selects hours rows with scan_datetime in [start, end], both in
// unix seconds.
func HoursQuery(start, end int64) string {
	return fmt.Sprintf("SELECT * FROM %s WHERE scan_datetime >= %d AND scan_datetime <= %d", HoursTable, start, end)
}

// DayRange returns the first and last second of now's UTC calendar day as
// unix timestamps.
func DayRange(now time.Time) (start, end int64) {
	y, m, d := now.UTC().Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	last := time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
	return first.Unix(), last.Unix()
}
