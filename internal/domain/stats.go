package domain

import "time"

// StatsBounds returns the lower time bounds used by the stats aggregate:
// "today" starts at UTC midnight, "this week" at Monday 00:00 UTC of the ISO
// week containing now.
func StatsBounds(now time.Time) (dayStart, weekStart time.Time) {
	now = now.UTC()
	dayStart = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	weekStart = dayStart.AddDate(0, 0, -daysSinceMonday)
	return dayStart, weekStart
}
