package reconcile

import (
	"strings"
	"time"
	_ "time/tzdata"

	"booking-sync/feature/booking/models"
)

const dateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	dateLayout,
}

// Schedule anchors the stay dates to the establishment's check-in and check-out
// times. Unknown times fall back to midnight, unparseable dates to nil.
func Schedule(from, to string, est *models.Establishment) (start, end *time.Time) {
	loc := time.UTC
	checkIn, checkOut := "", ""
	if est != nil {
		checkIn, checkOut = est.CheckInTime, est.CheckOutTime
		if est.TimeZone != "" {
			if l, err := time.LoadLocation(est.TimeZone); err == nil {
				loc = l
			}
		}
	}
	return anchor(from, checkIn, loc), anchor(to, checkOut, loc)
}

func anchor(date, clock string, loc *time.Location) *time.Time {
	date = strings.TrimSpace(date)
	if len(date) > len(dateLayout) {
		date = date[:len(dateLayout)]
	}
	d, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil
	}

	hour, minute := parseClock(clock)
	t := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc).UTC()
	return &t
}

// parseClock reads HH:MM or HH:MM:SS, returning midnight otherwise.
func parseClock(clock string) (hour, minute int) {
	clock = strings.TrimSpace(clock)
	if len(clock) > 5 {
		clock = clock[:5]
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, 0
	}
	return t.Hour(), t.Minute()
}

// ParseTimestamp reads feed timestamps in UTC. Anything unparseable is nil.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
