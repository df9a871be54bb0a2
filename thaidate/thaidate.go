// Package thaidate converts between Thai Buddhist-Era date texts and ISO
// calendar dates, and computes the Thai Government Lottery draw calendar
// (draws on the 1st and 16th of each month at 15:00 Bangkok time).
package thaidate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Years in the Buddhist Era run 543 ahead of the Gregorian calendar.
const buddhistYearOffset = 543

// DrawHour is the local hour of day at which draws take place.
const DrawHour = 15

var thaiMonths = map[string]string{
	"มกราคม":     "01",
	"กุมภาพันธ์": "02",
	"มีนาคม":     "03",
	"เมษายน":     "04",
	"พฤษภาคม":    "05",
	"มิถุนายน":   "06",
	"กรกฎาคม":    "07",
	"สิงหาคม":    "08",
	"กันยายน":    "09",
	"ตุลาคม":     "10",
	"พฤศจิกายน":  "11",
	"ธันวาคม":    "12",
}

var thaiMonthNames = [12]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

var bangkok = loadBangkok()

func loadBangkok() *time.Location {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		// Hosts without the IANA database still get the right offset;
		// Thailand has no DST.
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// Location returns the Bangkok timezone used for all draw calendar math.
func Location() *time.Location {
	return bangkok
}

// ParseThaiDate converts a Buddhist-Era date text such as "2 มกราคม 2569"
// to the ISO form "2026-01-02". It returns an empty string when the text
// does not split into exactly three tokens or the year is not numeric.
// Unrecognized month names fall back to "01"; this is lossy but matches
// the behavior of the upstream consumers this API replaces.
func ParseThaiDate(text string) string {
	parts := strings.Fields(text)
	if len(parts) != 3 {
		return ""
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return ""
	}

	month, ok := thaiMonths[parts[1]]
	if !ok {
		month = "01"
	}

	buddhistYear, err := strconv.Atoi(parts[2])
	if err != nil {
		return ""
	}

	return fmt.Sprintf("%04d-%s-%02d", buddhistYear-buddhistYearOffset, month, day)
}

// FormatThaiDate renders an ISO date as Buddhist-Era Thai text,
// e.g. "2026-01-02" -> "2 มกราคม 2569".
func FormatThaiDate(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), thaiMonthNames[t.Month()-1], t.Year()+buddhistYearOffset)
}

// FormatEnglishDate renders an ISO date as "2 January 2026". Invalid input
// yields an empty string.
func FormatEnglishDate(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return ""
	}
	return t.Format("2 January 2006")
}

// ToBuddhistQueryDate converts an ISO date to the DDMMYYYY Buddhist-Era
// form the upstream /lotto/{id} endpoint expects.
func ToBuddhistQueryDate(isoDate string) (string, error) {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return "", fmt.Errorf("invalid ISO date %q: %w", isoDate, err)
	}
	return fmt.Sprintf("%02d%02d%d", t.Day(), int(t.Month()), t.Year()+buddhistYearOffset), nil
}

// ExpectedDrawDate returns the most recently elapsed draw date for the
// given instant: the 16th of the current month once the 16th has arrived,
// otherwise the 1st. The previous-month fallback is unreachable since
// Day() never returns less than 1; it is kept to preserve the documented
// fallback rather than silently changing semantics.
func ExpectedDrawDate(now time.Time) time.Time {
	now = now.In(bangkok)
	day := now.Day()

	switch {
	case day >= 16:
		return time.Date(now.Year(), now.Month(), 16, 0, 0, 0, 0, bangkok)
	case day >= 1:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, bangkok)
	}

	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, bangkok).AddDate(0, -1, 0)
	return time.Date(prev.Year(), prev.Month(), 16, 0, 0, 0, 0, bangkok)
}

// NextDrawDate returns the next draw instant strictly after now: the
// upcoming 1st or 16th at 15:00 Bangkok time.
func NextDrawDate(now time.Time) time.Time {
	now = now.In(bangkok)
	day := now.Day()

	var next time.Time
	switch {
	case day < 1:
		next = time.Date(now.Year(), now.Month(), 1, DrawHour, 0, 0, 0, bangkok)
	case day < 16:
		next = time.Date(now.Year(), now.Month(), 16, DrawHour, 0, 0, 0, bangkok)
	default:
		next = time.Date(now.Year(), now.Month(), 1, DrawHour, 0, 0, 0, bangkok).AddDate(0, 1, 0)
	}

	// Guard the exact boundary: if today's draw has already passed, move
	// on to the following slot.
	if !next.After(now) {
		if next.Day() == 1 {
			next = time.Date(next.Year(), next.Month(), 16, DrawHour, 0, 0, 0, bangkok)
		} else {
			next = time.Date(next.Year(), next.Month(), 1, DrawHour, 0, 0, 0, bangkok).AddDate(0, 1, 0)
		}
	}

	return next
}

// RecentDrawDates walks backward from now through the 1st/16th draw slots
// and returns count dates strictly in the past, formatted as Buddhist-Era
// DDMMYYYY strings (most recent first).
func RecentDrawDates(now time.Time, count int) []string {
	now = now.In(bangkok)
	dates := make([]string, 0, count)

	year := now.Year()
	month := int(now.Month())
	day := now.Day()

	// Snap to the last draw slot at or before today.
	switch {
	case day > 16:
		day = 16
	case day > 1:
		day = 1
	default:
		month--
		if month < 1 {
			month = 12
			year--
		}
		day = 16
	}

	for len(dates) < count {
		drawDate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, bangkok)
		if drawDate.Before(now) {
			dates = append(dates, fmt.Sprintf("%02d%02d%d", day, month, year+buddhistYearOffset))
		}

		// Step to the slot before this one.
		if day == 16 {
			day = 1
		} else {
			day = 16
			month--
			if month < 1 {
				month = 12
				year--
			}
		}
	}

	return dates
}
