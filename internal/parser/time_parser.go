package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	clockRegex    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	dateRegex     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks)(?:\s+ago)?$`)
)

// ParseDuration parses a set duration into seconds
// Supported formats:
// - bare seconds (e.g., "90")
// - Go style units (e.g., "90s", "5m", "1m30s", "1h")
// - clock style (e.g., "1:30" is mm:ss, "1:02:03" is h:mm:ss)
func ParseDuration(input string) (int, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if secs, err := strconv.Atoi(input); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("duration must not be negative")
		}
		return secs, nil
	}

	if m := clockRegex.FindStringSubmatch(input); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		if m[3] == "" {
			if b > 59 {
				return 0, fmt.Errorf("seconds must be between 0 and 59")
			}
			return a*60 + b, nil
		}
		c, _ := strconv.Atoi(m[3])
		if b > 59 || c > 59 {
			return 0, fmt.Errorf("minutes and seconds must be between 0 and 59")
		}
		return a*3600 + b*60 + c, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format. Use: 90, 90s, 5m, 1m30s or 1:30")
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative")
	}
	return int(d.Round(time.Second).Seconds()), nil
}

// FormatDuration renders seconds as m:ss, or h:mm:ss past an hour
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds/60)%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseSince parses the lower bound of a history filter
// Supported formats:
// - dd/mm/yyyy (e.g., "15/12/2025")
// - today, yesterday
// - X days / X weeks, optionally followed by "ago" (e.g., "7d", "2 weeks ago")
func ParseSince(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	today := StartOfDay(now)

	switch input {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if m := dateRegex.FindStringSubmatch(input); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
		// time.Date normalises out of range values, so check they survived
		if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
			return time.Time{}, fmt.Errorf("invalid date")
		}
		return t, nil
	}

	if m := relativeRegex.FindStringSubmatch(input); m != nil {
		amount, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "d", "day", "days":
			return today.AddDate(0, 0, -amount), nil
		default:
			return today.AddDate(0, 0, -7*amount), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format. Use: dd/mm/yyyy, today, yesterday, X days or X weeks")
}

// StartOfDay truncates t to local midnight
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDay labels a workout date relative to now
func FormatDay(day, now time.Time) string {
	diff := int(StartOfDay(now).Sub(StartOfDay(day)).Hours() / 24)
	dateStr := day.Format("02/01/2006")
	switch diff {
	case 0:
		return "Today (" + dateStr + ")"
	case 1:
		return "Yesterday (" + dateStr + ")"
	default:
		return day.Format("Mon") + " " + dateStr
	}
}
