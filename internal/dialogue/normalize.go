package dialogue

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	meridiemTime = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(AM|PM|A\.M\.|P\.M\.)$`)
	shortClock   = regexp.MustCompile(`^\d:[0-5]\d$`)
)

// NormalizeDate раскрывает today/tomorrow относительно now, остальное без изменений
func NormalizeDate(raw string, now time.Time) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "today":
		return now.Format("2006-01-02")
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	default:
		return raw
	}
}

// NormalizeTime переводит "2pm", "11:30 AM", "9:30" в HH:MM, остальное без изменений
func NormalizeTime(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if shortClock.MatchString(trimmed) {
		return "0" + trimmed
	}

	m := meridiemTime.FindStringSubmatch(strings.ToUpper(trimmed))
	if m == nil {
		return raw
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return raw
	}

	pm := strings.HasPrefix(m[3], "P")
	switch {
	case pm && hour != 12:
		hour += 12
	case !pm && hour == 12:
		hour = 0
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}
