package capture

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseMinutes takes the first integer in text, e.g. "45" or "45min".
func ParseMinutes(text string) (int, bool) {
	n, err := strconv.Atoi(digits.FindString(text))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ParseDeadline accepts "2006-01-02 15:04", "02/01/2006 15:04", a bare date
// (end of that day) or a relative "+2h30m", and returns epoch milliseconds.
func ParseDeadline(value string, now time.Time) (int64, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "+") {
		d, err := time.ParseDuration(value[1:])
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("prazo inválido: %q", value)
		}
		return now.Add(d).UnixMilli(), nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "02/01/2006 15:04"} {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t.UnixMilli(), nil
		}
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t.Add(23*time.Hour + 59*time.Minute).UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("prazo inválido: %q", value)
}
