package market

import (
	"fmt"
	"strings"
	"time"
)

// Timeframes lists the chart intervals in ascending order.
var Timeframes = []string{"1m", "5m", "15m", "30m", "1H", "4H", "1D", "1W"}

var timeframeDurations = map[string]time.Duration{
	"1m":  time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1H":  time.Hour,
	"4H":  4 * time.Hour,
	"1D":  24 * time.Hour,
	"1W":  7 * 24 * time.Hour,
}

// ParseTimeframe normalizes s ("1h", "1H", "H1", "m15") and returns the
// canonical name and its duration.
func ParseTimeframe(s string) (string, time.Duration, error) {
	name := canonicalTimeframe(strings.TrimSpace(s))
	d, ok := timeframeDurations[name]
	if !ok {
		return "", 0, fmt.Errorf("unsupported timeframe %q (supported: %s)", s, strings.Join(Timeframes, ", "))
	}
	return name, d, nil
}

// TimeframeName maps a duration back to its canonical name.
func TimeframeName(d time.Duration) (string, error) {
	if d <= 0 {
		return "", fmt.Errorf("invalid timeframe duration: %s", d)
	}
	for _, name := range Timeframes {
		if timeframeDurations[name] == d {
			return name, nil
		}
	}
	return "", fmt.Errorf("cannot map timeframe: %s", d)
}

func canonicalTimeframe(s string) string {
	if s == "" {
		return s
	}
	// "H1" / "M15" / "D1" / "W1" style
	switch unit := s[0]; unit {
	case 'M', 'H', 'D', 'W', 'm', 'h', 'd', 'w':
		if len(s) > 1 && s[1] >= '0' && s[1] <= '9' {
			s = s[1:] + string(unit)
		}
	}
	n := len(s) - 1
	switch s[n] {
	case 'm', 'M':
		return s[:n] + "m"
	case 'h', 'H':
		return s[:n] + "H"
	case 'd', 'D':
		return s[:n] + "D"
	case 'w', 'W':
		return s[:n] + "W"
	}
	return s
}
