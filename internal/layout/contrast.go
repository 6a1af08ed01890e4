package layout

import (
	"strconv"
	"strings"
	"time"
)

// Text colors chosen by ContrastColor.
const (
	TextLight   = "#ffffff"
	TextDark    = "#333333"
	TextNeutral = "#555555"
)

// ContrastColor returns the label color that reads best on the background
// bg ("#RRGGBB"): white on dark backgrounds, dark gray on light ones.
// Empty or malformed colors get the neutral gray used for unmarked days.
func ContrastColor(bg string) string {
	r, g, b, ok := parseHex(bg)
	if !ok {
		return TextNeutral
	}
	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if luminance < 0.5 {
		return TextLight
	}
	return TextDark
}

func parseHex(s string) (r, g, b uint8, ok bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// mondayIndex maps Monday..Sunday to 0..6.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// WeeksInMonth returns the number of Monday-first week rows the month spans.
func WeeksInMonth(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	offset := mondayIndex(first.Weekday())
	return (offset + days + 6) / 7
}
