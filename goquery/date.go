package goquery

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var months = map[string]int{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4, "mayo": 5, "junio": 6,
	"julio": 7, "agosto": 8, "septiembre": 9, "setiembre": 9, "octubre": 10,
	"noviembre": 11, "diciembre": 12,
}

var (
	spanishDateRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s+de\s+(\p{L}+)\s+(?:de|del)\s+(\d{4})\b`)
	slashDateRe   = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	isoDateRe     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
)

// NormalizeDate finds the first date in text and returns it as DD-MM-YYYY.
// Formats are tried in order: "DD de MES de YYYY", "DD/MM/YYYY" and
// "YYYY-MM-DD". A match naming an unknown month or an impossible day is
// skipped. Returns "" when no date is found.
func NormalizeDate(text string) string {
	for _, m := range spanishDateRe.FindAllStringSubmatch(text, -1) {
		month, ok := months[fold(m[2])]
		if !ok {
			continue
		}
		if s, ok := formatDate(m[1], month, m[3]); ok {
			return s
		}
	}
	for _, m := range slashDateRe.FindAllStringSubmatch(text, -1) {
		month, _ := strconv.Atoi(m[2])
		if s, ok := formatDate(m[1], month, m[3]); ok {
			return s
		}
	}
	for _, m := range isoDateRe.FindAllStringSubmatch(text, -1) {
		month, _ := strconv.Atoi(m[2])
		if s, ok := formatDate(m[3], month, m[1]); ok {
			return s
		}
	}
	return ""
}

// formatDate validates day/month/year and formats them as DD-MM-YYYY.
func formatDate(day string, month int, year string) (string, bool) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	if month < 1 || month > 12 || d < 1 {
		return "", false
	}
	t := time.Date(y, time.Month(month), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return "", false
	}
	return fmt.Sprintf("%02d-%02d-%04d", d, month, y), true
}
