package fleet

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownLine buckets records whose line code is missing or not a string.
const UnknownLine = "UNKNOWN"

// Analysis summarizes one record sequence by service line.
type Analysis struct {
	TotalTrains int
	LineCounts  map[string]int
}

// Analyze counts records per line code. Missing or mistyped codes land
// in the UnknownLine bucket; codes are upper-cased so the summary groups
// case variants together.
func Analyze(records []Record) Analysis {
	a := Analysis{
		TotalTrains: len(records),
		LineCounts:  make(map[string]int),
	}
	for _, r := range records {
		code, ok := r.LineCode()
		if !ok || code == "" {
			code = UnknownLine
		}
		a.LineCounts[strings.ToUpper(code)]++
	}
	return a
}

// Summary renders the per-line counts as "R1:5, R4:2", sorted by code.
func (a Analysis) Summary() string {
	codes := make([]string, 0, len(a.LineCounts))
	for code := range a.LineCounts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s:%d", code, a.LineCounts[code]))
	}
	return strings.Join(parts, ", ")
}
