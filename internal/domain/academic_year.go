package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AcademicYear is the normalized form of a free-text academic year label.
// Students enter labels like "2025-2026", "2025/26" or "2025"; all of them
// normalize to a (start, end) year pair so matching is structural instead
// of substring-based.
type AcademicYear struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

var yearRe = regexp.MustCompile(`(\d{4})(?:\s*[-/–]\s*(\d{2,4}))?`)

// ParseAcademicYear normalizes a free-text academic year label.
func ParseAcademicYear(label string) (AcademicYear, error) {
	m := yearRe.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return AcademicYear{}, fmt.Errorf("unrecognized academic year %q", label)
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return AcademicYear{}, fmt.Errorf("unrecognized academic year %q", label)
	}

	end := start + 1
	if m[2] != "" {
		e, err := strconv.Atoi(m[2])
		if err != nil {
			return AcademicYear{}, fmt.Errorf("unrecognized academic year %q", label)
		}
		if len(m[2]) == 2 {
			// "2025/26": expand the short form against the start century.
			e = (start/100)*100 + e
		}
		end = e
	}
	if end < start || end > start+1 {
		return AcademicYear{}, fmt.Errorf("academic year %q spans %d-%d", label, start, end)
	}
	return AcademicYear{Start: start, End: end}, nil
}

// MatchesCancelYear reports whether the academic year covers the seat's
// cancellation year: either it ends in that year or starts the year before.
func (y AcademicYear) MatchesCancelYear(cancelYear int) bool {
	return y.End == cancelYear || y.Start == cancelYear-1
}

func (y AcademicYear) String() string {
	return fmt.Sprintf("%d-%d", y.Start, y.End)
}
