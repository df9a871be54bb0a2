// Package validation checks normalized draw records for data quality
// issues before they are cached. Issues are advisory: partial upstream
// data still caches, but drift in the payload shape should be visible in
// the logs.
package validation

import (
	"fmt"
	"time"

	"github.com/thanawat/thailotto-api/lotteryparser/entities"
)

// Report lists the quality issues found in one draw record.
type Report struct {
	Issues []string
}

// HasIssues reports whether any check failed.
func (r Report) HasIssues() bool {
	return len(r.Issues) > 0
}

func (r *Report) addf(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

// ValidateDrawRecord runs all quality checks against a normalized record.
func ValidateDrawRecord(rec *entities.DrawRecord) Report {
	var report Report

	if _, err := time.Parse("2006-01-02", rec.DrawDate); err != nil {
		report.addf("draw date %q is not a valid ISO date", rec.DrawDate)
	}

	if rec.FirstPrize != "" && !isDigits(rec.FirstPrize, 6) {
		report.addf("first prize %q is not a 6-digit number", rec.FirstPrize)
	}

	checkRunning(&report, "front_3", rec.Front3, 3)
	checkRunning(&report, "last_3", rec.Last3, 3)

	if rec.Last2 != "" && !isDigits(rec.Last2, 2) {
		report.addf("last_2 %q is not a 2-digit number", rec.Last2)
	}

	for _, p := range rec.Prizes {
		if len(p.Number) == 0 {
			report.addf("prize %q has no winning numbers", p.ID)
		}
	}

	return report
}

// The source lottery format publishes exactly two values for each 3-digit
// running-number category.
func checkRunning(report *Report, name string, values []string, width int) {
	if len(values) > 2 {
		report.addf("%s has %d values, expected at most 2", name, len(values))
	}
	for _, v := range values {
		if !isDigits(v, width) {
			report.addf("%s value %q is not a %d-digit number", name, v, width)
		}
	}
}

func isDigits(s string, width int) bool {
	if len(s) != width {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
