package v1

import "time"

// Severity classifies a gap by its duration.
type Severity string

const (
	// SeverityMinor is a gap shorter than one hour.
	SeverityMinor Severity = "minor"
	// SeverityMajor is a gap shorter than one day.
	SeverityMajor Severity = "major"
	// SeverityCritical is a gap of one day or more.
	SeverityCritical Severity = "critical"
)

// ClassifySeverity maps a gap duration to its severity.
func ClassifySeverity(d time.Duration) Severity {
	switch {
	case d < time.Hour:
		return SeverityMinor
	case d < 24*time.Hour:
		return SeverityMajor
	default:
		return SeverityCritical
	}
}

// Gap is a run of missing periods in an otherwise regular series.
type Gap struct {
	Symbol           string        `json:"symbol"`
	Frequency        string        `json:"frequency"`
	GapStart         time.Time     `json:"gapStart"`
	GapEnd           time.Time     `json:"gapEnd"`
	Duration         time.Duration `json:"duration"`
	ExpectedBarCount int           `json:"expectedBarCount"`
	Severity         Severity      `json:"severity"`
}
