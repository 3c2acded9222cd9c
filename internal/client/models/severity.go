package models

import "strings"

// Severity is the closed set of vulnerability severities.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity classifies s case-insensitively. Unknown and empty values
// are Low.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "Critical"
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// UnknownType labels vulnerabilities that carry no type.
const UnknownType = "Unknown"

// TypeOf returns the vulnerability type or UnknownType when it is empty.
func TypeOf(v Vulnerability) string {
	if v.Type == "" {
		return UnknownType
	}
	return v.Type
}
