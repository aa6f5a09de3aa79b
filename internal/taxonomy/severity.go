package taxonomy

import "strings"

// Severity classifies how serious a reported error is.
//
// The vocabulary is the syslog-style eight-level set that notifiers use in the
// notice context "severity" field. Values outside this set normalize to Error,
// which is also the notifier default when no severity is supplied.
type Severity string

const (
	Debug     Severity = "debug"
	Info      Severity = "info"
	Notice    Severity = "notice"
	Warning   Severity = "warning"
	Error     Severity = "error"
	Critical  Severity = "critical"
	Alert     Severity = "alert"
	Emergency Severity = "emergency"
)

// Default is the severity assigned when a notice does not declare one.
const Default = Error

// ranks orders severities from least to most severe.
var ranks = map[Severity]int{
	Debug:     0,
	Info:      1,
	Notice:    2,
	Warning:   3,
	Error:     4,
	Critical:  5,
	Alert:     6,
	Emergency: 7,
}

// Valid reports whether s is one of the known severity levels.
func (s Severity) Valid() bool {
	_, ok := ranks[s]
	return ok
}

// Rank returns the ordering position of s (higher is more severe).
// Unknown severities rank as Default so comparisons stay total.
func (s Severity) Rank() int {
	if r, ok := ranks[s]; ok {
		return r
	}
	return ranks[Default]
}

// AtLeast reports whether s is as severe as min or more.
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

// Normalize maps a raw severity string from a notice to a known Severity.
// Input is trimmed and lowercased; empty or unknown values become Default.
// Only normalized severities reach storage.
func Normalize(raw string) Severity {
	s := Severity(strings.ToLower(strings.TrimSpace(raw)))
	if s.Valid() {
		return s
	}
	return Default
}
