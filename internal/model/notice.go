package model

import "time"

// StackFrame is a single entry of an error backtrace as reported by a notifier.
type StackFrame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

// ErrorInfo describes one reported error: its class name, message, and backtrace.
// A notice may carry several (the first is the primary error, the rest are causes).
type ErrorInfo struct {
	Type      string       `json:"type"`
	Message   string       `json:"message"`
	Backtrace []StackFrame `json:"backtrace"`
}

// Notice is an incoming exception report in the v3 wire shape.
// Context carries notifier-supplied metadata such as "environment", "severity",
// "hostname", and "version". Environment/Session/Params hold arbitrary
// key/value payloads captured at the moment of the error.
type Notice struct {
	ID          string         `json:"id,omitempty"`
	Errors      []ErrorInfo    `json:"errors"`
	Context     map[string]any `json:"context,omitempty"`
	Environment map[string]any `json:"environment,omitempty"`
	Session     map[string]any `json:"session,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
}

// NoticeRecord is the persisted, queryable projection of a notice.
// The full raw payload lives in object storage under PayloadKey.
type NoticeRecord struct {
	ID          string    `json:"id"`
	ProblemID   string    `json:"problem_id"`
	ProjectID   int64     `json:"project_id"`
	ErrorType   string    `json:"error_type"`
	Message     string    `json:"message"`
	Severity    string    `json:"severity"`
	Environment string    `json:"environment"`
	PayloadKey  string    `json:"payload_key"`
	CreatedAt   time.Time `json:"created_at"`
}
