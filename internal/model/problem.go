package model

import "time"

// Problem is a group of notices sharing a fingerprint within a project.
// This is a pure domain model with no database-specific dependencies or tags.
type Problem struct {
	ID          string    `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Fingerprint string    `json:"fingerprint"`
	ErrorType   string    `json:"error_type"`
	Message     string    `json:"message"`
	Severity    string    `json:"severity"`
	Environment string    `json:"environment"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	NoticeCount int64     `json:"notice_count"`
	Resolved    bool      `json:"resolved"`
	Muted       bool      `json:"muted"`
}
