package model

import "time"

// Project is a reporting tenant. APIKey authenticates its notifiers.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectStats summarizes a project's current error state.
type ProjectStats struct {
	ProjectID        int64 `json:"project_id"`
	ProblemCount     int64 `json:"problem_count"`
	UnresolvedCount  int64 `json:"unresolved_count"`
	NoticeCount      int64 `json:"notice_count"`
	NoticesLast24hrs int64 `json:"notices_last_24hrs"`
}
