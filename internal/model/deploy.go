package model

import "time"

// Deploy records a deployment event for a project environment.
// Recording a deploy resolves the environment's open problems.
type Deploy struct {
	ID          string    `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Environment string    `json:"environment"`
	Repository  string    `json:"repository,omitempty"`
	Revision    string    `json:"revision,omitempty"`
	Version     string    `json:"version,omitempty"`
	Username    string    `json:"username,omitempty"`
	DeployedAt  time.Time `json:"deployed_at"`
}
