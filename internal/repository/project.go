package repository

import (
	"context"

	"faultline/internal/model"
)

// ProjectRepository defines data access for projects using SQL queries only.
// No business logic here — strictly persistence operations.
type ProjectRepository interface {
	// Create inserts a new project record. The caller provides Name, APIKey,
	// and CreatedAt; the database assigns the ID.
	Create(ctx context.Context, p *model.Project) (*model.Project, error)

	// FindByID returns a project by its numeric ID.
	FindByID(ctx context.Context, id int64) (*model.Project, error)

	// FindByAPIKey returns the project owning the given notifier key.
	FindByAPIKey(ctx context.Context, apiKey string) (*model.Project, error)

	// List returns a paginated list of projects and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Project], error)

	// Delete removes a project by ID. Problems, notices, and deploys cascade.
	Delete(ctx context.Context, id int64) error

	// Stats returns aggregate problem/notice counts for a project.
	Stats(ctx context.Context, id int64) (*model.ProjectStats, error)
}
