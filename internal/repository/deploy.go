package repository

import (
	"context"

	"faultline/internal/model"
)

// DeployRepository defines data access for deploy records.
type DeployRepository interface {
	// Create inserts a new deploy record and returns the stored row.
	Create(ctx context.Context, d *model.Deploy) (*model.Deploy, error)

	// List returns a project's deploys ordered by deployed_at descending.
	List(ctx context.Context, projectID int64, pq PageQuery) (*PageResult[model.Deploy], error)
}
