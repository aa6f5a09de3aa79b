package postgres

import (
	"context"
	"database/sql"

	"faultline/internal/model"
	"faultline/internal/repository"
)

// DeployPostgres is a PostgreSQL implementation of repository.DeployRepository.
type DeployPostgres struct {
	db *sql.DB
}

// NewDeployPostgres creates a new DeployPostgres repository.
func NewDeployPostgres(db *sql.DB) *DeployPostgres {
	return &DeployPostgres{db: db}
}

var _ repository.DeployRepository = (*DeployPostgres)(nil)

const deployColumns = `id, project_id, environment, repository, revision, version, username, deployed_at`

// Create inserts a new deploy row and returns the stored record.
func (r *DeployPostgres) Create(ctx context.Context, d *model.Deploy) (*model.Deploy, error) {
	const q = `
		INSERT INTO deploys (id, project_id, environment, repository, revision, version, username, deployed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + deployColumns
	row := r.db.QueryRowContext(ctx, q,
		d.ID,
		d.ProjectID,
		d.Environment,
		d.Repository,
		d.Revision,
		d.Version,
		d.Username,
		d.DeployedAt,
	)
	var out model.Deploy
	if err := row.Scan(
		&out.ID,
		&out.ProjectID,
		&out.Environment,
		&out.Repository,
		&out.Revision,
		&out.Version,
		&out.Username,
		&out.DeployedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns a project's deploys ordered by deployed_at descending.
func (r *DeployPostgres) List(ctx context.Context, projectID int64, pq repository.PageQuery) (*repository.PageResult[model.Deploy], error) {
	const qCount = `SELECT COUNT(*) FROM deploys WHERE project_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, projectID).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + deployColumns + ` FROM deploys WHERE project_id = $1
		ORDER BY deployed_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, projectID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Deploy, 0)
	for rows.Next() {
		var d model.Deploy
		if err := rows.Scan(
			&d.ID,
			&d.ProjectID,
			&d.Environment,
			&d.Repository,
			&d.Revision,
			&d.Version,
			&d.Username,
			&d.DeployedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Deploy]{Items: items, Total: total}, nil
}
