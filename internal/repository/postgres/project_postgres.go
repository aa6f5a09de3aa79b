package postgres

import (
	"context"
	"database/sql"

	"faultline/internal/model"
	"faultline/internal/repository"
)

// ProjectPostgres is a PostgreSQL implementation of repository.ProjectRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ProjectPostgres struct {
	db *sql.DB
}

// NewProjectPostgres creates a new ProjectPostgres repository.
func NewProjectPostgres(db *sql.DB) *ProjectPostgres {
	return &ProjectPostgres{db: db}
}

var _ repository.ProjectRepository = (*ProjectPostgres)(nil)

// Create inserts a new project row and returns the stored record.
func (r *ProjectPostgres) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	const q = `
		INSERT INTO projects (name, api_key, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, name, api_key, created_at
	`
	row := r.db.QueryRowContext(ctx, q, p.Name, p.APIKey, p.CreatedAt)
	var out model.Project
	if err := row.Scan(&out.ID, &out.Name, &out.APIKey, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single project by its ID.
func (r *ProjectPostgres) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	const q = `
		SELECT id, name, api_key, created_at
		FROM projects
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var p model.Project
	if err := row.Scan(&p.ID, &p.Name, &p.APIKey, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByAPIKey fetches the project owning the given notifier key.
func (r *ProjectPostgres) FindByAPIKey(ctx context.Context, apiKey string) (*model.Project, error) {
	const q = `
		SELECT id, name, api_key, created_at
		FROM projects
		WHERE api_key = $1
	`
	row := r.db.QueryRowContext(ctx, q, apiKey)
	var p model.Project
	if err := row.Scan(&p.ID, &p.Name, &p.APIKey, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns projects using LIMIT/OFFSET pagination and a total count.
func (r *ProjectPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Project], error) {
	const qCount = `SELECT COUNT(*) FROM projects`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, name, api_key, created_at
		FROM projects
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Project, 0)
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.APIKey, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Project]{Items: items, Total: total}, nil
}

// Delete removes a project by ID. It does not return an error if the row does not exist.
func (r *ProjectPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM projects WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// Stats aggregates problem and notice counts for a project.
func (r *ProjectPostgres) Stats(ctx context.Context, id int64) (*model.ProjectStats, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM problems WHERE project_id = $1),
			(SELECT COUNT(*) FROM problems WHERE project_id = $1 AND NOT resolved),
			(SELECT COUNT(*) FROM notices WHERE project_id = $1),
			(SELECT COUNT(*) FROM notices WHERE project_id = $1 AND created_at > now() - interval '24 hours')
	`
	row := r.db.QueryRowContext(ctx, q, id)
	st := model.ProjectStats{ProjectID: id}
	if err := row.Scan(&st.ProblemCount, &st.UnresolvedCount, &st.NoticeCount, &st.NoticesLast24hrs); err != nil {
		return nil, err
	}
	return &st, nil
}
