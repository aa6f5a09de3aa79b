package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"faultline/internal/model"
	"faultline/internal/repository"
)

// ProblemPostgres is a PostgreSQL implementation of repository.ProblemRepository.
type ProblemPostgres struct {
	db *sql.DB
}

// NewProblemPostgres creates a new ProblemPostgres repository.
func NewProblemPostgres(db *sql.DB) *ProblemPostgres {
	return &ProblemPostgres{db: db}
}

var _ repository.ProblemRepository = (*ProblemPostgres)(nil)

const problemColumns = `id, project_id, fingerprint, error_type, message, severity, environment, first_seen, last_seen, notice_count, resolved, muted`

func scanProblem(row interface{ Scan(...any) error }) (*model.Problem, error) {
	var p model.Problem
	if err := row.Scan(
		&p.ID,
		&p.ProjectID,
		&p.Fingerprint,
		&p.ErrorType,
		&p.Message,
		&p.Severity,
		&p.Environment,
		&p.FirstSeen,
		&p.LastSeen,
		&p.NoticeCount,
		&p.Resolved,
		&p.Muted,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertOccurrence inserts the problem or, on a (project_id, fingerprint)
// conflict, refreshes the existing row and reopens it.
func (r *ProblemPostgres) UpsertOccurrence(ctx context.Context, p *model.Problem) (*model.Problem, error) {
	const q = `
		INSERT INTO problems (id, project_id, fingerprint, error_type, message, severity, environment,
			first_seen, last_seen, notice_count, resolved, muted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, FALSE, FALSE)
		ON CONFLICT (project_id, fingerprint) DO UPDATE SET
			message      = EXCLUDED.message,
			severity     = EXCLUDED.severity,
			environment  = EXCLUDED.environment,
			last_seen    = EXCLUDED.last_seen,
			notice_count = problems.notice_count + 1,
			resolved     = FALSE
		RETURNING ` + problemColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.ProjectID,
		p.Fingerprint,
		p.ErrorType,
		p.Message,
		p.Severity,
		p.Environment,
		p.FirstSeen,
		p.LastSeen,
	)
	return scanProblem(row)
}

// FindByID fetches a single problem by its ID.
func (r *ProblemPostgres) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	q := `SELECT ` + problemColumns + ` FROM problems WHERE id = $1`
	return scanProblem(r.db.QueryRowContext(ctx, q, id))
}

// List returns a project's problems ordered by last_seen descending.
// Filters are appended as parameterized conditions; no string interpolation of values.
func (r *ProblemPostgres) List(ctx context.Context, projectID int64, f repository.ProblemFilter, pq repository.PageQuery) (*repository.PageResult[model.Problem], error) {
	conds := []string{"project_id = $1"}
	args := []any{projectID}

	if f.Resolved != nil {
		args = append(args, *f.Resolved)
		conds = append(conds, fmt.Sprintf("resolved = $%d", len(args)))
	}
	if f.Environment != "" {
		args = append(args, f.Environment)
		conds = append(conds, fmt.Sprintf("environment = $%d", len(args)))
	}
	if f.Severity != "" {
		args = append(args, f.Severity)
		conds = append(conds, fmt.Sprintf("severity = $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	qCount := `SELECT COUNT(*) FROM problems WHERE ` + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, pq.Limit, pq.Offset)
	qList := fmt.Sprintf(`SELECT `+problemColumns+` FROM problems WHERE %s
		ORDER BY last_seen DESC, id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Problem, 0)
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Problem]{Items: items, Total: total}, nil
}

// SetResolved updates the resolved flag of a problem.
func (r *ProblemPostgres) SetResolved(ctx context.Context, id string, resolved bool) error {
	const q = `UPDATE problems SET resolved = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, resolved)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetMuted updates the muted flag of a problem.
func (r *ProblemPostgres) SetMuted(ctx context.Context, id string, muted bool) error {
	const q = `UPDATE problems SET muted = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, muted)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ResolveByEnvironment resolves all open problems of a project environment.
func (r *ProblemPostgres) ResolveByEnvironment(ctx context.Context, projectID int64, environment string) (int64, error) {
	const q = `UPDATE problems SET resolved = TRUE WHERE project_id = $1 AND environment = $2 AND NOT resolved`
	res, err := r.db.ExecContext(ctx, q, projectID, environment)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a problem by ID. It does not return an error if the row does not exist.
func (r *ProblemPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM problems WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
