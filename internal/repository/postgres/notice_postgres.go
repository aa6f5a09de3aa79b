package postgres

import (
	"context"
	"database/sql"

	"faultline/internal/model"
	"faultline/internal/repository"
)

// NoticePostgres is a PostgreSQL implementation of repository.NoticeRepository.
type NoticePostgres struct {
	db *sql.DB
}

// NewNoticePostgres creates a new NoticePostgres repository.
func NewNoticePostgres(db *sql.DB) *NoticePostgres {
	return &NoticePostgres{db: db}
}

var _ repository.NoticeRepository = (*NoticePostgres)(nil)

const noticeColumns = `id, problem_id, project_id, error_type, message, severity, environment, payload_key, created_at`

func scanNotice(row interface{ Scan(...any) error }) (*model.NoticeRecord, error) {
	var n model.NoticeRecord
	if err := row.Scan(
		&n.ID,
		&n.ProblemID,
		&n.ProjectID,
		&n.ErrorType,
		&n.Message,
		&n.Severity,
		&n.Environment,
		&n.PayloadKey,
		&n.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a new notice row and returns the stored record.
func (r *NoticePostgres) Create(ctx context.Context, n *model.NoticeRecord) (*model.NoticeRecord, error) {
	const q = `
		INSERT INTO notices (id, problem_id, project_id, error_type, message, severity, environment, payload_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + noticeColumns
	row := r.db.QueryRowContext(ctx, q,
		n.ID,
		n.ProblemID,
		n.ProjectID,
		n.ErrorType,
		n.Message,
		n.Severity,
		n.Environment,
		n.PayloadKey,
		n.CreatedAt,
	)
	return scanNotice(row)
}

// FindByID fetches a single notice by its ID.
func (r *NoticePostgres) FindByID(ctx context.Context, id string) (*model.NoticeRecord, error) {
	q := `SELECT ` + noticeColumns + ` FROM notices WHERE id = $1`
	return scanNotice(r.db.QueryRowContext(ctx, q, id))
}

// ListByProblem returns a problem's notices ordered by created_at descending.
func (r *NoticePostgres) ListByProblem(ctx context.Context, problemID string, pq repository.PageQuery) (*repository.PageResult[model.NoticeRecord], error) {
	const qCount = `SELECT COUNT(*) FROM notices WHERE problem_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, problemID).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + noticeColumns + ` FROM notices WHERE problem_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, problemID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.NoticeRecord, 0)
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.NoticeRecord]{Items: items, Total: total}, nil
}

// ListPayloadKeys returns the archive keys of all notices of a problem.
func (r *NoticePostgres) ListPayloadKeys(ctx context.Context, problemID string) ([]string, error) {
	const q = `SELECT payload_key FROM notices WHERE problem_id = $1`
	rows, err := r.db.QueryContext(ctx, q, problemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteByProblem removes all notices of a problem.
func (r *NoticePostgres) DeleteByProblem(ctx context.Context, problemID string) (int64, error) {
	const q = `DELETE FROM notices WHERE problem_id = $1`
	res, err := r.db.ExecContext(ctx, q, problemID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
