package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"faultline/internal/model"
	"faultline/internal/repository"
)

var problemCols = []string{
	"id", "project_id", "fingerprint", "error_type", "message", "severity",
	"environment", "first_seen", "last_seen", "notice_count", "resolved", "muted",
}

func problemRow(id string, count int64, resolved bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(problemCols).
		AddRow(id, int64(7), "fp-1", "RuntimeError", "boom", "error", "production", now, now, count, resolved, false)
}

func TestProblemPostgres_UpsertOccurrence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProblemPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	p := &model.Problem{
		ID:          "prob-1",
		ProjectID:   7,
		Fingerprint: "fp-1",
		ErrorType:   "RuntimeError",
		Message:     "boom",
		Severity:    "error",
		Environment: "production",
		FirstSeen:   now,
		LastSeen:    now,
	}

	t.Run("first occurrence inserts", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO problems").
			WithArgs(p.ID, p.ProjectID, p.Fingerprint, p.ErrorType, p.Message, p.Severity, p.Environment, p.FirstSeen, p.LastSeen).
			WillReturnRows(problemRow("prob-1", 1, false))

		result, err := repo.UpsertOccurrence(ctx, p)

		assert.NoError(t, err)
		assert.Equal(t, "prob-1", result.ID)
		assert.Equal(t, int64(1), result.NoticeCount)
	})

	t.Run("conflict returns existing row with bumped count", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO problems").
			WithArgs(p.ID, p.ProjectID, p.Fingerprint, p.ErrorType, p.Message, p.Severity, p.Environment, p.FirstSeen, p.LastSeen).
			WillReturnRows(problemRow("existing-id", 5, false))

		result, err := repo.UpsertOccurrence(ctx, p)

		assert.NoError(t, err)
		assert.Equal(t, "existing-id", result.ID)
		assert.Equal(t, int64(5), result.NoticeCount)
		assert.False(t, result.Resolved)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProblemPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProblemPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM problems WHERE id = ?").
			WithArgs("prob-1").
			WillReturnRows(problemRow("prob-1", 3, false))

		p, err := repo.FindByID(ctx, "prob-1")

		assert.NoError(t, err)
		assert.Equal(t, "prob-1", p.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM problems WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByID(ctx, "missing")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, p)
	})
}

func TestProblemPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProblemPostgres(db)
	ctx := context.Background()

	t.Run("no filters", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM problems").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("SELECT (.+) FROM problems WHERE project_id = (.+) ORDER BY last_seen").
			WithArgs(int64(7), 10, 0).
			WillReturnRows(problemRow("prob-1", 3, false))

		res, err := repo.List(ctx, 7, repository.ProblemFilter{}, repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
	})

	t.Run("filters appended as parameters", func(t *testing.T) {
		resolved := false
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM problems").
			WithArgs(int64(7), false, "production", "error").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT (.+) FROM problems WHERE project_id = (.+) AND resolved = (.+) AND environment = (.+) AND severity = (.+)").
			WithArgs(int64(7), false, "production", "error", 10, 0).
			WillReturnRows(sqlmock.NewRows(problemCols))

		res, err := repo.List(ctx, 7,
			repository.ProblemFilter{Resolved: &resolved, Environment: "production", Severity: "error"},
			repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.Empty(t, res.Items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProblemPostgres_SetResolved(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProblemPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE problems SET resolved").
			WithArgs("prob-1", true).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetResolved(ctx, "prob-1", true))
	})

	t.Run("zero rows affected maps to sql.ErrNoRows", func(t *testing.T) {
		mock.ExpectExec("UPDATE problems SET resolved").
			WithArgs("missing", true).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetResolved(ctx, "missing", true), sql.ErrNoRows)
	})
}

func TestProblemPostgres_ResolveByEnvironment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProblemPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE problems SET resolved = TRUE").
		WithArgs(int64(7), "production").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ResolveByEnvironment(ctx, 7, "production")

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProblemPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProblemPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM problems WHERE id = ?").
		WithArgs("prob-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(ctx, "prob-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
