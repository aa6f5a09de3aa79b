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

var noticeCols = []string{
	"id", "problem_id", "project_id", "error_type", "message", "severity",
	"environment", "payload_key", "created_at",
}

func TestNoticePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewNoticePostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	n := &model.NoticeRecord{
		ID:          "notice-1",
		ProblemID:   "prob-1",
		ProjectID:   7,
		ErrorType:   "RuntimeError",
		Message:     "boom",
		Severity:    "error",
		Environment: "production",
		PayloadKey:  "notices/7/notice-1.json",
		CreatedAt:   now,
	}

	rows := sqlmock.NewRows(noticeCols).
		AddRow(n.ID, n.ProblemID, n.ProjectID, n.ErrorType, n.Message, n.Severity, n.Environment, n.PayloadKey, n.CreatedAt)

	mock.ExpectQuery("INSERT INTO notices").
		WithArgs(n.ID, n.ProblemID, n.ProjectID, n.ErrorType, n.Message, n.Severity, n.Environment, n.PayloadKey, n.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, n)

	assert.NoError(t, err)
	assert.Equal(t, n.ID, result.ID)
	assert.Equal(t, n.PayloadKey, result.PayloadKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewNoticePostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(noticeCols).
			AddRow("notice-1", "prob-1", int64(7), "RuntimeError", "boom", "error", "production", "notices/7/notice-1.json", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM notices WHERE id = ?").
			WithArgs("notice-1").
			WillReturnRows(rows)

		n, err := repo.FindByID(ctx, "notice-1")

		assert.NoError(t, err)
		assert.Equal(t, "notice-1", n.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM notices WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		n, err := repo.FindByID(ctx, "missing")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, n)
	})
}

func TestNoticePostgres_ListByProblem(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewNoticePostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notices WHERE problem_id").
		WithArgs("prob-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows(noticeCols).
		AddRow("n2", "prob-1", int64(7), "RuntimeError", "boom", "error", "production", "notices/7/n2.json", time.Now()).
		AddRow("n1", "prob-1", int64(7), "RuntimeError", "boom", "error", "production", "notices/7/n1.json", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM notices WHERE problem_id").
		WithArgs("prob-1", 10, 0).
		WillReturnRows(rows)

	res, err := repo.ListByProblem(ctx, "prob-1", repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, "n2", res.Items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticePostgres_ListPayloadKeys(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewNoticePostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"payload_key"}).
		AddRow("notices/7/n1.json").
		AddRow("notices/7/n2.json")

	mock.ExpectQuery("SELECT payload_key FROM notices WHERE problem_id").
		WithArgs("prob-1").
		WillReturnRows(rows)

	keys, err := repo.ListPayloadKeys(ctx, "prob-1")

	assert.NoError(t, err)
	assert.Equal(t, []string{"notices/7/n1.json", "notices/7/n2.json"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticePostgres_DeleteByProblem(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewNoticePostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM notices WHERE problem_id").
		WithArgs("prob-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteByProblem(ctx, "prob-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
