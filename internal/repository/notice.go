package repository

import (
	"context"

	"faultline/internal/model"
)

// NoticeRepository defines data access for persisted notice records.
type NoticeRepository interface {
	// Create inserts a new notice record and returns the stored row.
	Create(ctx context.Context, n *model.NoticeRecord) (*model.NoticeRecord, error)

	// FindByID returns a notice record by its ID.
	FindByID(ctx context.Context, id string) (*model.NoticeRecord, error)

	// ListByProblem returns a problem's notices ordered by created_at descending.
	ListByProblem(ctx context.Context, problemID string, pq PageQuery) (*PageResult[model.NoticeRecord], error)

	// ListPayloadKeys returns the archive object keys of all notices of a
	// problem, for storage cleanup before deletion.
	ListPayloadKeys(ctx context.Context, problemID string) ([]string, error)

	// DeleteByProblem removes all notice rows of a problem and returns how
	// many rows were deleted.
	DeleteByProblem(ctx context.Context, problemID string) (int64, error)
}
