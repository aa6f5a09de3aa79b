package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"faultline/internal/model"
	"faultline/internal/repository"
	"faultline/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("not found")
)

// payloadURLExpiry bounds how long a presigned payload download link stays valid.
const payloadURLExpiry = 15 * time.Minute

// ProblemListResult is the service-level DTO for paginated problems.
type ProblemListResult struct {
	Items []model.Problem `json:"data"`
	Total int             `json:"total"`
}

// NoticeListResult is the service-level DTO for paginated notice records.
type NoticeListResult struct {
	Items []model.NoticeRecord `json:"data"`
	Total int                  `json:"total"`
}

// ProblemService defines the dashboard use cases for problems and their
// notices. All by-ID lookups are scoped to a project; a row belonging to
// another project is reported as not found rather than leaked.
type ProblemService interface {
	// List returns a project's problems using limit/offset and a total count.
	List(ctx context.Context, projectID int64, f repository.ProblemFilter, limit, offset int) (*ProblemListResult, error)

	// Get returns a single problem of the project by its ID.
	Get(ctx context.Context, projectID int64, id string) (*model.Problem, error)

	// SetResolved marks a problem resolved or unresolved.
	SetResolved(ctx context.Context, projectID int64, id string, resolved bool) error

	// SetMuted mutes or unmutes a problem.
	SetMuted(ctx context.Context, projectID int64, id string, muted bool) error

	// Delete removes a problem, its notices, and their archived payloads.
	Delete(ctx context.Context, projectID int64, id string) error

	// ListNotices returns a problem's notice records, newest first.
	ListNotices(ctx context.Context, projectID int64, problemID string, limit, offset int) (*NoticeListResult, error)

	// PayloadURL returns a time-limited download URL for a notice's raw payload.
	PayloadURL(ctx context.Context, projectID int64, noticeID string) (string, error)
}

type problemService struct {
	store    storage.Storage
	problems repository.ProblemRepository
	notices  repository.NoticeRepository
}

// NewProblemService constructs a new ProblemService.
func NewProblemService(store storage.Storage, problems repository.ProblemRepository, notices repository.NoticeRepository) ProblemService {
	return &problemService{store: store, problems: problems, notices: notices}
}

// List returns paginated problems without exposing repository types.
func (s *problemService) List(ctx context.Context, projectID int64, f repository.ProblemFilter, limit, offset int) (*ProblemListResult, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.problems.List(ctx, projectID, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ProblemListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a problem by ID. A problem owned by a different project is
// indistinguishable from a missing one.
func (s *problemService) Get(ctx context.Context, projectID int64, id string) (*model.Problem, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.problems.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.ProjectID != projectID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *problemService) SetResolved(ctx context.Context, projectID int64, id string, resolved bool) error {
	if _, err := s.Get(ctx, projectID, id); err != nil {
		return err
	}
	if err := s.problems.SetResolved(ctx, id, resolved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *problemService) SetMuted(ctx context.Context, projectID int64, id string, muted bool) error {
	if _, err := s.Get(ctx, projectID, id); err != nil {
		return err
	}
	if err := s.problems.SetMuted(ctx, id, muted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes archived payloads first so no unreferenced objects are left
// behind, then the notice rows, then the problem row.
func (s *problemService) Delete(ctx context.Context, projectID int64, id string) error {
	if _, err := s.Get(ctx, projectID, id); err != nil {
		return err
	}

	keys, err := s.notices.ListPayloadKeys(ctx, id)
	if err != nil {
		return fmt.Errorf("list payload keys: %w", err)
	}
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete payload %s: %w", key, err)
		}
	}

	if _, err := s.notices.DeleteByProblem(ctx, id); err != nil {
		return fmt.Errorf("delete notices: %w", err)
	}
	return s.problems.Delete(ctx, id)
}

// ListNotices returns paginated notice records for a problem.
func (s *problemService) ListNotices(ctx context.Context, projectID int64, problemID string, limit, offset int) (*NoticeListResult, error) {
	if _, err := s.Get(ctx, projectID, problemID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.notices.ListByProblem(ctx, problemID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &NoticeListResult{Items: res.Items, Total: res.Total}, nil
}

// PayloadURL returns a presigned GET URL for a notice's archived payload.
func (s *problemService) PayloadURL(ctx context.Context, projectID int64, noticeID string) (string, error) {
	if noticeID == "" {
		return "", ErrIDRequired
	}
	n, err := s.notices.FindByID(ctx, noticeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if n.ProjectID != projectID {
		return "", ErrNotFound
	}
	u, err := s.store.PresignGet(ctx, n.PayloadKey, payloadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign payload: %w", err)
	}
	return u, nil
}
