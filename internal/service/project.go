package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"faultline/internal/model"
	"faultline/internal/repository"
)

var ErrNameRequired = errors.New("project name is required")

// ProjectListResult is the service-level DTO for paginated projects.
type ProjectListResult struct {
	Items []model.Project `json:"data"`
	Total int             `json:"total"`
}

// ProjectService defines the admin use cases for projects.
type ProjectService interface {
	// Create registers a new project with a server-generated API key.
	Create(ctx context.Context, name string) (*model.Project, error)

	// Get returns a project by its numeric ID.
	Get(ctx context.Context, id int64) (*model.Project, error)

	// List returns projects using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ProjectListResult, error)

	// Delete removes a project; its problems, notices, and deploys cascade.
	// Archived payloads are left to the bucket lifecycle policy.
	Delete(ctx context.Context, id int64) error

	// Stats returns aggregate counts for a project.
	Stats(ctx context.Context, id int64) (*model.ProjectStats, error)

	// Authenticate resolves the project owning a notifier API key.
	Authenticate(ctx context.Context, apiKey string) (*model.Project, error)
}

type projectService struct {
	projects repository.ProjectRepository
}

// NewProjectService constructs a new ProjectService.
func NewProjectService(projects repository.ProjectRepository) ProjectService {
	return &projectService{projects: projects}
}

func (s *projectService) Create(ctx context.Context, name string) (*model.Project, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	return s.projects.Create(ctx, &model.Project{
		Name:      name,
		APIKey:    uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	})
}

func (s *projectService) Get(ctx context.Context, id int64) (*model.Project, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, limit, offset int) (*ProjectListResult, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.projects.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ProjectListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *projectService) Delete(ctx context.Context, id int64) error {
	if _, err := s.projects.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.projects.Delete(ctx, id)
}

func (s *projectService) Stats(ctx context.Context, id int64) (*model.ProjectStats, error) {
	st, err := s.projects.Stats(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

func (s *projectService) Authenticate(ctx context.Context, apiKey string) (*model.Project, error) {
	if apiKey == "" {
		return nil, ErrNotFound
	}
	p, err := s.projects.FindByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
