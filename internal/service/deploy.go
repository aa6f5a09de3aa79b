package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"faultline/internal/model"
	"faultline/internal/repository"
)

var ErrEnvironmentRequired = errors.New("deploy environment is required")

// DeployListResult is the service-level DTO for paginated deploys.
type DeployListResult struct {
	Items []model.Deploy `json:"data"`
	Total int            `json:"total"`
}

// DeployService records deployments and applies resolve-on-deploy.
type DeployService interface {
	// Record persists the deploy and then marks all unresolved problems in
	// the same project and environment resolved. Returns the stored deploy
	// and the number of problems resolved.
	Record(ctx context.Context, projectID int64, d *model.Deploy) (*model.Deploy, int64, error)

	// List returns a project's deploys using limit/offset and a total count.
	List(ctx context.Context, projectID int64, limit, offset int) (*DeployListResult, error)
}

type deployService struct {
	deploys  repository.DeployRepository
	problems repository.ProblemRepository
}

// NewDeployService constructs a new DeployService.
func NewDeployService(deploys repository.DeployRepository, problems repository.ProblemRepository) DeployService {
	return &deployService{deploys: deploys, problems: problems}
}

func (s *deployService) Record(ctx context.Context, projectID int64, d *model.Deploy) (*model.Deploy, int64, error) {
	if d == nil || d.Environment == "" {
		return nil, 0, ErrEnvironmentRequired
	}

	stored, err := s.deploys.Create(ctx, &model.Deploy{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Environment: d.Environment,
		Repository:  d.Repository,
		Revision:    d.Revision,
		Version:     d.Version,
		Username:    d.Username,
		DeployedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("save deploy: %w", err)
	}

	resolved, err := s.problems.ResolveByEnvironment(ctx, projectID, d.Environment)
	if err != nil {
		// The deploy itself is recorded; surface the partial failure.
		return stored, 0, fmt.Errorf("resolve problems on deploy: %w", err)
	}
	return stored, resolved, nil
}

func (s *deployService) List(ctx context.Context, projectID int64, limit, offset int) (*DeployListResult, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.deploys.List(ctx, projectID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DeployListResult{Items: res.Items, Total: res.Total}, nil
}
