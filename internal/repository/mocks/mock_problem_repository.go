package mocks

import (
	"context"

	"faultline/internal/model"
	"faultline/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockProblemRepository struct {
	mock.Mock
}

func (m *MockProblemRepository) UpsertOccurrence(ctx context.Context, p *model.Problem) (*model.Problem, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Problem), args.Error(1)
}

func (m *MockProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Problem), args.Error(1)
}

func (m *MockProblemRepository) List(ctx context.Context, projectID int64, f repository.ProblemFilter, pq repository.PageQuery) (*repository.PageResult[model.Problem], error) {
	args := m.Called(ctx, projectID, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Problem]), args.Error(1)
}

func (m *MockProblemRepository) SetResolved(ctx context.Context, id string, resolved bool) error {
	args := m.Called(ctx, id, resolved)
	return args.Error(0)
}

func (m *MockProblemRepository) SetMuted(ctx context.Context, id string, muted bool) error {
	args := m.Called(ctx, id, muted)
	return args.Error(0)
}

func (m *MockProblemRepository) ResolveByEnvironment(ctx context.Context, projectID int64, environment string) (int64, error) {
	args := m.Called(ctx, projectID, environment)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProblemRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
