package mocks

import (
	"context"

	"faultline/internal/model"
	"faultline/internal/repository"
	"faultline/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockProblemService struct {
	mock.Mock
}

func (m *MockProblemService) List(ctx context.Context, projectID int64, f repository.ProblemFilter, limit, offset int) (*service.ProblemListResult, error) {
	args := m.Called(ctx, projectID, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProblemListResult), args.Error(1)
}

func (m *MockProblemService) Get(ctx context.Context, projectID int64, id string) (*model.Problem, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Problem), args.Error(1)
}

func (m *MockProblemService) SetResolved(ctx context.Context, projectID int64, id string, resolved bool) error {
	args := m.Called(ctx, projectID, id, resolved)
	return args.Error(0)
}

func (m *MockProblemService) SetMuted(ctx context.Context, projectID int64, id string, muted bool) error {
	args := m.Called(ctx, projectID, id, muted)
	return args.Error(0)
}

func (m *MockProblemService) Delete(ctx context.Context, projectID int64, id string) error {
	args := m.Called(ctx, projectID, id)
	return args.Error(0)
}

func (m *MockProblemService) ListNotices(ctx context.Context, projectID int64, problemID string, limit, offset int) (*service.NoticeListResult, error) {
	args := m.Called(ctx, projectID, problemID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NoticeListResult), args.Error(1)
}

func (m *MockProblemService) PayloadURL(ctx context.Context, projectID int64, noticeID string) (string, error) {
	args := m.Called(ctx, projectID, noticeID)
	return args.String(0), args.Error(1)
}
