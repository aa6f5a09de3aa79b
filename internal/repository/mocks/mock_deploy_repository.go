package mocks

import (
	"context"

	"faultline/internal/model"
	"faultline/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDeployRepository struct {
	mock.Mock
}

func (m *MockDeployRepository) Create(ctx context.Context, d *model.Deploy) (*model.Deploy, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Deploy), args.Error(1)
}

func (m *MockDeployRepository) List(ctx context.Context, projectID int64, pq repository.PageQuery) (*repository.PageResult[model.Deploy], error) {
	args := m.Called(ctx, projectID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Deploy]), args.Error(1)
}
