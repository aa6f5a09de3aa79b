package mocks

import (
	"context"

	"faultline/internal/model"
	"faultline/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDeployService struct {
	mock.Mock
}

func (m *MockDeployService) Record(ctx context.Context, projectID int64, d *model.Deploy) (*model.Deploy, int64, error) {
	args := m.Called(ctx, projectID, d)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).(*model.Deploy), args.Get(1).(int64), args.Error(2)
}

func (m *MockDeployService) List(ctx context.Context, projectID int64, limit, offset int) (*service.DeployListResult, error) {
	args := m.Called(ctx, projectID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeployListResult), args.Error(1)
}
