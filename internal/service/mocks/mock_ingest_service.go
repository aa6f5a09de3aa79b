package mocks

import (
	"context"

	"faultline/internal/model"
	"faultline/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) Ingest(ctx context.Context, projectID int64, n *model.Notice) (*service.IngestResult, error) {
	args := m.Called(ctx, projectID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}
