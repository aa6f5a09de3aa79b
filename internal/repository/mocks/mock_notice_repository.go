package mocks

import (
	"context"

	"faultline/internal/model"
	"faultline/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockNoticeRepository struct {
	mock.Mock
}

func (m *MockNoticeRepository) Create(ctx context.Context, n *model.NoticeRecord) (*model.NoticeRecord, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NoticeRecord), args.Error(1)
}

func (m *MockNoticeRepository) FindByID(ctx context.Context, id string) (*model.NoticeRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NoticeRecord), args.Error(1)
}

func (m *MockNoticeRepository) ListByProblem(ctx context.Context, problemID string, pq repository.PageQuery) (*repository.PageResult[model.NoticeRecord], error) {
	args := m.Called(ctx, problemID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.NoticeRecord]), args.Error(1)
}

func (m *MockNoticeRepository) ListPayloadKeys(ctx context.Context, problemID string) ([]string, error) {
	args := m.Called(ctx, problemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockNoticeRepository) DeleteByProblem(ctx context.Context, problemID string) (int64, error) {
	args := m.Called(ctx, problemID)
	return args.Get(0).(int64), args.Error(1)
}
