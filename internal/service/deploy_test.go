package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"faultline/internal/model"
	"faultline/internal/repository"
	repoMocks "faultline/internal/repository/mocks"
)

func TestDeployService_Record(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		deploy       *model.Deploy
		setupMocks   func(mDeploys *repoMocks.MockDeployRepository, mProblems *repoMocks.MockProblemRepository)
		wantErr      error
		wantErrMsg   string
		wantResolved int64
	}{
		{
			name:   "happy path - unresolved problems in environment resolved",
			deploy: &model.Deploy{Environment: "production", Revision: "abc123", Username: "deployer"},
			setupMocks: func(mDeploys *repoMocks.MockDeployRepository, mProblems *repoMocks.MockProblemRepository) {
				mDeploys.On("Create", ctx, mock.MatchedBy(func(d *model.Deploy) bool {
					return d.ID != "" &&
						d.ProjectID == 7 &&
						d.Environment == "production" &&
						d.Revision == "abc123" &&
						!d.DeployedAt.IsZero()
				})).Return(&model.Deploy{ID: "d1", ProjectID: 7, Environment: "production"}, nil)
				mProblems.On("ResolveByEnvironment", ctx, int64(7), "production").
					Return(int64(3), nil)
			},
			wantResolved: 3,
		},
		{
			name:       "validation - nil deploy",
			deploy:     nil,
			setupMocks: func(mDeploys *repoMocks.MockDeployRepository, mProblems *repoMocks.MockProblemRepository) {},
			wantErr:    ErrEnvironmentRequired,
		},
		{
			name:       "validation - empty environment",
			deploy:     &model.Deploy{Revision: "abc123"},
			setupMocks: func(mDeploys *repoMocks.MockDeployRepository, mProblems *repoMocks.MockProblemRepository) {},
			wantErr:    ErrEnvironmentRequired,
		},
		{
			name:   "deploy save error",
			deploy: &model.Deploy{Environment: "staging"},
			setupMocks: func(mDeploys *repoMocks.MockDeployRepository, mProblems *repoMocks.MockProblemRepository) {
				mDeploys.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErrMsg: "save deploy: db fail",
		},
		{
			name:   "resolve error surfaces but deploy is kept",
			deploy: &model.Deploy{Environment: "staging"},
			setupMocks: func(mDeploys *repoMocks.MockDeployRepository, mProblems *repoMocks.MockProblemRepository) {
				mDeploys.On("Create", ctx, mock.Anything).
					Return(&model.Deploy{ID: "d2"}, nil)
				mProblems.On("ResolveByEnvironment", ctx, int64(7), "staging").
					Return(int64(0), errors.New("db fail"))
			},
			wantErrMsg: "resolve problems on deploy: db fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mDeploys := new(repoMocks.MockDeployRepository)
			mProblems := new(repoMocks.MockProblemRepository)
			svc := NewDeployService(mDeploys, mProblems)

			tt.setupMocks(mDeploys, mProblems)

			stored, resolved, err := svc.Record(ctx, 7, tt.deploy)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, stored)
				assert.Equal(t, tt.wantResolved, resolved)
			}
			mDeploys.AssertExpectations(t)
			mProblems.AssertExpectations(t)
		})
	}
}

func TestDeployService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mDeploys := new(repoMocks.MockDeployRepository)
		mDeploys.On("List", ctx, int64(7), repository.PageQuery{Limit: 20, Offset: 0}).
			Return(&repository.PageResult[model.Deploy]{
				Items: []model.Deploy{{ID: "d1"}, {ID: "d2"}},
				Total: 2,
			}, nil)
		svc := NewDeployService(mDeploys, nil)

		res, err := svc.List(ctx, 7, 0, 0)
		assert.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("repository error", func(t *testing.T) {
		mDeploys := new(repoMocks.MockDeployRepository)
		mDeploys.On("List", ctx, int64(7), mock.Anything).Return(nil, errors.New("db fail"))
		svc := NewDeployService(mDeploys, nil)

		_, err := svc.List(ctx, 7, 10, 0)
		assert.Error(t, err)
	})
}
