package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"faultline/internal/model"
	"faultline/internal/repository"
	repoMocks "faultline/internal/repository/mocks"
)

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path - API key generated", func(t *testing.T) {
		mProjects := new(repoMocks.MockProjectRepository)
		mProjects.On("Create", ctx, mock.MatchedBy(func(p *model.Project) bool {
			return p.Name == "backend" && p.APIKey != "" && !p.CreatedAt.IsZero()
		})).Return(&model.Project{ID: 1, Name: "backend", APIKey: "key"}, nil)
		svc := NewProjectService(mProjects)

		p, err := svc.Create(ctx, "backend")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
		mProjects.AssertExpectations(t)
	})

	t.Run("validation - empty name", func(t *testing.T) {
		svc := NewProjectService(new(repoMocks.MockProjectRepository))
		_, err := svc.Create(ctx, "")
		assert.ErrorIs(t, err, ErrNameRequired)
	})
}

func TestProjectService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mProjects := new(repoMocks.MockProjectRepository)
		mProjects.On("FindByID", ctx, int64(1)).Return(&model.Project{ID: 1}, nil)
		svc := NewProjectService(mProjects)

		p, err := svc.Get(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mProjects := new(repoMocks.MockProjectRepository)
		mProjects.On("FindByID", ctx, int64(99)).Return(nil, sql.ErrNoRows)
		svc := NewProjectService(mProjects)

		_, err := svc.Get(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("zero limit uses default", func(t *testing.T) {
		mProjects := new(repoMocks.MockProjectRepository)
		mProjects.On("List", ctx, repository.PageQuery{Limit: 20, Offset: 0}).
			Return(&repository.PageResult[model.Project]{
				Items: []model.Project{{ID: 1}},
				Total: 1,
			}, nil)
		svc := NewProjectService(mProjects)

		res, err := svc.List(ctx, 0, -1)
		assert.NoError(t, err)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, 1, res.Total)
	})
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mProjects := new(repoMocks.MockProjectRepository)
		mProjects.On("FindByID", ctx, int64(1)).Return(&model.Project{ID: 1}, nil)
		mProjects.On("Delete", ctx, int64(1)).Return(nil)
		svc := NewProjectService(mProjects)

		assert.NoError(t, svc.Delete(ctx, 1))
		mProjects.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mProjects := new(repoMocks.MockProjectRepository)
		mProjects.On("FindByID", ctx, int64(99)).Return(nil, sql.ErrNoRows)
		svc := NewProjectService(mProjects)

		assert.ErrorIs(t, svc.Delete(ctx, 99), ErrNotFound)
	})
}

func TestProjectService_Stats(t *testing.T) {
	ctx := context.Background()

	mProjects := new(repoMocks.MockProjectRepository)
	mProjects.On("Stats", ctx, int64(1)).Return(&model.ProjectStats{
		ProblemCount:     3,
		UnresolvedCount:  2,
		NoticeCount:      40,
		NoticesLast24hrs: 5,
	}, nil)
	svc := NewProjectService(mProjects)

	st, err := svc.Stats(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), st.ProblemCount)
	assert.Equal(t, int64(5), st.NoticesLast24hrs)
}

func TestProjectService_Authenticate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		apiKey     string
		setupMocks func(mProjects *repoMocks.MockProjectRepository)
		wantErr    error
	}{
		{
			name:   "happy path",
			apiKey: "valid-key",
			setupMocks: func(mProjects *repoMocks.MockProjectRepository) {
				mProjects.On("FindByAPIKey", ctx, "valid-key").
					Return(&model.Project{ID: 1, APIKey: "valid-key"}, nil)
			},
		},
		{
			name:       "empty key rejected without a lookup",
			apiKey:     "",
			setupMocks: func(mProjects *repoMocks.MockProjectRepository) {},
			wantErr:    ErrNotFound,
		},
		{
			name:   "unknown key",
			apiKey: "bogus",
			setupMocks: func(mProjects *repoMocks.MockProjectRepository) {
				mProjects.On("FindByAPIKey", ctx, "bogus").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "generic repository error",
			apiKey: "key",
			setupMocks: func(mProjects *repoMocks.MockProjectRepository) {
				mProjects.On("FindByAPIKey", ctx, "key").Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mProjects := new(repoMocks.MockProjectRepository)
			svc := NewProjectService(mProjects)

			tt.setupMocks(mProjects)

			p, err := svc.Authenticate(ctx, tt.apiKey)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, ErrNotFound)
				} else {
					assert.Error(t, err)
				}
				assert.Nil(t, p)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, p)
			}
			mProjects.AssertExpectations(t)
		})
	}
}
