package service

import (
	"context"

	"bloghub/internal/models"
	"bloghub/internal/repository"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByIDWithPostsFn func(context.Context, uint) (*models.User, error)
	getByEmailFn       func(context.Context, string) (*models.User, error)
	createFn           func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithPosts(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDWithPostsFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:          func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByIDWithPostsFn: func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:       func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:           func(_ context.Context, _ *models.User) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context, repository.PostListParams) ([]models.Post, int64, error)
	updateFn  func(context.Context, *models.Post, map[string]any) error
	deleteFn  func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, params repository.PostListParams) ([]models.Post, int64, error) {
	return s.listFn(ctx, params)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post, fields map[string]any) error {
	return s.updateFn(ctx, post, fields)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listFn: func(_ context.Context, _ repository.PostListParams) ([]models.Post, int64, error) {
			return []models.Post{}, 0, nil
		},
		updateFn: func(_ context.Context, _ *models.Post, _ map[string]any) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func appErrorCode(err error) string {
	appErr, ok := err.(*models.AppError)
	if !ok {
		return ""
	}
	return appErr.Code
}
