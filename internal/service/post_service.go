package service

import (
	"context"
	"fmt"

	"bloghub/internal/models"
	"bloghub/internal/repository"
	"bloghub/internal/validation"
)

// Mutation names the action checked by the ownership gate.
type Mutation string

const (
	MutationUpdate Mutation = "update"
	MutationDelete Mutation = "delete"
)

const defaultPerPage = 15

type PostService struct {
	postRepo repository.PostRepository
}

type ListPostsInput struct {
	Search  string
	Page    int
	PerPage int
}

type CreatePostInput struct {
	UserID  uint
	Request validation.CreatePostRequest
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// ListPosts returns one page of posts and the total number of matches.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.Post, int64, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PerPage < 1 {
		in.PerPage = defaultPerPage
	}
	return s.postRepo.List(ctx, repository.PostListParams{
		Search:  in.Search,
		Page:    in.Page,
		PerPage: in.PerPage,
	})
}

func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// CreatePost stores a post owned by in.UserID and returns it with its author loaded.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	req := in.Request
	req.Normalize()
	if fields := validation.Struct(req); fields != nil {
		return nil, models.NewFieldValidationError(fields)
	}

	post := &models.Post{
		Title:   req.Title,
		Content: req.Content,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// AuthorizeMutation loads the post and applies the ownership gate.
// A missing post is reported before a foreign one.
func (s *PostService) AuthorizeMutation(ctx context.Context, postID, userID uint, action Mutation) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !models.CanMutate(post, userID) {
		return nil, models.NewForbiddenError(fmt.Sprintf("You can only %s your own posts", action))
	}
	return post, nil
}

// UpdatePost applies the fields present in req to a post already cleared by AuthorizeMutation.
func (s *PostService) UpdatePost(ctx context.Context, post *models.Post, req validation.UpdatePostRequest) (*models.Post, error) {
	req.Normalize()
	if fields := validation.Struct(req); fields != nil {
		return nil, models.NewFieldValidationError(fields)
	}

	if err := s.postRepo.Update(ctx, post, req.Fields()); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.AuthorizeMutation(ctx, in.PostID, in.UserID, MutationDelete)
	if err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, post.ID)
}
