package repository

import (
	"context"
	"errors"
	"strings"

	"bloghub/internal/models"
	"bloghub/internal/observability"

	"gorm.io/gorm"
)

// PostListParams selects one page of posts, optionally filtered by a title substring.
type PostListParams struct {
	Search  string
	Page    int
	PerPage int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, params PostListParams) ([]models.Post, int64, error)
	Update(ctx context.Context, post *models.Post, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()

	if err := r.db.WithContext(ctx).Omit("User").Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID loads the post with its author.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func titleSearch(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" {
			return db
		}
		return db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
}

// List returns one page of posts with authors and the total number of matches.
func (r *postRepository) List(ctx context.Context, params PostListParams) ([]models.Post, int64, error) {
	defer observability.TrackQuery("select", "posts")()

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = 15
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(titleSearch(params.Search)).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	posts := []models.Post{}
	if err := r.db.WithContext(ctx).
		Scopes(titleSearch(params.Search)).
		Preload("User").
		Order("id ASC").
		Limit(params.PerPage).
		Offset((params.Page - 1) * params.PerPage).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return posts, total, nil
}

// Update writes only the given columns and reloads the post with its author.
func (r *postRepository) Update(ctx context.Context, post *models.Post, fields map[string]any) error {
	defer observability.TrackQuery("update", "posts")()

	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(post).Omit("User").Updates(fields).Error; err != nil {
			return models.NewInternalError(err)
		}
	}
	if err := r.db.WithContext(ctx).Preload("User").First(post, post.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()

	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post not found")
	}
	return nil
}
