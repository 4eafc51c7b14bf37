package server

import (
	"net/url"

	"bloghub/internal/models"
	"bloghub/internal/service"
	"bloghub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const postNotFound = "Post not found"

// GetPosts handles GET /api/posts?page=&per_page=&search=
// @Summary List posts
// @Description Paginated posts with their authors, optionally filtered by title
// @Tags posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(15)
// @Param search query string false "Case-insensitive title filter"
// @Success 200 {object} models.Envelope{data=models.Page[models.Post]}
// @Failure 401 {object} models.Envelope
// @Security BearerAuth
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c)
	search := c.Query("search")

	posts, total, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Search:  search,
		Page:    page.Page,
		PerPage: page.PerPage,
	})
	if err != nil {
		return models.RespondWithError(c, s.logger, err)
	}

	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if c.Query("per_page") != "" {
		query.Set("per_page", c.Query("per_page"))
	}

	return models.Success(c,
		models.NewPage(posts, total, page.Page, page.PerPage, s.pageURL(c), query),
		"Posts retrieved successfully")
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Envelope{data=models.Post}
// @Failure 401 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, postNotFound)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, s.logger, err)
	}
	return models.Success(c, post, "Post retrieved successfully")
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body validation.CreatePostRequest true "Post content"
// @Success 201 {object} models.Envelope{data=models.Post}
// @Failure 401 {object} models.Envelope
// @Failure 422 {object} models.Envelope
// @Security BearerAuth
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req validation.CreatePostRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  currentUserID(c),
		Request: req,
	})
	if err != nil {
		return models.RespondWithError(c, s.logger, err)
	}
	return models.Created(c, post, "Post created successfully")
}

// UpdatePost handles PATCH /api/posts/:id. Existence and ownership are checked before the body.
// @Summary Update a post
// @Description Only the owner may update. Absent fields are left untouched.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body validation.UpdatePostRequest true "Fields to change"
// @Success 200 {object} models.Envelope{data=models.Post}
// @Failure 401 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Failure 422 {object} models.Envelope
// @Security BearerAuth
// @Router /posts/{id} [patch]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, postNotFound)
	if err != nil {
		return nil
	}

	ctx := c.UserContext()
	post, err := s.postService.AuthorizeMutation(ctx, id, currentUserID(c), service.MutationUpdate)
	if err != nil {
		return models.RespondWithError(c, s.logger, err)
	}

	var req validation.UpdatePostRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	post, err = s.postService.UpdatePost(ctx, post, req)
	if err != nil {
		return models.RespondWithError(c, s.logger, err)
	}
	return models.Success(c, post, "Post updated successfully")
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Description Only the owner may delete.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Envelope
// @Failure 401 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, postNotFound)
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return models.RespondWithError(c, s.logger, err)
	}
	return models.Success(c, nil, "Post deleted successfully")
}
