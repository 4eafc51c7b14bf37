package server

import (
	"fmt"
	"net/http"
	"testing"

	"bloghub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := setupTestServer(t)

	tests := []struct {
		method string
		path   string
		token  string
	}{
		{http.MethodGet, "/api/posts", ""},
		{http.MethodPost, "/api/posts", ""},
		{http.MethodGet, "/api/posts/1", ""},
		{http.MethodPatch, "/api/posts/1", ""},
		{http.MethodDelete, "/api/posts/1", ""},
		{http.MethodGet, "/api/users/1", ""},
		{http.MethodGet, "/api/user", ""},
		{http.MethodPost, "/api/logout", ""},
		{http.MethodGet, "/api/posts", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, body := env.do(t, tt.method, tt.path, nil, tt.token)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, http.StatusUnauthorized, body.StatusCode)
			assert.Equal(t, map[string]any{}, body.Settings)
		})
	}
}

func TestCreateThenGetPost(t *testing.T) {
	env := setupTestServer(t)
	userID, token := env.register(t, "Ada", "ada@example.com")

	resp, body := env.do(t, http.MethodPost, "/api/posts", map[string]string{
		"title":   "My First Post",
		"content": "This is the content of my first post.",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Post created successfully", body.Message)

	var created models.Post
	body.decode(t, &created)
	require.NotNil(t, created.User)
	assert.Equal(t, userID, created.UserID)

	resp, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", created.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Post retrieved successfully", body.Message)

	var fetched models.Post
	body.decode(t, &fetched)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Content, fetched.Content)
	assert.Equal(t, userID, fetched.UserID)
	require.NotNil(t, fetched.User)
	assert.Equal(t, "Ada", fetched.User.Name)
}

func TestCreatePost_Validation(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "Ada", "ada@example.com")

	resp, body := env.do(t, http.MethodPost, "/api/posts", map[string]string{"title": ""}, token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	fields := body.errorFields(t)
	assert.Equal(t, []string{"The title field is required."}, fields["title"])
	assert.Equal(t, []string{"The content field is required."}, fields["content"])
}

func TestGetPost_NotFound(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "Ada", "ada@example.com")

	for _, path := range []string{"/api/posts/999", "/api/posts/abc"} {
		resp, body := env.do(t, http.MethodGet, path, nil, token)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, []string{"Post not found"}, body.errorList(t))
	}
}

func TestGetPosts_SearchIsCaseInsensitive(t *testing.T) {
	env := setupTestServer(t)
	userID, token := env.register(t, "Ada", "ada@example.com")
	for _, title := range []string{"Laravel Tutorial", "PHP Basics", "Laravel Advanced"} {
		env.seedPost(t, userID, title)
	}

	resp, body := env.do(t, http.MethodGet, "/api/posts?search=laravel", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Posts retrieved successfully", body.Message)

	var page models.Page[models.Post]
	body.decode(t, &page)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Laravel Tutorial", page.Data[0].Title)
	assert.Equal(t, "Laravel Advanced", page.Data[1].Title)
	require.NotNil(t, page.Data[0].User)
}

func TestGetPosts_Pagination(t *testing.T) {
	env := setupTestServer(t)
	userID, token := env.register(t, "Ada", "ada@example.com")
	for i := 1; i <= 4; i++ {
		env.seedPost(t, userID, fmt.Sprintf("Post %d", i))
	}

	_, body := env.do(t, http.MethodGet, "/api/posts?per_page=2", nil, token)

	var page models.Page[models.Post]
	body.decode(t, &page)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 2, page.PerPage)
	assert.Equal(t, 2, page.LastPage)
	assert.EqualValues(t, 4, page.Total)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, "http://localhost:8375/api/posts", page.Path)
	require.NotNil(t, page.NextPageURL)
	assert.Contains(t, *page.NextPageURL, "page=2")
	assert.Nil(t, page.PrevPageURL)

	_, body = env.do(t, http.MethodGet, "/api/posts", nil, token)
	body.decode(t, &page)
	assert.Equal(t, 15, page.PerPage)
	assert.Len(t, page.Data, 4)
}

func TestUpdatePost(t *testing.T) {
	env := setupTestServer(t)
	ownerID, ownerToken := env.register(t, "Owner", "owner@example.com")
	_, otherToken := env.register(t, "Other", "other@example.com")
	post := env.seedPost(t, ownerID, "Original Title")
	path := fmt.Sprintf("/api/posts/%d", post.ID)

	tests := []struct {
		name    string
		path    string
		token   string
		body    any
		status  int
		errors  []string
		message string
	}{
		{name: "missing post", path: "/api/posts/999", token: ownerToken, body: map[string]string{"title": "x"}, status: http.StatusNotFound, errors: []string{"Post not found"}},
		{name: "not owner", path: path, token: otherToken, body: map[string]string{"title": "Hijacked"}, status: http.StatusForbidden, errors: []string{"You can only update your own posts"}},
		{name: "not owner with invalid body", path: path, token: otherToken, body: map[string]string{"title": ""}, status: http.StatusForbidden},
		{name: "blank title", path: path, token: ownerToken, body: map[string]string{"title": "  "}, status: http.StatusUnprocessableEntity},
		{name: "malformed body", path: path, token: ownerToken, body: "{", status: http.StatusBadRequest},
		{name: "owner", path: path, token: ownerToken, body: map[string]string{"title": "Updated Title"}, status: http.StatusOK, message: "Post updated successfully"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPatch, tt.path, tt.body, tt.token)
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.errors != nil {
				assert.Equal(t, tt.errors, body.errorList(t))
			}
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}

	var stored models.Post
	require.NoError(t, env.db.First(&stored, post.ID).Error)
	assert.Equal(t, "Updated Title", stored.Title)
	assert.Equal(t, post.Content, stored.Content)
	assert.Equal(t, ownerID, stored.UserID)
}

func TestDeletePost(t *testing.T) {
	env := setupTestServer(t)
	ownerID, ownerToken := env.register(t, "Owner", "owner@example.com")
	_, otherToken := env.register(t, "Other", "other@example.com")
	post := env.seedPost(t, ownerID, "Doomed")
	path := fmt.Sprintf("/api/posts/%d", post.ID)

	resp, body := env.do(t, http.MethodDelete, "/api/posts/999", nil, ownerToken)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, []string{"Post not found"}, body.errorList(t))

	resp, body = env.do(t, http.MethodDelete, path, nil, otherToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, []string{"You can only delete your own posts"}, body.errorList(t))

	var count int64
	env.db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	resp, body = env.do(t, http.MethodDelete, path, nil, ownerToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Post deleted successfully", body.Message)

	env.db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
	assert.Zero(t, count)
}
