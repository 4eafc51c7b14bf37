package validation

import "strings"

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Name                 string `json:"name" validate:"filled,max=255"`
	Email                string `json:"email" validate:"filled,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,maxbytes=72,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Normalize trims surrounding whitespace and lowercases the email. Passwords are kept verbatim.
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"filled,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"filled,max=255"`
	Content string `json:"content" validate:"filled"`
}

func (r *CreatePostRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
}

// UpdatePostRequest is the body of PATCH /api/posts/{id}. Absent fields are left untouched.
type UpdatePostRequest struct {
	Title   *string `json:"title" validate:"omitnil,filled,max=255"`
	Content *string `json:"content" validate:"omitnil,filled"`
}

func (r *UpdatePostRequest) Normalize() {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		r.Title = &t
	}
	if r.Content != nil {
		c := strings.TrimSpace(*r.Content)
		r.Content = &c
	}
}

// Fields returns the columns to write for the fields present in the request.
func (r *UpdatePostRequest) Fields() map[string]any {
	fields := map[string]any{}
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Content != nil {
		fields["content"] = *r.Content
	}
	return fields
}
