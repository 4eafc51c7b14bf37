package server

import (
	"errors"
	"strconv"

	"bloghub/internal/auth"
	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

// Pagination holds parsed page/per_page query parameters.
type Pagination struct {
	Page    int
	PerPage int
}

// parsePagination reads page and per_page, falling back to page 1 and 15 per page.
func parsePagination(c *fiber.Ctx) Pagination {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

// parseID reads the :id route parameter. Anything that is not a positive integer
// cannot name a row, so it is answered as notFound.
func parseID(c *fiber.Ctx, notFound string) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		_ = models.NotFound(c, notFound)
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// bindBody decodes the request body into out. An empty body leaves out untouched so
// the schema reports the missing fields.
func bindBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		_ = models.BadRequest(c, "Invalid request body")
		return errResponseWritten
	}
	return nil
}

func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

func currentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals("claims").(*auth.Claims)
	return claims
}

// pageURL is the absolute URL of the current listing, used as the paginator path.
func (s *Server) pageURL(c *fiber.Ctx) string {
	if s.config.AppURL != "" {
		return s.config.AppURL + c.Path()
	}
	return c.BaseURL() + c.Path()
}
