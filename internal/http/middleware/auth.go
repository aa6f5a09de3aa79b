package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"faultline/internal/service"
)

// ProjectLocalKey is the key under which the authenticated project is stored
// in Fiber's context locals.
const ProjectLocalKey = "project"

// ProjectKeyLocalKey holds the raw API key used for the request; the rate
// limiter uses it as its bucket key.
const ProjectKeyLocalKey = "project_key"

// ProjectAuth authenticates notifier requests against a project API key.
//
// The key is read from the Authorization header ("Bearer <key>") or, as
// notifiers commonly do, from the "key" query parameter. The authenticated
// project must match the :project_id route parameter.
func ProjectAuth(projects service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := bearerToken(c.Get(fiber.HeaderAuthorization))
		if key == "" {
			key = c.Query("key")
		}
		if key == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "project key required")
		}

		project, err := projects.Authenticate(c.UserContext(), key)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid project key")
			}
			return fiber.ErrInternalServerError
		}

		id, err := strconv.ParseInt(c.Params("project_id"), 10, 64)
		if err != nil || id != project.ID {
			return fiber.NewError(fiber.StatusUnauthorized, "key does not match project")
		}

		c.Locals(ProjectLocalKey, project)
		c.Locals(ProjectKeyLocalKey, key)

		return c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
