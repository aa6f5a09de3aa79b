package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"faultline/internal/repository"
	"faultline/internal/service"
	"faultline/internal/taxonomy"
)

// ListProblems returns a project's problems with optional filters:
// resolved=true|false, environment=<name>, severity=<level>, limit, offset.
func ListProblems(problemSvc service.ProblemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := strconv.ParseInt(c.Params("project_id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PROJECT_ID", "invalid project id")
		}

		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		var f repository.ProblemFilter
		if v := c.Query("resolved"); v != "" {
			resolved, err := strconv.ParseBool(v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_RESOLVED", "invalid resolved filter")
			}
			f.Resolved = &resolved
		}
		f.Environment = c.Query("environment")
		if v := c.Query("severity"); v != "" {
			if !taxonomy.Severity(v).Valid() {
				return writeError(c, fiber.StatusBadRequest, "INVALID_SEVERITY", "unknown severity level")
			}
			f.Severity = v
		}

		res, err := problemSvc.List(c.UserContext(), projectID, f, limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetProblem returns a single problem by ID, scoped to the route's project.
func GetProblem(problemSvc service.ProblemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := strconv.ParseInt(c.Params("project_id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PROJECT_ID", "invalid project id")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := problemSvc.Get(c.UserContext(), projectID, id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "problem not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(p)
	}
}

// SetProblemResolved flips a problem's resolved flag from a {"resolved": bool} body.
func SetProblemResolved(problemSvc service.ProblemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := strconv.ParseInt(c.Params("project_id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PROJECT_ID", "invalid project id")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var body struct {
			Resolved bool `json:"resolved"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		if err := problemSvc.SetResolved(c.UserContext(), projectID, id, body.Resolved); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "problem not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SetProblemMuted flips a problem's muted flag from a {"muted": bool} body.
func SetProblemMuted(problemSvc service.ProblemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := strconv.ParseInt(c.Params("project_id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PROJECT_ID", "invalid project id")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var body struct {
			Muted bool `json:"muted"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		if err := problemSvc.SetMuted(c.UserContext(), projectID, id, body.Muted); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "problem not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeleteProblem removes a problem, its notices, and their archived payloads.
func DeleteProblem(problemSvc service.ProblemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := strconv.ParseInt(c.Params("project_id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PROJECT_ID", "invalid project id")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := problemSvc.Delete(c.UserContext(), projectID, id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "problem not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListProblemNotices returns a problem's notices, newest first.
func ListProblemNotices(problemSvc service.ProblemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := strconv.ParseInt(c.Params("project_id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PROJECT_ID", "invalid project id")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := problemSvc.ListNotices(c.UserContext(), projectID, id, limit, offset)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "problem not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
