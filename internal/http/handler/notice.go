package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"faultline/internal/model"
	"faultline/internal/service"
)

// CreateNotice accepts a v3 notice, runs it through the ingest pipeline, and
// answers with the notice ID and a dashboard link.
func CreateNotice(ingestSvc service.IngestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := strconv.ParseInt(c.Params("project_id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PROJECT_ID", "invalid project id")
		}

		var n model.Notice
		if err := c.BodyParser(&n); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NOTICE", "malformed notice payload")
		}

		res, err := ingestSvc.Ingest(c.UserContext(), projectID, &n)
		if err != nil {
			if errors.Is(err, service.ErrNoErrors) || errors.Is(err, service.ErrNoticeNil) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_NOTICE", "notice must contain at least one error")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// NoticePayloadURL returns a time-limited download URL for a notice's raw
// payload, scoped to the route's project.
func NoticePayloadURL(problemSvc service.ProblemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := strconv.ParseInt(c.Params("project_id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PROJECT_ID", "invalid project id")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := problemSvc.PayloadURL(c.UserContext(), projectID, id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "notice not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"url": u})
	}
}
