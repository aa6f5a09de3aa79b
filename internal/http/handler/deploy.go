package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"faultline/internal/model"
	"faultline/internal/service"
)

// deployResponse pairs the stored deploy with the number of problems it resolved.
type deployResponse struct {
	Deploy           *model.Deploy `json:"deploy"`
	ResolvedProblems int64         `json:"resolved_problems"`
}

// CreateDeploy records a deployment and applies resolve-on-deploy.
func CreateDeploy(deploySvc service.DeployService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := strconv.ParseInt(c.Params("project_id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PROJECT_ID", "invalid project id")
		}

		var d model.Deploy
		if err := c.BodyParser(&d); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		stored, resolved, err := deploySvc.Record(c.UserContext(), projectID, &d)
		if err != nil {
			if errors.Is(err, service.ErrEnvironmentRequired) {
				return writeError(c, fiber.StatusBadRequest, "ENVIRONMENT_REQUIRED", "deploy environment is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(deployResponse{Deploy: stored, ResolvedProblems: resolved})
	}
}

// ListDeploys returns a project's deploys, newest first.
func ListDeploys(deploySvc service.DeployService) fiber.Handler {
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

		res, err := deploySvc.List(c.UserContext(), projectID, limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
