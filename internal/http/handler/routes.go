package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"faultline/internal/config"
	"faultline/internal/http/middleware"
	"faultline/internal/service"
)

// Services bundles the use-case layer dependencies of the HTTP surface.
type Services struct {
	Ingest  service.IngestService
	Problem service.ProblemService
	Project service.ProjectService
	Deploy  service.DeployService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; business logic lives in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services, ingestCfg config.IngestConfig) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoints: DB-backed readiness and plain liveness
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	auth := middleware.ProjectAuth(svc.Project)
	throttle := middleware.RateLimit(ingestCfg)

	// Notifier-facing ingestion surface (v3 wire format)
	v3 := app.Group("/api/v3/projects/:project_id")
	v3.Post("/notices", auth, throttle, CreateNotice(svc.Ingest))
	v3.Post("/deploys", auth, CreateDeploy(svc.Deploy))

	// Dashboard surface for problems and their notices
	v3.Get("/problems", ListProblems(svc.Problem))
	v3.Get("/problems/:id", GetProblem(svc.Problem))
	v3.Put("/problems/:id/resolved", SetProblemResolved(svc.Problem))
	v3.Put("/problems/:id/muted", SetProblemMuted(svc.Problem))
	v3.Delete("/problems/:id", DeleteProblem(svc.Problem))
	v3.Get("/problems/:id/notices", ListProblemNotices(svc.Problem))
	v3.Get("/notices/:id/payload", NoticePayloadURL(svc.Problem))
	v3.Get("/deploys", ListDeploys(svc.Deploy))

	// Admin surface for project management
	v4 := app.Group("/api/v4")
	v4.Post("/projects", CreateProject(svc.Project))
	v4.Get("/projects", ListProjects(svc.Project))
	v4.Get("/projects/:id", GetProject(svc.Project))
	v4.Delete("/projects/:id", DeleteProject(svc.Project))
	v4.Get("/projects/:id/stats", ProjectStats(svc.Project))
}
