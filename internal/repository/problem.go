package repository

import (
	"context"

	"faultline/internal/model"
)

// ProblemFilter narrows problem listings. Zero values mean "no filter".
type ProblemFilter struct {
	// Resolved filters by resolution state when non-nil.
	Resolved *bool
	// Environment matches the problem's environment exactly when non-empty.
	Environment string
	// Severity matches the problem's severity exactly when non-empty.
	Severity string
}

// ProblemRepository defines data access for problems (notice groups).
type ProblemRepository interface {
	// UpsertOccurrence records one occurrence of the given problem.
	// If no row exists for (project_id, fingerprint) it is inserted as given;
	// otherwise the existing row's last_seen, message, and severity are
	// refreshed, notice_count is incremented, and resolved is cleared so a
	// recurring problem reopens. Returns the stored row either way.
	UpsertOccurrence(ctx context.Context, p *model.Problem) (*model.Problem, error)

	// FindByID returns a problem by its ID.
	FindByID(ctx context.Context, id string) (*model.Problem, error)

	// List returns a project's problems ordered by last_seen descending.
	List(ctx context.Context, projectID int64, f ProblemFilter, pq PageQuery) (*PageResult[model.Problem], error)

	// SetResolved updates the resolved flag of a problem.
	SetResolved(ctx context.Context, id string, resolved bool) error

	// SetMuted updates the muted flag of a problem.
	SetMuted(ctx context.Context, id string, muted bool) error

	// ResolveByEnvironment marks all unresolved problems of the project in
	// the given environment resolved and returns how many rows changed.
	ResolveByEnvironment(ctx context.Context, projectID int64, environment string) (int64, error)

	// Delete removes a problem by ID. Its notices cascade.
	// It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}
