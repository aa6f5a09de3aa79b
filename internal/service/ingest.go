package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"faultline/internal/fingerprint"
	"faultline/internal/model"
	"faultline/internal/repository"
	"faultline/internal/storage"
	"faultline/internal/taxonomy"
)

var (
	ErrNoticeNil = errors.New("notice is nil")
	ErrNoErrors  = errors.New("notice contains no errors")
)

// IngestResult is returned to the notifier after a notice is accepted.
type IngestResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// IngestService accepts exception notices and files them into problems.
type IngestService interface {
	// Ingest classifies the notice, archives its raw payload, records the
	// occurrence on its problem group, and persists the notice record.
	// The archived object is rolled back if a DB write fails.
	Ingest(ctx context.Context, projectID int64, n *model.Notice) (*IngestResult, error)
}

type ingestService struct {
	store    storage.Storage
	problems repository.ProblemRepository
	notices  repository.NoticeRepository
	baseURL  string
}

// NewIngestService constructs a new IngestService.
// baseURL is the externally visible URL used to build dashboard links.
func NewIngestService(store storage.Storage, problems repository.ProblemRepository, notices repository.NoticeRepository, baseURL string) IngestService {
	return &ingestService{store: store, problems: problems, notices: notices, baseURL: baseURL}
}

func (s *ingestService) Ingest(ctx context.Context, projectID int64, n *model.Notice) (*IngestResult, error) {
	if n == nil {
		return nil, ErrNoticeNil
	}
	if len(n.Errors) == 0 {
		return nil, ErrNoErrors
	}

	// The first entry is the primary error; the rest are nested causes and
	// only live in the archived payload.
	primary := n.Errors[0]
	severity := taxonomy.Normalize(contextString(n.Context, "severity"))
	environment := contextString(n.Context, "environment")

	noticeID := uuid.New().String()
	n.ID = noticeID

	payload, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshal notice: %w", err)
	}

	key := fmt.Sprintf("notices/%d/%s.json", projectID, noticeID)
	_, err = s.store.Put(ctx, key, bytes.NewReader(payload), storage.PutObjectOptions{
		Size:        int64(len(payload)),
		ContentType: "application/json",
		Metadata: map[string]string{
			"error-type": primary.Type,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("archive notice payload: %w", err)
	}

	now := time.Now().UTC()
	problem, err := s.problems.UpsertOccurrence(ctx, &model.Problem{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Fingerprint: fingerprint.Compute(primary),
		ErrorType:   primary.Type,
		Message:     primary.Message,
		Severity:    string(severity),
		Environment: environment,
		FirstSeen:   now,
		LastSeen:    now,
	})
	if err != nil {
		// Rollback: delete the archived payload from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("problem upsert failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("problem upsert failed: %w", err)
	}

	_, err = s.notices.Create(ctx, &model.NoticeRecord{
		ID:          noticeID,
		ProblemID:   problem.ID,
		ProjectID:   projectID,
		ErrorType:   primary.Type,
		Message:     primary.Message,
		Severity:    string(severity),
		Environment: environment,
		PayloadKey:  key,
		CreatedAt:   now,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("notice save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("notice save failed: %w", err)
	}

	return &IngestResult{
		ID:  noticeID,
		URL: fmt.Sprintf("%s/projects/%d/problems/%s", s.baseURL, projectID, problem.ID),
	}, nil
}

// contextString pulls a string-valued field from a notice context map.
func contextString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
