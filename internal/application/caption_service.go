package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/captionly/captionly/internal/domain/entity"
	repo "github.com/captionly/captionly/internal/domain/repository"
)

var (
	ErrEmptyPrompt      = errors.New("prompt is required")
	ErrGenerationFailed = errors.New("caption generation failed")
	ErrCaptionNotFound  = errors.New("caption not found")
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// Generator produces caption text from a user's idea. Implemented by the
// gemini client; faked in tests.
type Generator interface {
	GenerateCaption(ctx context.Context, idea string) (string, error)
}

// GenerateResult carries the caption and whether it was persisted. When the
// store rejects the row after a successful generation the text is still
// returned with Saved=false; persistence is best-effort, not transactional
// with the upstream call.
type GenerateResult struct {
	Caption *entity.Caption
	Saved   bool
}

// CaptionService orchestrates generation, history and search for captions.
type CaptionService struct {
	Repo    repo.CaptionRepository
	Gen     Generator
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewCaptionService(repo repo.CaptionRepository, gen Generator, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *CaptionService {
	return &CaptionService{Repo: repo, Gen: gen, Logger: logger, ES: es, ESIndex: esIndex}
}

// Generate validates the prompt, calls the generation collaborator and
// persists the result. Upstream failures are collapsed into
// ErrGenerationFailed; the raw error is only logged.
func (s *CaptionService) Generate(ctx context.Context, userID, prompt string) (*GenerateResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	text, err := s.Gen.GenerateCaption(ctx, prompt)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("caption generation failed")
		}
		return nil, ErrGenerationFailed
	}

	capt := &entity.Caption{
		UserID:  userID,
		Prompt:  prompt,
		Caption: strings.TrimSpace(text),
	}
	if err := s.Repo.Create(ctx, capt); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("caption generated but not persisted")
		}
		return &GenerateResult{Caption: capt, Saved: false}, nil
	}

	s.index(ctx, capt)
	return &GenerateResult{Caption: capt, Saved: true}, nil
}

// List returns one page of the user's history (newest first) and the total count.
func (s *CaptionService) List(ctx context.Context, userID string, limit, offset int) ([]entity.Caption, int64, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	captions, err := s.Repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return captions, total, nil
}

// Get returns a single owned caption. A caption that is missing or belongs
// to another user yields ErrCaptionNotFound.
func (s *CaptionService) Get(ctx context.Context, userID, captionID string) (*entity.Caption, error) {
	capt, err := s.Repo.GetOwned(ctx, userID, captionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCaptionNotFound
		}
		return nil, err
	}
	return capt, nil
}

// Delete removes an owned caption. Deleting a caption that is missing or
// belongs to another user yields ErrCaptionNotFound.
func (s *CaptionService) Delete(ctx context.Context, userID, captionID string) error {
	if err := s.Repo.DeleteOwned(ctx, userID, captionID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCaptionNotFound
		}
		return err
	}
	return nil
}

// index writes the caption to Elasticsearch. Best-effort: search lags rather
// than failing the request.
func (s *CaptionService) index(ctx context.Context, c *entity.Caption) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         c.ID,
		"user_id":    c.UserID,
		"prompt":     c.Prompt,
		"caption":    c.Caption,
		"created_at": c.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: c.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(ctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("caption_id", c.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("caption_id", c.ID).Warn("es index response error")
	}
}

// Search performs a multi_match query over the user's prompts and captions.
func (s *CaptionService) Search(ctx context.Context, userID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > MaxListLimit {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"prompt^2", "caption"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
