package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/calboard/calboard/internal/utils"
	"github.com/calboard/calboard/pkg/gcal"
	"github.com/calboard/calboard/pkg/session"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	KindImage = "image"
	KindText  = "text"
)

var ErrEmptyInput = errors.New("input is empty")

// Extraction is one analysis result. Event is nil when the raw output could
// not be parsed; the raw text is always kept.
type Extraction struct {
	Raw   string
	Event *gcal.Event
}

type Service struct {
	client ModelClient
	repo   Repository
	model  string
	clock  utils.Clock
}

func NewService(client ModelClient, repo Repository, model string, clock utils.Clock) *Service {
	return &Service{client: client, repo: repo, model: model, clock: clock}
}

// AnalyzeImage extracts schedule information from an uploaded image.
func (s *Service) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*Extraction, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	raw, err := s.client.Generate(ctx, extractPrompt, data, mimeType)
	s.logArtifact(ctx, KindImage, len(data), err == nil, raw)
	if err != nil {
		return nil, fmt.Errorf("image analysis failed: %w", err)
	}
	return s.toExtraction(raw), nil
}

// AnalyzeText extracts schedule information from free-form text.
func (s *Service) AnalyzeText(ctx context.Context, text string) (*Extraction, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}

	raw, err := s.client.Generate(ctx, extractPrompt+"\n\nInput:\n"+text, nil, "")
	s.logArtifact(ctx, KindText, len(text), err == nil, raw)
	if err != nil {
		return nil, fmt.Errorf("text analysis failed: %w", err)
	}
	return s.toExtraction(raw), nil
}

func (s *Service) toExtraction(raw string) *Extraction {
	ev, err := ParseEvent(raw)
	if err != nil {
		log.Warnf("model output did not parse as an event: %v", err)
		return &Extraction{Raw: raw}
	}
	return &Extraction{Raw: raw, Event: ev}
}

// logArtifact records the attempt regardless of outcome. Logging failures are
// reported but never block the analysis result.
func (s *Service) logArtifact(ctx context.Context, kind string, payloadBytes int, success bool, raw string) {
	sessionID, err := session.CurrentID(ctx)
	if err != nil {
		sessionID = ""
	}

	artifact := Artifact{
		ID:           uuid.New().String(),
		SessionID:    sessionID,
		Kind:         kind,
		Model:        s.model,
		PayloadBytes: payloadBytes,
		Success:      success,
		RawResponse:  raw,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.Store(ctx, artifact); err != nil {
		log.Errorf("failed to store analysis artifact: %v", err)
	}
}
