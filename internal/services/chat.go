package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kaipinbao/kaipinbao-backend/internal/clients/gemini"
	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/prd"
	"github.com/kaipinbao/kaipinbao-backend/internal/repos"
	"github.com/kaipinbao/kaipinbao-backend/internal/stream"
	"github.com/kaipinbao/kaipinbao-backend/internal/types"
)

// TurnRequest is one chat turn: the full ordered history including the
// newest user message, plus the workflow stage it belongs to.
type TurnRequest struct {
	ProjectID uuid.UUID
	Stage     int
	Messages  []gemini.Message
}

type TurnResult struct {
	AssistantText string
	Extracted     bool
	Ready         bool
}

type ChatService interface {
	// StreamTurn drives one turn end to end: persist the user message,
	// build the system prompt from project context, stream the model
	// response to out in normalized SSE form, then persist the
	// assistant message, run extraction/merge, and evaluate the
	// completion predicate.
	//
	// If the consumer disconnects or the upstream stream breaks before
	// the done marker, nothing is persisted for the assistant side;
	// whatever the client already rendered is its own concern.
	StreamTurn(ctx context.Context, req TurnRequest, out io.Writer, flush func()) (*TurnResult, error)
}

type chatService struct {
	db       *gorm.DB
	log      *logger.Logger
	ai       gemini.Client
	lock     TurnLock
	messages repos.ChatMessageRepo
	docs     repos.PrdDocumentRepo
	products repos.CompetitorProductRepo
	reviews  repos.CompetitorReviewRepo
	analyses repos.MarketAnalysisRepo
	notify   Notifier
}

func NewChatService(
	db *gorm.DB,
	baseLog *logger.Logger,
	ai gemini.Client,
	lock TurnLock,
	messageRepo repos.ChatMessageRepo,
	docRepo repos.PrdDocumentRepo,
	productRepo repos.CompetitorProductRepo,
	reviewRepo repos.CompetitorReviewRepo,
	analysisRepo repos.MarketAnalysisRepo,
	notify Notifier,
) ChatService {
	return &chatService{
		db:       db,
		log:      baseLog.With("service", "ChatService"),
		ai:       ai,
		lock:     lock,
		messages: messageRepo,
		docs:     docRepo,
		products: productRepo,
		reviews:  reviewRepo,
		analyses: analysisRepo,
		notify:   notify,
	}
}

func (s *chatService) StreamTurn(ctx context.Context, req TurnRequest, out io.Writer, flush func()) (*TurnResult, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("empty message history")
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != types.ChatRoleUser {
		return nil, fmt.Errorf("last message must be a user message")
	}

	release, err := s.lock.Acquire(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	defer release()

	// The user message is durable before the model is ever invoked.
	if _, err := s.messages.Create(ctx, nil, &types.ChatMessage{
		ProjectID: req.ProjectID,
		Role:      types.ChatRoleUser,
		Content:   last.Content,
		Stage:     req.Stage,
	}); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	docRow, data, system, err := s.buildTurnContext(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	body, err := s.ai.StreamGenerateContent(ctx, system, req.Messages)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	assistantText, completed, err := s.pumpStream(ctx, body, out, flush)
	if err != nil {
		return nil, err
	}
	if !completed {
		// Consumer disconnected mid-stream; the turn leaves no
		// assistant-side trace.
		s.log.Debug("Chat stream aborted by consumer", "projectID", req.ProjectID)
		return nil, nil
	}

	if _, err := s.messages.Create(ctx, nil, &types.ChatMessage{
		ProjectID: req.ProjectID,
		Role:      types.ChatRoleAssistant,
		Content:   assistantText,
		Stage:     req.Stage,
	}); err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}

	result := &TurnResult{AssistantText: assistantText}

	incoming, found := prd.Extract(assistantText, s.log)
	if found {
		data = prd.Merge(data, incoming)
		result.Extracted = true
	}
	// Ready is sticky: once a sentinel or a complete field set marked
	// the document ready, a later turn that satisfies neither cannot
	// flip it back.
	priorReady := docRow != nil && docRow.Ready
	result.Ready = priorReady || prd.Complete(data, assistantText)

	if found || (result.Ready && !priorReady) {
		if err := s.saveDocument(ctx, req.ProjectID, docRow, data, result.Ready); err != nil {
			// Extraction failures never fail the turn; the previous
			// document simply stands.
			s.log.Error("Failed to save merged PRD document", "projectID", req.ProjectID, "error", err)
		} else {
			s.notify.PrdUpdated(req.ProjectID, result.Ready)
		}
	}

	return result, nil
}

// pumpStream transcodes the vendor stream onto out chunk by chunk,
// accumulating the assistant text. completed is false when the consumer
// went away before the stream finished.
func (s *chatService) pumpStream(ctx context.Context, body io.Reader, out io.Writer, flush func()) (string, bool, error) {
	var text strings.Builder
	tc := stream.NewTranscoder(body, s.log)
	for {
		chunk, err := tc.Next()
		if err == io.EOF {
			return text.String(), true, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return text.String(), false, nil
			}
			return text.String(), false, fmt.Errorf("upstream stream read: %w", err)
		}

		if writeErr := stream.WriteEvent(out, chunk); writeErr != nil {
			return text.String(), false, nil
		}
		if flush != nil {
			flush()
		}
		text.WriteString(chunk.Content)
	}
}

// buildTurnContext loads the accumulated document, competitor research
// and market analysis, and renders the system prompt.
func (s *chatService) buildTurnContext(ctx context.Context, projectID uuid.UUID) (*types.PrdDocument, *prd.Data, string, error) {
	docRow, err := s.docs.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, nil, "", fmt.Errorf("load prd document: %w", err)
	}
	data := DecodeDocument(docRow)

	facts, err := s.loadCompetitorFacts(ctx, projectID)
	if err != nil {
		return nil, nil, "", err
	}

	analysis, err := s.analyses.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, nil, "", fmt.Errorf("load market analysis: %w", err)
	}

	return docRow, data, BuildChatSystemPrompt(data, facts, analysis), nil
}

func (s *chatService) loadCompetitorFacts(ctx context.Context, projectID uuid.UUID) ([]CompetitorFacts, error) {
	products, err := s.products.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load competitor products: %w", err)
	}

	var facts []CompetitorFacts
	for _, p := range products {
		if p.Status != types.ScrapeStatusCompleted {
			continue
		}
		f := CompetitorFacts{
			Title:       p.ProductTitle,
			Price:       p.Price,
			Rating:      p.Rating,
			ReviewCount: p.ReviewCount,
		}
		pos, err := s.reviews.GetByProductIDAndPolarity(ctx, nil, p.ID, true, maxReviewExcerpts)
		if err != nil {
			return nil, fmt.Errorf("load positive reviews: %w", err)
		}
		neg, err := s.reviews.GetByProductIDAndPolarity(ctx, nil, p.ID, false, maxReviewExcerpts)
		if err != nil {
			return nil, fmt.Errorf("load negative reviews: %w", err)
		}
		for _, r := range pos {
			f.Positive = append(f.Positive, r.ReviewText)
		}
		for _, r := range neg {
			f.Negative = append(f.Negative, r.ReviewText)
		}
		facts = append(facts, f)
	}
	return facts, nil
}

func (s *chatService) saveDocument(ctx context.Context, projectID uuid.UUID, docRow *types.PrdDocument, data *prd.Data, ready bool) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	row := docRow
	if row == nil {
		row = &types.PrdDocument{ProjectID: projectID}
	}
	row.Data = datatypes.JSON(raw)
	row.Ready = ready
	row.UpdatedAt = time.Now()
	_, err = s.docs.Upsert(ctx, nil, row)
	return err
}

// DecodeDocument parses the jsonb payload of a stored document; a nil
// or empty row decodes to an empty (not nil) document.
func DecodeDocument(row *types.PrdDocument) *prd.Data {
	data := &prd.Data{}
	if row == nil || len(row.Data) == 0 {
		return data
	}
	if err := json.Unmarshal(row.Data, data); err != nil {
		return &prd.Data{}
	}
	return data
}
