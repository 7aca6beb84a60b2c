package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vesselkit/seachest/internal/history"
	"github.com/vesselkit/seachest/internal/llm"
	"github.com/vesselkit/seachest/internal/render"
	"github.com/vesselkit/seachest/internal/settings"
	"github.com/vesselkit/seachest/internal/store"
)

// Service runs assistant conversations and records them in the medical
// history log.
type Service struct {
	chats    *Store
	data     *store.Store
	provider llm.Provider
	logger   *zap.Logger
}

// NewService creates a chat service.
func NewService(chats *Store, data *store.Store, provider llm.Provider, logger *zap.Logger) *Service {
	return &Service{chats: chats, data: data, provider: provider, logger: logger}
}

// Request is one assistant query.
type Request struct {
	SessionID string `json:"sessionId"`
	// Patient is the crew member the question concerns; blank or
	// "Inquiry" marks a general inquiry.
	Patient string `json:"patient"`
	Message string `json:"message"`
	// SkipHistory suppresses the history log entry for this exchange.
	SkipHistory bool `json:"skipHistory"`
}

// Response carries the assistant answer plus its rendered form.
type Response struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
	HTML      string `json:"html"`
	EntryID   string `json:"entryId,omitempty"`
}

// Ask runs one exchange: prompt assembly from settings, completion,
// session bookkeeping and the history log entry.
func (s *Service) Ask(ctx context.Context, req Request) (*Response, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("assistant provider is not configured")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("message is required")
	}

	cfgDoc, err := s.data.Load(store.CategorySettings)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	cfg := settings.Merge(cfgDoc)

	sessionID := req.SessionID
	if sessionID == "" {
		sess, err := s.chats.CreateSession(ctx, "operator")
		if err != nil {
			return nil, err
		}
		sessionID = sess.ID
	}

	prompt := cfg.PromptTemplate
	if history.GroupLabel(req.Patient) == history.GroupInquiries || strings.TrimSpace(req.Patient) == "" {
		prompt = cfg.InquiryPromptTemplate
	} else {
		prompt = prompt + "\n\nCrew member: " + strings.TrimSpace(req.Patient)
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: prompt}}
	prior, err := s.chats.Messages(ctx, sessionID)
	if err == nil {
		for _, m := range prior {
			messages = append(messages, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
		}
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Message})

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Messages:    messages,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("assistant completion: %w", err)
	}

	s.chats.AddMessage(ctx, Message{SessionID: sessionID, Role: string(llm.RoleUser), Content: req.Message})
	s.chats.AddMessage(ctx, Message{SessionID: sessionID, Role: string(llm.RoleAssistant), Content: resp.Content})

	html, err := render.ToHTML(resp.Content)
	if err != nil {
		s.logger.Warn("rendering assistant answer", zap.Error(err))
		html = ""
	}

	out := &Response{SessionID: sessionID, Answer: resp.Content, HTML: html}

	if !req.SkipHistory {
		entryID, err := s.recordHistory(req, resp.Content)
		if err != nil {
			// The answer is already delivered; a failed log write is
			// surfaced but doesn't fail the exchange.
			s.logger.Warn("recording history entry", zap.Error(err))
		} else {
			out.EntryID = entryID
		}
	}

	return out, nil
}

// recordHistory appends a query/response pair to the history category.
func (s *Service) recordHistory(req Request, answer string) (string, error) {
	doc, err := s.data.Load(store.CategoryHistory)
	if err != nil {
		return "", err
	}
	entries, err := history.Decode(doc)
	if err != nil {
		entries = nil
	}

	patient := strings.TrimSpace(req.Patient)
	if patient == "" {
		patient = "Inquiry"
	}

	entry := history.Entry{
		ID:       uuid.New().String(),
		Patient:  patient,
		Date:     time.Now().UTC().Format("2006-01-02"),
		Query:    req.Message,
		Response: answer,
	}
	entries = append(entries, entry)

	updated, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	if err := s.data.Replace(store.CategoryHistory, updated); err != nil {
		return "", err
	}
	return entry.ID, nil
}
