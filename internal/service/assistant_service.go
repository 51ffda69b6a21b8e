package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/pkg/logger"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/repository/memory"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/agent"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/events"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/store"
)

// conversationTurns is how many recent turns feed back into the prompt.
const conversationTurns = 5

// IAssistantService is the exposed boundary of the assistant.
type IAssistantService interface {
	CreateSession(ctx context.Context, user agent.User) (*store.Session, error)
	ProcessQuery(ctx context.Context, user agent.User, sessionID, query string) (resp agent.Response, err error)
	GetHistory(ctx context.Context, sessionID string) ([]store.ChatMessage, error)
	DeleteSession(ctx context.Context, sessionID string)
}

type assistantService struct {
	agent       *agent.Agent
	sessionRepo *memory.SessionRepository
	audit       events.AuditPublisher
	log         logger.ILogger
}

func NewAssistantService(
	a *agent.Agent,
	sessionRepo *memory.SessionRepository,
	audit events.AuditPublisher,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		agent:       a,
		sessionRepo: sessionRepo,
		audit:       audit,
		log:         log,
	}
}

func (s *assistantService) CreateSession(ctx context.Context, user agent.User) (*store.Session, error) {
	session := &store.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID.String(),
		Username:  user.Username,
		Role:      string(user.Role),
		CreatedAt: time.Now(),
	}
	s.sessionRepo.Save(session)

	s.log.Info("service", "session created", map[string]interface{}{
		"session_id": session.ID,
		"user":       user.Username,
	})
	return session, nil
}

// ProcessQuery answers one query within a session. A panic anywhere in the
// workflow is converted into a zero-confidence apology rather than taking the
// process down.
func (s *assistantService) ProcessQuery(ctx context.Context, user agent.User, sessionID, query string) (resp agent.Response, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("service", "query processing panicked", map[string]interface{}{
				"panic":      fmt.Sprintf("%v", r),
				"session_id": sessionID,
			})
			resp = agent.Response{
				Content:        "I apologize, but I encountered an unexpected error while processing your request. Please try again.",
				ShortAnswer:    "Error occurred while processing your request.",
				Detailed:       "An internal error interrupted processing.",
				Summary:        "Please try rephrasing your question or contact support if the issue persists.",
				Confidence:     0.0,
				ProcessingTime: time.Since(start),
				QueryKind:      agent.KindGeneral,
				Metadata:       map[string]interface{}{"error": fmt.Sprintf("%v", r)},
			}
			err = nil
		}
	}()

	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		session, err = s.CreateSession(ctx, user)
		if err != nil {
			return agent.Response{}, err
		}
		sessionID = session.ID
	}

	history := session.RecentContext(conversationTurns * 2)

	resp = s.agent.ProcessQuery(ctx, query, user, sessionID, history)

	session.Append("user", query)
	session.Append("assistant", resp.Content)
	session.LastQuery = query
	s.sessionRepo.Save(session)

	if reason, denied := resp.Metadata["access_denied"].(string); denied {
		s.audit.PublishAccessDenied(ctx, user.ID, string(user.Role), "corpus", reason)
	}
	s.audit.PublishQueryProcessed(ctx, user.ID, string(user.Role),
		string(resp.QueryKind), resp.Confidence, resp.ProcessingTime, resp.Sources)

	return resp, nil
}

func (s *assistantService) GetHistory(ctx context.Context, sessionID string) ([]store.ChatMessage, error) {
	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	return session.Messages, nil
}

func (s *assistantService) DeleteSession(ctx context.Context, sessionID string) {
	s.sessionRepo.Delete(sessionID)
}
