package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"podbot-be/internal/constant"
	"podbot-be/internal/dto"
	"podbot-be/internal/entity"
	"podbot-be/internal/mapper"
	"podbot-be/internal/pkg/apperror"
	"podbot-be/internal/pkg/logger"
	"podbot-be/internal/repository/contract"
	"podbot-be/internal/repository/implementation"
	"podbot-be/pkg/events"
	"podbot-be/pkg/llm"
	"podbot-be/pkg/memoryserver"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const sessionModule = "SessionService"

var tracer = otel.Tracer("podbot-be/internal/service")

type ISessionService interface {
	ListSessions(ctx context.Context, username string) ([]dto.SessionResponse, error)
	CreateSession(ctx context.Context, username string) (*dto.SessionResponse, error)
	FetchSession(ctx context.Context, username, sessionId string) (*dto.ChatWithContextResponse, error)
	FetchHistory(ctx context.Context, username, sessionId string) ([]dto.ChatMessageResponse, error)
	SendMessage(ctx context.Context, username, sessionId string, request *dto.SendMessageRequest) (*dto.ChatWithContextResponse, error)
	ClearSession(ctx context.Context, username, sessionId string) error
	RebuildWorkingMemory(ctx context.Context, username, sessionId string) (*dto.RebuildWorkingMemoryResponse, error)
	FetchMemories(ctx context.Context, username string) ([]dto.MemoryResponse, error)
}

type SessionServiceConfig struct {
	Namespace        string
	SystemPrompt     string
	ContextWindowMax int
	SearchLimit      int
	LockTTL          time.Duration
}

type sessionService struct {
	chatLog       contract.ChatLogRepository
	index         contract.SessionIndexRepository
	workingMemory contract.WorkingMemoryRepository
	llmProvider   llm.LLMProvider
	locker        contract.SessionLocker
	publisher     events.Publisher
	mapper        *mapper.SessionMapper
	logger        logger.ILogger
	llmLogger     logger.ILogger
	cfg           SessionServiceConfig
}

// NewSessionService wires the orchestrator. A nil locker disables per-session locking and
// a nil publisher drops domain events.
func NewSessionService(
	chatLog contract.ChatLogRepository,
	index contract.SessionIndexRepository,
	workingMemory contract.WorkingMemoryRepository,
	llmProvider llm.LLMProvider,
	locker contract.SessionLocker,
	publisher events.Publisher,
	log logger.ILogger,
	llmLog logger.ILogger,
	cfg SessionServiceConfig,
) ISessionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = constant.PodBotSystemPrompt
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 2 * time.Minute
	}
	if llmLog == nil {
		llmLog = log
	}
	return &sessionService{
		chatLog:       chatLog,
		index:         index,
		workingMemory: workingMemory,
		llmProvider:   llmProvider,
		locker:        locker,
		publisher:     publisher,
		mapper:        mapper.NewSessionMapper(),
		logger:        log,
		llmLogger:     llmLog,
		cfg:           cfg,
	}
}

func (s *sessionService) ListSessions(ctx context.Context, username string) ([]dto.SessionResponse, error) {
	ctx, span := tracer.Start(ctx, "SessionService.ListSessions", trace.WithAttributes(attribute.String("username", username)))
	defer span.End()

	if err := requireField("username", username); err != nil {
		return nil, err
	}

	sessions, err := s.index.List(ctx, s.userKey(username))
	if err != nil {
		return nil, s.fail(span, "list sessions", err)
	}
	return s.mapper.SessionsToResponse(sessions), nil
}

func (s *sessionService) CreateSession(ctx context.Context, username string) (*dto.SessionResponse, error) {
	ctx, span := tracer.Start(ctx, "SessionService.CreateSession", trace.WithAttributes(attribute.String("username", username)))
	defer span.End()

	if err := requireField("username", username); err != nil {
		return nil, err
	}

	session, err := s.index.Create(ctx, s.userKey(username))
	if err != nil {
		return nil, s.fail(span, "create session", err)
	}

	s.logger.Info(sessionModule, "Created session", map[string]interface{}{
		"username":   username,
		"session_id": session.Id,
	})
	s.publish(ctx, constant.EventSessionCreated, username, session.Id, nil)

	res := s.mapper.SessionToResponse(session)
	return &res, nil
}

func (s *sessionService) FetchSession(ctx context.Context, username, sessionId string) (*dto.ChatWithContextResponse, error) {
	ctx, span := tracer.Start(ctx, "SessionService.FetchSession", sessionAttributes(username, sessionId))
	defer span.End()

	if err := requireSession(username, sessionId); err != nil {
		return nil, err
	}

	view, err := s.readView(ctx, s.sessionKey(username, sessionId))
	if err != nil {
		return nil, s.fail(span, "fetch session", err)
	}
	return s.mapper.ChatWithContextToResponse(view), nil
}

func (s *sessionService) FetchHistory(ctx context.Context, username, sessionId string) ([]dto.ChatMessageResponse, error) {
	ctx, span := tracer.Start(ctx, "SessionService.FetchHistory", sessionAttributes(username, sessionId))
	defer span.End()

	if err := requireSession(username, sessionId); err != nil {
		return nil, err
	}

	history, err := s.chatLog.ReadAll(ctx, s.sessionKey(username, sessionId))
	if err != nil {
		return nil, s.fail(span, "read chat history", err)
	}
	return s.mapper.ChatHistoryToResponse(history), nil
}

// SendMessage runs one turn. Steps are strictly sequential and the first failing step
// aborts the rest; nothing is persisted unless the model produced a reply.
func (s *sessionService) SendMessage(ctx context.Context, username, sessionId string, request *dto.SendMessageRequest) (*dto.ChatWithContextResponse, error) {
	ctx, span := tracer.Start(ctx, "SessionService.SendMessage", sessionAttributes(username, sessionId))
	defer span.End()

	if err := requireSession(username, sessionId); err != nil {
		return nil, err
	}
	if request == nil || strings.TrimSpace(request.Message) == "" {
		return nil, apperror.Invalid("message is required")
	}
	content := request.Message
	key := s.sessionKey(username, sessionId)

	unlock, err := s.lock(ctx, key)
	if err != nil {
		return nil, s.fail(span, "acquire session lock", err)
	}
	defer unlock()

	wm, err := s.workingMemory.Read(ctx, s.cfg.Namespace, username, sessionId)
	if err != nil {
		return nil, s.fail(span, "read working memory", err)
	}

	input := composeModelInput(s.cfg.SystemPrompt, wm, content)
	s.llmLogger.Info(sessionModule, "Invoking model", map[string]interface{}{
		"session_id":     sessionId,
		"input_messages": len(input),
		"has_summary":    wm.Context != "",
	})

	started := time.Now()
	reply, err := s.llmProvider.Chat(ctx, input)
	if err != nil {
		return nil, s.fail(span, "invoke model", err)
	}
	s.llmLogger.Info(sessionModule, "Model replied", map[string]interface{}{
		"session_id":  sessionId,
		"duration_ms": time.Since(started).Milliseconds(),
		"reply_chars": len(reply),
	})

	wm.Messages = append(wm.Messages,
		memoryserver.Message{Role: memoryserver.RoleUser, Content: content},
		memoryserver.Message{Role: memoryserver.RoleAssistant, Content: reply},
	)
	if _, err := s.workingMemory.Replace(ctx, sessionId, s.cfg.ContextWindowMax, wm); err != nil {
		return nil, s.fail(span, "replace working memory", err)
	}

	if _, err := s.chatLog.Append(ctx, key, entity.RoleUser, content); err != nil {
		return nil, s.fail(span, "append user message", err)
	}
	if _, err := s.chatLog.Append(ctx, key, entity.RoleAssistant, reply); err != nil {
		return nil, s.fail(span, "append assistant message", err)
	}

	view, err := s.readView(ctx, key)
	if err != nil {
		return nil, s.fail(span, "read updated session", err)
	}

	s.publish(ctx, constant.EventMessageExchanged, username, sessionId, map[string]interface{}{
		"history_length": len(view.ChatHistory),
	})

	return s.mapper.ChatWithContextToResponse(view), nil
}

// ClearSession drops the working memory only; the chat log is kept.
func (s *sessionService) ClearSession(ctx context.Context, username, sessionId string) error {
	ctx, span := tracer.Start(ctx, "SessionService.ClearSession", sessionAttributes(username, sessionId))
	defer span.End()

	if err := requireSession(username, sessionId); err != nil {
		return err
	}

	if err := s.workingMemory.Delete(ctx, s.cfg.Namespace, username, sessionId); err != nil {
		return s.fail(span, "delete working memory", err)
	}

	s.logger.Info(sessionModule, "Cleared working memory", map[string]interface{}{
		"username":   username,
		"session_id": sessionId,
	})
	s.publish(ctx, constant.EventSessionCleared, username, sessionId, nil)
	return nil
}

// RebuildWorkingMemory replays the chat log into a fresh working-memory document.
// It is the manual repair path when the log and the window have diverged.
func (s *sessionService) RebuildWorkingMemory(ctx context.Context, username, sessionId string) (*dto.RebuildWorkingMemoryResponse, error) {
	ctx, span := tracer.Start(ctx, "SessionService.RebuildWorkingMemory", sessionAttributes(username, sessionId))
	defer span.End()

	if err := requireSession(username, sessionId); err != nil {
		return nil, err
	}
	key := s.sessionKey(username, sessionId)

	unlock, err := s.lock(ctx, key)
	if err != nil {
		return nil, s.fail(span, "acquire session lock", err)
	}
	defer unlock()

	history, err := s.chatLog.ReadAll(ctx, key)
	if err != nil {
		return nil, s.fail(span, "read chat history", err)
	}

	wm := memoryserver.NewWorkingMemory(s.cfg.Namespace, username, sessionId)
	for _, msg := range history {
		wm.Messages = append(wm.Messages, memoryserver.Message{Role: string(msg.Role), Content: msg.Content})
	}

	if _, err := s.workingMemory.Replace(ctx, sessionId, s.cfg.ContextWindowMax, wm); err != nil {
		return nil, s.fail(span, "replace working memory", err)
	}

	s.logger.Info(sessionModule, "Rebuilt working memory from chat log", map[string]interface{}{
		"username":   username,
		"session_id": sessionId,
		"messages":   len(history),
	})
	s.publish(ctx, constant.EventWorkingMemoryRebuilt, username, sessionId, map[string]interface{}{
		"replayed_messages": len(history),
	})

	return &dto.RebuildWorkingMemoryResponse{
		SessionId:        sessionId,
		ReplayedMessages: len(history),
	}, nil
}

// FetchMemories lists the user's long-term memories. A failing search yields an empty
// list rather than an error.
func (s *sessionService) FetchMemories(ctx context.Context, username string) ([]dto.MemoryResponse, error) {
	ctx, span := tracer.Start(ctx, "SessionService.FetchMemories", trace.WithAttributes(attribute.String("username", username)))
	defer span.End()

	if err := requireField("username", username); err != nil {
		return nil, err
	}

	records, err := s.workingMemory.SearchLongTermMemory(ctx, s.cfg.Namespace, username, s.cfg.SearchLimit)
	if err != nil {
		span.RecordError(err)
		s.logger.Error(sessionModule, "Long-term memory search failed", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		return []dto.MemoryResponse{}, nil
	}

	return s.mapper.MemoriesToResponse(s.mapper.LongTermMemoriesToEntities(records)), nil
}

func (s *sessionService) readView(ctx context.Context, key entity.SessionKey) (*entity.ChatWithContext, error) {
	history, err := s.chatLog.ReadAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read chat history: %w", err)
	}

	wm, err := s.workingMemory.Read(ctx, key.Namespace, key.UserId, key.SessionId)
	if err != nil {
		return nil, fmt.Errorf("read working memory: %w", err)
	}

	return &entity.ChatWithContext{
		ChatHistory: history,
		Context:     s.mapper.WorkingMemoryToContext(wm),
	}, nil
}

// lock returns a release func that is always safe to call.
func (s *sessionService) lock(ctx context.Context, key entity.SessionKey) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}

	lockKey := implementation.SessionLockKey(key)
	release, err := s.locker.Acquire(ctx, lockKey, s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, contract.ErrLockNotAcquired) {
			return nil, apperror.ErrSessionBusy
		}
		return nil, err
	}

	return func() {
		// The request context may already be cancelled; the release still has to run.
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn(sessionModule, "Failed to release session lock", map[string]interface{}{
				"lock":  lockKey,
				"error": err.Error(),
			})
		}
	}, nil
}

func (s *sessionService) publish(ctx context.Context, eventType, username, sessionId string, extra map[string]interface{}) {
	data := map[string]interface{}{
		"namespace":  s.cfg.Namespace,
		"username":   username,
		"session_id": sessionId,
	}
	for k, v := range extra {
		data[k] = v
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn(sessionModule, "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func (s *sessionService) fail(span trace.Span, step string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, step)

	if errors.Is(err, apperror.ErrSessionBusy) {
		return err
	}

	s.logger.Error(sessionModule, "Operation failed", map[string]interface{}{
		"step":  step,
		"error": err.Error(),
	})
	return fmt.Errorf("%s: %w", step, err)
}

func (s *sessionService) userKey(username string) entity.UserKey {
	return entity.UserKey{Namespace: s.cfg.Namespace, UserId: username}
}

func (s *sessionService) sessionKey(username, sessionId string) entity.SessionKey {
	return entity.NewSessionKey(s.cfg.Namespace, username, sessionId)
}

func sessionAttributes(username, sessionId string) trace.SpanStartEventOption {
	return trace.WithAttributes(
		attribute.String("username", username),
		attribute.String("session_id", sessionId),
	)
}

// requireField checks a value that becomes a segment of a store key. ':' is the
// key separator, so it is rejected to keep users and sessions from colliding.
func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.Invalid("%s is required", name)
	}
	if strings.Contains(value, implementation.KeySeparator) {
		return apperror.Invalid("%s must not contain %q", name, implementation.KeySeparator)
	}
	return nil
}

func requireSession(username, sessionId string) error {
	if err := requireField("username", username); err != nil {
		return err
	}
	return requireField("sessionId", sessionId)
}
