package chat

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/therabot-ai/therabot-platform/internal/observability/metrics"
	"github.com/therabot-ai/therabot-platform/internal/safety"
	"github.com/therabot-ai/therabot-platform/internal/session"
	"github.com/therabot-ai/therabot-platform/internal/therapist"
	"github.com/therabot-ai/therabot-platform/pkg/logging"
)

var pipelineTracer = otel.Tracer("therabot/chat-pipeline")

// pipelineState tracks a message through the orchestration state machine.
type pipelineState string

const (
	stateReceived       pipelineState = "RECEIVED"
	stateClassified     pipelineState = "CLASSIFIED"
	stateCrisisTerminal pipelineState = "CRISIS_TERMINAL"
	stateGenerating     pipelineState = "GENERATING"
	statePersisted      pipelineState = "PERSISTED"
	stateDone           pipelineState = "DONE"
)

// Classifier produces a risk verdict for a message.
type Classifier interface {
	Classify(ctx context.Context, message string) safety.RiskVerdict
}

// Composer produces a templated therapeutic reply.
type Composer interface {
	Compose(userMessage string, verdict safety.RiskVerdict, history []session.ChatMessage) therapist.ComposedResponse
}

// Result is the outcome of one pipeline run, for either branch.
type Result struct {
	SessionID string
	Timestamp time.Time
	Message   string
	Level     safety.Level
	IsCrisis  bool

	// Crisis branch only.
	Resources         []string
	EmergencyContacts []string

	// Generation branch only.
	Style      therapist.Style
	Components []string
}

// Service orchestrates the safety-gated pipeline: classify, persist, then
// either short-circuit with a crisis bundle or compose a reply.
type Service struct {
	classifier   Classifier
	store        session.Store
	composer     Composer
	logger       *logging.Logger
	metrics      *metrics.PipelineMetrics
	historyLimit int
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithHistoryLimit overrides the history window handed to the composer.
func WithHistoryLimit(limit int) ServiceOption {
	return func(s *Service) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// NewService wires the pipeline components.
func NewService(classifier Classifier, store session.Store, composer Composer, logger *logging.Logger, m *metrics.PipelineMetrics, opts ...ServiceOption) *Service {
	if classifier == nil {
		panic("chat: classifier cannot be nil")
	}
	if store == nil {
		panic("chat: session store cannot be nil")
	}
	if composer == nil {
		panic("chat: composer cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		classifier:   classifier,
		store:        store,
		composer:     composer,
		logger:       logger,
		metrics:      m,
		historyLimit: session.DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessMessage runs one message through the pipeline. The user message is
// persisted before branching, so a caller disconnect never rolls it back.
func (s *Service) ProcessMessage(ctx context.Context, sessionID, userID, message string) (*Result, error) {
	ctx, span := pipelineTracer.Start(ctx, "chat.process_message")
	defer span.End()

	if _, err := s.store.GetOrCreate(ctx, sessionID, userID); err != nil {
		return nil, fmt.Errorf("chat: resolve session: %w", err)
	}

	verdict := s.classifier.Classify(ctx, message)
	span.SetAttributes(
		attribute.String("chat.level", string(verdict.Level)),
		attribute.Bool("chat.crisis", verdict.IsCrisis),
	)
	s.metrics.ObserveMessage(string(verdict.Level))

	// The user message is stored on both branches, before branching.
	if _, err := s.store.Append(ctx, sessionID, session.RoleUser, message, verdict.Signals); err != nil {
		return nil, fmt.Errorf("chat: persist user message: %w", err)
	}

	if verdict.IsCrisis {
		return s.handleCrisis(ctx, sessionID, verdict)
	}

	history, err := s.store.History(ctx, sessionID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("chat: load history: %w", err)
	}

	start := time.Now()
	resp := s.composer.Compose(message, verdict, history)
	s.metrics.ObserveComposeLatency(time.Since(start).Seconds())

	if _, err := s.store.Append(ctx, sessionID, session.RoleAssistant, resp.Message, map[string]any{"therapy_response": true}); err != nil {
		return nil, fmt.Errorf("chat: persist assistant message: %w", err)
	}

	if err := s.store.Touch(ctx, sessionID); err != nil {
		// Activity refresh is best effort; the reply already stands.
		s.logger.Warn("failed to touch session", "session_id", sessionID, "error", err)
	}

	s.logger.Debug("pipeline completed",
		"session_id", sessionID,
		"state", string(stateDone),
		"level", string(verdict.Level),
		"style", string(resp.Style),
	)

	return &Result{
		SessionID:  sessionID,
		Timestamp:  time.Now().UTC(),
		Message:    resp.Message,
		Level:      verdict.Level,
		Style:      resp.Style,
		Components: resp.Components,
	}, nil
}

// handleCrisis terminates the pipeline with a resource bundle. Generation is
// skipped entirely; the composer is never invoked on this branch.
func (s *Service) handleCrisis(ctx context.Context, sessionID string, verdict safety.RiskVerdict) (*Result, error) {
	bundle := safety.ResolveCrisisBundle(verdict)
	s.metrics.ObserveCrisis(verdict.Category)

	if _, err := s.store.Append(ctx, sessionID, session.RoleAssistant, bundle.Message, map[string]any{"crisis_response": true}); err != nil {
		return nil, fmt.Errorf("chat: persist crisis message: %w", err)
	}

	s.logger.Warn("pipeline terminated on crisis branch",
		"session_id", sessionID,
		"state", string(stateCrisisTerminal),
		"category", verdict.Category,
	)

	return &Result{
		SessionID:         sessionID,
		Timestamp:         time.Now().UTC(),
		Message:           bundle.Message,
		Level:             safety.LevelCrisis,
		IsCrisis:          true,
		Resources:         bundle.Resources,
		EmergencyContacts: bundle.EmergencyContacts,
	}, nil
}
