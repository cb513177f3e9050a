package services

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"tinta/internal/apperrors"
	"tinta/internal/models"
	"tinta/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Completer is the slice of the LLM client the execution engine needs.
type Completer interface {
	Complete(systemPrompt, userPrompt, model string, temperature float64, maxTokens int) (string, error)
}

// Stored execution records are truncated so one giant prompt or response
// cannot bloat the audit table.
const (
	maxRecordedContent = 10_000
	maxRecordedResult  = 50_000
)

// ExecutionResult is what an agent run returns to the caller.
type ExecutionResult struct {
	Success  bool              `json:"success"`
	Result   string            `json:"result"`
	Metadata map[string]string `json:"metadata"`
}

// AgentService manages the agent registry and runs agents against content.
type AgentService struct {
	agents     repository.AgentRepository
	executions repository.ExecutionRepository
	llm        Completer
	timeout    time.Duration
	log        zerolog.Logger
}

func NewAgentService(
	agents repository.AgentRepository,
	executions repository.ExecutionRepository,
	llm Completer,
	timeout time.Duration,
	log zerolog.Logger,
) *AgentService {
	return &AgentService{
		agents:     agents,
		executions: executions,
		llm:        llm,
		timeout:    timeout,
		log:        log,
	}
}

// RenderTemplate substitutes {{content}} and then one placeholder per extra
// context key. Placeholders with no matching key stay in the prompt verbatim;
// the model sees them as literal text.
func RenderTemplate(template, content string, extraContext map[string]string) string {
	rendered := strings.ReplaceAll(template, "{{content}}", content)
	for key, value := range extraContext {
		rendered = strings.ReplaceAll(rendered, "{{"+key+"}}", value)
	}
	return rendered
}

// Execute loads the agent, renders its prompt and races the backend call
// against the execution timeout. The agent snapshot is taken up front, so a
// concurrent edit or disable does not affect a run already in flight.
func (s *AgentService) Execute(agentID uint, content string, extraContext map[string]string) (*ExecutionResult, error) {
	agent, err := s.agents.GetByID(agentID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, apperrors.NotFound("el agente no existe")
	}
	if !agent.Enabled {
		return nil, apperrors.Validation("el agente está deshabilitado")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("el contenido no puede estar vacío")
	}

	userPrompt := RenderTemplate(agent.UserPrompt, content, extraContext)
	executionID := uuid.New().String()

	start := time.Now()
	s.log.Info().
		Str("execution_id", executionID).
		Str("agent", agent.Name).
		Str("type", agent.Type).
		Msg("executing agent")

	type outcome struct {
		result string
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := s.llm.Complete(
			agent.SystemPrompt, userPrompt,
			agent.Config.Model, agent.Config.Temperature, agent.Config.MaxTokens)
		done <- outcome{result: result, err: err}
	}()

	var result string
	select {
	case out := <-done:
		result, err = out.result, out.err
	case <-time.After(s.timeout):
		// The backend call keeps running until the HTTP client gives up;
		// its result is discarded via the buffered channel.
		err = apperrors.New(apperrors.KindTimeout, "la ejecución del agente excedió el tiempo límite")
	}
	elapsed := time.Since(start)

	if err != nil {
		s.log.Error().
			Str("execution_id", executionID).
			Str("agent", agent.Name).
			Dur("elapsed", elapsed).
			Err(err).
			Msg("agent execution failed")
		return nil, classifyLLMError(err)
	}

	s.recordExecution(agent, content, result, executionID, elapsed)

	s.log.Info().
		Str("execution_id", executionID).
		Str("agent", agent.Name).
		Dur("elapsed", elapsed).
		Msg("agent execution finished")

	return &ExecutionResult{
		Success: true,
		Result:  result,
		Metadata: map[string]string{
			"agentName":   agent.Name,
			"agentType":   agent.Type,
			"executionId": executionID,
		},
	}, nil
}

// recordExecution writes the audit row. Best effort: a failed write is logged
// and the successful result still goes back to the caller.
func (s *AgentService) recordExecution(agent *models.AIAgent, content, result, executionID string, elapsed time.Duration) {
	record := &models.AIExecution{
		AgentID: agent.ID,
		Content: truncate(content, maxRecordedContent),
		Result:  truncate(result, maxRecordedResult),
		Metadata: map[string]string{
			"executionId": executionID,
			"model":       agent.Config.Model,
			"elapsedMs":   elapsed.Round(time.Millisecond).String(),
		},
	}
	if err := s.executions.Create(record); err != nil {
		s.log.Error().Err(err).
			Str("execution_id", executionID).
			Msg("failed to record agent execution")
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// classifyLLMError maps backend failures onto the error taxonomy so handlers
// can pick the right status without inspecting transport details.
func classifyLLMError(err error) error {
	if apperrors.KindOf(err) != apperrors.KindUnknown {
		return err
	}
	if errors.Is(err, ErrNoToken) {
		return apperrors.Wrap(apperrors.KindConfiguration, "el servicio de IA no está configurado", err)
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.Wrap(apperrors.KindConfiguration, "credenciales del servicio de IA inválidas", err)
		case http.StatusTooManyRequests:
			return apperrors.Wrap(apperrors.KindRateLimited, "el servicio de IA está saturado, intenta más tarde", err)
		case http.StatusBadRequest:
			return apperrors.Wrap(apperrors.KindValidation, "solicitud inválida al servicio de IA", err)
		}
		return apperrors.Wrap(apperrors.KindUnavailable, "el servicio de IA no está disponible", err)
	}
	return apperrors.Wrap(apperrors.KindUnavailable, "no se pudo contactar al servicio de IA", err)
}

// ListAgents returns the registry, optionally only enabled agents.
func (s *AgentService) ListAgents(enabledOnly bool) ([]models.AIAgent, error) {
	return s.agents.List(enabledOnly)
}

func (s *AgentService) GetAgent(id uint) (*models.AIAgent, error) {
	agent, err := s.agents.GetByID(id)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, apperrors.NotFound("el agente no existe")
	}
	return agent, nil
}

func (s *AgentService) CreateAgent(agent *models.AIAgent) error {
	if strings.TrimSpace(agent.Name) == "" {
		return apperrors.Validation("el nombre del agente es requerido")
	}
	if strings.TrimSpace(agent.UserPrompt) == "" {
		return apperrors.Validation("el prompt del agente es requerido")
	}
	return s.agents.Create(agent)
}

func (s *AgentService) UpdateAgent(agent *models.AIAgent) error {
	existing, err := s.agents.GetByID(agent.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NotFound("el agente no existe")
	}
	return s.agents.Update(agent)
}

func (s *AgentService) DeleteAgent(id uint) error {
	existing, err := s.agents.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NotFound("el agente no existe")
	}
	return s.agents.Delete(id)
}

// ListExecutions returns the recorded runs for one agent, newest first.
func (s *AgentService) ListExecutions(agentID uint, limit int) ([]models.AIExecution, error) {
	return s.executions.ListByAgent(agentID, limit)
}
