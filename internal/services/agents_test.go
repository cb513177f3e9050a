package services

import (
	"errors"
	"testing"
	"time"

	"tinta/internal/apperrors"
	"tinta/internal/mocks"
	"tinta/internal/models"

	"github.com/rs/zerolog"
)

func TestRenderTemplate(t *testing.T) {
	cases := []struct {
		name     string
		template string
		content  string
		extra    map[string]string
		want     string
	}{
		{
			name:     "content only",
			template: "Revisa esto:\n\n{{content}}",
			content:  "mi artículo",
			want:     "Revisa esto:\n\nmi artículo",
		},
		{
			name:     "extra context keys",
			template: "Title: {{title}}\n{{content}}",
			content:  "cuerpo",
			extra:    map[string]string{"title": "Mi título"},
			want:     "Title: Mi título\ncuerpo",
		},
		{
			name:     "unmatched placeholder passes through",
			template: "{{content}} y {{desconocido}}",
			content:  "hola",
			want:     "hola y {{desconocido}}",
		},
		{
			name:     "repeated placeholder",
			template: "{{content}} / {{content}}",
			content:  "x",
			want:     "x / x",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RenderTemplate(tc.template, tc.content, tc.extra)
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func agentFixture(completer *mocks.Completer, timeout time.Duration) (*AgentService, *mocks.AgentRepo, *mocks.ExecutionRepo) {
	agents := mocks.NewAgentRepo()
	executions := mocks.NewExecutionRepo()
	svc := NewAgentService(agents, executions, completer, timeout, zerolog.Nop())
	return svc, agents, executions
}

func seedAgent(t *testing.T, agents *mocks.AgentRepo, enabled bool) *models.AIAgent {
	t.Helper()
	agent := &models.AIAgent{
		Name:         "Corrector de estilo",
		Type:         "grammar",
		SystemPrompt: "Eres un editor.",
		UserPrompt:   "Mejora esto:\n\n{{content}}",
		Enabled:      enabled,
	}
	if err := agents.Create(agent); err != nil {
		t.Fatal(err)
	}
	return agent
}

func TestExecuteSuccess(t *testing.T) {
	completer := &mocks.Completer{Response: "texto corregido"}
	svc, agents, executions := agentFixture(completer, time.Second)
	agent := seedAgent(t, agents, true)

	result, err := svc.Execute(agent.ID, "mi borrador", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success || result.Result != "texto corregido" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Metadata["agentName"] != agent.Name || result.Metadata["agentType"] != agent.Type {
		t.Errorf("metadata missing agent identity: %v", result.Metadata)
	}
	if result.Metadata["executionId"] == "" {
		t.Error("metadata missing execution id")
	}

	if len(completer.Prompts) != 1 || completer.Prompts[0] != "Mejora esto:\n\nmi borrador" {
		t.Errorf("rendered prompt wrong: %v", completer.Prompts)
	}
	if len(executions.Executions) != 1 {
		t.Fatalf("expected one execution record, got %d", len(executions.Executions))
	}
	if executions.Executions[0].Result != "texto corregido" {
		t.Errorf("recorded result wrong: %q", executions.Executions[0].Result)
	}
}

func TestExecuteDisabledAgentNeverCallsBackend(t *testing.T) {
	completer := &mocks.Completer{Response: "no debería verse"}
	svc, agents, _ := agentFixture(completer, time.Second)
	agent := seedAgent(t, agents, false)

	_, err := svc.Execute(agent.ID, "contenido", nil)
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if completer.Calls() != 0 {
		t.Errorf("disabled agent made %d backend calls", completer.Calls())
	}
}

func TestExecuteUnknownAgent(t *testing.T) {
	completer := &mocks.Completer{}
	svc, _, _ := agentFixture(completer, time.Second)

	_, err := svc.Execute(999, "contenido", nil)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if completer.Calls() != 0 {
		t.Error("missing agent must not reach the backend")
	}
}

func TestExecuteEmptyContent(t *testing.T) {
	completer := &mocks.Completer{}
	svc, agents, _ := agentFixture(completer, time.Second)
	agent := seedAgent(t, agents, true)

	_, err := svc.Execute(agent.ID, "   ", nil)
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExecuteTimeout(t *testing.T) {
	completer := &mocks.Completer{Response: "tarde", Delay: 200 * time.Millisecond}
	svc, agents, executions := agentFixture(completer, 20*time.Millisecond)
	agent := seedAgent(t, agents, true)

	_, err := svc.Execute(agent.ID, "contenido", nil)
	if apperrors.KindOf(err) != apperrors.KindTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
	if len(executions.Executions) != 0 {
		t.Error("timed out run must not be recorded as a success")
	}
}

func TestExecuteMapsBackendErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want apperrors.Kind
	}{
		{"missing token", ErrNoToken, apperrors.KindConfiguration},
		{"unauthorized", &StatusError{Code: 401}, apperrors.KindConfiguration},
		{"rate limited", &StatusError{Code: 429}, apperrors.KindRateLimited},
		{"server error", &StatusError{Code: 500}, apperrors.KindUnavailable},
		{"connection refused", errors.New("dial tcp: connection refused"), apperrors.KindUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			completer := &mocks.Completer{Err: tc.err}
			svc, agents, _ := agentFixture(completer, time.Second)
			agent := seedAgent(t, agents, true)

			_, err := svc.Execute(agent.ID, "contenido", nil)
			if apperrors.KindOf(err) != tc.want {
				t.Errorf("kind = %v, want %v (err: %v)", apperrors.KindOf(err), tc.want, err)
			}
		})
	}
}

func TestExecuteRecordFailureDoesNotFailRun(t *testing.T) {
	completer := &mocks.Completer{Response: "resultado"}
	svc, agents, executions := agentFixture(completer, time.Second)
	agent := seedAgent(t, agents, true)
	executions.CreateErr = errors.New("disk full")

	result, err := svc.Execute(agent.ID, "contenido", nil)
	if err != nil {
		t.Fatalf("audit failure must not surface: %v", err)
	}
	if !result.Success {
		t.Error("run should still report success")
	}
}
