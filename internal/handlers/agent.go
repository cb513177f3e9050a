package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"tinta/internal/apperrors"
	"tinta/internal/models"
	"tinta/internal/services"

	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	agents *services.AgentService
	llm    *services.LLMClient
}

func NewAgentHandler(agents *services.AgentService, llm *services.LLMClient) *AgentHandler {
	return &AgentHandler{agents: agents, llm: llm}
}

// List returns the agent registry. Non-admin callers only see enabled agents.
func (h *AgentHandler) List(c *gin.Context) {
	enabledOnly := c.Query("all") != "true"
	agents, err := h.agents.ListAgents(enabledOnly)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

func (h *AgentHandler) Get(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de agente inválido"))
		return
	}
	agent, err := h.agents.GetAgent(id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

type agentRequest struct {
	Name         string             `json:"name"`
	Type         string             `json:"type"`
	Description  string             `json:"description"`
	SystemPrompt string             `json:"system_prompt"`
	UserPrompt   string             `json:"user_prompt"`
	Enabled      *bool              `json:"enabled"`
	Config       models.AgentConfig `json:"config"`
}

func (h *AgentHandler) Create(c *gin.Context) {
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, apperrors.Validation("cuerpo de la solicitud inválido"))
		return
	}
	agent := &models.AIAgent{
		Name:         req.Name,
		Type:         req.Type,
		Description:  req.Description,
		SystemPrompt: req.SystemPrompt,
		UserPrompt:   req.UserPrompt,
		Enabled:      req.Enabled == nil || *req.Enabled,
		Config:       req.Config,
	}
	if err := h.agents.CreateAgent(agent); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"agent": agent})
}

func (h *AgentHandler) Update(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de agente inválido"))
		return
	}
	agent, err := h.agents.GetAgent(id)
	if err != nil {
		renderError(c, err)
		return
	}

	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, apperrors.Validation("cuerpo de la solicitud inválido"))
		return
	}
	if strings.TrimSpace(req.Name) != "" {
		agent.Name = req.Name
	}
	if req.Type != "" {
		agent.Type = req.Type
	}
	agent.Description = req.Description
	if req.SystemPrompt != "" {
		agent.SystemPrompt = req.SystemPrompt
	}
	if req.UserPrompt != "" {
		agent.UserPrompt = req.UserPrompt
	}
	if req.Enabled != nil {
		agent.Enabled = *req.Enabled
	}
	agent.Config = req.Config

	if err := h.agents.UpdateAgent(agent); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

func (h *AgentHandler) Delete(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de agente inválido"))
		return
	}
	if err := h.agents.DeleteAgent(id); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Agente eliminado"})
}

// Execute runs one agent against submitted content.
func (h *AgentHandler) Execute(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de agente inválido"))
		return
	}
	var req struct {
		Content string            `json:"content"`
		Context map[string]string `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, apperrors.Validation("cuerpo de la solicitud inválido"))
		return
	}

	result, err := h.agents.Execute(id, req.Content, req.Context)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Executions lists an agent's recorded runs, newest first.
func (h *AgentHandler) Executions(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		renderError(c, apperrors.Validation("id de agente inválido"))
		return
	}
	limit := 20
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	executions, err := h.agents.ListExecutions(id, limit)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"executions": executions})
}

// Health reports whether the AI backend is reachable and configured.
func (h *AgentHandler) Health(c *gin.Context) {
	if err := h.llm.Health(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
