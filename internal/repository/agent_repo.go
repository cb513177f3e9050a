package repository

import (
	"errors"

	"tinta/internal/models"

	"gorm.io/gorm"
)

type agentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(agent *models.AIAgent) error {
	return r.db.Create(agent).Error
}

func (r *agentRepository) GetByID(id uint) (*models.AIAgent, error) {
	var agent models.AIAgent
	if err := r.db.First(&agent, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) Update(agent *models.AIAgent) error {
	return r.db.Save(agent).Error
}

func (r *agentRepository) Delete(id uint) error {
	return r.db.Delete(&models.AIAgent{}, id).Error
}

func (r *agentRepository) List(enabledOnly bool) ([]models.AIAgent, error) {
	query := r.db.Order("name ASC")
	if enabledOnly {
		query = query.Where("enabled = ?", true)
	}
	var agents []models.AIAgent
	if err := query.Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

type executionRepository struct {
	db *gorm.DB
}

func NewExecutionRepository(db *gorm.DB) ExecutionRepository {
	return &executionRepository{db: db}
}

func (r *executionRepository) Create(exec *models.AIExecution) error {
	return r.db.Create(exec).Error
}

func (r *executionRepository) ListByAgent(agentID uint, limit int) ([]models.AIExecution, error) {
	var executions []models.AIExecution
	err := r.db.Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&executions).Error
	if err != nil {
		return nil, err
	}
	return executions, nil
}
