package db

import (
	"tinta/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the database, migrates the schema and seeds the default agent
// presets. Fatal on failure: there is nothing useful to do without a store.
func Init(dsn string, log zerolog.Logger) *gorm.DB {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	log.Info().Msg("database connection established")

	err = conn.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.CommentVote{},
		&models.CommentSubmission{},
		&models.AIAgent{},
		&models.AIExecution{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().Msg("database migration completed")

	seedAgents(conn, log)

	return conn
}

// seedAgents creates the default agent presets on first boot.
func seedAgents(conn *gorm.DB, log zerolog.Logger) {
	var count int64
	conn.Model(&models.AIAgent{}).Count(&count)
	if count > 0 {
		log.Debug().Msg("agents already seeded, skipping")
		return
	}

	for _, agent := range defaultAgents() {
		if err := conn.Create(&agent).Error; err != nil {
			log.Error().Err(err).Str("agent", agent.Name).Msg("failed to seed agent")
		}
	}
	log.Info().Msg("default agents created")
}

func defaultAgents() []models.AIAgent {
	return []models.AIAgent{
		{
			Name:         "Corrector de estilo",
			Type:         "grammar",
			Description:  "Corrección de gramática, flujo de oraciones y consistencia de estilo",
			SystemPrompt: "Eres un editor profesional y corrector de textos especializado en gramática, estilo y claridad. Analiza el contenido de un blog post y proporciona correcciones gramaticales, mejoras de flujo de oraciones, elección de palabras más precisa y consistencia de estilo. Para cada sugerencia indica el problema identificado y la corrección sugerida. Sé específico y directo.",
			UserPrompt:   "Analiza y mejora el siguiente contenido del blog:\n\n{{content}}",
			Enabled:      true,
		},
		{
			Name:         "Analista editorial",
			Type:         "intention",
			Description:  "Análisis del propósito, intenciones y efectos del contenido en la audiencia",
			SystemPrompt: "Eres un analista editorial especializado en línea editorial y análisis de impacto. Evalúa el propósito del contenido, sus intenciones explícitas e implícitas, los efectos que puede producir en los lectores y su alineación con una línea editorial coherente. Proporciona un análisis estructurado, honesto y directo.",
			UserPrompt:   "Analiza el propósito, las intenciones y los posibles efectos del siguiente contenido:\n\n{{content}}",
			Enabled:      true,
		},
		{
			Name:         "Abogado del diablo",
			Type:         "critique",
			Description:  "Análisis crítico, debates potenciales y contraargumentos",
			SystemPrompt: "Eres un crítico agudo y un abogado del diablo profesional. Identifica las preguntas que haría un lector escéptico, los debates que el contenido puede generar, las debilidades del razonamiento, los puntos ciegos y los contraargumentos sólidos. Sé duro pero constructivo: el objetivo es fortalecer el contenido exponiendo sus debilidades.",
			UserPrompt:   "Analiza críticamente el siguiente contenido y actúa como abogado del diablo:\n\n{{content}}",
			Enabled:      true,
		},
		{
			Name:         "Generador de preguntas",
			Type:         "questions",
			Description:  "Lluvia de ideas, preguntas socráticas y temas de debate",
			SystemPrompt: "Eres un generador de ideas y facilitador de pensamiento socrático. A partir del contenido del blog genera preguntas socráticas, temas de debate y ángulos de exploración que inviten a la reflexión del autor y de su audiencia.",
			UserPrompt:   "Genera preguntas y temas de debate sobre el siguiente contenido:\n\n{{content}}",
			Enabled:      true,
		},
	}
}
