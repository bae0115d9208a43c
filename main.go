package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"datachat/ai"
	"datachat/config"
	"datachat/db"
	_ "datachat/docs" // Swagger docs
	"datachat/handlers"
	"datachat/schema"
	"datachat/service"
	"datachat/validation"
)

// @title           Data Chat API
// @version         1.0
// @description     Ask natural language questions about a business database. Questions are converted to SQL SELECT statements, validated, and executed against a read-only database.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /

// @schemes   http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		startupLogger := zerolog.New(os.Stderr)
		startupLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	desc := schema.Default()
	if err := desc.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid schema descriptor")
	}

	auditStore, err := db.New(cfg.AuditDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open audit store")
	}
	defer auditStore.Close()

	executor, err := service.NewExecutor(service.ExecutorConfig{
		Path:         cfg.DatabasePath,
		MaxRows:      cfg.MaxResultRows,
		QueryTimeout: cfg.QueryTimeout,
	}, desc, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer executor.Close()

	validator := validation.New(desc)

	// The generation service is optional: without an API key the chat
	// service answers only the canned fallback patterns.
	var generator service.Generator
	var genPinger handlers.Pinger
	if cfg.GroqAPIKey != "" {
		aiService, err := ai.New(ai.Config{
			APIKey:  cfg.GroqAPIKey,
			BaseURL: cfg.GroqBaseURL,
			Model:   cfg.GroqModel,
			Timeout: cfg.GenerationTimeout,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize generation service")
		}
		generator = aiService
		genPinger = aiService
	} else {
		logger.Warn().Msg("GROQ_API_KEY not set, SQL generation disabled (fallback patterns only)")
	}

	chatService := service.NewChatService(generator, executor, validator, desc, auditStore, logger)

	h := handlers.New(chatService, executor, genPinger, auditStore, desc, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.MaxAge = 24 * time.Hour
	r.Use(cors.New(corsConfig))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", h.HealthHandler)
	r.POST("/api/chat", h.ChatHandler)
	r.GET("/api/schema", h.SchemaHandler)
	r.GET("/api/audit", h.AuditHandler)

	logger.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
