package handlers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"datachat/cache"
	"datachat/models"
	"datachat/schema"
)

// Chatter answers one natural-language question.
type Chatter interface {
	Ask(ctx context.Context, question string) *models.ChatResponse
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AuditReader lists recent audit records, newest first.
type AuditReader interface {
	Recent(limit int) ([]models.AuditRecord, error)
}

type Handlers struct {
	chat       Chatter
	dbPinger   Pinger
	genPinger  Pinger // nil when no generation service is configured
	audit      AuditReader
	schema     *schema.Descriptor
	probeCache *cache.Cache
	logger     zerolog.Logger
}

func New(chat Chatter, dbPinger Pinger, genPinger Pinger, audit AuditReader, desc *schema.Descriptor, logger zerolog.Logger) *Handlers {
	return &Handlers{
		chat:       chat,
		dbPinger:   dbPinger,
		genPinger:  genPinger,
		audit:      audit,
		schema:     desc,
		probeCache: cache.New(30 * time.Second),
		logger:     logger.With().Str("component", "handlers").Logger(),
	}
}
