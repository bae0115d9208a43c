package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"datachat/ai"
	"datachat/metrics"
	"datachat/models"
	"datachat/schema"
	"datachat/validation"
)

const rephraseSuggestion = `Try asking: "Show all customers" or "How many orders were placed?"`

// Generator produces a candidate SQL statement for a question.
type Generator interface {
	GenerateSQL(ctx context.Context, question string, schemaContext string) (string, error)
}

// QueryExecutor runs a validated statement and returns its rows.
type QueryExecutor interface {
	Execute(ctx context.Context, sqlText string) (*models.QueryResult, error)
}

// AuditSink records the outcome of each chat turn.
type AuditSink interface {
	Append(rec models.AuditRecord) error
}

// ChatService drives one chat turn end to end: generate, validate, execute,
// shape the response. Each stage failure maps to a user-facing message; raw
// driver and upstream errors never leave the service.
type ChatService struct {
	generator Generator
	executor  QueryExecutor
	validator *validation.Validator
	schema    *schema.Descriptor
	audit     AuditSink
	logger    zerolog.Logger
}

// NewChatService wires the pipeline. generator may be nil: the service then
// answers only questions the canned fallback patterns cover. audit may be
// nil to disable the audit trail.
func NewChatService(gen Generator, exec QueryExecutor, val *validation.Validator, desc *schema.Descriptor, audit AuditSink, logger zerolog.Logger) *ChatService {
	return &ChatService{
		generator: gen,
		executor:  exec,
		validator: val,
		schema:    desc,
		audit:     audit,
		logger:    logger.With().Str("component", "chat").Logger(),
	}
}

// Ask answers one natural-language question. The returned response is always
// non-nil and ready to serialize; errors are folded into it.
func (s *ChatService) Ask(ctx context.Context, question string) *models.ChatResponse {
	metrics.ObserveChatRequest()

	candidate, genErr := s.generate(ctx, question)
	if candidate == "" {
		metrics.ObserveGenerationFailure()
		s.logger.Warn().Err(genErr).Str("question", question).Msg("generation failed with no fallback")
		s.record(question, "", models.AuditOutcomeError, "generation_failed", errString(genErr), 0)
		return &models.ChatResponse{
			Error:      "Failed to generate SQL query. Please try rephrasing your question.",
			Suggestion: rephraseSuggestion,
		}
	}
	if genErr != nil {
		// Fallback produced the candidate; count the upstream failure anyway.
		metrics.ObserveGenerationFailure()
		s.logger.Info().Err(genErr).Msg("generation failed, using fallback SQL")
	}

	verdict := s.validator.Validate(candidate)
	if !verdict.Accepted {
		metrics.ObserveRejected(string(verdict.Reason))
		s.logger.Warn().
			Str("question", question).
			Str("sql", candidate).
			Str("reason", string(verdict.Reason)).
			Str("detail", verdict.Detail).
			Msg("statement rejected")
		s.record(question, candidate, models.AuditOutcomeRejected, string(verdict.Reason), verdict.Detail, 0)
		return &models.ChatResponse{
			GeneratedSQL: candidate,
			Error:        rejectionMessage(verdict),
			Suggestion:   rephraseSuggestion,
		}
	}
	for _, w := range verdict.Warnings {
		s.logger.Warn().Str("kind", string(w.Kind)).Str("detail", w.Detail).Msg("validation warning")
	}

	started := time.Now()
	result, err := s.executor.Execute(ctx, verdict.NormalizedSQL)
	metrics.ObserveQueryDuration(time.Since(started))
	if err != nil {
		metrics.ObserveExecutionError()
		s.record(question, verdict.NormalizedSQL, models.AuditOutcomeError, "execution_failed", err.Error(), 0)
		return &models.ChatResponse{
			GeneratedSQL: verdict.NormalizedSQL,
			Error:        err.Error(),
			Suggestion:   rephraseSuggestion,
		}
	}

	metrics.ObserveExecuted()
	s.record(question, verdict.NormalizedSQL, models.AuditOutcomeExecuted, "", "", result.RowCount)

	message := fmt.Sprintf("Found %d result(s)", result.RowCount)
	if result.Truncated {
		message = fmt.Sprintf("Found %d result(s) (output truncated)", result.RowCount)
	}
	return &models.ChatResponse{
		Success:      true,
		Message:      message,
		GeneratedSQL: verdict.NormalizedSQL,
		Results:      result,
	}
}

// generate returns the candidate statement and, when the external service
// failed but a fallback matched, the original generation error alongside it.
func (s *ChatService) generate(ctx context.Context, question string) (string, error) {
	if s.generator == nil {
		return ai.FallbackSQL(question), nil
	}
	candidate, err := s.generator.GenerateSQL(ctx, question, s.schema.PromptContext())
	if err != nil {
		return ai.FallbackSQL(question), err
	}
	return candidate, nil
}

func (s *ChatService) record(question, sqlText, outcome, reason, errDetail string, rowCount int) {
	if s.audit == nil {
		return
	}
	rec := models.AuditRecord{
		ID:           uuid.NewString(),
		Question:     question,
		GeneratedSQL: sqlText,
		Outcome:      outcome,
		Reason:       reason,
		Error:        errDetail,
		RowCount:     rowCount,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.audit.Append(rec); err != nil {
		s.logger.Error().Err(err).Msg("failed to append audit record")
	}
}

func rejectionMessage(v validation.Verdict) string {
	switch v.Reason {
	case validation.KindEmpty:
		return "Query cannot be empty"
	case validation.KindNotSelect:
		return "Security: Only SELECT queries are allowed"
	case validation.KindMultipleStatements:
		return "Security: Multiple SQL statements are not allowed"
	case validation.KindForbiddenKeyword:
		return "Forbidden keyword detected: " + v.Detail
	default:
		return "Potential SQL injection detected: " + v.Detail
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
