package models

import "time"

type ChatRequest struct {
	Message string `json:"message" binding:"required" example:"Show all customers from USA"`
}

// QueryResult holds the rows returned for one accepted query. Rows are
// mappings keyed by column name; Columns preserves the SELECT order.
type QueryResult struct {
	Columns   []string         `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	RowCount  int              `json:"row_count"`
	Truncated bool             `json:"truncated"`
}

// ChatResponse is the payload for one chat turn. GeneratedSQL is included
// even on validation failure so the user can see what was rejected; a
// rejected statement is never executed.
type ChatResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message,omitempty"`
	GeneratedSQL string       `json:"generated_sql,omitempty"`
	Results      *QueryResult `json:"results,omitempty"`
	Error        string       `json:"error,omitempty"`
	Suggestion   string       `json:"suggestion,omitempty"`
}

// Audit outcomes, one per chat turn.
const (
	AuditOutcomeExecuted = "executed"
	AuditOutcomeRejected = "rejected"
	AuditOutcomeError    = "error"
)

// AuditRecord is the operational trace of a single chat turn. It is an ops
// log, not conversation history: nothing is ever replayed into later turns.
type AuditRecord struct {
	ID           string    `json:"id"`
	Question     string    `json:"question"`
	GeneratedSQL string    `json:"generated_sql,omitempty"`
	Outcome      string    `json:"outcome"`
	Reason       string    `json:"reason,omitempty"`
	Error        string    `json:"error,omitempty"`
	RowCount     int       `json:"row_count,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
