package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datachat/models"
	"datachat/schema"
	"datachat/validation"
)

type stubGenerator struct {
	sql string
	err error
}

func (g *stubGenerator) GenerateSQL(ctx context.Context, question, schemaContext string) (string, error) {
	return g.sql, g.err
}

type stubExecutor struct {
	result *models.QueryResult
	err    error
	calls  []string
}

func (e *stubExecutor) Execute(ctx context.Context, sqlText string) (*models.QueryResult, error) {
	e.calls = append(e.calls, sqlText)
	return e.result, e.err
}

type memoryAudit struct {
	records []models.AuditRecord
}

func (a *memoryAudit) Append(rec models.AuditRecord) error {
	a.records = append(a.records, rec)
	return nil
}

func newTestChatService(gen Generator, exec QueryExecutor, audit AuditSink) *ChatService {
	desc := schema.Default()
	return NewChatService(gen, exec, validation.New(desc), desc, audit, zerolog.Nop())
}

func TestAskHappyPath(t *testing.T) {
	exec := &stubExecutor{result: &models.QueryResult{
		Columns:  []string{"name"},
		Rows:     []map[string]any{{"name": "John Smith"}, {"name": "Emma Johnson"}},
		RowCount: 2,
	}}
	audit := &memoryAudit{}
	svc := newTestChatService(&stubGenerator{sql: "SELECT name FROM customers"}, exec, audit)

	resp := svc.Ask(context.Background(), "show customer names")

	require.True(t, resp.Success)
	assert.Equal(t, "Found 2 result(s)", resp.Message)
	assert.Equal(t, "SELECT name FROM customers;", resp.GeneratedSQL)
	require.NotNil(t, resp.Results)
	assert.Equal(t, 2, resp.Results.RowCount)
	assert.Empty(t, resp.Error)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, "SELECT name FROM customers;", exec.calls[0])

	require.Len(t, audit.records, 1)
	assert.Equal(t, models.AuditOutcomeExecuted, audit.records[0].Outcome)
	assert.Equal(t, 2, audit.records[0].RowCount)
	assert.NotEmpty(t, audit.records[0].ID)
}

func TestAskTruncatedResult(t *testing.T) {
	exec := &stubExecutor{result: &models.QueryResult{
		Columns:   []string{"id"},
		Rows:      []map[string]any{{"id": 1}},
		RowCount:  1,
		Truncated: true,
	}}
	svc := newTestChatService(&stubGenerator{sql: "SELECT id FROM orders"}, exec, nil)

	resp := svc.Ask(context.Background(), "show orders")
	require.True(t, resp.Success)
	assert.Contains(t, resp.Message, "truncated")
}

func TestAskRejectsDangerousStatement(t *testing.T) {
	exec := &stubExecutor{}
	audit := &memoryAudit{}
	svc := newTestChatService(&stubGenerator{sql: "DROP TABLE customers"}, exec, audit)

	resp := svc.Ask(context.Background(), "delete everything")

	require.False(t, resp.Success)
	assert.Equal(t, "Security: Only SELECT queries are allowed", resp.Error)
	assert.Equal(t, "DROP TABLE customers", resp.GeneratedSQL)
	assert.NotEmpty(t, resp.Suggestion)
	assert.Nil(t, resp.Results)

	// A rejected statement never reaches the executor.
	assert.Empty(t, exec.calls)

	require.Len(t, audit.records, 1)
	assert.Equal(t, models.AuditOutcomeRejected, audit.records[0].Outcome)
	assert.Equal(t, "not_select", audit.records[0].Reason)
}

func TestAskRejectionMessages(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantMsg string
	}{
		{
			"multiple statements",
			"SELECT * FROM customers; SELECT * FROM orders",
			"Security: Multiple SQL statements are not allowed",
		},
		{
			"forbidden keyword",
			"SELECT * FROM customers WHERE TRUNCATE x",
			"Forbidden keyword detected: TRUNCATE",
		},
		{
			"tautology",
			"SELECT * FROM customers WHERE 1 = 1",
			"Potential SQL injection detected: tautological comparison 1 = 1",
		},
		{
			"comment injection",
			"SELECT * FROM customers -- hidden",
			"Potential SQL injection detected: inline comment marker (--)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &stubExecutor{}
			svc := newTestChatService(&stubGenerator{sql: tt.sql}, exec, nil)

			resp := svc.Ask(context.Background(), "question")
			require.False(t, resp.Success)
			assert.Equal(t, tt.wantMsg, resp.Error)
			assert.Empty(t, exec.calls)
		})
	}
}

func TestAskFallsBackWhenGenerationFails(t *testing.T) {
	exec := &stubExecutor{result: &models.QueryResult{
		Columns:  []string{"customer_count"},
		Rows:     []map[string]any{{"customer_count": 8}},
		RowCount: 1,
	}}
	svc := newTestChatService(&stubGenerator{err: errors.New("upstream down")}, exec, nil)

	resp := svc.Ask(context.Background(), "How many customers do we have?")

	require.True(t, resp.Success)
	assert.Equal(t, "SELECT COUNT(*) AS customer_count FROM customers;", resp.GeneratedSQL)
	require.Len(t, exec.calls, 1)
}

func TestAskFailsWhenGenerationFailsAndNoFallbackMatches(t *testing.T) {
	exec := &stubExecutor{}
	audit := &memoryAudit{}
	svc := newTestChatService(&stubGenerator{err: errors.New("upstream down")}, exec, audit)

	resp := svc.Ask(context.Background(), "average delivery delay per region?")

	require.False(t, resp.Success)
	assert.Equal(t, "Failed to generate SQL query. Please try rephrasing your question.", resp.Error)
	assert.NotEmpty(t, resp.Suggestion)
	assert.Empty(t, exec.calls)

	require.Len(t, audit.records, 1)
	assert.Equal(t, models.AuditOutcomeError, audit.records[0].Outcome)
	assert.Equal(t, "generation_failed", audit.records[0].Reason)
}

func TestAskWithoutGeneratorUsesFallbackOnly(t *testing.T) {
	exec := &stubExecutor{result: &models.QueryResult{
		Columns:  []string{"id"},
		Rows:     []map[string]any{},
		RowCount: 0,
	}}
	svc := newTestChatService(nil, exec, nil)

	resp := svc.Ask(context.Background(), "show all customers")
	require.True(t, resp.Success)
	assert.Equal(t, "SELECT * FROM customers;", resp.GeneratedSQL)

	resp = svc.Ask(context.Background(), "something nothing matches")
	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Failed to generate SQL query")
}

func TestAskSurfacesExecutionError(t *testing.T) {
	exec := &stubExecutor{err: &ExecutionError{Detail: "database error: table missing"}}
	audit := &memoryAudit{}
	svc := newTestChatService(&stubGenerator{sql: "SELECT * FROM customers"}, exec, audit)

	resp := svc.Ask(context.Background(), "show customers")

	require.False(t, resp.Success)
	assert.Equal(t, "database error: table missing", resp.Error)
	assert.Equal(t, "SELECT * FROM customers;", resp.GeneratedSQL)

	require.Len(t, audit.records, 1)
	assert.Equal(t, models.AuditOutcomeError, audit.records[0].Outcome)
	assert.Equal(t, "execution_failed", audit.records[0].Reason)
}
