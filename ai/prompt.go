package ai

import (
	"regexp"
	"strings"
)

// BuildSQLPrompt constructs the generation prompt: schema context, the
// read-only guidelines, and the user question.
func BuildSQLPrompt(question string, schemaContext string) string {
	var b strings.Builder
	b.WriteString("You are an expert SQL analyst for a business database. Convert natural language questions to precise SQL SELECT queries.\n\n")
	b.WriteString("DATABASE SCHEMA:\n")
	b.WriteString(schemaContext)
	b.WriteString("\nQUERY GUIDELINES:\n")
	b.WriteString("1. Generate ONLY SELECT statements (security requirement)\n")
	b.WriteString("2. Use standard SQL syntax with correct JOINs\n")
	b.WriteString("3. Apply appropriate WHERE clauses for filtering\n")
	b.WriteString("4. Use aggregate functions (COUNT, SUM, AVG, MAX, MIN) when needed\n")
	b.WriteString("5. Include proper GROUP BY and ORDER BY clauses\n")
	b.WriteString("6. Handle date comparisons correctly\n")
	b.WriteString("7. Return ONLY the SQL query without explanations\n\n")
	b.WriteString("USER QUESTION: ")
	b.WriteString(question)
	b.WriteString("\n\nSQL QUERY:")
	return b.String()
}

var selectStart = regexp.MustCompile(`(?is)\bselect\b`)

// ExtractSQL pulls the first SQL-looking statement out of raw model output,
// tolerating code fences, leading prose and trailing explanation. Returns ""
// when no SELECT can be found.
func ExtractSQL(raw string) string {
	text := stripCodeFences(raw)

	loc := selectStart.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	text = text[loc[0]:]

	if end := statementEnd(text); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(trimmed, "```") {
		return trimmed
	}
	// Prefer the first fenced block when one exists.
	start := strings.Index(trimmed, "```")
	rest := trimmed[start+3:]
	rest = strings.TrimPrefix(rest, "sql")
	rest = strings.TrimPrefix(rest, "\n")
	if end := strings.Index(rest, "```"); end >= 0 {
		return strings.TrimSpace(rest[:end])
	}
	return strings.TrimSpace(rest)
}

// statementEnd finds the first semicolon outside single-quoted literals.
func statementEnd(text string) int {
	inString := false
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\'':
			inString = !inString
		case ';':
			if !inString {
				return i
			}
		}
	}
	return -1
}
