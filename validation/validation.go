// Package validation decides whether a generated SQL statement is safe to
// run against the read-only demo database. Validate is a pure function of
// the candidate text: it never touches the database, and an identical input
// always yields an identical verdict.
package validation

import (
	"fmt"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"

	"datachat/schema"
)

// ErrorKind classifies why a candidate statement was rejected.
type ErrorKind string

const (
	KindEmpty               ErrorKind = "empty"
	KindMultipleStatements  ErrorKind = "multiple_statements"
	KindNotSelect           ErrorKind = "not_select"
	KindForbiddenKeyword    ErrorKind = "forbidden_keyword"
	KindCommentInjection    ErrorKind = "comment_injection"
	KindSuspiciousUnion     ErrorKind = "suspicious_union"
	KindSuspiciousTautology ErrorKind = "suspicious_tautology"
	KindUnknownIdentifier   ErrorKind = "unknown_identifier"
)

// deniedKeywords rejects any statement containing one of these as a whole
// token, regardless of position. Matching is token-based: a column named
// insert_date never trips the INSERT entry.
var deniedKeywords = map[string]struct{}{
	"drop": {}, "delete": {}, "insert": {}, "update": {}, "alter": {},
	"create": {}, "truncate": {}, "replace": {}, "grant": {}, "revoke": {},
	"attach": {}, "detach": {}, "pragma": {}, "exec": {}, "execute": {},
}

// Warning is an advisory finding attached to an accepted verdict.
type Warning struct {
	Kind   ErrorKind `json:"kind"`
	Detail string    `json:"detail"`
}

// Verdict is the outcome of validating one candidate statement. On
// acceptance, NormalizedSQL carries the trimmed statement with a single
// trailing terminator; re-validating it yields acceptance again.
type Verdict struct {
	Accepted      bool
	NormalizedSQL string
	Reason        ErrorKind
	Detail        string
	Warnings      []Warning
}

type Validator struct {
	schema *schema.Descriptor
}

func New(desc *schema.Descriptor) *Validator {
	return &Validator{schema: desc}
}

// Validate runs the full check pipeline. Every check can short-circuit to a
// rejection; the order only determines which reason is reported first.
func (v *Validator) Validate(text string) Verdict {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return reject(KindEmpty, "query cannot be empty")
	}

	tokens, problem := scanTokens(trimmed)
	if problem != nil {
		return reject(problem.kind, problem.detail)
	}

	// A single trailing terminator is part of a well-formed statement.
	// Anything beyond that is a second statement.
	statement := trimmed
	if len(tokens) > 0 && tokens[len(tokens)-1].isSymbol(";") {
		tokens = tokens[:len(tokens)-1]
		statement = strings.TrimSpace(strings.TrimSuffix(statement, ";"))
	}
	if len(tokens) == 0 {
		return reject(KindEmpty, "query cannot be empty")
	}
	for _, t := range tokens {
		if t.isSymbol(";") {
			return reject(KindMultipleStatements, "statement separator inside query")
		}
	}

	if !tokens[0].isWord("select") {
		return reject(KindNotSelect, fmt.Sprintf("statement starts with %s", strings.ToUpper(tokens[0].text)))
	}

	// Parser confirmation of the statement shape. A parse failure alone is
	// not a rejection: the MySQL-dialect parser refuses some SQL that DuckDB
	// accepts, and the token checks above already guarantee a single
	// SELECT-leading statement.
	if stmt, err := sqlparser.Parse(statement); err == nil {
		switch stmt.(type) {
		case *sqlparser.Select, *sqlparser.Union:
		default:
			return reject(KindNotSelect, "statement does not parse as a SELECT")
		}
	}

	for _, t := range tokens {
		if t.kind != tokenWord {
			continue
		}
		if _, denied := deniedKeywords[strings.ToLower(t.text)]; denied {
			return reject(KindForbiddenKeyword, strings.ToUpper(t.text))
		}
	}

	refs := referencedTables(tokens)
	unions := countWord(tokens, "union")
	if unions > 1 {
		return reject(KindSuspiciousUnion, "multiple UNION clauses")
	}
	if unions == 1 {
		for _, name := range refs {
			if !v.schema.HasTable(name) {
				return reject(KindSuspiciousUnion, fmt.Sprintf("UNION references table outside the schema: %s", name))
			}
		}
	}

	if detail, found := findTautology(tokens); found {
		return reject(KindSuspiciousTautology, detail)
	}

	// Unknown tables are advisory on their own: the generator occasionally
	// invents names the executor will refuse anyway, and a hard rejection
	// here would hide the more useful driver error.
	var warnings []Warning
	for _, name := range refs {
		if !v.schema.HasTable(name) {
			warnings = append(warnings, Warning{
				Kind:   KindUnknownIdentifier,
				Detail: fmt.Sprintf("table not in schema: %s", name),
			})
		}
	}

	return Verdict{
		Accepted:      true,
		NormalizedSQL: statement + ";",
		Warnings:      warnings,
	}
}

func reject(kind ErrorKind, detail string) Verdict {
	return Verdict{Reason: kind, Detail: detail}
}

func countWord(tokens []token, word string) int {
	count := 0
	for _, t := range tokens {
		if t.isWord(word) {
			count++
		}
	}
	return count
}

// referencedTables extracts table names following FROM and JOIN keywords.
// Subqueries are skipped here; their own FROM clauses are picked up as the
// scan continues. Comma-separated FROM lists contribute every member.
func referencedTables(tokens []token) []string {
	var names []string
	for i := 0; i < len(tokens); i++ {
		if !tokens[i].isWord("from") && !tokens[i].isWord("join") {
			continue
		}
		j := i + 1
		if j >= len(tokens) || tokens[j].isSymbol("(") {
			continue
		}
		if name, ok := tableName(tokens[j]); ok {
			names = append(names, name)
		}
		if !tokens[i].isWord("from") {
			continue
		}
		// FROM a, b, c
		for j+2 < len(tokens) && tokens[j+1].isSymbol(",") {
			j += 2
			if name, ok := tableName(tokens[j]); ok {
				names = append(names, name)
			}
		}
	}
	return names
}

func tableName(t token) (string, bool) {
	switch t.kind {
	case tokenWord:
		return strings.ToLower(t.text), true
	case tokenQuotedIdent:
		inner := strings.Trim(t.text, `"`)
		return strings.ToLower(strings.ReplaceAll(inner, `""`, `"`)), true
	default:
		return "", false
	}
}

// findTautology looks for <literal> = <same literal> after the first WHERE.
// Only literal-to-literal comparisons match, so status = 'active' and join
// conditions on named columns pass untouched.
func findTautology(tokens []token) (string, bool) {
	start := -1
	for i, t := range tokens {
		if t.isWord("where") {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return "", false
	}
	for i := start; i+2 < len(tokens); i++ {
		left, op, right := tokens[i], tokens[i+1], tokens[i+2]
		if left.isLiteral() && op.isSymbol("=") && right.kind == left.kind && right.text == left.text {
			return fmt.Sprintf("tautological comparison %s = %s", left.text, right.text), true
		}
	}
	return "", false
}
