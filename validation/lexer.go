package validation

import "strings"

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenQuotedIdent
	tokenString
	tokenNumber
	tokenSymbol
)

type token struct {
	kind tokenKind
	text string
}

func (t token) isWord(word string) bool {
	return t.kind == tokenWord && strings.EqualFold(t.text, word)
}

func (t token) isSymbol(sym string) bool {
	return t.kind == tokenSymbol && t.text == sym
}

func (t token) isLiteral() bool {
	return t.kind == tokenString || t.kind == tokenNumber
}

// scanProblem is a lexical finding that rejects the statement outright,
// before any structural check runs.
type scanProblem struct {
	kind   ErrorKind
	detail string
}

// scanTokens splits SQL text into tokens. String literals are single tokens,
// so comment markers and statement separators inside quotes never surface as
// symbols. Comment markers outside quotes abort the scan: comments have no
// legitimate place in generated single-statement SQL and are a standard
// injection vector.
func scanTokens(input string) ([]token, *scanProblem) {
	var tokens []token
	i := 0
	n := len(input)

	for i < n {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '\'':
			end, ok := scanQuoted(input, i, '\'')
			if !ok {
				return nil, &scanProblem{kind: KindNotSelect, detail: "unterminated string literal"}
			}
			tokens = append(tokens, token{kind: tokenString, text: input[i:end]})
			i = end

		case c == '"':
			end, ok := scanQuoted(input, i, '"')
			if !ok {
				return nil, &scanProblem{kind: KindNotSelect, detail: "unterminated quoted identifier"}
			}
			tokens = append(tokens, token{kind: tokenQuotedIdent, text: input[i:end]})
			i = end

		case c == '-' && i+1 < n && input[i+1] == '-':
			return nil, &scanProblem{kind: KindCommentInjection, detail: "inline comment marker (--)"}

		case c == '/' && i+1 < n && input[i+1] == '*':
			return nil, &scanProblem{kind: KindCommentInjection, detail: "block comment opener (/*)"}

		case isWordStart(c):
			start := i
			for i < n && isWordChar(input[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenWord, text: input[start:i]})

		case c >= '0' && c <= '9':
			start := i
			for i < n && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				i++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: input[start:i]})

		default:
			tokens = append(tokens, token{kind: tokenSymbol, text: string(c)})
			i++
		}
	}

	return tokens, nil
}

// scanQuoted returns the index just past the closing quote, honoring the SQL
// doubled-quote escape ('' or "").
func scanQuoted(input string, start int, quote byte) (int, bool) {
	i := start + 1
	n := len(input)
	for i < n {
		if input[i] != quote {
			i++
			continue
		}
		if i+1 < n && input[i+1] == quote {
			i += 2
			continue
		}
		return i + 1, true
	}
	return 0, false
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordChar(c byte) bool {
	return isWordStart(c) || (c >= '0' && c <= '9') || c == '$'
}
