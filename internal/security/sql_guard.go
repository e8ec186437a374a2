package security

import (
	"errors"
	"strings"

	"vitess.io/vitess/go/vt/sqlparser"
)

var (
	ErrEmptyQuery     = errors.New("query cannot be empty")
	ErrQueryTooLong   = errors.New("query exceeds maximum length")
	ErrSQLSyntax      = errors.New("SQL syntax error")
	ErrNotSelectQuery = errors.New("only SELECT queries are allowed")
	ErrSQLComment     = errors.New("SQL comments are not allowed")
)

const defaultMaxQueryLength = 10000

// SQLGuard enforces the read-only contract at the host boundary, before a
// query reaches the engine. The engine's own pushdown analysis is a
// heuristic text pass; the guard is where real parsing happens.
type SQLGuard struct {
	parser         *sqlparser.Parser
	maxQueryLength int
}

// NewSQLGuard creates a guard. maxQueryLength <= 0 selects the default.
func NewSQLGuard(maxQueryLength int) *SQLGuard {
	if maxQueryLength <= 0 {
		maxQueryLength = defaultMaxQueryLength
	}
	return &SQLGuard{
		parser:         sqlparser.NewTestParser(),
		maxQueryLength: maxQueryLength,
	}
}

// Validate rejects anything that is not a single, comment-free SELECT.
// Positional parameters are already bound separately, so quoting tricks in
// values never reach this path.
func (g *SQLGuard) Validate(sql string) error {
	normalized := normalizeSQL(sql)
	if normalized == "" {
		return ErrEmptyQuery
	}
	if len(normalized) > g.maxQueryLength {
		return ErrQueryTooLong
	}
	if strings.Contains(normalized, "--") || strings.Contains(normalized, "/*") {
		return ErrSQLComment
	}

	stmt, err := g.parser.Parse(normalized)
	if err != nil {
		return ErrSQLSyntax
	}
	if !isSelect(stmt) {
		return ErrNotSelectQuery
	}
	return nil
}

func isSelect(stmt sqlparser.Statement) bool {
	switch stmt.(type) {
	case *sqlparser.Select, *sqlparser.Union:
		return true
	default:
		return false
	}
}

// normalizeSQL trims whitespace and a single trailing semicolon.
func normalizeSQL(sql string) string {
	sql = strings.TrimSpace(sql)
	sql = strings.TrimSuffix(sql, ";")
	return strings.TrimSpace(sql)
}
