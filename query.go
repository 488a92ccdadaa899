package blogapi

import (
	"fmt"
	"strings"
)

// Listing bounds. Requests outside these are rejected before any store
// access.
const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 50
)

// ValidationError reports a request parameter that failed validation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ListQuery describes one listing request: a page window plus optional
// free-text and tag filters. The zero value is not valid; callers fill
// in DefaultPage/DefaultLimit for absent parameters and pass explicit
// values through Validate unchanged.
type ListQuery struct {
	Page  int    // 1-based page number
	Limit int    // window size, at most MaxLimit
	Q     string // case-insensitive substring over title/excerpt/content/tags
	Tag   string // exact tag membership, case-sensitive
}

// Validate checks page and limit bounds. It returns nil when the query is
// acceptable.
func (q ListQuery) Validate() *ValidationError {
	if q.Page < 1 {
		return &ValidationError{Field: "page", Message: "page must be >= 1"}
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return &ValidationError{Field: "limit", Message: fmt.Sprintf("limit must be between 1 and %d", MaxLimit)}
	}
	return nil
}

// filter translates the query into a SQL predicate over the posts table.
// The returned clause is empty when the query matches everything.
//
// Free-text search is a case-insensitive substring match ORed across
// title, excerpt, content, and the tag list. The needle is folded with
// asciiLower, not strings.ToLower: SQLite's lower() only folds ASCII, so
// folding both sides the same way keeps the match symmetric — ASCII
// letters compare case-insensitively, non-ASCII letters compare as-is.
// Tag filtering is an exact, case-sensitive membership test against the
// comma-delimited tag column, so "ai" never matches a post tagged only
// "ai-generated".
func (q ListQuery) filter() (string, []any) {
	var clauses []string
	var args []any
	if q.Q != "" {
		needle := asciiLower(q.Q)
		clauses = append(clauses, `(instr(lower(title), ?) > 0 OR instr(lower(excerpt), ?) > 0 OR instr(lower(content), ?) > 0 OR instr(lower(tags), ?) > 0)`)
		args = append(args, needle, needle, needle, needle)
	}
	if q.Tag != "" {
		clauses = append(clauses, `instr(tags, ',' || ? || ',') > 0`)
		args = append(args, q.Tag)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// asciiLower lowercases ASCII letters only, mirroring SQLite's lower().
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// offset is the number of matches skipped before the window starts.
func (q ListQuery) offset() int {
	return (q.Page - 1) * q.Limit
}

// Pages computes the page count for total matches at the given window
// size. A non-positive limit yields 1; validation keeps that branch
// unreachable in normal operation, it exists only as a guard.
func Pages(total, limit int) int {
	if limit <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}
