package nlquery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mcastillo/saberpro_db/models"
)

// Statements other than plain reads are never executed, whatever the model
// returns.
var forbiddenKeywords = []string{
	"insert", "update", "delete", "drop", "alter", "create",
	"replace", "attach", "detach", "pragma", "vacuum", "reindex",
}

// sqlKeywords are the read-query tokens the identifier check lets through.
var sqlKeywords = map[string]bool{
	"select": true, "from": true, "where": true, "group": true, "by": true,
	"order": true, "having": true, "limit": true, "offset": true, "as": true,
	"and": true, "or": true, "not": true, "in": true, "is": true, "null": true,
	"like": true, "glob": true, "between": true, "distinct": true, "exists": true,
	"case": true, "when": true, "then": true, "else": true, "end": true,
	"asc": true, "desc": true, "with": true, "union": true, "all": true,
	"join": true, "inner": true, "left": true, "outer": true, "cross": true,
	"on": true, "cast": true, "integer": true, "real": true, "text": true,
	"numeric": true, "count": true, "avg": true, "sum": true, "min": true,
	"max": true, "total": true, "abs": true, "round": true, "coalesce": true,
	"ifnull": true, "nullif": true, "length": true, "substr": true,
	"upper": true, "lower": true, "trim": true, "ltrim": true, "rtrim": true,
	"strftime": true, "date": true, "datetime": true,
}

var (
	identPattern   = regexp.MustCompile(`[a-z_][a-z0-9_]*`)
	literalPattern = regexp.MustCompile(`'[^']*'`)
)

// ValidateSQL rejects anything that is not a single read-only statement over
// the known schema. Every identifier must be a saber_pro column, the table
// itself, a recognized SQL keyword or function, or an alias the statement
// declares.
func ValidateSQL(query string) error {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if trimmed == "" {
		return fmt.Errorf("empty query")
	}
	if strings.Contains(trimmed, ";") {
		return fmt.Errorf("multiple statements are not allowed")
	}

	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "select") && !strings.HasPrefix(lower, "with") {
		return fmt.Errorf("only SELECT queries are allowed")
	}
	for _, kw := range forbiddenKeywords {
		if containsWord(lower, kw) {
			return fmt.Errorf("forbidden keyword %q", kw)
		}
	}
	return checkIdentifiers(lower)
}

// checkIdentifiers walks every bare identifier in the statement, ignoring
// string literals. Aliases count as declared from the token after AS (and the
// CTE name after WITH), so "AVG(x) AS avg_x ... ORDER BY avg_x" passes.
func checkIdentifiers(query string) error {
	stripped := literalPattern.ReplaceAllString(query, "''")
	tokens := identPattern.FindAllString(stripped, -1)

	declared := map[string]bool{models.TableName: true}
	for _, col := range models.Columns {
		declared[col] = true
	}
	for i, tok := range tokens {
		if (tok == "as" || tok == "with") && i+1 < len(tokens) {
			declared[tokens[i+1]] = true
		}
	}

	for _, tok := range tokens {
		if sqlKeywords[tok] || declared[tok] {
			continue
		}
		return fmt.Errorf("unknown identifier %q", tok)
	}
	return nil
}

// containsWord reports whether word appears in s on its own, not as part of a
// longer identifier.
func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isIdentChar(s[start-1])
		afterOK := end == len(s) || !isIdentChar(s[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
