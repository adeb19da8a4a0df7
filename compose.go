package cteql

import (
	"fmt"
	"strings"
)

// renderExpression produces the "alias [ (fields) ] AS ( body )" text for
// one expression. Union members are validated here rather than when they
// are added: members are plain independently built queries, and the ORDER
// BY restriction is a composition-time rule.
func renderExpression(e *Expression) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	if e.alias == "" {
		return "", ErrMissingAlias
	}
	if !e.hasQuery || e.query.empty() {
		return "", fmt.Errorf("%w: %q", ErrMissingQuery, e.alias)
	}
	if e.recursive {
		return renderRecursive(e)
	}

	body := e.query.SQL
	if len(e.unionMembers) > 0 {
		parts := make([]string, 0, len(e.unionMembers)+1)
		parts = append(parts, body)
		for _, m := range e.unionMembers {
			if m.err != nil {
				return "", m.err
			}
			if !m.hasQuery || m.query.empty() {
				return "", fmt.Errorf("%w: union member of %q", ErrMissingQuery, e.alias)
			}
			// Members contribute a single fragment each; one level only.
			if len(m.unionMembers) > 0 {
				return "", fmt.Errorf("cteql: union member of %q carries its own union members", e.alias)
			}
			if hasTopLevelOrderBy(m.query.SQL) {
				return "", fmt.Errorf("%w: member of %q", ErrUnionOrdering, e.alias)
			}
			parts = append(parts, m.query.SQL)
		}
		body = strings.Join(parts, " "+string(e.unionMode)+" ")
	}

	return e.alias + " AS (" + body + ")", nil
}

// renderRecursive produces "alias(fields) AS (seed UNION [ALL] step)".
// The field list is mandatory because the seed may have unnamed columns.
func renderRecursive(e *Expression) (string, error) {
	if !e.hasSeed || e.seed.empty() {
		return "", fmt.Errorf("%w: %q", ErrMissingSeed, e.alias)
	}
	if len(e.fields) == 0 {
		return "", fmt.Errorf("%w: %q", ErrMissingFields, e.alias)
	}

	mode := UnionAll
	if e.uniqueRows {
		mode = Union
	}

	var sql strings.Builder
	sql.WriteString(e.alias)
	sql.WriteString("(")
	sql.WriteString(strings.Join(e.fields, ", "))
	sql.WriteString(") AS (")
	sql.WriteString(e.seed.SQL)
	sql.WriteString(" ")
	sql.WriteString(string(mode))
	sql.WriteString(" ")
	sql.WriteString(e.query.SQL)
	sql.WriteString(")")
	return sql.String(), nil
}

// composeWith renders the ordered expressions into a WITH clause. An empty
// set yields an empty string so callers omit the clause entirely.
func composeWith(ordered []*Expression) (string, error) {
	if len(ordered) == 0 {
		return "", nil
	}

	recursive := false
	parts := make([]string, 0, len(ordered))
	for _, e := range ordered {
		fragment, err := renderExpression(e)
		if err != nil {
			return "", err
		}
		parts = append(parts, fragment)
		if e.recursive {
			recursive = true
		}
	}

	prefix := "WITH "
	if recursive {
		prefix = "WITH RECURSIVE "
	}
	return prefix + strings.Join(parts, ", "), nil
}

// composeStatement concatenates the (possibly empty) WITH clause and the
// main query text, trimmed and single-space separated.
func composeStatement(withClause, mainSQL string) string {
	return strings.TrimSpace(strings.TrimSpace(withClause) + " " + strings.TrimSpace(mainSQL))
}

// mergeParams accumulates the main query's parameters and every ordered
// expression's parameters (union members and recursive seeds included)
// into one map. A name bound by more than one fragment fails fast.
func mergeParams(main Fragment, ordered []*Expression) (map[string]any, error) {
	merged := make(map[string]any)

	add := func(source string, f Fragment) error {
		for name, value := range f.Params {
			if _, dup := merged[name]; dup {
				return fmt.Errorf("%w: %q (seen again in %s)", ErrParameterCollision, name, source)
			}
			merged[name] = value
		}
		return nil
	}

	if err := add("main query", main); err != nil {
		return nil, err
	}
	for _, e := range ordered {
		if err := add(fmt.Sprintf("expression %q", e.alias), e.query); err != nil {
			return nil, err
		}
		for _, m := range e.unionMembers {
			if err := add(fmt.Sprintf("union member of %q", e.alias), m.query); err != nil {
				return nil, err
			}
		}
		if e.hasSeed {
			if err := add(fmt.Sprintf("seed of %q", e.alias), e.seed); err != nil {
				return nil, err
			}
		}
	}
	return merged, nil
}

// hasTopLevelOrderBy scans a fragment for an ORDER BY outside parentheses
// and string literals. This is a lexical scan, not SQL parsing: ORDER BY
// inside a subquery is legal in a union member, top-level is not.
func hasTopLevelOrderBy(sql string) bool {
	depth := 0
	for i := 0; i < len(sql); {
		switch ch := sql[i]; ch {
		case '(':
			depth++
			i++
		case ')':
			if depth > 0 {
				depth--
			}
			i++
		case '\'', '"':
			i = skipQuoted(sql, i)
		default:
			if depth == 0 && matchKeyword(sql, i, "ORDER") {
				j := i + len("ORDER")
				for j < len(sql) && isSpace(sql[j]) {
					j++
				}
				if matchKeyword(sql, j, "BY") {
					return true
				}
			}
			i++
		}
	}
	return false
}

// skipQuoted advances past a quoted region starting at i, honoring doubled
// quote escapes.
func skipQuoted(sql string, i int) int {
	quote := sql[i]
	i++
	for i < len(sql) {
		if sql[i] == quote {
			if i+1 < len(sql) && sql[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

// matchKeyword reports a case-insensitive keyword match at position i with
// word boundaries on both sides.
func matchKeyword(sql string, i int, keyword string) bool {
	if i+len(keyword) > len(sql) {
		return false
	}
	if i > 0 && isIdentChar(sql[i-1]) {
		return false
	}
	for k := 0; k < len(keyword); k++ {
		if upper(sql[i+k]) != keyword[k] {
			return false
		}
	}
	end := i + len(keyword)
	return end == len(sql) || !isIdentChar(sql[end])
}

func upper(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	return ch
}

func isIdentChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
