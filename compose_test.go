package cteql

import "testing"

func TestHasTopLevelOrderBy(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want bool
	}{
		{"plain order by", "SELECT id FROM users ORDER BY id", true},
		{"lowercase", "select id from users order by id", true},
		{"extra whitespace", "SELECT 1 ORDER\n\tBY 1", true},
		{"no order by", "SELECT id FROM users", false},
		{"inside subquery", "SELECT id FROM (SELECT id FROM users ORDER BY id) t", false},
		{"after subquery", "SELECT id FROM (SELECT 1) t ORDER BY id", true},
		{"inside string literal", "SELECT 'ORDER BY' FROM users", false},
		{"inside quoted identifier", `SELECT "ORDER BY" FROM users`, false},
		{"escaped quote then order by", "SELECT 'it''s' FROM t ORDER BY id", true},
		{"identifier prefix", "SELECT order_by FROM users", false},
		{"no boundary", "SELECT 1 FROM preORDER BY_table", false},
		{"order without by", "SELECT * FROM orders", false},
		{"unbalanced close paren", ") ORDER BY id", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasTopLevelOrderBy(tt.sql); got != tt.want {
				t.Errorf("hasTopLevelOrderBy(%q) = %v, want %v", tt.sql, got, tt.want)
			}
		})
	}
}

func TestComposeStatementSpacing(t *testing.T) {
	if got := composeStatement("", "  SELECT 1  "); got != "SELECT 1" {
		t.Errorf("composeStatement = %q, want trimmed main query", got)
	}
	if got := composeStatement("WITH a AS (SELECT 1)", "SELECT * FROM a"); got != "WITH a AS (SELECT 1) SELECT * FROM a" {
		t.Errorf("composeStatement = %q, want single-space separation", got)
	}
}

func TestComposeWithEmptySet(t *testing.T) {
	withClause, err := composeWith(nil)
	if err != nil {
		t.Fatalf("composeWith(nil) failed: %v", err)
	}
	if withClause != "" {
		t.Errorf("composeWith(nil) = %q, want empty string so callers omit the clause", withClause)
	}
}

func TestIsValidAlias(t *testing.T) {
	valid := []string{"a", "users", "user_count", "Walk2"}
	for _, alias := range valid {
		if !isValidAlias(alias) {
			t.Errorf("isValidAlias(%q) = false, want true", alias)
		}
	}

	invalid := []string{"", "1abc", "_lead", "a-b", "a b", "a;drop"}
	for _, alias := range invalid {
		if isValidAlias(alias) {
			t.Errorf("isValidAlias(%q) = true, want false", alias)
		}
	}
}
