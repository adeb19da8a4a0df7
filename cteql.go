// Package cteql composes independently built SQL fragments into a single
// statement prefixed by a WITH clause.
//
// Each fragment is registered as a named expression, optionally declaring
// the aliases it depends on. Building the statement linearizes expressions
// so every one appears after the expressions it references, renders plain,
// union, and recursive CTE forms, and merges the named parameters of every
// fragment into one namespace.
//
// # Quick Start
//
//	b := cteql.New()
//	b.Expression("active_users").
//		SetQuery(cteql.Bind("SELECT id FROM users WHERE active = :active", map[string]any{"active": true}))
//	b.Expression("recent_orders", "active_users").
//		SetQuery(cteql.Raw("SELECT * FROM orders WHERE user_id IN (SELECT id FROM active_users)"))
//	b.Main(cteql.Raw("SELECT * FROM recent_orders"))
//
//	sql, err := b.SQL()
//	// WITH active_users AS (...), recent_orders AS (...) SELECT * FROM recent_orders
//
// Expressions use builder-style mutators that latch the first error; the
// error surfaces from SQL, Params, or Query. Fragments must use named
// placeholders (:name) because expression order is not caller-controlled
// and parameters from every fragment are merged into a single map.
package cteql

// Fragment is an opaque SQL fragment with its named-parameter bindings.
// The composer never inspects clause content beyond detecting unsupported
// combinations at render time.
type Fragment struct {
	SQL    string
	Params map[string]any
}

// Raw creates a Fragment with no bound parameters.
func Raw(sql string) Fragment {
	return Fragment{SQL: sql}
}

// Bind creates a Fragment with named-parameter bindings.
func Bind(sql string, params map[string]any) Fragment {
	return Fragment{SQL: sql, Params: params}
}

// clone returns a deep copy of the fragment.
func (f Fragment) clone() Fragment {
	c := Fragment{SQL: f.SQL}
	if f.Params != nil {
		c.Params = make(map[string]any, len(f.Params))
		for k, v := range f.Params {
			c.Params[k] = v
		}
	}
	return c
}

// empty reports whether the fragment carries no SQL text.
func (f Fragment) empty() bool {
	return f.SQL == ""
}

// UnionMode selects how union members are combined.
type UnionMode string

const (
	// Union combines members with UNION (de-duplicated rows).
	Union UnionMode = "UNION"
	// UnionAll combines members with UNION ALL (duplicates preserved).
	UnionAll UnionMode = "UNION ALL"
)
