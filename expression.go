package cteql

import "fmt"

// Expression is a named SQL fragment destined for a WITH clause. It tracks
// the aliases it depends on, optional union members, and, for recursive
// expressions, the initial seed and output field list.
//
// Mutators follow the builder pattern: they latch the first error and
// return the expression, so chains stay flat. The error surfaces when the
// owning statement is built.
type Expression struct {
	alias        string
	recursive    bool
	dependencies []string
	query        Fragment
	hasQuery     bool
	unionMode    UnionMode
	unionMembers []*Expression
	seed         Fragment
	hasSeed      bool
	fields       []string
	uniqueRows   bool
	err          error
}

// newExpression creates an expression with fixed dependencies. Fixed
// dependencies are permanent; later DependsOn calls are additive only.
func newExpression(alias string, recursive bool, deps []string) *Expression {
	e := &Expression{
		alias:     alias,
		recursive: recursive,
	}
	if alias != "" && !isValidAlias(alias) {
		e.err = fmt.Errorf("cteql: invalid alias %q: must be alphanumeric with underscores, starting with letter", alias)
		return e
	}
	return e.DependsOn(deps...)
}

// Detached creates an expression not registered in any registry, used
// solely as a union member.
func Detached() *Expression {
	return &Expression{}
}

// Alias returns the expression's alias. Empty for detached expressions.
func (e *Expression) Alias() string { return e.alias }

// Recursive reports whether the expression was created recursive.
func (e *Expression) Recursive() bool { return e.recursive }

// Dependencies returns a copy of the dependency alias list.
func (e *Expression) Dependencies() []string {
	deps := make([]string, len(e.dependencies))
	copy(deps, e.dependencies)
	return deps
}

// Err returns the first error latched by a mutator, or nil.
func (e *Expression) Err() error { return e.err }

// DependsOn appends dependency aliases. Duplicates are ignored;
// self-reference is an error. Dependencies are never removed.
func (e *Expression) DependsOn(aliases ...string) *Expression {
	if e.err != nil {
		return e
	}
	for _, alias := range aliases {
		if alias == e.alias && alias != "" {
			e.err = fmt.Errorf("%w: expression %q cannot depend on itself", ErrCyclicDependency, e.alias)
			return e
		}
		if e.dependsOn(alias) {
			continue
		}
		e.dependencies = append(e.dependencies, alias)
	}
	return e
}

// dependsOn reports whether alias is already a dependency.
func (e *Expression) dependsOn(alias string) bool {
	for _, dep := range e.dependencies {
		if dep == alias {
			return true
		}
	}
	return false
}

// SetQuery sets the expression's inner fragment. The fragment is opaque to
// the composer; its named parameters join the statement's merged namespace.
func (e *Expression) SetQuery(f Fragment) *Expression {
	if e.err != nil {
		return e
	}
	e.query = f
	e.hasQuery = true
	return e
}

// Query returns the expression's inner fragment.
func (e *Expression) Query() Fragment { return e.query }

// SetUnion replaces the entire union member sequence and combination mode.
// Recursive expressions already combine seed and step with UNION; they
// cannot carry members of their own.
func (e *Expression) SetUnion(mode UnionMode, members ...*Expression) *Expression {
	if e.err != nil {
		return e
	}
	if e.recursive {
		e.err = fmt.Errorf("cteql: union members cannot be set on recursive expressions (alias %q)", e.alias)
		return e
	}
	if mode != Union && mode != UnionAll {
		e.err = fmt.Errorf("cteql: unknown union mode %q", mode)
		return e
	}
	e.unionMode = mode
	e.unionMembers = append([]*Expression(nil), members...)
	return e
}

// AddUnion appends one union member without changing the mode set by the
// last SetUnion. If no mode was ever set, UNION ALL is used.
func (e *Expression) AddUnion(member *Expression) *Expression {
	if e.err != nil {
		return e
	}
	if e.recursive {
		e.err = fmt.Errorf("cteql: union members cannot be set on recursive expressions (alias %q)", e.alias)
		return e
	}
	if e.unionMode == "" {
		e.unionMode = UnionAll
	}
	e.unionMembers = append(e.unionMembers, member)
	return e
}

// Seed sets the non-recursive anchor of a recursive expression. The seed
// may be a literal value expression or a parameterized fragment.
func (e *Expression) Seed(f Fragment) *Expression {
	if e.err != nil {
		return e
	}
	if !e.recursive {
		e.err = fmt.Errorf("cteql: Seed() can only be used with recursive expressions (alias %q)", e.alias)
		return e
	}
	e.seed = f
	e.hasSeed = true
	return e
}

// Fields sets the output column names of a recursive expression. Mandatory
// for recursive expressions because the seed may have unnamed columns.
func (e *Expression) Fields(names ...string) *Expression {
	if e.err != nil {
		return e
	}
	if !e.recursive {
		e.err = fmt.Errorf("cteql: Fields() can only be used with recursive expressions (alias %q)", e.alias)
		return e
	}
	e.fields = append([]string(nil), names...)
	return e
}

// UniqueRows selects UNION between seed and recursive step when true,
// UNION ALL otherwise. UNION ALL is the default and matches the standard
// recursive-CTE idiom.
func (e *Expression) UniqueRows(unique bool) *Expression {
	if e.err != nil {
		return e
	}
	if !e.recursive {
		e.err = fmt.Errorf("cteql: UniqueRows() can only be used with recursive expressions (alias %q)", e.alias)
		return e
	}
	e.uniqueRows = unique
	return e
}

// clone returns a deep copy so mutating the copy never affects the original.
func (e *Expression) clone() *Expression {
	c := &Expression{
		alias:      e.alias,
		recursive:  e.recursive,
		query:      e.query.clone(),
		hasQuery:   e.hasQuery,
		unionMode:  e.unionMode,
		seed:       e.seed.clone(),
		hasSeed:    e.hasSeed,
		uniqueRows: e.uniqueRows,
		err:        e.err,
	}
	c.dependencies = append([]string(nil), e.dependencies...)
	c.fields = append([]string(nil), e.fields...)
	for _, m := range e.unionMembers {
		c.unionMembers = append(c.unionMembers, m.clone())
	}
	return c
}

// isValidAlias allows alphanumeric characters and underscores, starting
// with a letter.
func isValidAlias(alias string) bool {
	if alias == "" {
		return false
	}
	first := alias[0]
	if !((first >= 'a' && first <= 'z') ||
		(first >= 'A' && first <= 'Z')) {
		return false
	}
	for i := 1; i < len(alias); i++ {
		ch := alias[i]
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '_') {
			return false
		}
	}
	return true
}
