package cteql

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
)

// Builder owns a registry of named expressions and the main query they
// feed. SQL and Params recompute dependency order and re-render on every
// call, so mutations between calls are always reflected.
//
// A Builder and its expressions are not safe for concurrent mutation.
// Callers needing an isolated variant (a pagination count query sharing
// the same CTE set, for example) take a Clone.
type Builder struct {
	registry *registry
	main     Fragment
	hasMain  bool
	err      error
}

// New creates an empty statement builder.
func New() *Builder {
	return &Builder{registry: newRegistry()}
}

// Expression creates and registers a plain expression under alias. Fixed
// dependencies supplied here are permanent; DependsOn adds more later.
func (b *Builder) Expression(alias string, deps ...string) *Expression {
	e := newExpression(alias, false, deps)
	b.register(e)
	return e
}

// Recursive creates and registers a recursive expression under alias. The
// recursive flag never changes after creation; a seed and field list must
// be supplied before the statement is built.
func (b *Builder) Recursive(alias string, deps ...string) *Expression {
	e := newExpression(alias, true, deps)
	b.register(e)
	return e
}

// With registers an externally constructed expression.
func (b *Builder) With(e *Expression) *Builder {
	b.register(e)
	return b
}

func (b *Builder) register(e *Expression) {
	if b.err != nil {
		return
	}
	if e.err != nil {
		b.err = e.err
		return
	}
	if err := b.registry.add(e); err != nil {
		b.err = err
		return
	}
	capitan.Emit(context.Background(), ExpressionRegistered,
		KeyAlias.Field(e.alias))
}

// Get returns the expression registered under alias.
func (b *Builder) Get(alias string) (*Expression, error) {
	e, ok := b.registry.get(alias)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAliasNotFound, alias)
	}
	return e, nil
}

// Has reports whether alias is registered.
func (b *Builder) Has(alias string) bool {
	_, ok := b.registry.get(alias)
	return ok
}

// Main sets the main query fragment the WITH clause prefixes.
func (b *Builder) Main(f Fragment) *Builder {
	if b.err != nil {
		return b
	}
	b.main = f
	b.hasMain = true
	return b
}

// Err returns the first error latched by registration or a mutator.
func (b *Builder) Err() error { return b.err }

// SQL resolves dependency order, renders every expression, and returns the
// full statement. With no registered expressions the main query is
// returned with no WITH prefix at all.
func (b *Builder) SQL() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if !b.hasMain || b.main.empty() {
		return "", ErrMissingMain
	}

	ordered, err := resolve(b.registry.list())
	if err != nil {
		return "", err
	}
	withClause, err := composeWith(ordered)
	if err != nil {
		return "", err
	}
	stmt := composeStatement(withClause, b.main.SQL)
	capitan.Emit(context.Background(), StatementComposed,
		KeySQL.Field(stmt))
	return stmt, nil
}

// Params merges the main query's parameters with every registered
// expression's parameters (union members and recursive seeds included) in
// resolver order. Re-run on every access so late-bound parameters are
// always reflected.
func (b *Builder) Params() (map[string]any, error) {
	if b.err != nil {
		return nil, b.err
	}
	ordered, err := resolve(b.registry.list())
	if err != nil {
		return nil, err
	}
	return mergeParams(b.main, ordered)
}

// Clear resets the registry and main query to empty, discarding all
// expressions and any latched error.
func (b *Builder) Clear() *Builder {
	b.registry = newRegistry()
	b.main = Fragment{}
	b.hasMain = false
	b.err = nil
	return b
}

// Clone deep-copies the builder: the main query, its parameter map, and
// every registered expression. Mutating the clone never affects the
// original, and vice versa.
func (b *Builder) Clone() *Builder {
	return &Builder{
		registry: b.registry.clone(),
		main:     b.main.clone(),
		hasMain:  b.hasMain,
		err:      b.err,
	}
}
