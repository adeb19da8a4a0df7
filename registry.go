package cteql

import "fmt"

// registry owns the set of named expressions. Insertion order is preserved
// because resolver tie-breaking depends on it.
type registry struct {
	order   []string
	members map[string]*Expression
}

func newRegistry() *registry {
	return &registry{
		members: make(map[string]*Expression),
	}
}

// add registers an expression under its alias. A duplicate alias fails
// without mutating the registry.
func (r *registry) add(e *Expression) error {
	if e.alias == "" {
		return ErrMissingAlias
	}
	if _, ok := r.members[e.alias]; ok {
		return fmt.Errorf("%w: %q", ErrAliasConflict, e.alias)
	}
	r.members[e.alias] = e
	r.order = append(r.order, e.alias)
	return nil
}

// get looks up an expression by alias.
func (r *registry) get(alias string) (*Expression, bool) {
	e, ok := r.members[alias]
	return e, ok
}

// list returns expressions in insertion order.
func (r *registry) list() []*Expression {
	exprs := make([]*Expression, 0, len(r.order))
	for _, alias := range r.order {
		exprs = append(exprs, r.members[alias])
	}
	return exprs
}

// clone deep-copies the registry and every expression in it.
func (r *registry) clone() *registry {
	c := newRegistry()
	for _, alias := range r.order {
		c.order = append(c.order, alias)
		c.members[alias] = r.members[alias].clone()
	}
	return c
}
