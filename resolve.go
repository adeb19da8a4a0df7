package cteql

import "fmt"

// resolve linearizes expressions so every one appears after the registered
// expressions it depends on. Dependencies naming aliases outside the
// registry refer to real tables and impose no ordering obligation.
//
// Iterative full passes in registry insertion order: an expression is
// placed once all its intra-registry dependencies are placed. Ties resolve
// in insertion order, so the output SQL is reproducible for the same
// registration sequence. A pass that places nothing while expressions
// remain means a dangling chain or a cycle longer than two nodes; mutual
// two-node references are caught eagerly before starvation.
func resolve(exprs []*Expression) ([]*Expression, error) {
	index := make(map[string]*Expression, len(exprs))
	for _, e := range exprs {
		index[e.alias] = e
	}

	resolved := make(map[string]bool, len(exprs))
	sorted := make([]*Expression, 0, len(exprs))

	for len(sorted) < len(exprs) {
		progressed := false
		var lastAlias, lastBlocker string

		for _, e := range exprs {
			if resolved[e.alias] {
				continue
			}
			ready := true
			for _, dep := range e.dependencies {
				other, registered := index[dep]
				if !registered || resolved[dep] {
					continue
				}
				if other.dependsOn(e.alias) {
					return nil, fmt.Errorf("%w: %q and %q reference each other", ErrCyclicDependency, e.alias, dep)
				}
				ready = false
				lastAlias, lastBlocker = e.alias, dep
			}
			if ready {
				resolved[e.alias] = true
				sorted = append(sorted, e)
				progressed = true
			}
		}

		if !progressed {
			return nil, fmt.Errorf("%w: %q is blocked on %q", ErrUnresolvableDependency, lastAlias, lastBlocker)
		}
	}

	return sorted, nil
}
