package cteql

import "errors"

// Sentinel errors for composition failures. All are fatal to the current
// build or execute call; callers branch on kind with errors.Is.
var (
	// ErrAliasConflict indicates a registration under an alias already present.
	ErrAliasConflict = errors.New("cteql: alias already registered")

	// ErrMissingAlias indicates an expression submitted without an alias.
	ErrMissingAlias = errors.New("cteql: expression has no alias")

	// ErrAliasNotFound indicates a lookup of an alias absent from the registry.
	ErrAliasNotFound = errors.New("cteql: alias not found")

	// ErrCyclicDependency indicates two registered expressions reference each
	// other, or an expression references itself.
	ErrCyclicDependency = errors.New("cteql: cyclic dependency")

	// ErrUnresolvableDependency indicates resolution made no progress over a
	// full pass (dangling or longer-cycle dependency chains).
	ErrUnresolvableDependency = errors.New("cteql: unresolvable dependency")

	// ErrUnionOrdering indicates a union member fragment carries a top-level
	// ORDER BY, which the combined form does not support.
	ErrUnionOrdering = errors.New("cteql: union does not support ordering")

	// ErrParameterCollision indicates two fragments bind the same parameter
	// name. The merge fails fast rather than silently overwriting.
	ErrParameterCollision = errors.New("cteql: parameter bound by multiple fragments")

	// ErrMissingMain indicates a statement was built with no main query set.
	ErrMissingMain = errors.New("cteql: no main query set")

	// ErrMissingQuery indicates an expression was rendered with no fragment set.
	ErrMissingQuery = errors.New("cteql: expression has no query fragment")

	// ErrMissingSeed indicates a recursive expression has no initial seed.
	ErrMissingSeed = errors.New("cteql: recursive expression has no seed")

	// ErrMissingFields indicates a recursive expression has no field list.
	// Fields are mandatory because the seed may have unnamed columns.
	ErrMissingFields = errors.New("cteql: recursive expression has no fields")
)
