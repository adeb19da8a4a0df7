package cteql

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/zoobzio/capitan"
)

// Query composes the statement, binds every merged parameter by name, and
// executes it against db, returning a forward-only row cursor.
//
// The db parameter accepts sqlx.ExtContext, which is satisfied by both
// *sqlx.DB and *sqlx.Tx, enabling transaction support by passing a
// transaction instead of a database connection. Driver errors surface
// unmodified; cancellation and timeouts belong to ctx and the driver.
func (b *Builder) Query(ctx context.Context, db sqlx.ExtContext) (*sqlx.Rows, error) {
	stmt, err := b.SQL()
	if err != nil {
		return nil, err
	}
	params, err := b.Params()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := sqlx.NamedQueryContext(ctx, db, stmt, params)
	if err != nil {
		capitan.Emit(ctx, QueryFailed,
			KeyError.Field(err.Error()),
			KeyDuration.Field(time.Since(start)))
		return nil, err
	}

	capitan.Emit(ctx, QueryExecuted,
		KeyDuration.Field(time.Since(start)))
	return rows, nil
}
