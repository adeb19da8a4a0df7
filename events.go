package cteql

import "github.com/zoobzio/capitan"

// Event keys for structured logging.
var (
	KeyAlias    = capitan.NewStringKey("alias")
	KeySQL      = capitan.NewStringKey("sql")
	KeyError    = capitan.NewStringKey("error")
	KeyDuration = capitan.NewDurationKey("duration")
)

// Signals emitted by cteql.
var (
	ExpressionRegistered = capitan.NewSignal("cteql.expression.registered", "Expression registered")
	StatementComposed    = capitan.NewSignal("cteql.statement.composed", "Statement composed")
	QueryExecuted        = capitan.NewSignal("cteql.query.executed", "Composed statement executed")
	QueryFailed          = capitan.NewSignal("cteql.query.failed", "Composed statement execution failed")
)
