package cteql

import (
	"fmt"

	"github.com/zoobzio/astql"
	"github.com/zoobzio/astql/pkg/postgres"
)

// FromBuilder renders an astql query builder and binds a value to each of
// its required parameters, producing a Fragment ready for registration or
// use as a main query. The postgres renderer is used because its output
// keeps named placeholders, which the composer requires. Values not named
// by the query are ignored, so one value map can serve several fragments;
// a missing value is an error.
func FromBuilder(b *astql.Builder, values map[string]any) (Fragment, error) {
	return FromBuilderWith(b, postgres.New(), values)
}

// FromBuilderWith renders with an explicit renderer. The renderer's output
// must keep named placeholders.
func FromBuilderWith(b *astql.Builder, r astql.Renderer, values map[string]any) (Fragment, error) {
	result, err := b.Render(r)
	if err != nil {
		return Fragment{}, fmt.Errorf("cteql: rendering fragment: %w", err)
	}
	return bindRequired(result.SQL, result.RequiredParams, values)
}

// FromResult adapts an already rendered astql QueryResult.
func FromResult(result *astql.QueryResult, values map[string]any) (Fragment, error) {
	return bindRequired(result.SQL, result.RequiredParams, values)
}

func bindRequired(sql string, required []string, values map[string]any) (Fragment, error) {
	params := make(map[string]any, len(required))
	for _, name := range required {
		value, ok := values[name]
		if !ok {
			return Fragment{}, fmt.Errorf("cteql: missing value for parameter %q", name)
		}
		params[name] = value
	}
	return Fragment{SQL: sql, Params: params}, nil
}
