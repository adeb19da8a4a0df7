package cteql_test

import (
	"strings"
	"testing"

	"github.com/zoobzio/astql"
	"github.com/zoobzio/astql/pkg/postgres"
	"github.com/zoobzio/dbml"

	"github.com/zoobzio/cteql"
)

func createSchemaInstance(t *testing.T) *astql.ASTQL {
	t.Helper()

	project := dbml.NewProject("test")
	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("active", "boolean"))
	users.AddColumn(dbml.NewColumn("age", "int"))
	project.AddTable(users)

	instance, err := astql.NewFromDBML(project)
	if err != nil {
		t.Fatalf("Failed to create instance: %v", err)
	}
	return instance
}

func TestFromBuilder(t *testing.T) {
	instance := createSchemaInstance(t)

	qb := astql.Select(instance.T("users")).
		Fields(instance.F("id")).
		Where(instance.C(instance.F("active"), astql.EQ, instance.P("active")))

	frag, err := cteql.FromBuilder(qb, map[string]any{"active": true, "unused": 1})
	if err != nil {
		t.Fatalf("FromBuilder() failed: %v", err)
	}
	if !strings.Contains(frag.SQL, ":active") {
		t.Errorf("fragment SQL = %q, want named placeholder preserved", frag.SQL)
	}
	if len(frag.Params) != 1 || frag.Params["active"] != true {
		t.Errorf("fragment params = %v, want only required parameters bound", frag.Params)
	}
}

func TestFromBuilderMissingValue(t *testing.T) {
	instance := createSchemaInstance(t)

	qb := astql.Select(instance.T("users")).
		Where(instance.C(instance.F("age"), astql.GE, instance.P("min_age")))

	if _, err := cteql.FromBuilder(qb, map[string]any{}); err == nil {
		t.Error("FromBuilder() with missing parameter value should fail")
	}
}

func TestFromBuilderWithExplicitRenderer(t *testing.T) {
	instance := createSchemaInstance(t)

	qb := astql.Select(instance.T("users")).
		Fields(instance.F("id")).
		Where(instance.C(instance.F("active"), astql.EQ, instance.P("active")))

	frag, err := cteql.FromBuilderWith(qb, postgres.New(), map[string]any{"active": true})
	if err != nil {
		t.Fatalf("FromBuilderWith() failed: %v", err)
	}
	if !strings.Contains(frag.SQL, ":active") {
		t.Errorf("fragment SQL = %q, want named placeholder preserved", frag.SQL)
	}
}

func TestFromResult(t *testing.T) {
	instance := createSchemaInstance(t)

	result, err := astql.Select(instance.T("users")).
		Where(instance.C(instance.F("age"), astql.GE, instance.P("min_age"))).
		Render(postgres.New())
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	frag, err := cteql.FromResult(result, map[string]any{"min_age": 21})
	if err != nil {
		t.Fatalf("FromResult() failed: %v", err)
	}
	if frag.Params["min_age"] != 21 {
		t.Errorf("fragment params = %v, want min_age bound", frag.Params)
	}
}

func TestFromBuilderRegistersAsExpression(t *testing.T) {
	instance := createSchemaInstance(t)

	frag, err := cteql.FromBuilder(
		astql.Select(instance.T("users")).
			Fields(instance.F("id")).
			Where(instance.C(instance.F("active"), astql.EQ, instance.P("active"))),
		map[string]any{"active": true})
	if err != nil {
		t.Fatalf("FromBuilder() failed: %v", err)
	}

	b := cteql.New()
	b.Expression("active_users").SetQuery(frag)
	b.Main(cteql.Raw("SELECT count(*) FROM active_users"))

	sql, err := b.SQL()
	if err != nil {
		t.Fatalf("SQL() failed: %v", err)
	}
	if !strings.HasPrefix(sql, "WITH active_users AS (") {
		t.Errorf("SQL() = %q, want astql fragment wrapped as CTE", sql)
	}

	params, err := b.Params()
	if err != nil {
		t.Fatalf("Params() failed: %v", err)
	}
	if params["active"] != true {
		t.Errorf("Params() = %v, want astql parameter merged", params)
	}
}
