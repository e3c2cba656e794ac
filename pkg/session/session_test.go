package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/bind"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/plan/querygraph"
	"github.com/cuemby/graphdb/pkg/config"
)

func testDatabase(t *testing.T) *Database {
	t.Helper()
	cfg := config.Config{
		Database: config.DatabaseConfig{InMemoryMode: true},
		System:   config.DefaultSystemConfig(),
	}
	db, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedPersonLabel(t *testing.T, db *Database) *catalog.NodeLabel {
	t.Helper()
	props := []catalog.PropertyDef{
		{Name: "id", Type: catalog.Primitive(catalog.INT64), ColumnIndex: 0},
		{Name: "age", Type: catalog.Primitive(catalog.INT64), ColumnIndex: 1},
		{Name: "name", Type: catalog.Primitive(catalog.STRING), ColumnIndex: 2},
	}
	label, err := db.Catalog.CreateNodeLabel("person", props, 0)
	require.NoError(t, err)
	return label
}

// matchPersonByAge builds the bound form of
// MATCH (p:person) WHERE p.age > minAge RETURN p.name, p.age
func matchPersonByAge(minAge int64) *bind.BoundQuery {
	g := &querygraph.Graph{}
	g.AddNode(querygraph.QueryNode{Name: "p", Label: "person"})

	where := bind.Apply(">",
		bind.PropertyOf(bind.Variable("p"), "age"),
		bind.Literal(catalog.Primitive(catalog.INT64), minAge),
	)

	return &bind.BoundQuery{
		Matches: []bind.BoundMatchPattern{{Graph: g}},
		Where:   &where,
		Projection: []bind.BoundProjectionItem{
			{Expr: bind.PropertyOf(bind.Variable("p"), "name"), Alias: "name"},
			{Expr: bind.PropertyOf(bind.Variable("p"), "age"), Alias: "age"},
		},
	}
}

func TestQueryFiltersAndProjectsProperties(t *testing.T) {
	db := testDatabase(t)
	seedPersonLabel(t, db)
	conn := db.Connect()

	_, err := conn.CreateNode("person", map[string]any{"id": int64(1), "age": int64(17), "name": "kid"})
	require.NoError(t, err)
	_, err = conn.CreateNode("person", map[string]any{"id": int64(2), "age": int64(40), "name": "ada"})
	require.NoError(t, err)
	_, err = conn.CreateNode("person", map[string]any{"id": int64(3), "age": int64(55), "name": "grace"})
	require.NoError(t, err)

	result, err := conn.Query(context.Background(), matchPersonByAge(18))
	require.NoError(t, err)
	require.Equal(t, []string{"name", "age"}, result.Columns)
	require.Len(t, result.Rows, 2)

	names := map[string]int64{}
	for _, row := range result.Rows {
		names[row[0].(string)] = row[1].(int64)
	}
	require.Equal(t, map[string]int64{"ada": 40, "grace": 55}, names)
}

func TestExecuteWithParamsSubstitutesLiteral(t *testing.T) {
	db := testDatabase(t)
	seedPersonLabel(t, db)
	conn := db.Connect()

	_, err := conn.CreateNode("person", map[string]any{"id": int64(1), "age": int64(30), "name": "ada"})
	require.NoError(t, err)

	g := &querygraph.Graph{}
	g.AddNode(querygraph.QueryNode{Name: "p", Label: "person"})
	where := bind.Apply(">",
		bind.PropertyOf(bind.Variable("p"), "age"),
		bind.ParamRef("minAge", catalog.Primitive(catalog.INT64)),
	)
	bq := &bind.BoundQuery{
		Matches: []bind.BoundMatchPattern{{Graph: g}},
		Where:   &where,
		Projection: []bind.BoundProjectionItem{
			{Expr: bind.PropertyOf(bind.Variable("p"), "name"), Alias: "name"},
		},
	}

	stmt, err := conn.Prepare(bq)
	require.NoError(t, err)

	result, err := conn.ExecuteWithParams(context.Background(), stmt, map[string]any{"minAge": int64(18)})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Equal(t, "ada", result.Rows[0][0])

	result, err = conn.ExecuteWithParams(context.Background(), stmt, map[string]any{"minAge": int64(40)})
	require.NoError(t, err)
	require.Len(t, result.Rows, 0)
}

func TestExecuteWithoutParamsSubstitutionFails(t *testing.T) {
	db := testDatabase(t)
	seedPersonLabel(t, db)
	conn := db.Connect()
	_, err := conn.CreateNode("person", map[string]any{"id": int64(1), "age": int64(30), "name": "ada"})
	require.NoError(t, err)

	g := &querygraph.Graph{}
	g.AddNode(querygraph.QueryNode{Name: "p", Label: "person"})
	where := bind.Apply(">",
		bind.PropertyOf(bind.Variable("p"), "age"),
		bind.ParamRef("minAge", catalog.Primitive(catalog.INT64)),
	)
	bq := &bind.BoundQuery{
		Matches: []bind.BoundMatchPattern{{Graph: g}},
		Where:   &where,
		Projection: []bind.BoundProjectionItem{
			{Expr: bind.Variable("p"), Alias: "p"},
		},
	}

	_, err = conn.Query(context.Background(), bq)
	require.Error(t, err)
}

func TestEnumeratePlansDescribesChosenCandidate(t *testing.T) {
	db := testDatabase(t)
	seedPersonLabel(t, db)
	conn := db.Connect()
	_, err := conn.CreateNode("person", map[string]any{"id": int64(1), "age": int64(30), "name": "ada"})
	require.NoError(t, err)

	plans, err := conn.EnumeratePlans(matchPersonByAge(18))
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.Contains(t, plans[0].Description, "ScanNodeID(person)")
}

func TestCreateSetDeleteNodeLifecycle(t *testing.T) {
	db := testDatabase(t)
	seedPersonLabel(t, db)
	conn := db.Connect()

	offset, err := conn.CreateNode("person", map[string]any{"id": int64(1), "age": int64(20), "name": "ada"})
	require.NoError(t, err)

	require.NoError(t, conn.SetNodeProperty("person", offset, "age", int64(21)))
	require.NoError(t, conn.DeleteNode("person", offset))
}

func TestChainedMatchPatternsUnsupported(t *testing.T) {
	db := testDatabase(t)
	seedPersonLabel(t, db)
	conn := db.Connect()

	g := &querygraph.Graph{}
	g.AddNode(querygraph.QueryNode{Name: "p", Label: "person"})
	bq := &bind.BoundQuery{
		Matches: []bind.BoundMatchPattern{{Graph: g}, {Graph: g}},
		Projection: []bind.BoundProjectionItem{
			{Expr: bind.Variable("p"), Alias: "p"},
		},
	}

	_, err := conn.Query(context.Background(), bq)
	require.Error(t, err)
}
