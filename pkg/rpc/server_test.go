package rpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/pkg/config"
	"github.com/cuemby/graphdb/pkg/session"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db, err := session.Open(config.Config{
		Database: config.DatabaseConfig{InMemoryMode: true},
		System:   config.DefaultSystemConfig(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	props := []catalog.PropertyDef{
		{Name: "id", Type: catalog.Primitive(catalog.INT64), ColumnIndex: 0},
		{Name: "age", Type: catalog.Primitive(catalog.INT64), ColumnIndex: 1},
		{Name: "name", Type: catalog.Primitive(catalog.STRING), ColumnIndex: 2},
	}
	_, err = db.Catalog.CreateNodeLabel("person", props, 0)
	require.NoError(t, err)

	return NewServer(db, false)
}

const personQueryDoc = `
match:
  - nodes:
      - name: p
        label: person
where:
  op: ">"
  args:
    - property: {base: {var: p}, name: age}
    - literal: {type: INT64, value: 18}
return:
  - expr: {property: {base: {var: p}, name: name}}
    alias: name
`

func TestServerQueryEndToEnd(t *testing.T) {
	s := testServer(t)

	_, err := s.CreateNode(context.Background(), &WriteNodeRequest{
		Label:      "person",
		Properties: map[string]interface{}{"id": int64(1), "age": int64(30), "name": "ada"},
	})
	require.NoError(t, err)
	_, err = s.CreateNode(context.Background(), &WriteNodeRequest{
		Label:      "person",
		Properties: map[string]interface{}{"id": int64(2), "age": int64(10), "name": "kid"},
	})
	require.NoError(t, err)

	resp, err := s.Query(context.Background(), &QueryRequest{Document: []byte(personQueryDoc)})
	require.NoError(t, err)
	require.Equal(t, []string{"name"}, resp.Columns)
	require.Len(t, resp.Rows, 1)
	require.Equal(t, "ada", resp.Rows[0][0])
}

func TestServerPrepareAndExecutePreparedWithParams(t *testing.T) {
	s := testServer(t)
	_, err := s.CreateNode(context.Background(), &WriteNodeRequest{
		Label:      "person",
		Properties: map[string]interface{}{"id": int64(1), "age": int64(30), "name": "ada"},
	})
	require.NoError(t, err)

	doc := `
match:
  - nodes:
      - name: p
        label: person
where:
  op: ">"
  args:
    - property: {base: {var: p}, name: age}
    - param: {name: minAge, type: INT64}
return:
  - expr: {property: {base: {var: p}, name: name}}
    alias: name
`
	prep, err := s.PrepareStatement(context.Background(), &QueryRequest{Document: []byte(doc)})
	require.NoError(t, err)
	require.NotEmpty(t, prep.Handle)

	resp, err := s.ExecutePrepared(context.Background(), &ExecutePreparedRequest{
		Handle: prep.Handle,
		Params: map[string]interface{}{"minAge": int64(18)},
	})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)

	resp, err = s.ExecutePrepared(context.Background(), &ExecutePreparedRequest{
		Handle: prep.Handle,
		Params: map[string]interface{}{"minAge": int64(40)},
	})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 0)
}

func TestServerExecutePreparedUnknownHandle(t *testing.T) {
	s := testServer(t)
	_, err := s.ExecutePrepared(context.Background(), &ExecutePreparedRequest{Handle: "bogus"})
	require.Error(t, err)
}

func TestServerEnumeratePlansDescribesCandidate(t *testing.T) {
	s := testServer(t)
	_, err := s.CreateNode(context.Background(), &WriteNodeRequest{
		Label:      "person",
		Properties: map[string]interface{}{"id": int64(1), "age": int64(30), "name": "ada"},
	})
	require.NoError(t, err)

	resp, err := s.EnumeratePlans(context.Background(), &QueryRequest{Document: []byte(personQueryDoc)})
	require.NoError(t, err)
	require.Len(t, resp.Plans, 1)
	require.Contains(t, resp.Plans[0], "ScanNodeID(person)")
}

func TestServerCreateSetDeleteNodeLifecycle(t *testing.T) {
	s := testServer(t)
	created, err := s.CreateNode(context.Background(), &WriteNodeRequest{
		Label:      "person",
		Properties: map[string]interface{}{"id": int64(1), "age": int64(20), "name": "ada"},
	})
	require.NoError(t, err)

	_, err = s.SetNodeProperty(context.Background(), &SetPropertyRequest{
		Label: "person", Offset: created.Offset, Property: "age", Value: int64(21),
	})
	require.NoError(t, err)

	_, err = s.DeleteNode(context.Background(), &DeleteNodeRequest{Label: "person", Offset: created.Offset})
	require.NoError(t, err)
}

func TestReadOnlyInterceptorBlocksWriteMethods(t *testing.T) {
	require.True(t, isReadOnlyMethod("/graphdb.v1.QueryService/Query"))
	require.True(t, isReadOnlyMethod("/graphdb.v1.QueryService/EnumeratePlans"))
	require.False(t, isReadOnlyMethod("/graphdb.v1.QueryService/CreateNode"))
	require.False(t, isReadOnlyMethod("/graphdb.v1.QueryService/DeleteNode"))
}
