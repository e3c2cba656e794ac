package querydoc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/bind"
	"github.com/cuemby/graphdb/internal/catalog"
)

const sampleDoc = `
match:
  - nodes:
      - name: p
        label: person
where:
  op: ">"
  args:
    - property:
        base: {var: p}
        name: age
    - literal: {type: INT64, value: 18}
return:
  - expr: {property: {base: {var: p}, name: name}}
    alias: name
  - expr: {property: {base: {var: p}, name: age}}
    alias: age
limit: 10
`

func TestParseAndBindBuildsBoundQuery(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	bq, err := doc.Bind()
	require.NoError(t, err)

	require.Len(t, bq.Matches, 1)
	require.Equal(t, "person", bq.Matches[0].Graph.Nodes[0].Label)
	require.Equal(t, "p", bq.Matches[0].Graph.Nodes[0].Name)

	require.NotNil(t, bq.Where)
	require.Equal(t, ">", bq.Where.Operator)
	require.Equal(t, bind.ExprProperty, bq.Where.Children[0].Kind)
	require.EqualValues(t, int64(18), bq.Where.Children[1].Literal)

	require.Len(t, bq.Projection, 2)
	require.Equal(t, "name", bq.Projection[0].Alias)
	require.NotNil(t, bq.Limit)
	require.EqualValues(t, 10, *bq.Limit)
}

func TestBindRejectsRelReferencingUnknownNode(t *testing.T) {
	doc, err := Parse([]byte(`
match:
  - nodes:
      - name: p
        label: person
    rels:
      - name: k
        src: p
        dst: q
        label: knows
return:
  - expr: {var: p}
    alias: p
`))
	require.NoError(t, err)

	_, err = doc.Bind()
	require.Error(t, err)
}

func TestBindResolvesVariableLengthRel(t *testing.T) {
	doc, err := Parse([]byte(`
match:
  - nodes:
      - name: p
        label: person
      - name: q
        label: person
    rels:
      - name: k
        src: p
        dst: q
        label: knows
        lower: 1
        upper: 3
        track_path: true
return:
  - expr: {var: q}
    alias: q
`))
	require.NoError(t, err)

	bq, err := doc.Bind()
	require.NoError(t, err)

	rel := bq.Matches[0].Graph.Rels[0]
	require.True(t, rel.Variable)
	require.Equal(t, 1, rel.Lower)
	require.Equal(t, 3, rel.Upper)
	require.True(t, rel.TrackPath)
}

func TestBindDefaultsLowerToOne(t *testing.T) {
	doc, err := Parse([]byte(`
match:
  - nodes:
      - name: p
        label: person
      - name: q
        label: person
    rels:
      - name: k
        src: p
        dst: q
        label: knows
        upper: 2
return:
  - expr: {var: q}
    alias: q
`))
	require.NoError(t, err)

	bq, err := doc.Bind()
	require.NoError(t, err)

	rel := bq.Matches[0].Graph.Rels[0]
	require.True(t, rel.Variable)
	require.Equal(t, 1, rel.Lower)
	require.Equal(t, 2, rel.Upper)
}

func TestBindRejectsLowerWithoutUpper(t *testing.T) {
	doc, err := Parse([]byte(`
match:
  - nodes:
      - name: p
        label: person
      - name: q
        label: person
    rels:
      - name: k
        src: p
        dst: q
        label: knows
        lower: 1
return:
  - expr: {var: q}
    alias: q
`))
	require.NoError(t, err)

	_, err = doc.Bind()
	require.Error(t, err)
}

func TestBindRejectsInvalidHopRange(t *testing.T) {
	doc, err := Parse([]byte(`
match:
  - nodes:
      - name: p
        label: person
      - name: q
        label: person
    rels:
      - name: k
        src: p
        dst: q
        label: knows
        lower: 3
        upper: 1
return:
  - expr: {var: q}
    alias: q
`))
	require.NoError(t, err)

	_, err = doc.Bind()
	require.Error(t, err)
}

func TestBindResolvesUnwindOverProperty(t *testing.T) {
	doc, err := Parse([]byte(`
match:
  - nodes:
      - name: p
        label: person
unwind:
  - expr: {property: {base: {var: p}, name: tags}}
    alias: tag
return:
  - expr: {var: tag}
    alias: tag
`))
	require.NoError(t, err)

	bq, err := doc.Bind()
	require.NoError(t, err)

	require.Len(t, bq.Unwinds, 1)
	require.Equal(t, "tag", bq.Unwinds[0].Alias)
	require.Equal(t, catalog.INT64, bq.Unwinds[0].ElemType.ID)
	require.Equal(t, bind.ExprProperty, bq.Unwinds[0].Expr.Kind)
}

func TestBindResolvesUnwindOverListLiteral(t *testing.T) {
	doc, err := Parse([]byte(`
match:
  - nodes:
      - name: p
        label: person
unwind:
  - expr: {literal: {type: LIST, child_type: INT64, value: [1, 2, 3]}}
    alias: x
    elem_type: INT64
return:
  - expr: {var: x}
    alias: x
`))
	require.NoError(t, err)

	bq, err := doc.Bind()
	require.NoError(t, err)

	require.Len(t, bq.Unwinds, 1)
	require.Equal(t, bind.ExprLiteral, bq.Unwinds[0].Expr.Kind)
	require.Equal(t, []uint64{1, 2, 3}, bq.Unwinds[0].Expr.Literal)
	require.Equal(t, catalog.LIST, bq.Unwinds[0].Expr.Type.ID)
}

func TestBindRejectsUnwindWithoutAlias(t *testing.T) {
	doc, err := Parse([]byte(`
match:
  - nodes:
      - name: p
        label: person
unwind:
  - expr: {property: {base: {var: p}, name: tags}}
return:
  - expr: {var: p}
    alias: p
`))
	require.NoError(t, err)

	_, err = doc.Bind()
	require.Error(t, err)
}

func TestParamLiteralBindsAsParamRef(t *testing.T) {
	doc, err := Parse([]byte(`
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
  - expr: {var: p}
    alias: p
`))
	require.NoError(t, err)

	bq, err := doc.Bind()
	require.NoError(t, err)

	name, ok := bq.Where.Children[1].Literal.(bind.ParamName)
	require.True(t, ok)
	require.Equal(t, bind.ParamName("minAge"), name)
}
