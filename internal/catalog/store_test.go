package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogCreateAndReload(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(t, err)

	props := []PropertyDef{
		{Name: "ID", Type: Primitive(INT64), ColumnIndex: 0},
		{Name: "fName", Type: Primitive(STRING), ColumnIndex: 1},
	}
	person, err := c.CreateNodeLabel("person", props, 0)
	require.NoError(t, err)
	require.Equal(t, "person", person.Name)

	_, err = c.CreateNodeLabel("person", props, 0)
	require.Error(t, err)

	knows, err := c.CreateRelLabel("knows", nil, []uint32{person.ID}, []uint32{person.ID}, ManyToMany)
	require.NoError(t, err)
	require.True(t, knows.AllowsSrc(person.ID))

	require.NoError(t, c.Close())

	// Reopen and verify persistence.
	c2, err := Open(dir)
	require.NoError(t, err)
	defer c2.Close()

	got, ok := c2.NodeLabel("person")
	require.True(t, ok)
	require.Len(t, got.Properties, 2)

	rel, ok := c2.RelLabel("knows")
	require.True(t, ok)
	require.Equal(t, ManyToMany, rel.Cardinality)
}

func TestCatalogWALSequence(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)
	defer c.Close()

	seq, err := c.WALSequence()
	require.NoError(t, err)
	require.Zero(t, seq)

	require.NoError(t, c.SetWALSequence(42))
	seq, err = c.WALSequence()
	require.NoError(t, err)
	require.EqualValues(t, 42, seq)
}
