package overflow

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/buffer"
)

func newTestFile(t *testing.T) *File {
	t.Helper()
	mgr := buffer.NewManager(testSystemConfig())
	pf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "overflow.bin"), buffer.DefaultPageClass, false)
	require.NoError(t, err)
	t.Cleanup(func() { pf.Close() })
	return New(mgr, pf)
}

func TestInlineRoundTrip(t *testing.T) {
	f := newTestFile(t)
	d, err := f.Encode([]byte("hello"))
	require.NoError(t, err)
	require.True(t, d.IsInline())

	got, err := f.Resolve(d)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestOverflowRoundTrip(t *testing.T) {
	f := newTestFile(t)
	payload := strings.Repeat("x", 100)
	d, err := f.Encode([]byte(payload))
	require.NoError(t, err)
	require.False(t, d.IsInline())

	got, err := f.Resolve(d)
	require.NoError(t, err)
	require.Equal(t, payload, string(got))
}

func TestValueExceedingPageCapacityErrors(t *testing.T) {
	f := newTestFile(t)
	_, err := f.Write(make([]byte, 5000))
	require.Error(t, err)
}

func TestPrefixFastReject(t *testing.T) {
	a := NewInlineDescriptor([]byte("aaaa"))
	b := NewInlineDescriptor([]byte("bbbb"))
	require.False(t, PrefixMatches(a, b))

	c := NewInlineDescriptor([]byte("aaaa"))
	require.True(t, PrefixMatches(a, c))
}
