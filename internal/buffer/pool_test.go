package buffer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestFile(t *testing.T, pageSize int) *PagedFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	pf, err := OpenPagedFile(1, path, pageSize, false)
	require.NoError(t, err)
	t.Cleanup(func() { pf.Close() })
	return pf
}

func TestPoolPinUnpinRoundTrip(t *testing.T) {
	pf := openTestFile(t, 4096)
	p := NewPool("default", 4096, 4)

	f, err := p.Pin(pf, 0)
	require.NoError(t, err)
	f.Data[0] = 42
	p.Unpin(f, true)

	f2, err := p.Pin(pf, 0)
	require.NoError(t, err)
	require.Equal(t, byte(42), f2.Data[0])
	p.Unpin(f2, false)
}

func TestPoolNeverEvictsPinnedFrame(t *testing.T) {
	pf := openTestFile(t, 4096)
	p := NewPool("default", 4096, 2)

	f0, err := p.Pin(pf, 0)
	require.NoError(t, err)
	f1, err := p.Pin(pf, 1)
	require.NoError(t, err)

	// Both frames pinned and pool is at capacity: a third distinct
	// page must fail with BufferExhausted rather than evict f0/f1.
	_, err = p.Pin(pf, 2)
	require.Error(t, err)

	p.Unpin(f0, false)
	p.Unpin(f1, false)

	// Now that both are unpinned, a new page can evict one of them.
	f2, err := p.Pin(pf, 2)
	require.NoError(t, err)
	p.Unpin(f2, false)
}

func TestPoolResizeFlushesDirtyFrames(t *testing.T) {
	pf := openTestFile(t, 4096)
	p := NewPool("default", 4096, 4)

	f, err := p.Pin(pf, 0)
	require.NoError(t, err)
	f.Data[10] = 7
	p.Unpin(f, true)

	require.NoError(t, p.Resize(1))

	// Reading back from the underlying file (not the cache) must see
	// the flushed write.
	buf := make([]byte, 4096)
	require.NoError(t, pf.ReadPage(0, buf))
	require.Equal(t, byte(7), buf[10])
}

func TestPoolResizeNeverDiscardsPinnedPage(t *testing.T) {
	pf := openTestFile(t, 4096)
	p := NewPool("default", 4096, 4)

	f, err := p.Pin(pf, 0)
	require.NoError(t, err)

	require.NoError(t, p.Resize(0))
	require.Equal(t, 1, p.Len())

	p.Unpin(f, false)
}
