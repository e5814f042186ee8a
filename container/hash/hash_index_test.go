package hash

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhesio/pagestore/storage/buffer"
	"github.com/rhesio/pagestore/storage/disk"
)

// identityHash is hash(k) = k, used so the end-to-end scenarios in the
// spec this module implements can reason about exact slot placement.
func identityHash(k int32) uint32 {
	return uint32(k)
}

func newTestIndex(t *testing.T, poolSize uint32, numBuckets int) *HashIndex[int32, int32] {
	dm := disk.NewDiskManagerTest()
	t.Cleanup(dm.ShutDown)
	bpm := buffer.NewBufferPoolManager(poolSize, dm)
	return NewHashIndex[int32, int32](bpm, numBuckets, Int32Codec{}, Int32Codec{}, IntComparator[int32], identityHash)
}

// TestHashInsertLookup is end-to-end scenario 4.
func TestHashInsertLookup(t *testing.T) {
	idx := newTestIndex(t, 16, 2)

	require.True(t, idx.Insert(1, 10))
	require.True(t, idx.Insert(2, 20))
	require.True(t, idx.Insert(3, 30))
	require.True(t, idx.Insert(9, 90))

	values, ok := idx.GetValue(9)
	require.True(t, ok)
	require.Equal(t, []int32{90}, values)
}

// TestDuplicateRejection is end-to-end scenario 5.
func TestDuplicateRejection(t *testing.T) {
	idx := newTestIndex(t, 16, 2)

	require.True(t, idx.Insert(5, 50))
	require.False(t, idx.Insert(5, 50))
	require.True(t, idx.Insert(5, 51))

	values, ok := idx.GetValue(5)
	require.True(t, ok)
	require.ElementsMatch(t, []int32{50, 51}, values)
}

// TestAutoResize is end-to-end scenario 6. A 1000-byte fixed-width codec
// drives BLOCK_ARRAY_SIZE down to 2 (two 2000-byte slots plus their
// bitmaps just fit a 4096-byte page; a third slot would not), matching
// the num_buckets=1, BLOCK_ARRAY_SIZE=2 parameters the scenario names.
func TestAutoResize(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	t.Cleanup(dm.ShutDown)
	bpm := buffer.NewBufferPoolManager(16, dm)

	codec := FixedStringCodec{Width: 1000}
	idx := NewHashIndex[string, string](bpm, 1, codec, codec, StringComparator, MurmurHash[string](codec))
	require.Equal(t, 2, idx.GetSize())
	initialSize := idx.GetSize()

	require.True(t, idx.Insert("k1", "v1"))
	require.True(t, idx.Insert("k2", "v2"))
	require.True(t, idx.Insert("k3", "v3")) // forces a resize: table had only 2 slots

	require.GreaterOrEqual(t, idx.GetSize(), 2*initialSize)

	for k, v := range map[string]string{"k1": "v1", "k2": "v2", "k3": "v3"} {
		values, ok := idx.GetValue(k)
		require.True(t, ok)
		require.Contains(t, values, v)
	}
}

func TestInsertGetLaw(t *testing.T) {
	idx := newTestIndex(t, 16, 4)
	require.True(t, idx.Insert(7, 70))

	values, ok := idx.GetValue(7)
	require.True(t, ok)
	require.Contains(t, values, int32(70))
}

func TestInsertRemoveGetLaw(t *testing.T) {
	idx := newTestIndex(t, 16, 4)
	require.True(t, idx.Insert(7, 70))
	require.True(t, idx.Remove(7, 70))

	values, ok := idx.GetValue(7)
	require.False(t, ok)
	require.NotContains(t, values, int32(70))

	require.False(t, idx.Remove(7, 70)) // tombstone hit, already removed
}

func TestRemoveMissReturnsFalse(t *testing.T) {
	idx := newTestIndex(t, 16, 4)
	require.False(t, idx.Remove(42, 0))
}

func TestDistinctValuesUnderSameKeyAreNotDuplicates(t *testing.T) {
	idx := newTestIndex(t, 16, 4)
	require.True(t, idx.Insert(1, 10))
	require.True(t, idx.Insert(1, 11)) // distinct value, same key: not a duplicate

	values, ok := idx.GetValue(1)
	require.True(t, ok)
	require.ElementsMatch(t, []int32{10, 11}, values)
}

func TestResizePreservesMultiset(t *testing.T) {
	idx := newTestIndex(t, 16, 1)

	pairs := [][2]int32{{1, 10}, {2, 20}, {3, 30}, {4, 40}, {5, 50}}
	for _, p := range pairs {
		require.True(t, idx.Insert(p[0], p[1]))
	}

	sizeBefore := idx.GetSize()
	idx.Resize(sizeBefore)
	require.GreaterOrEqual(t, idx.GetSize(), 2*sizeBefore)

	for _, p := range pairs {
		values, ok := idx.GetValue(p[0])
		require.True(t, ok)
		require.Contains(t, values, p[1])
	}
}
