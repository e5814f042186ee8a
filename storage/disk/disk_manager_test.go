package disk

import (
	"testing"

	"github.com/rhesio/pagestore/common"
	"github.com/rhesio/pagestore/types"
	"github.com/stretchr/testify/require"
)

func TestDiskManagerImplReadWritePage(t *testing.T) {
	dm := NewDiskManagerTest()
	defer dm.ShutDown()

	data := make([]byte, common.PageSize)
	buffer := make([]byte, common.PageSize)

	copy(data, "A test string.")

	require.NoError(t, dm.ReadPage(0, buffer)) // tolerate empty read
	require.NoError(t, dm.WritePage(0, data))
	require.NoError(t, dm.ReadPage(0, buffer))
	require.Equal(t, data, buffer)

	clear(buffer)
	copy(data, "Another test string.")

	require.NoError(t, dm.WritePage(5, data))
	require.NoError(t, dm.ReadPage(5, buffer))
	require.Equal(t, data, buffer)
}

func TestVirtualDiskManagerReadWritePage(t *testing.T) {
	dm := NewVirtualDiskManager("virtual.db")
	defer dm.ShutDown()

	data := make([]byte, common.PageSize)
	buffer := make([]byte, common.PageSize)
	copy(data, "virtual disk contents")

	require.NoError(t, dm.WritePage(0, data))
	require.NoError(t, dm.ReadPage(0, buffer))
	require.Equal(t, data, buffer)
}

func TestVirtualDiskManagerAllocateReuseAfterDeallocate(t *testing.T) {
	dm := NewVirtualDiskManager("virtual.db").(*VirtualDiskManager)
	defer dm.ShutDown()

	first := dm.AllocatePage()
	data := make([]byte, common.PageSize)
	copy(data, "first page")
	require.NoError(t, dm.WritePage(first, data))

	dm.DeallocatePage(first)

	buffer := make([]byte, common.PageSize)
	require.ErrorIs(t, dm.ReadPage(first, buffer), types.ErrDeallocatedPage)

	second := dm.AllocatePage()
	require.NoError(t, dm.ReadPage(second, buffer))
	require.Equal(t, data, buffer) // reused the deallocated page's backing space
}

func clear(buffer []byte) {
	for i := range buffer {
		buffer[i] = 0
	}
}
