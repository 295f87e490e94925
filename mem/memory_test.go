package mem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1whatleytay/titan/cpu"
	"github.com/1whatleytay/titan/mem"
)

func TestRegionMemoryGetSet(t *testing.T) {
	m := mem.NewRegionMemory()
	m.Mount(mem.Region{Start: 0x1000, Data: make([]byte, 16)})

	require.NoError(t, m.SetU32(0x1000, 0xdeadbeef))
	v, err := m.GetU32(0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v)

	_, err = m.Get(0x9000)
	assert.Error(t, err)
}

func TestPageMemoryLazyAllocationAndUnmapped(t *testing.T) {
	m := mem.NewPageMemory()

	_, err := m.Get(0x00400000)
	assert.Error(t, err, "reading an unwritten page should fault")

	require.NoError(t, m.Set(0x00400000, 0x42))
	v, err := m.Get(0x00400000)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), v)
}

func TestPageMemoryMountAcrossPageBoundary(t *testing.T) {
	m := mem.NewPageMemory()
	data := make([]byte, 0x20000) // two pages' worth, touching three 64KiB pages from 0xFFF0
	for i := range data {
		data[i] = byte(i)
	}

	m.Mount(mem.Region{Start: 0x0000FFF0, Data: data})

	first, err := m.Get(0x0000FFF0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), first)

	last, err := m.Get(0x0000FFF0 + uint32(len(data)) - 1)
	require.NoError(t, err)
	assert.Equal(t, data[len(data)-1], last)
}

func TestPageMemoryAlignmentChecks(t *testing.T) {
	m := mem.NewPageMemory()
	require.NoError(t, m.Set(0x1000, 0))

	_, err := m.GetU32(0x1001)
	assert.Error(t, err)

	_, err = m.GetU16(0x1001)
	assert.Error(t, err)
}

type stubResponder struct {
	lastWrite uint8
}

func (r *stubResponder) Read(address uint32) (uint8, error) { return 0x55, nil }
func (r *stubResponder) Write(address uint32, value uint8) error {
	r.lastWrite = value
	return nil
}

func TestPageMemoryListenResponder(t *testing.T) {
	m := mem.NewPageMemory()
	responder := &stubResponder{}
	m.MountListen(0x1234, responder)

	address := uint32(0x1234) << 16
	v, err := m.Get(address)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x55), v)

	require.NoError(t, m.Set(address, 9))
	assert.Equal(t, uint8(9), responder.lastWrite)
}

func TestWatchedMemoryJournalsAndApplies(t *testing.T) {
	backing := mem.NewPageMemory()
	require.NoError(t, backing.Set(0x100, 7))

	watched := mem.NewWatchedMemory(backing)
	require.NoError(t, watched.Set(0x100, 99))

	entries := watched.Take()
	require.Len(t, entries, 1)
	assert.Equal(t, mem.BackupByte, entries[0].Kind)
	assert.Equal(t, uint32(7), entries[0].Previous)

	require.NoError(t, entries[0].Apply(backing))
	v, err := backing.Get(0x100)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), v)
}

func TestWatchedMemoryTakeClearsLog(t *testing.T) {
	backing := mem.NewPageMemory()
	watched := mem.NewWatchedMemory(backing)

	require.NoError(t, watched.Set(0x200, 1))
	assert.Len(t, watched.Take(), 1)
	assert.Empty(t, watched.Take())
}

var _ cpu.Memory = (*mem.WatchedMemory)(nil)
