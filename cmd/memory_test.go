package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1whatleytay/titan/unit"
)

func scratchDevice(t *testing.T) *unit.UnitDevice {
	t.Helper()
	dev, err := unit.MakeFromSource(`
.data
buffer: .space 64
.text
main:
	syscall
`)
	require.NoError(t, err)
	return dev
}

func TestReadWriteCStringRoundTrip(t *testing.T) {
	dev := scratchDevice(t)
	address := dev.Binary.Labels["buffer"]

	writeBoundedCString(dev, address, 64, "hello\n")
	assert.Equal(t, "hello\n", readCString(dev, address))
}

func TestWriteBoundedCStringTruncates(t *testing.T) {
	dev := scratchDevice(t)
	address := dev.Binary.Labels["buffer"]

	writeBoundedCString(dev, address, 4, "abcdef")
	assert.Equal(t, "abc", readCString(dev, address), "should be truncated to limit-1 bytes plus NUL")
}

func TestWriteBoundedCStringZeroLimitIsNoOp(t *testing.T) {
	dev := scratchDevice(t)
	address := dev.Binary.Labels["buffer"]

	writeBoundedCString(dev, address, 0, "ignored")
	assert.Equal(t, "", readCString(dev, address))
}
