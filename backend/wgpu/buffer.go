package wgpu

import (
	"fmt"
	"math/bits"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// minBufferSize is the smallest buffer allocated.
const minBufferSize = 256

// buffer is a GPU buffer that grows to the next power of two.
type buffer struct {
	label string
	usage gputypes.BufferUsage
	buf   hal.Buffer
	size  uint64
}

func newBuffer(label string, usage gputypes.BufferUsage) *buffer {
	return &buffer{label: label, usage: usage | gputypes.BufferUsageCopyDst}
}

// write uploads data at offset 0, reallocating when it does not fit.
// Writes are padded to a multiple of 4 bytes. A replaced buffer is handed
// to retire instead of being destroyed.
func (b *buffer) write(device hal.Device, queue hal.Queue, data []byte, retire func(func())) error {
	if len(data)%4 != 0 {
		padded := make([]byte, len(data)+4-len(data)%4)
		copy(padded, data)
		data = padded
	}
	need := uint64(len(data))
	if b.buf == nil || need > b.size {
		size := max(uint64(minBufferSize), ceilPow2(need))
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: b.label,
			Size:  size,
			Usage: b.usage,
		})
		if err != nil {
			return fmt.Errorf("create %s buffer (%d bytes): %w", b.label, size, err)
		}
		if old := b.buf; old != nil {
			retire(func() { device.DestroyBuffer(old) })
		}
		b.buf = buf
		b.size = size
	}
	if len(data) == 0 {
		return nil
	}
	if err := queue.WriteBuffer(b.buf, 0, data); err != nil {
		return fmt.Errorf("write %s buffer: %w", b.label, err)
	}
	return nil
}

func (b *buffer) destroy(device hal.Device) {
	if b.buf != nil {
		device.DestroyBuffer(b.buf)
		b.buf = nil
		b.size = 0
	}
}

func ceilPow2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(n-1)
}
