package rend3

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// wrappedPotBuffer is a GPU buffer whose allocation grows in power-of-two
// steps. Growth recreates the buffer, so holders must re-fetch it from
// Buffer() after every write; shrinking never happens.
type wrappedPotBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
	usage  wgpu.BufferUsage
	label  string
}

const potBufferMinSize = 16

func newWrappedPotBuffer(device *wgpu.Device, usage wgpu.BufferUsage, label string) *wrappedPotBuffer {
	b := &wrappedPotBuffer{
		usage: usage | wgpu.BufferUsageCopyDst,
		label: label,
	}
	b.allocate(device, potBufferMinSize)
	return b
}

func (b *wrappedPotBuffer) allocate(device *wgpu.Device, size uint64) {
	if b.buffer != nil {
		b.buffer.Release()
	}
	buffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            b.label,
		Size:             size,
		Usage:            b.usage,
		MappedAtCreation: false,
	})
	if err != nil {
		panic(err)
	}
	b.buffer = buffer
	b.size = size
}

// write uploads data, growing the buffer to the next power of two first if
// it does not fit.
func (b *wrappedPotBuffer) write(device *wgpu.Device, queue *wgpu.Queue, data []byte) {
	needed := uint64(len(data))
	if needed > b.size {
		size := b.size
		for size < needed {
			size *= 2
		}
		b.allocate(device, size)
	}
	if len(data) == 0 {
		return
	}
	if err := queue.WriteBuffer(b.buffer, 0, data); err != nil {
		panic(err)
	}
}

func (b *wrappedPotBuffer) Buffer() *wgpu.Buffer {
	return b.buffer
}

func (b *wrappedPotBuffer) release() {
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
}
