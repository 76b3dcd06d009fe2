// Package pointbuf holds the growable vertex buffer the extractor fills and
// the renderer uploads, and the pool that hands buffers between them.
package pointbuf

import (
	"encoding/binary"
	"math"
	"sync"
)

// VertexSize is the byte size of one Vertex in GPU layout: three position
// floats followed by four color floats, no padding.
const VertexSize = 7 * 4

// ColorOffset is the byte offset of Vertex.Color in GPU layout.
const ColorOffset = 3 * 4

// DefaultCapacity is the initial capacity used when none is configured.
const DefaultCapacity = 4096

// Vertex is one colored point.
type Vertex struct {
	Position [3]float32
	Color    [4]float32
}

// Buffer is an append-only vertex list that is cleared and refilled per
// frame. Capacity doubles when exceeded and is never released.
type Buffer struct {
	data []Vertex
}

// New returns an empty buffer with the given initial capacity.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]Vertex, 0, capacity)}
}

// Append adds v at the end, doubling capacity when full.
func (b *Buffer) Append(v Vertex) {
	if len(b.data) == cap(b.data) {
		newCap := 2 * cap(b.data)
		if newCap == 0 {
			newCap = 1
		}
		grown := make([]Vertex, len(b.data), newCap)
		copy(grown, b.data)
		b.data = grown
	}
	b.data = append(b.data, v)
}

// Clear resets the length to zero and keeps the storage.
func (b *Buffer) Clear() {
	b.data = b.data[:0]
}

// Len returns the number of live vertices.
func (b *Buffer) Len() int { return len(b.data) }

// Cap returns the allocated capacity.
func (b *Buffer) Cap() int { return cap(b.data) }

// Snapshot returns the live vertices. The slice aliases the buffer and is
// only valid until the next Clear or Append; appending to it reallocates.
func (b *Buffer) Snapshot() []Vertex {
	return b.data[:len(b.data):len(b.data)]
}

// Bytes encodes the live vertices little-endian in GPU layout into dst,
// growing it if needed, and returns the encoded slice.
func (b *Buffer) Bytes(dst []byte) []byte {
	n := len(b.data) * VertexSize
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	off := 0
	for i := range b.data {
		v := &b.data[i]
		for _, f := range v.Position {
			binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(f))
			off += 4
		}
		for _, f := range v.Color {
			binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(f))
			off += 4
		}
	}
	return dst
}

// Pool recycles buffers between the sensor and display contexts. A buffer
// taken from Get belongs to the caller until it is handed to Put.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a pool whose fresh buffers start at capacity.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	p := &Pool{}
	p.pool.New = func() any { return New(capacity) }
	return p
}

// Get returns an empty buffer.
func (p *Pool) Get() *Buffer {
	b := p.pool.Get().(*Buffer)
	b.Clear()
	return b
}

// Put returns b to the pool. b must not be used afterwards. Nil is ignored.
func (p *Pool) Put(b *Buffer) {
	if b == nil {
		return
	}
	b.Clear()
	p.pool.Put(b)
}
