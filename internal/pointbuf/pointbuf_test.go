package pointbuf

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/mobile/exp/f32"
)

func vertex(i int) Vertex {
	f := float32(i)
	return Vertex{Position: [3]float32{f, f + 0.25, f + 0.5}, Color: [4]float32{0, 0.5, 1, 1}}
}

func TestBuffer_ClearThenAppend(t *testing.T) {
	b := New(4)
	b.Append(vertex(9))
	b.Append(vertex(8))
	b.Clear()

	if b.Len() != 0 {
		t.Fatalf("expected Len=0 after Clear, got %d", b.Len())
	}
	if b.Cap() != 4 {
		t.Errorf("expected Clear to keep Cap=4, got %d", b.Cap())
	}

	b.Append(vertex(1))
	b.Append(vertex(2))
	want := []Vertex{vertex(1), vertex(2)}
	if diff := cmp.Diff(want, b.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestBuffer_GrowthDoublesAndPreservesOrder(t *testing.T) {
	b := New(2)
	var want []Vertex
	caps := []int{}
	for i := 0; i < 9; i++ {
		b.Append(vertex(i))
		want = append(want, vertex(i))
		caps = append(caps, b.Cap())
	}

	if diff := cmp.Diff([]int{2, 2, 4, 4, 8, 8, 8, 8, 16}, caps); diff != "" {
		t.Errorf("capacity sequence mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, b.Snapshot()); diff != "" {
		t.Errorf("growth reordered vertices (-want +got):\n%s", diff)
	}
}

func TestBuffer_ZeroCapacityGrows(t *testing.T) {
	b := New(0)
	b.Append(vertex(1))
	if b.Cap() != 1 || b.Len() != 1 {
		t.Errorf("expected Cap=1 Len=1, got Cap=%d Len=%d", b.Cap(), b.Len())
	}
	b.Append(vertex(2))
	if b.Cap() != 2 {
		t.Errorf("expected Cap=2, got %d", b.Cap())
	}
}

func TestBuffer_SnapshotIsCapped(t *testing.T) {
	b := New(8)
	b.Append(vertex(1))
	snap := b.Snapshot()
	if cap(snap) != 1 {
		t.Fatalf("expected snapshot cap 1, got %d", cap(snap))
	}

	_ = append(snap, vertex(99))
	b.Append(vertex(2))
	if got := b.Snapshot()[1]; got != vertex(2) {
		t.Errorf("expected appending to a snapshot to leave the buffer intact, got %+v", got)
	}
}

func TestBuffer_Bytes(t *testing.T) {
	b := New(2)
	b.Append(Vertex{Position: [3]float32{1, 2, 3}, Color: [4]float32{0, 0, 1, 1}})
	b.Append(Vertex{Position: [3]float32{-1, 0.5, 2}, Color: [4]float32{1, 1, 1, 1}})

	want := f32.Bytes(binary.LittleEndian,
		1, 2, 3, 0, 0, 1, 1,
		-1, 0.5, 2, 1, 1, 1, 1,
	)
	got := b.Bytes(nil)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("byte layout mismatch (-want +got):\n%s", diff)
	}
	if len(got) != 2*VertexSize {
		t.Errorf("expected %d bytes, got %d", 2*VertexSize, len(got))
	}

	reuse := make([]byte, 0, 256)
	out := b.Bytes(reuse)
	if &out[0] != &reuse[:1][0] {
		t.Error("expected Bytes to reuse a large enough destination")
	}
}

func TestPool_GetReturnsClearedBuffer(t *testing.T) {
	p := NewPool(16)
	b := p.Get()
	if b.Cap() != 16 {
		t.Errorf("expected fresh buffer capacity 16, got %d", b.Cap())
	}
	b.Append(vertex(1))
	p.Put(b)
	p.Put(nil)

	again := p.Get()
	if again.Len() != 0 {
		t.Errorf("expected empty buffer from pool, got Len=%d", again.Len())
	}
}

func TestNewPool_DefaultCapacity(t *testing.T) {
	if got := NewPool(0).Get().Cap(); got != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, got)
	}
}
