package bake

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/g3d/world"
)

// VertexSize is the size in bytes of one encoded Vertex: a float32x3
// position followed by a float32x3 color.
const VertexSize = 24

// IndexSize is the size in bytes of one encoded index.
const IndexSize = 4

// Vertex is one element of the shared vertex stream. Object alpha is not
// carried; the shader treats every vertex as opaque.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
}

// Draw is the slice of the shared buffers that belongs to one object.
//
// Indices in [FirstIndex, FirstIndex+IndexCount) are absolute: they already
// include BaseVertex, so every draw can be issued with a base vertex of 0.
type Draw struct {
	Object      world.ID
	FirstIndex  uint32
	IndexCount  uint32
	BaseVertex  uint32
	VertexCount uint32
	Color       [4]float32

	// Model is identity under PolicyWorldSpace and the object's world
	// matrix under PolicyLocalSpace.
	Model mgl32.Mat4
}

// Batch is one indexed draw call covering consecutive draws that share a
// model matrix.
type Batch struct {
	FirstIndex uint32
	IndexCount uint32
	Model      mgl32.Mat4
	Draws      int
}

// Output is the result of one bake. It is owned by the Baker and reused by
// the next call to Bake.
type Output struct {
	Policy   Policy
	Vertices []Vertex
	Indices  []uint32
	Draws    []Draw
}

// Empty reports whether there is nothing to draw.
func (o *Output) Empty() bool {
	return len(o.Indices) == 0
}

// TriangleCount returns len(Indices) / 3.
func (o *Output) TriangleCount() int {
	return len(o.Indices) / 3
}

// Batches merges consecutive draws with equal model matrices into the
// minimal list of indexed draw calls. Under PolicyWorldSpace a non-empty
// output always yields exactly one batch.
func (o *Output) Batches() []Batch {
	return o.AppendBatches(nil)
}

// AppendBatches is like Batches but appends to dst.
func (o *Output) AppendBatches(dst []Batch) []Batch {
	for i := range o.Draws {
		d := &o.Draws[i]
		if n := len(dst); n > 0 {
			last := &dst[n-1]
			if last.Model == d.Model && last.FirstIndex+last.IndexCount == d.FirstIndex {
				last.IndexCount += d.IndexCount
				last.Draws++
				continue
			}
		}
		dst = append(dst, Batch{
			FirstIndex: d.FirstIndex,
			IndexCount: d.IndexCount,
			Model:      d.Model,
			Draws:      1,
		})
	}
	return dst
}

// VertexBytes returns the vertex stream encoded little-endian, VertexSize
// bytes per vertex.
func (o *Output) VertexBytes() []byte {
	return o.AppendVertexBytes(make([]byte, 0, len(o.Vertices)*VertexSize))
}

// AppendVertexBytes appends the encoded vertex stream to dst.
func (o *Output) AppendVertexBytes(dst []byte) []byte {
	var buf [VertexSize]byte
	for i := range o.Vertices {
		v := &o.Vertices[i]
		binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(v.Position[0]))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(v.Position[1]))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(v.Position[2]))
		binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(v.Color[0]))
		binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(v.Color[1]))
		binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(v.Color[2]))
		dst = append(dst, buf[:]...)
	}
	return dst
}

// IndexBytes returns the index stream encoded as little-endian uint32.
func (o *Output) IndexBytes() []byte {
	return o.AppendIndexBytes(make([]byte, 0, len(o.Indices)*IndexSize))
}

// AppendIndexBytes appends the encoded index stream to dst.
func (o *Output) AppendIndexBytes(dst []byte) []byte {
	for _, idx := range o.Indices {
		dst = binary.LittleEndian.AppendUint32(dst, idx)
	}
	return dst
}

func (o *Output) reset(p Policy) {
	o.Policy = p
	o.Vertices = o.Vertices[:0]
	o.Indices = o.Indices[:0]
	o.Draws = o.Draws[:0]
}
