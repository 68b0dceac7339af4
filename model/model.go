package model

import (
	"unsafe"

	glm "github.com/go-gl/mathgl/mgl32"
)

// Vertex is a model vertex, position only
type Vertex struct {
	Pos glm.Vec3
}

// VertexSize is the byte size of one Vertex as laid out in a vertex buffer
const VertexSize = uint32(unsafe.Sizeof(Vertex{}))

// IndexSize is the byte size of one index, indices are always 32-bit
const IndexSize = uint32(unsafe.Sizeof(uint32(0)))

// Mesh is an indexed triangle list
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// IndexCount returns the number of indices to draw the whole mesh
func (m Mesh) IndexCount() uint32 {
	return uint32(len(m.Indices))
}

// VertexBytes reinterprets vertices as the raw bytes uploaded to the GPU.
// The returned slice aliases vertices.
func VertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*int(VertexSize))
}

// IndexBytes reinterprets indices as raw bytes. The returned slice aliases indices.
func IndexBytes(indices []uint32) []byte {
	if len(indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*int(IndexSize))
}
