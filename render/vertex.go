package render

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/papercut/tess"
)

// Vertex is the layout shared by flat shapes and sprites.
type Vertex struct {
	Position  [3]float32
	TexCoords [2]float32
	Color     [3]float32
}

// Vertex strides in bytes.
const (
	VertexStride         = 32
	GeometryVertexStride = 28
)

// vertexLayout describes Vertex: position @0, tex_coords @12, color @20.
var vertexLayout = []gputypes.VertexBufferLayout{
	{
		ArrayStride: VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32x3, Offset: 20, ShaderLocation: 2},
		},
	},
}

// geometryLayout describes tess.Vertex: position @0, color @12.
var geometryLayout = []gputypes.VertexBufferLayout{
	{
		ArrayStride: GeometryVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
		},
	},
}

var purple = [3]float32{0.5, 0, 0.5}

// PentagonVertices is the built-in flat shape.
var PentagonVertices = []Vertex{
	{Position: [3]float32{-8.68241, 49.240386, 0}, Color: purple},
	{Position: [3]float32{-49.513406, 6.958647, 0}, Color: purple},
	{Position: [3]float32{-21.918549, -44.939706, 0}, Color: purple},
	{Position: [3]float32{35.966998, -34.73291, 0}, Color: purple},
	{Position: [3]float32{44.147372, 23.47359, 0}, Color: purple},
}

// PentagonIndices fans the pentagon around vertex 4. The trailing zero pads
// the buffer to a 4-byte multiple and is part of the drawn index count.
var PentagonIndices = []uint16{0, 1, 4, 1, 2, 4, 2, 3, 4, 0}

var white = [3]float32{1, 1, 1}

// SpriteVertices is the built-in textured quad.
var SpriteVertices = []Vertex{
	{Position: [3]float32{-25, 25, 0}, TexCoords: [2]float32{0, 0}, Color: white},
	{Position: [3]float32{-25, -75, 0}, TexCoords: [2]float32{0, 1}, Color: white},
	{Position: [3]float32{75, 25, 0}, TexCoords: [2]float32{1, 0}, Color: white},
	{Position: [3]float32{75, -75, 0}, TexCoords: [2]float32{1, 1}, Color: white},
}

// SpriteIndices triangulates SpriteVertices.
var SpriteIndices = []uint16{0, 1, 2, 2, 1, 3}

func putFloats(buf []byte, vs ...float32) []byte {
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

// encodeVertices packs vertices with VertexStride.
func encodeVertices(vertices []Vertex) []byte {
	buf := make([]byte, 0, len(vertices)*VertexStride)
	for _, v := range vertices {
		buf = putFloats(buf, v.Position[:]...)
		buf = putFloats(buf, v.TexCoords[:]...)
		buf = putFloats(buf, v.Color[:]...)
	}
	return buf
}

// encodeGeometry packs tessellated vertices with GeometryVertexStride.
func encodeGeometry(vertices []tess.Vertex) []byte {
	buf := make([]byte, 0, len(vertices)*GeometryVertexStride)
	for _, v := range vertices {
		buf = putFloats(buf, v.Position[:]...)
		buf = putFloats(buf, v.Color[:]...)
	}
	return buf
}

// encodeIndices packs 16-bit indices, zero-padding to a 4-byte multiple as
// buffer writes require.
func encodeIndices(indices []uint16) []byte {
	n := len(indices) * 2
	buf := make([]byte, 0, (n+3)&^3)
	for _, i := range indices {
		buf = binary.LittleEndian.AppendUint16(buf, i)
	}
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}
