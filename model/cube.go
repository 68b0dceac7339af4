package model

import glm "github.com/go-gl/mathgl/mgl32"

var cubeVertices = [...]Vertex{
	{Pos: glm.Vec3{-0.5, -0.5, -0.5}},
	{Pos: glm.Vec3{-0.5, 0.5, -0.5}},
	{Pos: glm.Vec3{0.5, 0.5, -0.5}},
	{Pos: glm.Vec3{0.5, -0.5, -0.5}},
	{Pos: glm.Vec3{-0.5, -0.5, 0.5}},
	{Pos: glm.Vec3{-0.5, 0.5, 0.5}},
	{Pos: glm.Vec3{0.5, 0.5, 0.5}},
	{Pos: glm.Vec3{0.5, -0.5, 0.5}},
}

// Two clockwise triangles per face, seen from outside the cube.
var cubeIndices = [...]uint32{
	// front
	0, 1, 2,
	0, 2, 3,
	// back
	4, 6, 5,
	4, 7, 6,
	// left
	4, 5, 1,
	4, 1, 0,
	// right
	3, 2, 6,
	3, 6, 7,
	// top
	1, 5, 6,
	1, 6, 2,
	// bottom
	4, 0, 3,
	4, 3, 7,
}

// Cube returns the unit cube centered at the origin. Every call returns
// fresh slices so the static data itself can never be mutated.
func Cube() Mesh {
	vertices := cubeVertices
	indices := cubeIndices
	return Mesh{
		Vertices: vertices[:],
		Indices:  indices[:],
	}
}
