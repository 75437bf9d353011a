// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx holds the 2D canvas primitives: quad geometry, the
// orthographic projection uniform and the vertex descriptors a pipeline
// needs to draw a textured canvas.
package gfx

import (
	"unsafe"

	vk "github.com/devblok/vulkan"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Vertex is a 2D canvas vertex.
type Vertex struct {
	Pos glm.Vec2
	UV  glm.Vec2
}

// Uniform defines the canvas projection object.
type Uniform struct {
	Projection glm.Mat4
}

// NewUniform builds the orthographic projection for a canvas of the
// given pixel dimensions, origin at the top left.
func NewUniform(width, height float32) Uniform {
	return Uniform{
		Projection: glm.Ortho2D(0, width, height, 0),
	}
}

// QuadVertices returns the two-triangle quad covering a width by height
// canvas, with texture coordinates spanning the full texture.
func QuadVertices(width, height float32) []Vertex {
	return []Vertex{
		{Pos: glm.Vec2{0, 0}, UV: glm.Vec2{0, 0}},
		{Pos: glm.Vec2{width, 0}, UV: glm.Vec2{1, 0}},
		{Pos: glm.Vec2{width, height}, UV: glm.Vec2{1, 1}},
		{Pos: glm.Vec2{0, 0}, UV: glm.Vec2{0, 0}},
		{Pos: glm.Vec2{width, height}, UV: glm.Vec2{1, 1}},
		{Pos: glm.Vec2{0, height}, UV: glm.Vec2{0, 1}},
	}
}

// VertexBindingDescriptions return Vulkan Vertex descriptors
func VertexBindingDescriptions() []vk.VertexInputBindingDescription {
	return []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    uint32(unsafe.Sizeof(Vertex{})),
		InputRate: vk.VertexInputRateVertex,
	}}
}

// VertexAttributeDescriptions return Vulkan attribute descriptors
func VertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Binding:  0,
			Location: 0,
			Format:   vk.FormatR32g32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Pos)),
		},
		{
			Binding:  0,
			Location: 1,
			Format:   vk.FormatR32g32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.UV)),
		},
	}
}
