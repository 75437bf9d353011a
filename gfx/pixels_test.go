// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx_test

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/packr"

	"github.com/devblok/vkcanvas/gfx"
)

var (
	StaticResources packr.Box
	testImage       image.Image
)

func init() {
	StaticResources = packr.NewBox("./assets")
	img, err := png.Decode(bytes.NewReader(StaticResources.Bytes("canvas.png")))
	if err != nil {
		panic(err)
	}
	testImage = img
}

func TestGetPixelsSize(t *testing.T) {
	pix, err := gfx.GetPixels(testImage, 0)
	if err != nil {
		t.Fatal(err)
	}
	bounds := testImage.Bounds()
	if want := bounds.Dx() * bounds.Dy() * 4; len(pix) != want {
		t.Errorf("expected %d bytes, got %d", want, len(pix))
	}
}

func TestResampleDimensions(t *testing.T) {
	out := gfx.Resample(testImage, 8, 4)
	if b := out.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("expected 8x4, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestTextureBufferChannels(t *testing.T) {
	buf := gfx.NewTextureBuffer(4, 4)
	buf.SetRed(1, 2)
	buf.SetGreen(1, 2)
	if got := buf.At(1, 2); got != 0xff00ffff {
		t.Errorf("expected 0xff00ffff, got %#08x", got)
	}
	if got := buf.At(0, 0); got != 0 {
		t.Errorf("untouched pixel should stay zero, got %#08x", got)
	}
}

func TestTextureBufferBytesLength(t *testing.T) {
	buf := gfx.NewTextureBuffer(3, 2)
	if got := len(buf.Bytes()); got != 24 {
		t.Errorf("expected 24 bytes, got %d", got)
	}
}

func TestSliceUint32(t *testing.T) {
	words := gfx.SliceUint32([]byte{1, 0, 0, 0, 2, 0, 0, 0})
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
}

func TestQuadVerticesCoverCanvas(t *testing.T) {
	verts := gfx.QuadVertices(640, 480)
	if len(verts) != 6 {
		t.Fatalf("expected 6 vertices, got %d", len(verts))
	}
	if verts[2].Pos != (glm.Vec2{640, 480}) {
		t.Errorf("expected far corner at 640x480, got %v", verts[2].Pos)
	}
	if verts[2].UV != (glm.Vec2{1, 1}) {
		t.Errorf("expected far corner UV 1,1, got %v", verts[2].UV)
	}
}

func BenchmarkGetPixelsNoRowPitch(b *testing.B) {
	for idx := 0; idx < b.N; idx++ {
		gfx.GetPixels(testImage, 0)
	}
}

func BenchmarkGetPixelsBigRowPitch(b *testing.B) {
	for idx := 0; idx < b.N; idx++ {
		gfx.GetPixels(testImage, 1000)
	}
}
