// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"image"
	"image/draw"
	"unsafe"

	xdraw "golang.org/x/image/draw"
)

// GetPixels transforms a given image into right arrangement of pixels
// by drawing the decoded image onto a controlled RGBA canvas
func GetPixels(img image.Image, rowPitch int) ([]uint8, error) {
	newImg := image.NewRGBA(img.Bounds())
	if rowPitch <= 4*img.Bounds().Dy() {
		// apply the proposed row pitch only if supported,
		// as we're using only optimal textures.
		newImg.Stride = rowPitch
	}
	draw.Draw(newImg, newImg.Bounds(), img, image.Point{}, draw.Src)
	return newImg.Pix, nil
}

// Resample scales an image to the given dimensions. Used when a source
// texture exceeds the device's maximum 2D image dimension.
func Resample(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// TextureBuffer is a width by height canvas of packed RGBA pixels,
// one uint32 per pixel, rows stored contiguously.
type TextureBuffer struct {
	pix           []uint32
	width, height int
}

// NewTextureBuffer allocates a zeroed buffer of the given dimensions.
func NewTextureBuffer(width, height int) *TextureBuffer {
	return &TextureBuffer{
		pix:    make([]uint32, width*height),
		width:  width,
		height: height,
	}
}

// SetRed sets the red channel of the pixel at column c, row r to full
// intensity.
func (t *TextureBuffer) SetRed(c, r int) {
	t.pix[r*t.width+c] |= 0xff000000 | 0x000000ff
}

// SetGreen sets the green channel of the pixel at column c, row r to
// full intensity.
func (t *TextureBuffer) SetGreen(c, r int) {
	t.pix[r*t.width+c] |= 0xff000000 | 0x0000ff00
}

// SetBlue sets the blue channel of the pixel at column c, row r to full
// intensity.
func (t *TextureBuffer) SetBlue(c, r int) {
	t.pix[r*t.width+c] |= 0xff000000 | 0x00ff0000
}

// At returns the packed pixel at column c, row r.
func (t *TextureBuffer) At(c, r int) uint32 {
	return t.pix[r*t.width+c]
}

// Pix exposes the backing pixel array for upload.
func (t *TextureBuffer) Pix() []uint32 {
	return t.pix
}

// Bytes reinterprets the pixel array as bytes without copying.
func (t *TextureBuffer) Bytes() []byte {
	if len(t.pix) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&t.pix[0])), len(t.pix)*4)
}

// SliceUint32 reslices bytes into a uint32, that is used
// to sumbit vulkan shaders for processing
func SliceUint32(data []byte) []uint32 {
	if len(data) < 4 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}
