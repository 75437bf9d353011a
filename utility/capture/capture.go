// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package capture is an api for an lz4 backed frame capture format.
// A capture holds the frames a canvas rendered, every frame compressed
// individually so any one of them can be read back and decompressed
// without touching the rest. The archive itself is never compressed,
// the index in the header knows where every frame sits, which makes
// random access cheap. Space efficiency is not the goal here, getting
// a frame from disk to a usable state quickly is.
package capture

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
)

// package errors
var (
	ErrFileFormat   = errors.New("corrupted or not a capture archive")
	ErrFrameMissing = errors.New("frame not present in archive")
)

// Sizes relevant to the header of file
const (
	MagicLength            = 4
	HeaderSizeNumberLength = 8

	// MaxHeaderSize bounds the decoded header length. The size field
	// comes straight from the file, so it is never trusted for an
	// allocation beyond this.
	MaxHeaderSize = 16 << 20
)

var magic = [MagicLength]byte{'V', 'K', 'C', '\x00'}

// IndexEntry is info for one frame in the frame index.
// Offset is relative to the start of the data section.
type IndexEntry struct {
	Frame          int64
	Offset         int64
	Size           int64
	CompressedSize int64
}

// Header is the file header for capture files.
type Header struct {
	Author      string
	DateCreated int64
	Version     int64
	Width       int32
	Height      int32
	Format      string
	Index       []IndexEntry
}

func int64ToBinary(num int64) []byte {
	buf := make([]byte, HeaderSizeNumberLength)
	binary.LittleEndian.PutUint64(buf, uint64(num))
	return buf
}

func binaryToInt64(bts []byte) (int64, error) {
	if len(bts) < HeaderSizeNumberLength {
		return 0, ErrFileFormat
	}
	return int64(binary.LittleEndian.Uint64(bts)), nil
}

func gobEncode(data interface{}) ([]byte, error) {
	var encoded bytes.Buffer
	enc := gob.NewEncoder(&encoded)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return encoded.Bytes(), nil
}

func gobDecode(obj interface{}, bts []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(bts))
	return dec.Decode(obj)
}
