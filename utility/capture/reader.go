// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package capture

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4"
)

// Open opens the capture archive from r. It will also check
// if the file is actually a capture archive, will return an error
// when file incorrect.
func Open(r io.ReaderAt) (*Archive, error) {
	magicBytes := make([]byte, MagicLength)
	if num, err := r.ReadAt(magicBytes, 0); err != nil {
		return nil, err
	} else if num < MagicLength || !bytes.Equal(magicBytes, magic[:]) {
		return nil, ErrFileFormat
	}

	headerSizeBytes := make([]byte, HeaderSizeNumberLength)
	if num, err := r.ReadAt(headerSizeBytes, MagicLength); err != nil {
		return nil, err
	} else if num < HeaderSizeNumberLength {
		return nil, ErrFileFormat
	}

	headerSize, err := binaryToInt64(headerSizeBytes)
	if err != nil || headerSize <= 0 || headerSize > MaxHeaderSize {
		return nil, ErrFileFormat
	}

	headerBytes := make([]byte, headerSize)
	if num, err := r.ReadAt(headerBytes, MagicLength+HeaderSizeNumberLength); err != nil {
		return nil, err
	} else if int64(num) < headerSize {
		return nil, ErrFileFormat
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, ErrFileFormat
	}

	return &Archive{
		reader:    r,
		header:    header,
		dataStart: MagicLength + HeaderSizeNumberLength + headerSize,
	}, nil
}

// Archive provides concurrent io for a capture file. Every frame can
// be read independently.
type Archive struct {
	reader    io.ReaderAt
	header    Header
	dataStart int64
}

// Header returns the decoded archive header.
func (a *Archive) Header() Header {
	return a.header
}

// Frames lists the frame numbers present in the archive, in index
// order.
func (a *Archive) Frames() []int64 {
	frames := make([]int64, len(a.header.Index))
	for i, e := range a.header.Index {
		frames[i] = e.Frame
	}
	return frames
}

// ReadFrame returns the decompressed contents of a single frame.
func (a *Archive) ReadFrame(frame int64) ([]byte, error) {
	for _, e := range a.header.Index {
		if e.Frame != frame {
			continue
		}
		compressed := make([]byte, e.CompressedSize)
		if _, err := a.reader.ReadAt(compressed, a.dataStart+e.Offset); err != nil {
			return nil, err
		}
		data := make([]byte, e.Size)
		if _, err := io.ReadFull(lz4.NewReader(bytes.NewReader(compressed)), data); err != nil {
			return nil, err
		}
		return data, nil
	}
	return nil, ErrFrameMissing
}
