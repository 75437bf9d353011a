// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package capture

import (
	"bytes"
	"io"
	"sync"

	"github.com/pierrec/lz4"
)

// NewBuilder creates a new Builder. Do not fill the Index in
// the header, it will be overwritten anyway.
func NewBuilder(header Header) *Builder {
	header.Index = nil
	return &Builder{header: header}
}

type pendingFrame struct {
	frame      int64
	size       int64
	compressed []byte
}

// Builder assembles a capture archive. Archives cannot be appended to
// once written, the Builder is the only way to create one. Frames are
// compressed as they are added and held until WriteTo bundles them
// together with the index.
type Builder struct {
	header Header

	mutex  sync.Mutex
	frames []pendingFrame
}

// Add compresses and appends a frame to the builder. Will block until
// lz4 finishes compression. Is safe to use concurrently in different
// goroutines.
func (b *Builder) Add(frame int64, data []byte) error {
	var compressed bytes.Buffer
	writer := lz4.NewWriter(&compressed)
	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.frames = append(b.frames, pendingFrame{
		frame:      frame,
		size:       int64(len(data)),
		compressed: compressed.Bytes(),
	})
	return nil
}

// WriteTo bundles the added frames and writes the complete archive.
// The builder is drained afterwards.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	header := b.header
	var offset int64
	for _, f := range b.frames {
		header.Index = append(header.Index, IndexEntry{
			Frame:          f.frame,
			Offset:         offset,
			Size:           f.size,
			CompressedSize: int64(len(f.compressed)),
		})
		offset += int64(len(f.compressed))
	}

	rawHeader, err := gobEncode(header)
	if err != nil {
		return 0, err
	}

	var written int64
	n, err := w.Write(magic[:])
	written += int64(n)
	if err != nil {
		return written, err
	}
	n, err = w.Write(int64ToBinary(int64(len(rawHeader))))
	written += int64(n)
	if err != nil {
		return written, err
	}
	n, err = w.Write(rawHeader)
	written += int64(n)
	if err != nil {
		return written, err
	}
	for _, f := range b.frames {
		n, err = w.Write(f.compressed)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	b.frames = b.frames[:0]
	return written, nil
}
