// Package byteio implements the Byte Reader component used by the jffs2
// parser's linear scan: random-access, endian-tagged primitive
// decoding over an io.ReaderAt, with an explicit cursor instead of any
// process-global byte-order state.
package byteio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Reader is a seekable, random-access byte source with a position cursor
// and endian-tagged integer decoders. It never buffers past what a single
// Read call requests; callers that want buffering wrap it themselves.
type Reader struct {
	src   io.ReaderAt
	order binary.ByteOrder
	pos   int64
}

// New wraps src for reads in the given byte order, cursor starting at 0.
func New(src io.ReaderAt, order binary.ByteOrder) *Reader {
	return &Reader{src: src, order: order}
}

// Order returns the byte order this reader was constructed with.
func (r *Reader) Order() binary.ByteOrder { return r.order }

// Tell returns the current cursor position.
func (r *Reader) Tell() int64 { return r.pos }

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(off int64) { r.pos = off }

// ReadAt performs an absolute read without touching the cursor.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	return r.src.ReadAt(p, off)
}

// ReadBytes reads n bytes at the cursor and advances it.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	nn, err := r.src.ReadAt(buf, r.pos)
	if err != nil && !(err == io.EOF && nn == n) {
		return nil, fmt.Errorf("byteio: short read at %d: %w", r.pos, err)
	}
	r.pos += int64(nn)
	return buf, nil
}

// ReadU16 reads a 16-bit unsigned integer and advances the cursor.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

// ReadU32 reads a 32-bit unsigned integer and advances the cursor.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// ReadU64 reads a 64-bit unsigned integer and advances the cursor.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

// ReadI16 reads a signed 16-bit integer and advances the cursor.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadI32 reads a signed 32-bit integer and advances the cursor.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}
