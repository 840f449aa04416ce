// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ByteStream is a seekable, endian-aware cursor over an in-memory byte
// buffer. All JPC/BCSV/BTI fields are big-endian fixed-point integers and
// IEEE-754 floats; ByteStream hard-codes that order rather than taking it
// as a parameter, since every format this codec speaks agrees on it.
type ByteStream struct {
	buf []byte
	pos uint32
}

// NewByteStream wraps buf for reading starting at offset 0.
func NewByteStream(buf []byte) *ByteStream {
	return &ByteStream{buf: buf}
}

// NewByteStreamWriter returns a ByteStream with an empty, growable backing
// buffer suitable for encoding.
func NewByteStreamWriter() *ByteStream {
	return &ByteStream{buf: make([]byte, 0, 256)}
}

// Len returns the total buffer length.
func (b *ByteStream) Len() uint32 { return uint32(len(b.buf)) }

// Pos returns the current cursor position.
func (b *ByteStream) Pos() uint32 { return b.pos }

// Bytes returns the full backing buffer (for writers, the encoded output).
func (b *ByteStream) Bytes() []byte { return b.buf }

// Seek moves the cursor to an absolute offset. It does not bounds-check
// against the buffer length: a read after seeking past the end fails with
// Truncated, and a write there grows the buffer.
func (b *ByteStream) Seek(offset uint32) { b.pos = offset }

func (b *ByteStream) remaining() uint32 {
	if b.pos >= uint32(len(b.buf)) {
		return 0
	}
	return uint32(len(b.buf)) - b.pos
}

func (b *ByteStream) need(n uint32, what string) error {
	if b.remaining() < n {
		return Truncated(fmt.Sprintf("%s at offset %d (need %d, have %d)", what, b.pos, n, b.remaining()))
	}
	return nil
}

// ReadU8 reads one byte.
func (b *ByteStream) ReadU8() (uint8, error) {
	if err := b.need(1, "u8"); err != nil {
		return 0, err
	}
	v := b.buf[b.pos]
	b.pos++
	return v, nil
}

// ReadI8 reads one signed byte.
func (b *ByteStream) ReadI8() (int8, error) {
	v, err := b.ReadU8()
	return int8(v), err
}

// ReadU16 reads a big-endian uint16.
func (b *ByteStream) ReadU16() (uint16, error) {
	if err := b.need(2, "u16"); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(b.buf[b.pos:])
	b.pos += 2
	return v, nil
}

// ReadI16 reads a big-endian int16.
func (b *ByteStream) ReadI16() (int16, error) {
	v, err := b.ReadU16()
	return int16(v), err
}

// ReadU32 reads a big-endian uint32.
func (b *ByteStream) ReadU32() (uint32, error) {
	if err := b.need(4, "u32"); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(b.buf[b.pos:])
	b.pos += 4
	return v, nil
}

// ReadI32 reads a big-endian int32.
func (b *ByteStream) ReadI32() (int32, error) {
	v, err := b.ReadU32()
	return int32(v), err
}

// ReadF32 reads a big-endian IEEE-754 float32.
func (b *ByteStream) ReadF32() (float32, error) {
	v, err := b.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadBytes reads n raw bytes.
func (b *ByteStream) ReadBytes(n uint32) ([]byte, error) {
	if err := b.need(n, "bytes"); err != nil {
		return nil, err
	}
	v := make([]byte, n)
	copy(v, b.buf[b.pos:b.pos+n])
	b.pos += n
	return v, nil
}

// ReadFixedASCII reads an n-byte NUL-padded fixed ASCII field, trimming
// trailing NULs.
func (b *ByteStream) ReadFixedASCII(n uint32) (string, error) {
	raw, err := b.ReadBytes(n)
	if err != nil {
		return "", err
	}
	end := len(raw)
	for end > 0 && raw[end-1] == 0 {
		end--
	}
	return string(raw[:end]), nil
}

// ReadCStringAt follows a pointer into the buffer (typically a string pool)
// and reads until a NUL terminator or end-of-buffer, without disturbing the
// stream's own cursor.
func (b *ByteStream) ReadCStringAt(offset uint32) (string, error) {
	if offset > uint32(len(b.buf)) {
		return "", Truncated(fmt.Sprintf("cstring at offset %d beyond buffer of %d", offset, len(b.buf)))
	}
	end := offset
	for end < uint32(len(b.buf)) && b.buf[end] != 0 {
		end++
	}
	return string(b.buf[offset:end]), nil
}

// AlignTo advances the read cursor past padding until Pos() is a multiple
// of n. Pad bytes are not checked; it errors only when the buffer ends
// before that point.
func (b *ByteStream) AlignTo(n uint32) error {
	for b.pos%n != 0 {
		v, err := b.ReadU8()
		if err != nil {
			return err
		}
		_ = v // padding is tolerated even when non-zero on read; layout fidelity is the writer's job
	}
	return nil
}

// --- Writer side ---

func (b *ByteStream) ensure(n uint32) {
	need := b.pos + n
	if uint32(len(b.buf)) < need {
		grown := make([]byte, need)
		copy(grown, b.buf)
		b.buf = grown
	}
}

// WriteU8 writes one byte at the current position, advancing it.
func (b *ByteStream) WriteU8(v uint8) {
	b.ensure(1)
	b.buf[b.pos] = v
	b.pos++
}

// WriteI8 writes one signed byte.
func (b *ByteStream) WriteI8(v int8) { b.WriteU8(uint8(v)) }

// WriteU16 writes a big-endian uint16.
func (b *ByteStream) WriteU16(v uint16) {
	b.ensure(2)
	binary.BigEndian.PutUint16(b.buf[b.pos:], v)
	b.pos += 2
}

// WriteI16 writes a big-endian int16.
func (b *ByteStream) WriteI16(v int16) { b.WriteU16(uint16(v)) }

// WriteU32 writes a big-endian uint32.
func (b *ByteStream) WriteU32(v uint32) {
	b.ensure(4)
	binary.BigEndian.PutUint32(b.buf[b.pos:], v)
	b.pos += 4
}

// WriteI32 writes a big-endian int32.
func (b *ByteStream) WriteI32(v int32) { b.WriteU32(uint32(v)) }

// WriteF32 writes a big-endian IEEE-754 float32.
func (b *ByteStream) WriteF32(v float32) { b.WriteU32(math.Float32bits(v)) }

// WriteBytes writes raw bytes.
func (b *ByteStream) WriteBytes(v []byte) {
	b.ensure(uint32(len(v)))
	copy(b.buf[b.pos:], v)
	b.pos += uint32(len(v))
}

// WriteFixedASCII writes s into an n-byte field, NUL-padding the remainder.
// It fails with AlignmentError if s does not fit, since truncating a fixed
// ASCII field silently would corrupt the written file without any signal.
func (b *ByteStream) WriteFixedASCII(s string, n uint32) error {
	if uint32(len(s)) > n {
		return AlignmentError(fmt.Sprintf("fixed ascii field of %d bytes cannot hold %q (%d bytes)", n, s, len(s)))
	}
	field := make([]byte, n)
	copy(field, s)
	b.WriteBytes(field)
	return nil
}

// WriteAlignTo pads with zero bytes until Pos() is a multiple of n.
func (b *ByteStream) WriteAlignTo(n uint32) {
	for b.pos%n != 0 {
		b.WriteU8(0)
	}
}

// PatchU32At overwrites a previously-written uint32 at offset, used for
// backpatching length/offset fields once their final value is known
// (block lengths, the JPC texture table offset, and so on).
func (b *ByteStream) PatchU32At(offset, v uint32) error {
	if offset+4 > uint32(len(b.buf)) {
		return Truncated(fmt.Sprintf("patch u32 at %d beyond buffer of %d", offset, len(b.buf)))
	}
	binary.BigEndian.PutUint32(b.buf[offset:], v)
	return nil
}

// PatchU16At overwrites a previously-written uint16 at offset.
func (b *ByteStream) PatchU16At(offset uint32, v uint16) error {
	if offset+2 > uint32(len(b.buf)) {
		return Truncated(fmt.Sprintf("patch u16 at %d beyond buffer of %d", offset, len(b.buf)))
	}
	binary.BigEndian.PutUint16(b.buf[offset:], v)
	return nil
}
