// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import "testing"

func TestByteStreamReadWriteRoundTrip(t *testing.T) {
	w := NewByteStreamWriter()
	w.WriteU8(0xAB)
	w.WriteU16(0x1234)
	w.WriteU32(0xDEADBEEF)
	w.WriteI16(-5)
	w.WriteF32(3.5)
	if err := w.WriteFixedASCII("TEX1", 4); err != nil {
		t.Fatalf("WriteFixedASCII: %v", err)
	}
	w.WriteAlignTo(4)

	r := NewByteStream(w.Bytes())
	if v, err := r.ReadU8(); err != nil || v != 0xAB {
		t.Fatalf("ReadU8 = %v, %v", v, err)
	}
	if v, err := r.ReadU16(); err != nil || v != 0x1234 {
		t.Fatalf("ReadU16 = %v, %v", v, err)
	}
	if v, err := r.ReadU32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("ReadU32 = %v, %v", v, err)
	}
	if v, err := r.ReadI16(); err != nil || v != -5 {
		t.Fatalf("ReadI16 = %v, %v", v, err)
	}
	if v, err := r.ReadF32(); err != nil || v != 3.5 {
		t.Fatalf("ReadF32 = %v, %v", v, err)
	}
	if v, err := r.ReadFixedASCII(4); err != nil || v != "TEX1" {
		t.Fatalf("ReadFixedASCII = %q, %v", v, err)
	}
	if err := r.AlignTo(4); err != nil {
		t.Fatalf("AlignTo: %v", err)
	}
	if r.Pos() != r.Len() {
		t.Fatalf("expected cursor at end: pos=%d len=%d", r.Pos(), r.Len())
	}
}

func TestByteStreamTruncatedRead(t *testing.T) {
	r := NewByteStream([]byte{0x01, 0x02})
	if _, err := r.ReadU32(); err == nil {
		t.Fatal("expected Truncated error reading u32 from a 2-byte buffer")
	}
}

func TestByteStreamPatchU32At(t *testing.T) {
	w := NewByteStreamWriter()
	pos := w.Pos()
	w.WriteU32(0)
	w.WriteBytes([]byte{1, 2, 3})
	if err := w.PatchU32At(pos, 0x11223344); err != nil {
		t.Fatalf("PatchU32At: %v", err)
	}
	r := NewByteStream(w.Bytes())
	v, err := r.ReadU32()
	if err != nil || v != 0x11223344 {
		t.Fatalf("patched value = 0x%x, %v", v, err)
	}
}

func TestWriteFixedASCIITooLong(t *testing.T) {
	w := NewByteStreamWriter()
	if err := w.WriteFixedASCII("TOOLONG", 4); err == nil {
		t.Fatal("expected AlignmentError for oversized fixed ASCII field")
	}
}
