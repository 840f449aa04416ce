// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"bytes"
	"testing"
)

func TestBTIEncodeDecodeRoundTripNoPalette(t *testing.T) {
	tex := &BTITexture{
		Header: BTIHeader{
			Format:    BTIFormatCMPR,
			Width:     32,
			Height:    32,
			WrapS:     1,
			WrapT:     1,
			MinFilter: 1,
			MagFilter: 1,
		},
		Pixels: bytes.Repeat([]byte{0xAB}, 64),
	}

	encoded, err := EncodeBTI(tex)
	if err != nil {
		t.Fatalf("EncodeBTI: %v", err)
	}
	if len(encoded)%32 != 0 {
		t.Fatalf("encoded length %d is not 32-byte aligned", len(encoded))
	}

	got, err := DecodeBTI(encoded)
	if err != nil {
		t.Fatalf("DecodeBTI: %v", err)
	}
	if got.Header.Format != BTIFormatCMPR || got.Header.Width != 32 || got.Header.Height != 32 {
		t.Fatalf("header = %+v", got.Header)
	}
	if len(got.Palette) != 0 {
		t.Fatalf("expected no palette, got %d bytes", len(got.Palette))
	}
	if !bytes.Equal(got.Pixels, tex.Pixels) {
		t.Fatalf("pixels mismatch: got %x, want %x", got.Pixels, tex.Pixels)
	}
}

func TestBTIEncodeDecodeRoundTripWithPalette(t *testing.T) {
	palette := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}
	tex := &BTITexture{
		Header: BTIHeader{
			Format:        BTIFormatC8,
			Width:         16,
			Height:        16,
			PaletteFormat: 0,
			PaletteCount:  4,
			MipmapCount:   1,
		},
		Palette: palette,
		Pixels:  bytes.Repeat([]byte{0x11}, 16),
	}

	encoded, err := EncodeBTI(tex)
	if err != nil {
		t.Fatalf("EncodeBTI: %v", err)
	}

	got, err := DecodeBTI(encoded)
	if err != nil {
		t.Fatalf("DecodeBTI: %v", err)
	}
	if !bytes.Equal(got.Palette, palette) {
		t.Fatalf("palette mismatch: got %x, want %x", got.Palette, palette)
	}
	if got.Header.PaletteCount != 4 {
		t.Fatalf("PaletteCount = %d, want 4", got.Header.PaletteCount)
	}
	// 32-byte header + 8-byte palette + 16 pixel bytes = 56, padded to 64:
	// the decoded pixel slab runs to the end of the buffer, padding included.
	wantPixels := append(append([]byte(nil), tex.Pixels...), make([]byte, 8)...)
	if !bytes.Equal(got.Pixels, wantPixels) {
		t.Fatalf("pixels mismatch: got %x, want %x", got.Pixels, wantPixels)
	}
}

func TestBTITruncatedPalette(t *testing.T) {
	tex := &BTITexture{
		Header:  BTIHeader{Format: BTIFormatC8, Width: 4, Height: 4, PaletteCount: 4},
		Palette: []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
		Pixels:  []byte{0x01},
	}
	encoded, err := EncodeBTI(tex)
	if err != nil {
		t.Fatalf("EncodeBTI: %v", err)
	}
	// The header is 32 bytes and the palette occupies bytes 32..40.
	if _, err := DecodeBTI(encoded[:36]); err == nil {
		t.Fatal("expected Truncated error decoding a buffer cut mid-palette")
	}
}
