// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import "fmt"

// BTI texture format tags (spec §4.7). The core stores and reemits pixel
// data verbatim; it never decodes a pixel block itself.
const (
	BTIFormatI4     uint8 = 0x0
	BTIFormatI8     uint8 = 0x1
	BTIFormatIA4    uint8 = 0x2
	BTIFormatIA8    uint8 = 0x3
	BTIFormatRGB565 uint8 = 0x4
	BTIFormatRGB5A3 uint8 = 0x5
	BTIFormatRGBA32 uint8 = 0x6
	BTIFormatC4     uint8 = 0x8
	BTIFormatC8     uint8 = 0x9
	BTIFormatC14X2  uint8 = 0xA
	BTIFormatCMPR   uint8 = 0xE
)

const btiHeaderSize = 32

// BTIHeader is the 32-byte BTI header: format, dimensions, wrap/filter
// modes, palette format/offset, mipmap count, LOD bias, and the data
// offset the pixel payload starts at.
type BTIHeader struct {
	Format        uint8  `json:"format"`
	AlphaSetting  uint8  `json:"alphaSetting"`
	Width         uint16 `json:"width"`
	Height        uint16 `json:"height"`
	WrapS         uint8  `json:"wrapS"`
	WrapT         uint8  `json:"wrapT"`
	PaletteFormat uint8  `json:"paletteFormat"`
	PaletteCount  uint16 `json:"paletteCount"`
	PaletteOffset uint32 `json:"paletteOffset"`
	MinFilter     uint8  `json:"minFilter"`
	MagFilter     uint8  `json:"magFilter"`
	LODBias       int16  `json:"lodBias"`
	MipmapCount   uint8  `json:"mipmapCount"`
	DataOffset    uint32 `json:"dataOffset"`
}

// BTITexture is a fully decoded BTI image: the header plus its raw palette
// and pixel slabs, neither of which this core interprets.
type BTITexture struct {
	Header  BTIHeader
	Palette []byte
	Pixels  []byte
}

// DecodeBTI parses a single BTI texture image from buf (spec §4.7).
func DecodeBTI(buf []byte) (*BTITexture, error) {
	bs := NewByteStream(buf)

	var h BTIHeader
	var err error
	if h.Format, err = bs.ReadU8(); err != nil {
		return nil, wrap("bti header: format", err)
	}
	if h.AlphaSetting, err = bs.ReadU8(); err != nil {
		return nil, wrap("bti header: alpha setting", err)
	}
	if h.Width, err = bs.ReadU16(); err != nil {
		return nil, wrap("bti header: width", err)
	}
	if h.Height, err = bs.ReadU16(); err != nil {
		return nil, wrap("bti header: height", err)
	}
	if h.WrapS, err = bs.ReadU8(); err != nil {
		return nil, wrap("bti header: wrap s", err)
	}
	if h.WrapT, err = bs.ReadU8(); err != nil {
		return nil, wrap("bti header: wrap t", err)
	}
	if _, err = bs.ReadU8(); err != nil { // unused/reserved
		return nil, wrap("bti header: reserved1", err)
	}
	if h.PaletteFormat, err = bs.ReadU8(); err != nil {
		return nil, wrap("bti header: palette format", err)
	}
	if h.PaletteCount, err = bs.ReadU16(); err != nil {
		return nil, wrap("bti header: palette count", err)
	}
	if h.PaletteOffset, err = bs.ReadU32(); err != nil {
		return nil, wrap("bti header: palette offset", err)
	}
	if _, err = bs.ReadU32(); err != nil { // unused/reserved
		return nil, wrap("bti header: reserved2", err)
	}
	if h.MinFilter, err = bs.ReadU8(); err != nil {
		return nil, wrap("bti header: min filter", err)
	}
	if h.MagFilter, err = bs.ReadU8(); err != nil {
		return nil, wrap("bti header: mag filter", err)
	}
	if h.LODBias, err = bs.ReadI16(); err != nil {
		return nil, wrap("bti header: lod bias", err)
	}
	if _, err = bs.ReadU8(); err != nil { // unused/reserved
		return nil, wrap("bti header: reserved3", err)
	}
	if h.MipmapCount, err = bs.ReadU8(); err != nil {
		return nil, wrap("bti header: mipmap count", err)
	}
	if _, err = bs.ReadU16(); err != nil { // unused/reserved
		return nil, wrap("bti header: reserved4", err)
	}
	if h.DataOffset, err = bs.ReadU32(); err != nil {
		return nil, wrap("bti header: data offset", err)
	}

	tex := &BTITexture{Header: h}

	if h.PaletteCount > 0 {
		paletteLen := uint32(h.PaletteCount) * 2 // 2 bytes/entry (RGB565 or IA8 palette)
		if h.PaletteOffset+paletteLen > uint32(len(buf)) {
			return nil, Truncated("bti palette extends beyond buffer")
		}
		tex.Palette = append([]byte(nil), buf[h.PaletteOffset:h.PaletteOffset+paletteLen]...)
	}

	if h.DataOffset > uint32(len(buf)) {
		return nil, Truncated("bti data offset beyond buffer")
	}
	tex.Pixels = append([]byte(nil), buf[h.DataOffset:]...)

	return tex, nil
}

// EncodeBTI serializes a BTITexture back to its on-disk form: header,
// palette, pixels, padded to a 32-byte boundary (spec §4.7 Write).
func EncodeBTI(tex *BTITexture) ([]byte, error) {
	h := tex.Header

	bs := NewByteStreamWriter()
	bs.WriteU8(h.Format)
	bs.WriteU8(h.AlphaSetting)
	bs.WriteU16(h.Width)
	bs.WriteU16(h.Height)
	bs.WriteU8(h.WrapS)
	bs.WriteU8(h.WrapT)
	bs.WriteU8(0)
	bs.WriteU8(h.PaletteFormat)
	bs.WriteU16(h.PaletteCount)

	paletteOffsetPos := bs.Pos()
	bs.WriteU32(0) // placeholder, backpatched below
	bs.WriteU32(0) // reserved
	bs.WriteU8(h.MinFilter)
	bs.WriteU8(h.MagFilter)
	bs.WriteI16(h.LODBias)
	bs.WriteU8(0)
	bs.WriteU8(h.MipmapCount)
	bs.WriteU16(0)

	dataOffsetPos := bs.Pos()
	bs.WriteU32(0) // placeholder, backpatched below

	if bs.Pos() != btiHeaderSize {
		return nil, AlignmentError(fmt.Sprintf("bti header encoded to %d bytes, want %d", bs.Pos(), btiHeaderSize))
	}

	var paletteOffset uint32
	if len(tex.Palette) > 0 {
		paletteOffset = bs.Pos()
		bs.WriteBytes(tex.Palette)
	}

	dataOffset := bs.Pos()
	bs.WriteBytes(tex.Pixels)
	bs.WriteAlignTo(32)

	if err := bs.PatchU32At(paletteOffsetPos, paletteOffset); err != nil {
		return nil, err
	}
	if err := bs.PatchU32At(dataOffsetPos, dataOffset); err != nil {
		return nil, err
	}

	return bs.Bytes(), nil
}
