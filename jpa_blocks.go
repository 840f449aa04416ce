// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import "fmt"

// Block tags (spec §3 "Block"). Every JPA block begins with an 8-byte
// header: a 4-character ASCII tag and a big-endian u32 length covering the
// whole block (header included), padded to 4-byte alignment.
const (
	TagDynamics  = "BEM1"
	TagField     = "FLD1"
	TagKey       = "KFA1"
	TagBaseShape = "BSP1"
	TagExtra     = "ESP1"
	TagChild     = "SSP1"
	TagExTex     = "ETX1"
	TagTexIndex  = "TEX1" // terminator block

	// Known-but-unsupported tags from sibling JPA revisions this codec
	// does not target (spec §2 glossary "Opaque block"). Decoded as
	// opaque byte blobs and reemitted verbatim.
	TagTextureDescriptor = "TDB1"
	TagLegacyEmitter     = "JEFB"
)

// blockHeaderSize is the 8-byte tag+length prefix every block carries.
const blockHeaderSize = 4 + 4

// blockBody is implemented by every concrete block payload type.
// decodeBody reads the body from the resource's stream, starting right
// after the 8-byte header, given the body length (block length minus 8);
// the resource codec then seeks to the end of the block whatever the body
// consumed. encodeBody writes the body only — the resource codec handles
// the tag, length backpatch, and 4-byte alignment padding uniformly for
// every block, per spec §4.5.
type blockBody interface {
	decodeBody(bs *ByteStream, bodyLen uint32) error
	encodeBody(bs *ByteStream) error
}

// blockRegistry maps each tag to a constructor for a zero-valued body; the
// JPA block registry is this map, the literal "dispatch table keyed by
// 4-character block tag that selects the per-block layout descriptor"
// spec §4.4 describes.
var blockRegistry = map[string]func() blockBody{
	TagDynamics:  func() blockBody { return &DynamicsBlock{} },
	TagField:     func() blockBody { return &FieldBlock{} },
	TagKey:       func() blockBody { return &KeyBlock{} },
	TagBaseShape: func() blockBody { return &BaseShape{} },
	TagExtra:     func() blockBody { return &ExtraShape{} },
	TagChild:     func() blockBody { return &ChildShape{} },
	TagExTex:     func() blockBody { return &ExTexShape{} },
	TagTexIndex:  func() blockBody { return &TexIndexBlock{} },
}

// opaqueTags are recognized but intentionally unsupported: they decode to
// an OpaqueBlock (raw bytes, preserved verbatim) rather than erroring. On
// write, an OpaqueBlock is emitted only if its tag is in this set; the
// encoder does not tell a block read from a file from one built in memory,
// so a TDB1/JEFB OpaqueBlock built in memory is emitted as well.
var opaqueTags = map[string]bool{
	TagTextureDescriptor: true,
	TagLegacyEmitter:     true,
}

// Color is an RGBA color as it appears inside particle resource blocks.
// Unlike AutoEffectList's RGB-only PrmColor/EnvColor columns, block-level
// colors always carry alpha and are never default-stripped (spec §4.8:
// "Block fields are emitted in full ... because omission would be
// ambiguous"), so they round-trip through a plain "#rrggbbaa" string.
type Color struct {
	R, G, B, A uint8
}

func (c Color) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"#%02x%02x%02x%02x"`, c.R, c.G, c.B, c.A)), nil
}

func (c *Color) UnmarshalJSON(b []byte) error {
	s, err := unquoteJSONString(b)
	if err != nil {
		return err
	}
	parsed, err := ParseColorHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) readFrom(bs *ByteStream) (Color, error) {
	buf, err := bs.ReadBytes(4)
	if err != nil {
		return Color{}, err
	}
	return Color{R: buf[0], G: buf[1], B: buf[2], A: buf[3]}, nil
}

func (c Color) writeTo(bs *ByteStream) {
	bs.WriteBytes([]byte{c.R, c.G, c.B, c.A})
}

// OpaqueBlock preserves a known-but-unsupported block's body byte-for-byte.
type OpaqueBlock struct {
	Tag  string `json:"-"`
	Body []byte `json:"body"`
}

func (o *OpaqueBlock) decodeBody(bs *ByteStream, bodyLen uint32) error {
	body, err := bs.ReadBytes(bodyLen)
	if err != nil {
		return err
	}
	o.Body = body
	return nil
}

func (o *OpaqueBlock) encodeBody(bs *ByteStream) error {
	bs.WriteBytes(o.Body)
	return nil
}
