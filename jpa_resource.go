// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"fmt"

	"github.com/galaxytools/jpac/internal/logx"
)

// Resource is one particle definition inside a JPC: a chain of typed
// blocks plus a texture-index list (spec §3 "Particle resource").
// Dynamics, BaseShape and ExtraShape are required (exactly one each);
// ChildShape and ExTexShape are optional (at most one each); Fields and
// Keys may repeat any number of times. RawBlocks preserves any
// known-but-unsupported (TDB1/JEFB) blocks found in the source file
// byte-for-byte.
type Resource struct {
	Dynamics   *DynamicsBlock
	Fields     []FieldBlock
	Keys       []KeyBlock
	BaseShape  *BaseShape
	ExtraShape *ExtraShape
	ChildShape *ChildShape
	ExTexShape *ExTexShape
	RawBlocks  []OpaqueBlock

	TextureIndices []uint16
}

// decodeResource reads one resource starting at the stream's current
// position, stopping once the TEX1 terminator block has been consumed
// (spec §4.5 Read). With strict false, a known-but-unsupported (opaque)
// block is passed through and an unrecognized tag is skipped, both
// surfaced only via logger.Warnf; with strict true, either case is
// returned as a hard KindUnknownTag error instead.
func decodeResource(bs *ByteStream, strict bool, logger *logx.Helper) (*Resource, error) {
	r := &Resource{}

	for {
		blockStart := bs.Pos()
		tag, err := bs.ReadFixedASCII(4)
		if err != nil {
			return nil, wrap("resource block tag", err)
		}
		length, err := bs.ReadU32()
		if err != nil {
			return nil, wrap(fmt.Sprintf("resource block %q length", tag), err)
		}
		if length < blockHeaderSize || length%4 != 0 {
			return nil, AlignmentError(fmt.Sprintf("block %q at offset %d has invalid length %d", tag, blockStart, length))
		}
		if blockStart+length > bs.Len() {
			return nil, Truncated(fmt.Sprintf("block %q at offset %d (length %d) extends beyond buffer", tag, blockStart, length))
		}
		bodyLen := length - blockHeaderSize

		if tag == TagTexIndex {
			body := &TexIndexBlock{}
			if err := body.decodeBody(bs, bodyLen); err != nil {
				return nil, wrap(fmt.Sprintf("block %s at offset %d", tag, blockStart), err)
			}
			bs.Seek(blockStart + length)
			r.TextureIndices = body.Indices
			if r.Dynamics == nil {
				return nil, MissingBlock(fmt.Sprintf("resource at offset %d: missing %s", blockStart, TagDynamics))
			}
			if r.BaseShape == nil {
				return nil, MissingBlock(fmt.Sprintf("resource at offset %d: missing %s", blockStart, TagBaseShape))
			}
			if r.ExtraShape == nil {
				return nil, MissingBlock(fmt.Sprintf("resource at offset %d: missing %s", blockStart, TagExtra))
			}
			return r, nil
		}

		if factory, ok := blockRegistry[tag]; ok {
			body := factory()
			if err := body.decodeBody(bs, bodyLen); err != nil {
				return nil, wrap(fmt.Sprintf("block %s at offset %d", tag, blockStart), err)
			}
			bs.Seek(blockStart + length)
			switch b := body.(type) {
			case *DynamicsBlock:
				r.Dynamics = b
			case *FieldBlock:
				r.Fields = append(r.Fields, *b)
			case *KeyBlock:
				r.Keys = append(r.Keys, *b)
			case *BaseShape:
				r.BaseShape = b
			case *ExtraShape:
				r.ExtraShape = b
			case *ChildShape:
				r.ChildShape = b
			case *ExTexShape:
				r.ExTexShape = b
			}
			continue
		}

		if opaqueTags[tag] {
			if strict {
				return nil, UnknownTag(fmt.Sprintf(
					"resource at offset %d: known-but-unsupported block %s (%d bytes) rejected under strict mode", blockStart, tag, length))
			}
			body := &OpaqueBlock{Tag: tag}
			if err := body.decodeBody(bs, bodyLen); err != nil {
				return nil, wrap(fmt.Sprintf("opaque block %s at offset %d", tag, blockStart), err)
			}
			bs.Seek(blockStart + length)
			r.RawBlocks = append(r.RawBlocks, *body)
			logger.Warnf("resource at offset %d: passthrough known-but-unsupported block %s (%d bytes)", blockStart, tag, length)
			continue
		}

		if strict {
			return nil, UnknownTag(fmt.Sprintf(
				"resource at offset %d: unknown block tag %q (%d bytes) rejected under strict mode", blockStart, tag, length))
		}
		logger.Warnf("resource at offset %d: unknown block tag %q, skipping %d bytes", blockStart, tag, length)
		bs.Seek(blockStart + length)
	}
}

// encodeResource serializes a resource in canonical block order: Dynamics,
// Fields..., Keys..., BaseShape, ExtraShape, ChildShape?, ExTexShape?, any
// preserved opaque blocks, TEX1 (spec §4.5 Write).
func encodeResource(r *Resource) ([]byte, error) {
	if r.Dynamics == nil {
		return nil, MissingBlock("resource missing required " + TagDynamics)
	}
	if r.BaseShape == nil {
		return nil, MissingBlock("resource missing required " + TagBaseShape)
	}
	if r.ExtraShape == nil {
		return nil, MissingBlock("resource missing required " + TagExtra)
	}

	bs := NewByteStreamWriter()

	writeBlock := func(tag string, body blockBody) error {
		if err := bs.WriteFixedASCII(tag, 4); err != nil {
			return err
		}
		lengthPos := bs.Pos()
		bs.WriteU32(0) // placeholder, backpatched below
		if err := body.encodeBody(bs); err != nil {
			return err
		}
		bs.WriteAlignTo(4)
		length := bs.Pos() - (lengthPos - blockHeaderSize/2)
		return bs.PatchU32At(lengthPos, length)
	}

	if err := writeBlock(TagDynamics, r.Dynamics); err != nil {
		return nil, err
	}
	for i := range r.Fields {
		if err := writeBlock(TagField, &r.Fields[i]); err != nil {
			return nil, err
		}
	}
	for i := range r.Keys {
		if err := writeBlock(TagKey, &r.Keys[i]); err != nil {
			return nil, err
		}
	}
	if err := writeBlock(TagBaseShape, r.BaseShape); err != nil {
		return nil, err
	}
	if err := writeBlock(TagExtra, r.ExtraShape); err != nil {
		return nil, err
	}
	if r.ChildShape != nil {
		if err := writeBlock(TagChild, r.ChildShape); err != nil {
			return nil, err
		}
	}
	if r.ExTexShape != nil {
		if err := writeBlock(TagExTex, r.ExTexShape); err != nil {
			return nil, err
		}
	}
	for i := range r.RawBlocks {
		raw := r.RawBlocks[i]
		if !opaqueTags[raw.Tag] {
			return nil, UnknownTag(fmt.Sprintf("cannot construct new block with unsupported tag %q from scratch", raw.Tag))
		}
		if err := writeBlock(raw.Tag, &raw); err != nil {
			return nil, err
		}
	}
	if err := writeBlock(TagTexIndex, &TexIndexBlock{Indices: r.TextureIndices}); err != nil {
		return nil, err
	}

	return bs.Bytes(), nil
}
