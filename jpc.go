// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"fmt"
	"sort"

	"github.com/galaxytools/jpac/internal/logx"
)

// jpcMagic is the JPAC 2-10 container signature, padded to 16 bytes.
const jpcMagic = "JPAC2-10\x00\x00\x00\x00\x00\x00\x00\x00"

const jpcHeaderSize = 16 + 2 + 2 + 4

// Texture is one embedded BTI image inside a JPC's texture pool, keyed by
// the game-internal hash of its filename (spec §3 "JPC container").
type Texture struct {
	NameHash uint32
	Name     string
	Data     []byte // raw encoded BTI bytes, stored and reemitted verbatim
}

// Container is a fully decoded JPC: an ordered list of particle resources
// and a deduplicated pool of textures they reference by index.
type Container struct {
	Resources []*Resource
	Textures  []Texture
}

// DecodeJPC parses a JPAC 2-10 container from buf (spec §4.6 Read). With
// strict false, an unknown or known-but-unsupported block tag is tolerated
// (logged via logger.Warnf and skipped or passed through); with strict
// true, either case is a hard KindUnknownTag error.
func DecodeJPC(buf []byte, strict bool, logger *logx.Helper) (*Container, error) {
	if logger == nil {
		logger = logx.Discard()
	}
	bs := NewByteStream(buf)

	magic, err := bs.ReadBytes(16)
	if err != nil {
		return nil, wrap("jpc header: magic", err)
	}
	if string(magic) != jpcMagic {
		return nil, InvalidMagic(fmt.Sprintf("jpc header: got %q, want %q", magic, jpcMagic))
	}

	resourceCount, err := bs.ReadU16()
	if err != nil {
		return nil, wrap("jpc header: resource count", err)
	}
	textureCount, err := bs.ReadU16()
	if err != nil {
		return nil, wrap("jpc header: texture count", err)
	}
	textureTableOffset, err := bs.ReadU32()
	if err != nil {
		return nil, wrap("jpc header: texture table offset", err)
	}

	c := &Container{
		Resources: make([]*Resource, 0, resourceCount),
		Textures:  make([]Texture, 0, textureCount),
	}

	for i := 0; i < int(resourceCount); i++ {
		r, err := decodeResource(bs, strict, logger)
		if err != nil {
			return nil, wrap(fmt.Sprintf("resource %d", i), err)
		}
		c.Resources = append(c.Resources, r)
	}

	bs.Seek(textureTableOffset)
	for i := 0; i < int(textureCount); i++ {
		nameHash, err := bs.ReadU32()
		if err != nil {
			return nil, wrap(fmt.Sprintf("texture %d: name hash", i), err)
		}
		length, err := bs.ReadU32()
		if err != nil {
			return nil, wrap(fmt.Sprintf("texture %d: length", i), err)
		}
		data, err := bs.ReadBytes(length)
		if err != nil {
			return nil, wrap(fmt.Sprintf("texture %d: data (%d bytes)", i, length), err)
		}
		if err := bs.AlignTo(32); err != nil {
			return nil, wrap(fmt.Sprintf("texture %d: trailing padding", i), err)
		}
		c.Textures = append(c.Textures, Texture{NameHash: nameHash, Data: data})
	}

	seen := make(map[uint32]bool, len(c.Textures))
	for _, t := range c.Textures {
		if seen[t.NameHash] {
			return nil, DuplicateKey(fmt.Sprintf("jpc texture table: duplicate name hash 0x%08x", t.NameHash))
		}
		seen[t.NameHash] = true
	}

	for i, r := range c.Resources {
		for _, idx := range r.TextureIndices {
			if int(idx) >= len(c.Textures) {
				return nil, DanglingReference(fmt.Sprintf("resource %d: texture index %d out of range (%d textures)", i, idx, len(c.Textures)))
			}
		}
	}

	return c, nil
}

// EncodeJPC serializes a Container back to its JPAC 2-10 form (spec §4.6
// Write). Textures are deduplicated by content hash: byte-identical BTI
// blobs collapse to a single texture-table entry, and resources' texture
// indices are renumbered to point at the surviving entry. The texture table
// is emitted in name-hash order so that two encodes of the same logical
// container are byte-identical regardless of slice ordering.
func EncodeJPC(c *Container) ([]byte, error) {
	dedup := make(map[uint64]uint32) // content hash -> surviving texture's name hash
	var deduped []Texture
	remapHash := make([]uint32, len(c.Textures)) // original index -> surviving texture's name hash

	for i, t := range c.Textures {
		h := contentHash(t.Data)
		if nameHash, ok := dedup[h]; ok {
			remapHash[i] = nameHash
			continue
		}
		dedup[h] = t.NameHash
		remapHash[i] = t.NameHash
		deduped = append(deduped, t)
	}

	seen := make(map[uint32]bool, len(deduped))
	for _, t := range deduped {
		if seen[t.NameHash] {
			return nil, DuplicateKey(fmt.Sprintf("jpc texture table: duplicate name hash 0x%08x", t.NameHash))
		}
		seen[t.NameHash] = true
	}

	sort.Slice(deduped, func(i, j int) bool { return deduped[i].NameHash < deduped[j].NameHash })
	orderOf := make(map[uint32]int, len(deduped))
	for i, t := range deduped {
		orderOf[t.NameHash] = i
	}

	resources := make([]*Resource, len(c.Resources))
	for i, r := range c.Resources {
		renumbered := *r
		renumbered.TextureIndices = make([]uint16, len(r.TextureIndices))
		for j, idx := range r.TextureIndices {
			if int(idx) >= len(c.Textures) {
				return nil, DanglingReference(fmt.Sprintf("resource %d: texture index %d out of range (%d textures)", i, idx, len(c.Textures)))
			}
			renumbered.TextureIndices[j] = uint16(orderOf[remapHash[idx]])
		}
		resources[i] = &renumbered
	}

	bs := NewByteStreamWriter()
	bs.WriteBytes([]byte(jpcMagic))
	bs.WriteU16(uint16(len(resources)))
	bs.WriteU16(uint16(len(deduped)))
	textureOffsetPos := bs.Pos()
	bs.WriteU32(0) // placeholder, backpatched below

	if bs.Pos() != jpcHeaderSize {
		return nil, AlignmentError(fmt.Sprintf("jpc header encoded to %d bytes, want %d", bs.Pos(), jpcHeaderSize))
	}

	for i, r := range resources {
		encoded, err := encodeResource(r)
		if err != nil {
			return nil, wrap(fmt.Sprintf("resource %d", i), err)
		}
		bs.WriteBytes(encoded)
	}

	bs.WriteAlignTo(32)
	textureTableOffset := bs.Pos()

	for _, t := range deduped {
		bs.WriteU32(t.NameHash)
		bs.WriteU32(uint32(len(t.Data)))
		bs.WriteBytes(t.Data)
		bs.WriteAlignTo(32)
	}

	if err := bs.PatchU32At(textureOffsetPos, textureTableOffset); err != nil {
		return nil, err
	}

	return bs.Bytes(), nil
}
