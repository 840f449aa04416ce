// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import "fmt"

// ColumnType enumerates the exhaustive BCSV column type tags (spec §3).
type ColumnType uint8

const (
	ColLong         ColumnType = 0 // 32-bit signed, mask/shift, sign-extended.
	ColFloat        ColumnType = 2 // 32-bit IEEE-754, mask/shift ignored.
	ColLong2        ColumnType = 3 // alias for ColLong with different semantic intent.
	ColShort        ColumnType = 4 // 16-bit, mask/shift.
	ColChar         ColumnType = 5 // 8-bit, mask/shift.
	ColStringOffset ColumnType = 6 // u32 offset into the string pool.
)

// Width returns the on-disk word width, in bytes, of the column's declared
// type — the unit ByteStream reads/writes at the column's row offset.
func (t ColumnType) Width() uint32 {
	switch t {
	case ColShort:
		return 2
	case ColChar:
		return 1
	default: // ColLong, ColFloat, ColLong2, ColStringOffset
		return 4
	}
}

func (t ColumnType) String() string {
	switch t {
	case ColLong:
		return "LONG"
	case ColFloat:
		return "FLOAT"
	case ColLong2:
		return "LONG_2"
	case ColShort:
		return "SHORT"
	case ColChar:
		return "CHAR"
	case ColStringOffset:
		return "STRING_OFFSET"
	default:
		return fmt.Sprintf("ColumnType(%d)", uint8(t))
	}
}

// ColumnDef describes one BCSV column, as read from (or about to be
// written into) a 12-byte column descriptor: name hash, bitmask,
// row-relative offset, shift, and type. Name is populated by reverse
// lookup against a NameDictionary when known; it is empty when the hash
// is unrecognized, in which case HashName() surfaces the hex form.
type ColumnDef struct {
	Name   string
	Hash   uint32
	Mask   uint32
	Offset uint16
	Shift  uint8
	Type   ColumnType
}

// HashName returns Name if known, else the canonical "_0x%08x" fallback
// used for unrecognized columns, so callers always have a stable key.
func (c ColumnDef) HashName() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("_0x%08x", c.Hash)
}

// NameDictionary reverse-resolves a BCSV column's name hash back to its
// source name. BCSV files never store column names, only their JGadget
// hash, so every reader must be seeded with the set of names it expects to
// find — an unknown hash round-trips unchanged under its hex alias.
type NameDictionary struct {
	byHash map[uint32]string
}

// NewNameDictionary builds a dictionary from a list of known column names.
func NewNameDictionary(names ...string) *NameDictionary {
	d := &NameDictionary{byHash: make(map[uint32]string, len(names))}
	for _, n := range names {
		d.byHash[JGadgetHash(n)] = n
	}
	return d
}

// Add registers additional known names, e.g. from a --schema override file.
func (d *NameDictionary) Add(names ...string) {
	for _, n := range names {
		d.byHash[JGadgetHash(n)] = n
	}
}

// Resolve returns the name for hash, and whether it was known.
func (d *NameDictionary) Resolve(hash uint32) (string, bool) {
	n, ok := d.byHash[hash]
	return n, ok
}

// autoEffectListColumnNames lists every AutoEffectList column (spec §6),
// used to seed the default dictionary.
var autoEffectListColumnNames = []string{
	"GroupName", "AnimName", "ContinueAnimEnd", "UniqueName", "EffectName",
	"ParentName", "JointName", "OffsetX", "OffsetY", "OffsetZ",
	"StartFrame", "EndFrame", "Affect", "Follow", "ScaleValue", "RateValue",
	"PrmColor", "EnvColor", "LightAffectValue", "DrawOrder",
}

// particleNamesColumnNames lists the (single) ParticleNames.bcsv column.
var particleNamesColumnNames = []string{"name"}

// DefaultNameDictionary returns a dictionary seeded with every column name
// this codec knows about out of the box (AutoEffectList + ParticleNames).
// Callers may layer additional names on top via Add for project-specific
// BCSV tables the translator doesn't otherwise understand.
func DefaultNameDictionary() *NameDictionary {
	d := NewNameDictionary(autoEffectListColumnNames...)
	d.Add(particleNamesColumnNames...)
	return d
}

// autoEffectListColumns returns the concrete column layout this codec uses
// when *writing* an AutoEffectList table: offsets, widths and bit-packing
// are this encoder's own choice (spec §4.3's writer "computes rowStride"
// from whatever layout the caller supplies); reading never relies on this
// layout; it resolves offsets/masks/types from the column descriptors
// actually present in the file being read.
//
// ContinueAnimEnd, Affect, Follow and DrawOrder are packed into a single
// 16-bit word at a shared row offset with disjoint masks, demonstrating
// the "multiple columns may share a row offset" layout the format allows.
func autoEffectListColumns() []ColumnDef {
	return []ColumnDef{
		{Name: "GroupName", Hash: JGadgetHash("GroupName"), Type: ColStringOffset, Mask: 0xFFFFFFFF, Offset: 0},
		{Name: "AnimName", Hash: JGadgetHash("AnimName"), Type: ColStringOffset, Mask: 0xFFFFFFFF, Offset: 4},
		{Name: "ContinueAnimEnd", Hash: JGadgetHash("ContinueAnimEnd"), Type: ColShort, Mask: 0x0001, Shift: 0, Offset: 8},
		{Name: "Affect", Hash: JGadgetHash("Affect"), Type: ColShort, Mask: 0x000E, Shift: 1, Offset: 8},
		{Name: "Follow", Hash: JGadgetHash("Follow"), Type: ColShort, Mask: 0x0070, Shift: 4, Offset: 8},
		{Name: "DrawOrder", Hash: JGadgetHash("DrawOrder"), Type: ColShort, Mask: 0x0780, Shift: 7, Offset: 8},
		{Name: "UniqueName", Hash: JGadgetHash("UniqueName"), Type: ColStringOffset, Mask: 0xFFFFFFFF, Offset: 10},
		{Name: "EffectName", Hash: JGadgetHash("EffectName"), Type: ColStringOffset, Mask: 0xFFFFFFFF, Offset: 14},
		{Name: "ParentName", Hash: JGadgetHash("ParentName"), Type: ColStringOffset, Mask: 0xFFFFFFFF, Offset: 18},
		{Name: "JointName", Hash: JGadgetHash("JointName"), Type: ColStringOffset, Mask: 0xFFFFFFFF, Offset: 22},
		{Name: "OffsetX", Hash: JGadgetHash("OffsetX"), Type: ColFloat, Mask: 0xFFFFFFFF, Offset: 26},
		{Name: "OffsetY", Hash: JGadgetHash("OffsetY"), Type: ColFloat, Mask: 0xFFFFFFFF, Offset: 30},
		{Name: "OffsetZ", Hash: JGadgetHash("OffsetZ"), Type: ColFloat, Mask: 0xFFFFFFFF, Offset: 34},
		// StartFrame/EndFrame are always written as LONG (type code 0),
		// per the spec's resolution of the LONG vs LONG_2 open question.
		{Name: "StartFrame", Hash: JGadgetHash("StartFrame"), Type: ColLong, Mask: 0xFFFFFFFF, Offset: 38},
		{Name: "EndFrame", Hash: JGadgetHash("EndFrame"), Type: ColLong, Mask: 0xFFFFFFFF, Offset: 42},
		{Name: "ScaleValue", Hash: JGadgetHash("ScaleValue"), Type: ColFloat, Mask: 0xFFFFFFFF, Offset: 46},
		{Name: "RateValue", Hash: JGadgetHash("RateValue"), Type: ColFloat, Mask: 0xFFFFFFFF, Offset: 50},
		{Name: "PrmColor", Hash: JGadgetHash("PrmColor"), Type: ColStringOffset, Mask: 0xFFFFFFFF, Offset: 54},
		{Name: "EnvColor", Hash: JGadgetHash("EnvColor"), Type: ColStringOffset, Mask: 0xFFFFFFFF, Offset: 58},
		{Name: "LightAffectValue", Hash: JGadgetHash("LightAffectValue"), Type: ColFloat, Mask: 0xFFFFFFFF, Offset: 62},
	}
}

// particleNamesColumns returns the single-column layout used when writing
// ParticleNames.bcsv: one STRING_OFFSET column per row, row index ==
// particle/resource index (spec §4.8).
func particleNamesColumns() []ColumnDef {
	return []ColumnDef{
		{Name: "name", Hash: JGadgetHash("name"), Type: ColStringOffset, Mask: 0xFFFFFFFF, Offset: 0},
	}
}
