// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/galaxytools/jpac/internal/logx"
)

const (
	bcsvHeaderSize      = 32
	bcsvColumnDescSize  = 12
	bcsvStringPoolAlign = 32
)

// Cell is the closed sum type every BCSV field value is modeled as (spec
// §9): an Int32, a Float32, or a String. Which field is meaningful is
// determined entirely by the owning column's Type.
type Cell struct {
	Type ColumnType
	I32  int32
	F32  float32
	Str  string
}

// IntCell builds a Cell holding a signed integer value.
func IntCell(v int32) Cell { return Cell{Type: ColLong, I32: v} }

// FloatCell builds a Cell holding a float value.
func FloatCell(v float32) Cell { return Cell{Type: ColFloat, F32: v} }

// StringCell builds a Cell holding a string value.
func StringCell(v string) Cell { return Cell{Type: ColStringOffset, Str: v} }

// Row maps a column's resolved name (or "_0xHHHHHHHH" hex alias) to its
// decoded value.
type Row map[string]Cell

// Table is the in-memory result of decoding a BCSV file: its column layout
// plus every decoded row.
type Table struct {
	Columns []ColumnDef
	Rows    []Row
}

// ColumnByHashName returns the column definition for a given resolved (or
// hex-alias) name, if present.
func (t *Table) ColumnByHashName(name string) (ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.HashName() == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// DecodeBCSV parses a BCSV file (spec §4.3 Read). dict resolves column name
// hashes to human-readable names; unresolved hashes surface as
// "_0xHHHHHHHH" and round-trip unchanged. A cell whose raw word has bits
// set outside its column mask is tolerated by masking: with strict false
// it is reported via logger.Warnf and the masked value is kept; with
// strict true it is returned as a hard KindValueOutOfRange error instead.
func DecodeBCSV(buf []byte, dict *NameDictionary, strict bool, logger *logx.Helper) (*Table, error) {
	if logger == nil {
		logger = logx.Discard()
	}
	bs := NewByteStream(buf)

	rowCount, err := bs.ReadU32()
	if err != nil {
		return nil, wrap("bcsv header: row count", err)
	}
	columnCount, err := bs.ReadU32()
	if err != nil {
		return nil, wrap("bcsv header: column count", err)
	}
	rowDataOffset, err := bs.ReadU32()
	if err != nil {
		return nil, wrap("bcsv header: row data offset", err)
	}
	rowStride, err := bs.ReadU32()
	if err != nil {
		return nil, wrap("bcsv header: row stride", err)
	}
	stringPoolOffset, err := bs.ReadU32()
	if err != nil {
		return nil, wrap("bcsv header: string pool offset", err)
	}
	if _, err := bs.ReadBytes(12); err != nil { // reserved/padding
		return nil, wrap("bcsv header: reserved", err)
	}

	columns := make([]ColumnDef, 0, columnCount)
	for i := uint32(0); i < columnCount; i++ {
		hash, err := bs.ReadU32()
		if err != nil {
			return nil, wrap(fmt.Sprintf("bcsv column %d: hash", i), err)
		}
		mask, err := bs.ReadU32()
		if err != nil {
			return nil, wrap(fmt.Sprintf("bcsv column %d: mask", i), err)
		}
		offset, err := bs.ReadU16()
		if err != nil {
			return nil, wrap(fmt.Sprintf("bcsv column %d: offset", i), err)
		}
		shift, err := bs.ReadU8()
		if err != nil {
			return nil, wrap(fmt.Sprintf("bcsv column %d: shift", i), err)
		}
		typ, err := bs.ReadU8()
		if err != nil {
			return nil, wrap(fmt.Sprintf("bcsv column %d: type", i), err)
		}
		col := ColumnDef{Hash: hash, Mask: mask, Offset: offset, Shift: shift, Type: ColumnType(typ)}
		if name, ok := dict.Resolve(hash); ok {
			col.Name = name
		}
		columns = append(columns, col)
	}

	if stringPoolOffset > uint32(len(buf)) {
		return nil, Truncated("bcsv string pool offset beyond buffer")
	}
	pool := newReadStringPool(buf[stringPoolOffset:])

	rows := make([]Row, 0, rowCount)
	for r := uint32(0); r < rowCount; r++ {
		rowBase := rowDataOffset + r*rowStride
		row := make(Row, len(columns))
		for _, col := range columns {
			cell, err := decodeCell(bs, pool, rowBase, col, strict, logger)
			if err != nil {
				return nil, wrap(fmt.Sprintf("bcsv row %d column %s", r, col.HashName()), err)
			}
			row[col.HashName()] = cell
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

func decodeCell(bs *ByteStream, pool *readStringPool, rowBase uint32, col ColumnDef, strict bool, logger *logx.Helper) (Cell, error) {
	width := col.Type.Width()
	offset := rowBase + uint32(col.Offset)
	bs.Seek(offset)

	var raw uint32
	switch width {
	case 1:
		v, err := bs.ReadU8()
		if err != nil {
			return Cell{}, err
		}
		raw = uint32(v)
	case 2:
		v, err := bs.ReadU16()
		if err != nil {
			return Cell{}, err
		}
		raw = uint32(v)
	default:
		v, err := bs.ReadU32()
		if err != nil {
			return Cell{}, err
		}
		raw = v
	}

	if col.Type != ColFloat && raw & ^col.Mask != 0 {
		if strict {
			return Cell{}, ValueOutOfRange(fmt.Sprintf(
				"bcsv cell at offset %d: raw word 0x%x has bits set outside column %s mask 0x%x",
				offset, raw, col.HashName(), col.Mask))
		}
		logger.Warnf("bcsv cell at offset %d: raw word 0x%x has bits set outside column %s mask 0x%x, masking",
			offset, raw, col.HashName(), col.Mask)
	}

	switch col.Type {
	case ColFloat:
		return Cell{Type: ColFloat, F32: math.Float32frombits(raw)}, nil
	case ColStringOffset:
		s, err := pool.At(raw)
		if err != nil {
			return Cell{}, err
		}
		return Cell{Type: ColStringOffset, Str: s}, nil
	case ColLong, ColLong2:
		masked := (raw & col.Mask) >> col.Shift
		bitWidth := maskBitWidth(col.Mask >> col.Shift)
		return Cell{Type: col.Type, I32: signExtend(masked, bitWidth)}, nil
	default: // ColShort, ColChar: unsigned per spec, mask/shift applied
		masked := (raw & col.Mask) >> col.Shift
		return Cell{Type: col.Type, I32: int32(masked)}, nil
	}
}

// maskBitWidth returns the number of bits spanned by a (shifted-down,
// contiguous-from-bit-0) mask, used to know how far to sign-extend.
func maskBitWidth(mask uint32) uint {
	if mask == 0 {
		return 0
	}
	return uint(bits.Len32(mask))
}

func signExtend(v uint32, width uint) int32 {
	if width == 0 || width >= 32 {
		return int32(v)
	}
	signBit := uint32(1) << (width - 1)
	if v&signBit != 0 {
		v |= ^uint32(0) << width
	}
	return int32(v)
}

// EncodeBCSV serializes columns and rows into a BCSV file (spec §4.3
// Write). Row stride is computed as the maximum (offset+width) across all
// columns, rounded up to 4. Strings are interned into a StringPool with
// suffix sharing enabled; the pool is emitted immediately after row data,
// padded to a 32-byte boundary.
func EncodeBCSV(columns []ColumnDef, rows []Row) ([]byte, error) {
	var rowStride uint32
	for _, c := range columns {
		end := uint32(c.Offset) + c.Type.Width()
		if end > rowStride {
			rowStride = end
		}
	}
	rowStride = align4(rowStride)

	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c.HashName()] = true
	}

	pool := NewStringPool(true)
	rowData := make([]byte, uint32(len(rows))*rowStride)

	// Cells are interned column-by-column in schema-definition order (the
	// stable columns slice), not by ranging over the row map: Go randomizes
	// map iteration order, and a row with several string cells would
	// otherwise intern them into the StringPool in a different order on
	// every run. The spec mandates deterministic, alphabetical-by-first-
	// occurrence pool output for reproducible builds, and that only holds
	// if every row's columns are visited in the same fixed order.
	for ri, row := range rows {
		for name := range row {
			if !known[name] {
				return nil, newErr(KindUnknownTag, fmt.Sprintf("bcsv row %d references unknown column %q", ri, name), nil)
			}
		}
		base := uint32(ri) * rowStride
		for _, col := range columns {
			cell, ok := row[col.HashName()]
			if !ok {
				continue
			}
			if err := encodeCell(rowData, base, col, cell, pool, ri); err != nil {
				return nil, err
			}
		}
	}

	bs := NewByteStreamWriter()
	bs.WriteU32(uint32(len(rows)))
	bs.WriteU32(uint32(len(columns)))
	rowDataOffset := uint32(bcsvHeaderSize) + uint32(len(columns))*bcsvColumnDescSize
	bs.WriteU32(rowDataOffset)
	bs.WriteU32(rowStride)
	stringPoolOffset := rowDataOffset + uint32(len(rowData))
	bs.WriteU32(stringPoolOffset)
	bs.WriteBytes(make([]byte, 12))

	for _, c := range columns {
		bs.WriteU32(c.Hash)
		bs.WriteU32(c.Mask)
		bs.WriteU16(c.Offset)
		bs.WriteU8(c.Shift)
		bs.WriteU8(uint8(c.Type))
	}

	bs.WriteBytes(rowData)
	bs.WriteBytes(pool.Bytes())

	return bs.Bytes(), nil
}

func encodeCell(rowData []byte, base uint32, col ColumnDef, cell Cell, pool *StringPool, rowIdx int) error {
	width := col.Type.Width()
	off := base + uint32(col.Offset)
	if off+width > uint32(len(rowData)) {
		return Truncated(fmt.Sprintf("bcsv row %d column %s offset out of range", rowIdx, col.HashName()))
	}

	var raw uint32
	switch col.Type {
	case ColFloat:
		raw = math.Float32bits(cell.F32)
	case ColStringOffset:
		raw = pool.Intern(cell.Str)
	case ColLong, ColLong2:
		bitWidth := maskBitWidth(col.Mask >> col.Shift)
		if !fitsSigned(cell.I32, bitWidth) {
			return ValueOutOfRange(fmt.Sprintf("bcsv row %d column %s: value %d does not fit mask 0x%x",
				rowIdx, col.HashName(), cell.I32, col.Mask))
		}
		shifted := (uint32(cell.I32) << col.Shift) & col.Mask
		raw = readWidth(rowData, off, width) &^ col.Mask
		raw |= shifted
	default: // ColShort, ColChar
		bitWidth := maskBitWidth(col.Mask >> col.Shift)
		if cell.I32 < 0 || uint32(cell.I32) >= (uint32(1)<<bitWidth) {
			return ValueOutOfRange(fmt.Sprintf("bcsv row %d column %s: value %d does not fit mask 0x%x",
				rowIdx, col.HashName(), cell.I32, col.Mask))
		}
		shifted := (uint32(cell.I32) << col.Shift) & col.Mask
		raw = readWidth(rowData, off, width) &^ col.Mask
		raw |= shifted
	}

	writeWidth(rowData, off, width, raw)
	return nil
}

func fitsSigned(v int32, bitWidth uint) bool {
	if bitWidth == 0 {
		return v == 0
	}
	if bitWidth >= 32 {
		return true
	}
	lo := -(int32(1) << (bitWidth - 1))
	hi := (int32(1) << (bitWidth - 1)) - 1
	return v >= lo && v <= hi
}

func readWidth(buf []byte, off, width uint32) uint32 {
	switch width {
	case 1:
		return uint32(buf[off])
	case 2:
		return uint32(buf[off])<<8 | uint32(buf[off+1])
	default:
		return uint32(buf[off])<<24 | uint32(buf[off+1])<<16 | uint32(buf[off+2])<<8 | uint32(buf[off+3])
	}
}

func writeWidth(buf []byte, off, width, v uint32) {
	switch width {
	case 1:
		buf[off] = byte(v)
	case 2:
		buf[off] = byte(v >> 8)
		buf[off+1] = byte(v)
	default:
		buf[off] = byte(v >> 24)
		buf[off+1] = byte(v >> 16)
		buf[off+2] = byte(v >> 8)
		buf[off+3] = byte(v)
	}
}

func align4(v uint32) uint32 {
	return (v + 3) &^ 3
}
