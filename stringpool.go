// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"bytes"

	"golang.org/x/text/encoding/japanese"
)

// sjis is the Shift-JIS codec every BCSV/BTI string payload is decoded and
// encoded through (spec §3: "Shift-JIS compatible ASCII subset in
// practice"). The teacher reaches for golang.org/x/text/encoding/unicode to
// decode UTF-16 import names the same way instead of a raw byte cast; this
// codec's on-disk strings are Shift-JIS, so it reaches for the sibling
// japanese encoding instead.
var sjis = japanese.ShiftJIS

// StringPool is a content-addressed pool that interns UTF-8 strings into a
// single concatenated blob, returning byte offsets. BCSV string cells point
// into a pool built this way.
//
// Two kinds of reuse are supported: exact reuse (interning the same string
// twice returns the same offset) and suffix sharing (interning "bar" when
// the pool already ends with "foobar\x00" may return the offset of the "b"
// in "foobar", since "bar\x00" is already a valid suffix of the blob).
// Suffix sharing only affects file size, never correctness — a decoder
// reads until the next NUL regardless of how the bytes got there.
type StringPool struct {
	blob []byte
	// offsets maps an exact interned string to its recorded offset, so
	// repeated intern(s) calls for the same string are O(1).
	offsets map[string]uint32
	// bySuffixHash indexes candidate suffixes of blob (a NUL-terminated
	// tail starting at some earlier NUL boundary) by content hash, so
	// suffix-sharing lookups stay O(1) amortized instead of scanning the
	// whole blob for every intern call.
	bySuffixHash map[uint64][]uint32
	// order preserves first-occurrence insertion order; the spec mandates
	// deterministic alphabetical-by-first-occurrence output, which for a
	// deterministic row-iteration order is exactly this recorded order.
	order []string
	// suffixSharing enables the optional suffix-sharing optimization.
	suffixSharing bool
}

// NewStringPool returns an empty pool. Suffix sharing is enabled by
// default, matching the writer behavior this codec targets; pass false to
// intern every string as a fresh run (still round-trip compatible with any
// reader, since suffix sharing is decoder-transparent).
func NewStringPool(suffixSharing bool) *StringPool {
	return &StringPool{
		offsets:       make(map[string]uint32),
		bySuffixHash:  make(map[uint64][]uint32),
		suffixSharing: suffixSharing,
	}
}

// Intern records s (if not already present) and returns its byte offset
// within the eventual pool blob.
func (p *StringPool) Intern(s string) uint32 {
	if off, ok := p.offsets[s]; ok {
		return off
	}

	encoded, err := sjis.NewEncoder().String(s)
	if err != nil {
		// Not representable in Shift-JIS; store the raw UTF-8 bytes rather
		// than fail the whole encode, matching the reader's tolerance for
		// an undecodable tail (see At).
		encoded = s
	}

	if p.suffixSharing {
		if off, ok := p.findSuffix(encoded); ok {
			p.offsets[s] = off
			p.order = append(p.order, s)
			return off
		}
	}

	off := uint32(len(p.blob))
	p.blob = append(p.blob, []byte(encoded)...)
	p.blob = append(p.blob, 0)
	p.offsets[s] = off
	p.order = append(p.order, s)
	p.indexSuffixesOf(encoded, off)
	return off
}

// findSuffix looks for an existing "<s>\x00" sequence already present as a
// suffix of a previously-interned string (or the whole blob), returning its
// offset if found.
func (p *StringPool) findSuffix(s string) (uint32, bool) {
	needle := append([]byte(s), 0)
	h := contentHash(needle)
	for _, off := range p.bySuffixHash[h] {
		if int(off)+len(needle) <= len(p.blob) && bytes.Equal(p.blob[off:int(off)+len(needle)], needle) {
			return off, true
		}
	}
	return 0, false
}

// indexSuffixesOf registers every NUL-terminated suffix of the newly
// appended "<s>\x00" run (i.e. every tail starting at each byte position)
// as a candidate for future suffix sharing.
func (p *StringPool) indexSuffixesOf(s string, baseOffset uint32) {
	full := append([]byte(s), 0)
	for i := 0; i < len(full); i++ {
		suffix := full[i:]
		h := contentHash(suffix)
		p.bySuffixHash[h] = append(p.bySuffixHash[h], baseOffset+uint32(i))
	}
}

// Len returns the current unpadded blob length.
func (p *StringPool) Len() uint32 { return uint32(len(p.blob)) }

// Bytes returns the pool blob padded with NUL bytes to a 32-byte boundary,
// per the BCSV on-disk layout.
func (p *StringPool) Bytes() []byte {
	out := make([]byte, len(p.blob))
	copy(out, p.blob)
	for len(out)%32 != 0 {
		out = append(out, 0)
	}
	return out
}

// Strings returns every interned string in first-occurrence order.
func (p *StringPool) Strings() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// readStringPool wraps a raw decoded string pool blob (read from a BCSV
// file) for lookups by offset; it performs no interning itself, since a
// pool read from disk is used read-only.
type readStringPool struct {
	blob []byte
}

func newReadStringPool(blob []byte) *readStringPool {
	return &readStringPool{blob: blob}
}

// At decodes the NUL-terminated string starting at offset, bounded by the
// pool length.
func (p *readStringPool) At(offset uint32) (string, error) {
	if offset > uint32(len(p.blob)) {
		return "", Truncated("string pool offset beyond pool length")
	}
	end := offset
	for end < uint32(len(p.blob)) && p.blob[end] != 0 {
		end++
	}
	raw := p.blob[offset:end]
	decoded, err := sjis.NewDecoder().Bytes(raw)
	if err != nil {
		// Malformed Shift-JIS (or plain ASCII/UTF-8 already): fall back to
		// the raw bytes rather than fail the whole read.
		return string(raw), nil
	}
	return string(decoded), nil
}
