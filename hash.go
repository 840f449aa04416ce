// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import "github.com/cespare/xxhash/v2"

// JGadgetHash computes the column-name / texture-name hash used throughout
// BCSV and JPC: seeded at 0, each byte updates h = h*31 + byte (mod 2^32).
// This is a wire-format invariant, not an implementation choice — it must
// never be swapped for a faster or "better" hash, since the hash itself is
// the on-disk column/texture identifier.
func JGadgetHash(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

// contentHash returns a 64-bit digest used purely for in-memory dedup
// lookups (the StringPool's suffix/whole-string index, and the JPC texture
// pool's byte-identity dedup at write time). It has no on-disk
// representation and is never compared across runs or process versions; it
// exists only to avoid O(n^2) linear scans over already-seen byte strings.
func contentHash(b []byte) uint64 {
	return xxhash.Sum64(b)
}
