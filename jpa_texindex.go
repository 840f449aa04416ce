// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

// TexIndexBlock (tag TEX1) terminates every resource's block chain,
// carrying the list of texture-pool indices the resource references. Its
// recorded count must equal the decoded particle's Textures list length
// (spec §3 invariant).
type TexIndexBlock struct {
	Indices []uint16 `json:"indices"`
}

func (t *TexIndexBlock) decodeBody(bs *ByteStream, bodyLen uint32) error {
	count, err := bs.ReadU16()
	if err != nil {
		return err
	}
	if _, err := bs.ReadBytes(2); err != nil { // padding
		return err
	}
	t.Indices = make([]uint16, count)
	for i := range t.Indices {
		if t.Indices[i], err = bs.ReadU16(); err != nil {
			return err
		}
	}
	return bs.AlignTo(4)
}

func (t *TexIndexBlock) encodeBody(bs *ByteStream) error {
	bs.WriteU16(uint16(len(t.Indices)))
	bs.WriteBytes([]byte{0, 0})
	for _, idx := range t.Indices {
		bs.WriteU16(idx)
	}
	bs.WriteAlignTo(4)
	return nil
}
