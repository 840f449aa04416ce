// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

// KeyTarget discriminates which particle attribute a KeyBlock's curve
// drives over the particle's lifetime.
type KeyTarget uint8

const (
	KeyTargetScaleX    KeyTarget = 0
	KeyTargetScaleY    KeyTarget = 1
	KeyTargetAlpha     KeyTarget = 2
	KeyTargetColorPrm  KeyTarget = 3
	KeyTargetColorEnv  KeyTarget = 4
	KeyTargetTexIndex  KeyTarget = 5
	KeyTargetRotateX   KeyTarget = 6
	KeyTargetRotateY   KeyTarget = 7
	KeyTargetRotateZ   KeyTarget = 8
)

// Keyframe is one control point of a KeyBlock curve: a time, a value, and
// Hermite in/out tangents — the "array(count_field, element_descriptor)"
// shape spec §4.4 names, here with a fixed 16-byte element.
type Keyframe struct {
	Time    float32 `json:"time"`
	Value   float32 `json:"value"`
	TangentIn  float32 `json:"tangentIn"`
	TangentOut float32 `json:"tangentOut"`
}

// KeyBlock (tag KFA1) is one animation curve over a single particle
// attribute; a resource carries zero or more.
type KeyBlock struct {
	Target KeyTarget  `json:"target"`
	Keys   []Keyframe `json:"keys"`
}

func (k *KeyBlock) decodeBody(bs *ByteStream, bodyLen uint32) error {
	target, err := bs.ReadU8()
	if err != nil {
		return err
	}
	k.Target = KeyTarget(target)
	if _, err := bs.ReadBytes(1); err != nil { // padding
		return err
	}
	count, err := bs.ReadU16()
	if err != nil {
		return err
	}
	k.Keys = make([]Keyframe, count)
	for i := range k.Keys {
		var kf Keyframe
		if kf.Time, err = bs.ReadF32(); err != nil {
			return err
		}
		if kf.Value, err = bs.ReadF32(); err != nil {
			return err
		}
		if kf.TangentIn, err = bs.ReadF32(); err != nil {
			return err
		}
		if kf.TangentOut, err = bs.ReadF32(); err != nil {
			return err
		}
		k.Keys[i] = kf
	}
	return bs.AlignTo(4)
}

func (k *KeyBlock) encodeBody(bs *ByteStream) error {
	bs.WriteU8(uint8(k.Target))
	bs.WriteU8(0)
	bs.WriteU16(uint16(len(k.Keys)))
	for _, kf := range k.Keys {
		bs.WriteF32(kf.Time)
		bs.WriteF32(kf.Value)
		bs.WriteF32(kf.TangentIn)
		bs.WriteF32(kf.TangentOut)
	}
	bs.WriteAlignTo(4)
	return nil
}
