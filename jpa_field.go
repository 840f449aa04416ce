// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import "fmt"

// FieldType discriminates a FieldBlock's behavior; the same eight-float
// Params array means different things for different types, the
// "discriminated dispatch" spec §4.4 describes for FieldBlock's inner
// layout (type byte read first, then a per-type name table selects what
// each param slot means).
type FieldType uint8

const (
	FieldGravity    FieldType = 0
	FieldAir        FieldType = 1
	FieldMagnet     FieldType = 2
	FieldNewton     FieldType = 3
	FieldVortex     FieldType = 4
	FieldRandom     FieldType = 5
	FieldDrag       FieldType = 6
	FieldConvection FieldType = 7
	FieldSpin       FieldType = 8
)

// fieldParamNames names each of the 8 Params slots per FieldType — the
// "per-discriminator table nested under the parent descriptor" spec §4.4
// calls for. Types with fewer than 8 meaningful params simply leave the
// remaining names empty, and ParamName falls back to "param4"-style names
// for them. The JSON documents carry Params as a plain array; these names
// are used only by ParamName.
var fieldParamNames = map[FieldType][8]string{
	FieldGravity:    {"dirX", "dirY", "dirZ", "magnitude"},
	FieldAir:        {"dirX", "dirY", "dirZ", "magnitude", "maxDist"},
	FieldMagnet:     {"posX", "posY", "posZ", "power"},
	FieldNewton:     {"posX", "posY", "posZ", "power", "powerRandom", "refDistance", "refDistanceRandom", "radius"},
	FieldVortex:     {"posX", "posY", "posZ", "innerSpeed", "outerSpeed"},
	FieldRandom:     {"magnitude"},
	FieldDrag:       {"magnitude"},
	FieldConvection: {"posX", "posY", "posZ", "magnitude"},
	FieldSpin:       {"axisX", "axisY", "axisZ", "angularVel"},
}

// FieldBlock (tag FLD1) applies a single force to every particle in the
// resource for a bounded range of frames. A resource may carry zero or
// more of these.
type FieldBlock struct {
	Type         FieldType `json:"type"`
	Flags        uint32    `json:"flags"`
	Cycle        uint8     `json:"cycle"`
	FadeFlags    uint8     `json:"fadeFlags"`
	VelType      uint8     `json:"velType"`
	EnableFrame  int16     `json:"enableFrame"`
	DisableFrame int16     `json:"disableFrame"`
	FadeIn       int16     `json:"fadeIn"`
	FadeOut      int16     `json:"fadeOut"`
	Params       [8]float32 `json:"params"`
}

func (f *FieldBlock) decodeBody(bs *ByteStream, bodyLen uint32) error {
	typ, err := bs.ReadU8()
	if err != nil {
		return err
	}
	f.Type = FieldType(typ)
	if f.Cycle, err = bs.ReadU8(); err != nil {
		return err
	}
	if f.FadeFlags, err = bs.ReadU8(); err != nil {
		return err
	}
	if f.VelType, err = bs.ReadU8(); err != nil {
		return err
	}
	if f.Flags, err = bs.ReadU32(); err != nil {
		return err
	}
	if f.EnableFrame, err = bs.ReadI16(); err != nil {
		return err
	}
	if f.DisableFrame, err = bs.ReadI16(); err != nil {
		return err
	}
	if f.FadeIn, err = bs.ReadI16(); err != nil {
		return err
	}
	if f.FadeOut, err = bs.ReadI16(); err != nil {
		return err
	}
	for i := range f.Params {
		if f.Params[i], err = bs.ReadF32(); err != nil {
			return fmt.Errorf("field param %d: %w", i, err)
		}
	}
	return bs.AlignTo(4)
}

func (f *FieldBlock) encodeBody(bs *ByteStream) error {
	bs.WriteU8(uint8(f.Type))
	bs.WriteU8(f.Cycle)
	bs.WriteU8(f.FadeFlags)
	bs.WriteU8(f.VelType)
	bs.WriteU32(f.Flags)
	bs.WriteI16(f.EnableFrame)
	bs.WriteI16(f.DisableFrame)
	bs.WriteI16(f.FadeIn)
	bs.WriteI16(f.FadeOut)
	for _, v := range f.Params {
		bs.WriteF32(v)
	}
	bs.WriteAlignTo(4)
	return nil
}

// ParamName returns the human-readable name of Params[i] for this block's
// Type, or a generic "paramN" fallback when the type doesn't use that slot.
func (f *FieldBlock) ParamName(i int) string {
	names, ok := fieldParamNames[f.Type]
	if ok && i < len(names) && names[i] != "" {
		return names[i]
	}
	return fmt.Sprintf("param%d", i)
}
