// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

// ShapeKind enumerates how a particle quad/line is billboarded and drawn.
type ShapeKind uint8

const (
	ShapePoint       ShapeKind = 0
	ShapeLine        ShapeKind = 1
	ShapeBillboard   ShapeKind = 2
	ShapeDirectional ShapeKind = 3
	ShapeStripe      ShapeKind = 4
)

// BaseShape (tag BSP1) describes the particle's primitive draw shape,
// blend mode, base texture, and base size/color. Every resource has
// exactly one.
type BaseShape struct {
	ShapeType    ShapeKind `json:"shapeType"`
	BlendMode    uint8     `json:"blendMode"`
	ZCompareMode uint8     `json:"zCompareMode"`
	AlphaCompareMode uint8 `json:"alphaCompareMode"`
	Flags        uint32    `json:"flags"`
	TextureIndex uint16    `json:"textureIndex"`
	TilingS      uint8     `json:"tilingS"`
	TilingT      uint8     `json:"tilingT"`
	BaseSize     [2]float32 `json:"baseSize"`
	ColorPrm     Color     `json:"colorPrm"`
	ColorEnv     Color     `json:"colorEnv"`
	ColorAnimFlags uint8   `json:"colorAnimFlags"`
}

func (s *BaseShape) decodeBody(bs *ByteStream, bodyLen uint32) error {
	var err error
	typ, err := bs.ReadU8()
	if err != nil {
		return err
	}
	s.ShapeType = ShapeKind(typ)
	if s.BlendMode, err = bs.ReadU8(); err != nil {
		return err
	}
	if s.ZCompareMode, err = bs.ReadU8(); err != nil {
		return err
	}
	if s.AlphaCompareMode, err = bs.ReadU8(); err != nil {
		return err
	}
	if s.Flags, err = bs.ReadU32(); err != nil {
		return err
	}
	if s.TextureIndex, err = bs.ReadU16(); err != nil {
		return err
	}
	if s.TilingS, err = bs.ReadU8(); err != nil {
		return err
	}
	if s.TilingT, err = bs.ReadU8(); err != nil {
		return err
	}
	for i := range s.BaseSize {
		if s.BaseSize[i], err = bs.ReadF32(); err != nil {
			return err
		}
	}
	if s.ColorPrm, err = s.ColorPrm.readFrom(bs); err != nil {
		return err
	}
	if s.ColorEnv, err = s.ColorEnv.readFrom(bs); err != nil {
		return err
	}
	if s.ColorAnimFlags, err = bs.ReadU8(); err != nil {
		return err
	}
	return bs.AlignTo(4)
}

func (s *BaseShape) encodeBody(bs *ByteStream) error {
	bs.WriteU8(uint8(s.ShapeType))
	bs.WriteU8(s.BlendMode)
	bs.WriteU8(s.ZCompareMode)
	bs.WriteU8(s.AlphaCompareMode)
	bs.WriteU32(s.Flags)
	bs.WriteU16(s.TextureIndex)
	bs.WriteU8(s.TilingS)
	bs.WriteU8(s.TilingT)
	for _, v := range s.BaseSize {
		bs.WriteF32(v)
	}
	s.ColorPrm.writeTo(bs)
	s.ColorEnv.writeTo(bs)
	bs.WriteU8(s.ColorAnimFlags)
	bs.WriteAlignTo(4)
	return nil
}

// ExtraShape (tag ESP1) carries scale/alpha/rotation animation timing
// applied on top of BaseShape. Every resource has exactly one.
type ExtraShape struct {
	ScaleInTiming    float32 `json:"scaleInTiming"`
	ScaleOutTiming   float32 `json:"scaleOutTiming"`
	ScaleInValue     float32 `json:"scaleInValue"`
	ScaleOutValue    float32 `json:"scaleOutValue"`
	AlphaInTiming    float32 `json:"alphaInTiming"`
	AlphaOutTiming   float32 `json:"alphaOutTiming"`
	AlphaInValue     float32 `json:"alphaInValue"`
	AlphaBaseValue   float32 `json:"alphaBaseValue"`
	AlphaOutValue    float32 `json:"alphaOutValue"`
	RotateAngle       float32 `json:"rotateAngle"`
	RotateAngleRandom float32 `json:"rotateAngleRandom"`
	RotateSpeed       float32 `json:"rotateSpeed"`
	RotateSpeedRandom float32 `json:"rotateSpeedRandom"`
	RotateDirection   float32 `json:"rotateDirection"`
	Flags             uint32  `json:"flags"`
}

func (e *ExtraShape) decodeBody(bs *ByteStream, bodyLen uint32) error {
	fields := []*float32{
		&e.ScaleInTiming, &e.ScaleOutTiming, &e.ScaleInValue, &e.ScaleOutValue,
		&e.AlphaInTiming, &e.AlphaOutTiming, &e.AlphaInValue, &e.AlphaBaseValue, &e.AlphaOutValue,
		&e.RotateAngle, &e.RotateAngleRandom, &e.RotateSpeed, &e.RotateSpeedRandom, &e.RotateDirection,
	}
	for _, f := range fields {
		v, err := bs.ReadF32()
		if err != nil {
			return err
		}
		*f = v
	}
	flags, err := bs.ReadU32()
	if err != nil {
		return err
	}
	e.Flags = flags
	return bs.AlignTo(4)
}

func (e *ExtraShape) encodeBody(bs *ByteStream) error {
	fields := []float32{
		e.ScaleInTiming, e.ScaleOutTiming, e.ScaleInValue, e.ScaleOutValue,
		e.AlphaInTiming, e.AlphaOutTiming, e.AlphaInValue, e.AlphaBaseValue, e.AlphaOutValue,
		e.RotateAngle, e.RotateAngleRandom, e.RotateSpeed, e.RotateSpeedRandom, e.RotateDirection,
	}
	for _, v := range fields {
		bs.WriteF32(v)
	}
	bs.WriteU32(e.Flags)
	bs.WriteAlignTo(4)
	return nil
}

// ChildShape (tag SSP1, optional) describes secondary particles spawned
// from each primary particle (e.g. splash/trail effects). At most one per
// resource.
type ChildShape struct {
	ShapeType       ShapeKind `json:"shapeType"`
	BlendMode       uint8     `json:"blendMode"`
	TextureIndex    uint16    `json:"textureIndex"`
	Rate            int16     `json:"rate"`
	Timing          float32   `json:"timing"`
	Life            int16     `json:"life"`
	VelocityInherit float32   `json:"velocityInherit"`
	BaseSize        float32   `json:"baseSize"`
	ColorPrm        Color     `json:"colorPrm"`
	ColorEnv        Color     `json:"colorEnv"`
	Flags           uint32    `json:"flags"`
}

func (c *ChildShape) decodeBody(bs *ByteStream, bodyLen uint32) error {
	typ, err := bs.ReadU8()
	if err != nil {
		return err
	}
	c.ShapeType = ShapeKind(typ)
	if c.BlendMode, err = bs.ReadU8(); err != nil {
		return err
	}
	if c.TextureIndex, err = bs.ReadU16(); err != nil {
		return err
	}
	if c.Rate, err = bs.ReadI16(); err != nil {
		return err
	}
	if c.Life, err = bs.ReadI16(); err != nil {
		return err
	}
	if c.Timing, err = bs.ReadF32(); err != nil {
		return err
	}
	if c.VelocityInherit, err = bs.ReadF32(); err != nil {
		return err
	}
	if c.BaseSize, err = bs.ReadF32(); err != nil {
		return err
	}
	if c.ColorPrm, err = c.ColorPrm.readFrom(bs); err != nil {
		return err
	}
	if c.ColorEnv, err = c.ColorEnv.readFrom(bs); err != nil {
		return err
	}
	if c.Flags, err = bs.ReadU32(); err != nil {
		return err
	}
	return bs.AlignTo(4)
}

func (c *ChildShape) encodeBody(bs *ByteStream) error {
	bs.WriteU8(uint8(c.ShapeType))
	bs.WriteU8(c.BlendMode)
	bs.WriteU16(c.TextureIndex)
	bs.WriteI16(c.Rate)
	bs.WriteI16(c.Life)
	bs.WriteF32(c.Timing)
	bs.WriteF32(c.VelocityInherit)
	bs.WriteF32(c.BaseSize)
	c.ColorPrm.writeTo(bs)
	c.ColorEnv.writeTo(bs)
	bs.WriteU32(c.Flags)
	bs.WriteAlignTo(4)
	return nil
}

// ExTexShape (tag ETX1, optional) describes a secondary (indirect
// distortion) texture layered on top of the base shape. At most one per
// resource.
type ExTexShape struct {
	TextureIndex  uint16     `json:"textureIndex"`
	Flags         uint32     `json:"flags"`
	IndTextureMtx [6]float32 `json:"indTextureMtx"`
	ScaleAnimSpeed [2]float32 `json:"scaleAnimSpeed"`
}

func (x *ExTexShape) decodeBody(bs *ByteStream, bodyLen uint32) error {
	var err error
	if x.TextureIndex, err = bs.ReadU16(); err != nil {
		return err
	}
	if _, err = bs.ReadBytes(2); err != nil { // padding
		return err
	}
	if x.Flags, err = bs.ReadU32(); err != nil {
		return err
	}
	for i := range x.IndTextureMtx {
		if x.IndTextureMtx[i], err = bs.ReadF32(); err != nil {
			return err
		}
	}
	for i := range x.ScaleAnimSpeed {
		if x.ScaleAnimSpeed[i], err = bs.ReadF32(); err != nil {
			return err
		}
	}
	return bs.AlignTo(4)
}

func (x *ExTexShape) encodeBody(bs *ByteStream) error {
	bs.WriteU16(x.TextureIndex)
	bs.WriteBytes([]byte{0, 0})
	bs.WriteU32(x.Flags)
	for _, v := range x.IndTextureMtx {
		bs.WriteF32(v)
	}
	for _, v := range x.ScaleAnimSpeed {
		bs.WriteF32(v)
	}
	bs.WriteAlignTo(4)
	return nil
}
