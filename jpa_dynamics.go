// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

// DynamicsBlock (tag BEM1) carries the emitter-level simulation
// parameters every particle resource has exactly one of: spawn volume,
// emission timing, initial velocity, and the forces applied uniformly to
// every particle the emitter spawns (gravity, air resistance, moment).
type DynamicsBlock struct {
	Flags    uint32 `json:"flags"`
	EmitFlags uint32 `json:"emitFlags"`

	VolumeType   uint8   `json:"volumeType"`
	VolumeSweep  float32 `json:"volumeSweep"`
	VolumeMinRad float32 `json:"volumeMinRad"`
	VolumeSize   float32 `json:"volumeSize"`

	Divisor     int32 `json:"divisor"`
	Rate        int16 `json:"rate"`
	RateRandom  int16 `json:"rateRandom"`
	MaxFrame    int16 `json:"maxFrame"`
	StartFrame  int16 `json:"startFrame"`
	LifeTime    int16 `json:"lifeTime"`
	LifeTimeRnd int16 `json:"lifeTimeRandom"`
	MaxParticles int16 `json:"maxParticles"`

	InitialVelOmni  float32 `json:"initialVelOmni"`
	InitialVelAxis  float32 `json:"initialVelAxis"`
	InitialVelRndm  float32 `json:"initialVelRandom"`
	InitialVelDir   float32 `json:"initialVelDir"`
	InitialVelRatio float32 `json:"initialVelRatio"`
	Spread          float32 `json:"spread"`

	AirResist     float32 `json:"airResist"`
	AirResistRndm float32 `json:"airResistRandom"`
	MomentRndm    float32 `json:"momentRandom"`

	EmitterScale       [3]float32 `json:"emitterScale"`
	EmitterTranslation [3]float32 `json:"emitterTranslation"`
	EmitterRotation    [3]float32 `json:"emitterRotation"`
	Direction          [3]float32 `json:"direction"`
	Gravity            [3]float32 `json:"gravity"`

	ColorPrm Color `json:"colorPrm"`
	ColorEnv Color `json:"colorEnv"`
}

func (d *DynamicsBlock) decodeBody(bs *ByteStream, bodyLen uint32) error {
	var err error
	read := func(f func() error) {
		if err == nil {
			err = f()
		}
	}
	read(func() (e error) { d.Flags, e = bs.ReadU32(); return })
	read(func() (e error) { d.EmitFlags, e = bs.ReadU32(); return })
	read(func() (e error) { d.VolumeType, e = bs.ReadU8(); return })
	read(func() error { _, e := bs.ReadBytes(3); return e }) // alignment padding
	read(func() (e error) { d.VolumeSweep, e = bs.ReadF32(); return })
	read(func() (e error) { d.VolumeMinRad, e = bs.ReadF32(); return })
	read(func() (e error) { d.VolumeSize, e = bs.ReadF32(); return })
	read(func() (e error) { d.Divisor, e = bs.ReadI32(); return })
	read(func() (e error) { d.Rate, e = bs.ReadI16(); return })
	read(func() (e error) { d.RateRandom, e = bs.ReadI16(); return })
	read(func() (e error) { d.MaxFrame, e = bs.ReadI16(); return })
	read(func() (e error) { d.StartFrame, e = bs.ReadI16(); return })
	read(func() (e error) { d.LifeTime, e = bs.ReadI16(); return })
	read(func() (e error) { d.LifeTimeRnd, e = bs.ReadI16(); return })
	read(func() (e error) { d.MaxParticles, e = bs.ReadI16(); return })
	read(func() error { _, e := bs.ReadBytes(2); return e }) // alignment padding
	read(func() (e error) { d.InitialVelOmni, e = bs.ReadF32(); return })
	read(func() (e error) { d.InitialVelAxis, e = bs.ReadF32(); return })
	read(func() (e error) { d.InitialVelRndm, e = bs.ReadF32(); return })
	read(func() (e error) { d.InitialVelDir, e = bs.ReadF32(); return })
	read(func() (e error) { d.InitialVelRatio, e = bs.ReadF32(); return })
	read(func() (e error) { d.Spread, e = bs.ReadF32(); return })
	read(func() (e error) { d.AirResist, e = bs.ReadF32(); return })
	read(func() (e error) { d.AirResistRndm, e = bs.ReadF32(); return })
	read(func() (e error) { d.MomentRndm, e = bs.ReadF32(); return })
	for i := range d.EmitterScale {
		read(func() (e error) { d.EmitterScale[i], e = bs.ReadF32(); return })
	}
	for i := range d.EmitterTranslation {
		read(func() (e error) { d.EmitterTranslation[i], e = bs.ReadF32(); return })
	}
	for i := range d.EmitterRotation {
		read(func() (e error) { d.EmitterRotation[i], e = bs.ReadF32(); return })
	}
	for i := range d.Direction {
		read(func() (e error) { d.Direction[i], e = bs.ReadF32(); return })
	}
	for i := range d.Gravity {
		read(func() (e error) { d.Gravity[i], e = bs.ReadF32(); return })
	}
	read(func() (e error) { d.ColorPrm, e = d.ColorPrm.readFrom(bs); return })
	read(func() (e error) { d.ColorEnv, e = d.ColorEnv.readFrom(bs); return })
	if err != nil {
		return err
	}
	return bs.AlignTo(4)
}

func (d *DynamicsBlock) encodeBody(bs *ByteStream) error {
	bs.WriteU32(d.Flags)
	bs.WriteU32(d.EmitFlags)
	bs.WriteU8(d.VolumeType)
	bs.WriteBytes([]byte{0, 0, 0})
	bs.WriteF32(d.VolumeSweep)
	bs.WriteF32(d.VolumeMinRad)
	bs.WriteF32(d.VolumeSize)
	bs.WriteI32(d.Divisor)
	bs.WriteI16(d.Rate)
	bs.WriteI16(d.RateRandom)
	bs.WriteI16(d.MaxFrame)
	bs.WriteI16(d.StartFrame)
	bs.WriteI16(d.LifeTime)
	bs.WriteI16(d.LifeTimeRnd)
	bs.WriteI16(d.MaxParticles)
	bs.WriteBytes([]byte{0, 0})
	bs.WriteF32(d.InitialVelOmni)
	bs.WriteF32(d.InitialVelAxis)
	bs.WriteF32(d.InitialVelRndm)
	bs.WriteF32(d.InitialVelDir)
	bs.WriteF32(d.InitialVelRatio)
	bs.WriteF32(d.Spread)
	bs.WriteF32(d.AirResist)
	bs.WriteF32(d.AirResistRndm)
	bs.WriteF32(d.MomentRndm)
	for _, v := range d.EmitterScale {
		bs.WriteF32(v)
	}
	for _, v := range d.EmitterTranslation {
		bs.WriteF32(v)
	}
	for _, v := range d.EmitterRotation {
		bs.WriteF32(v)
	}
	for _, v := range d.Direction {
		bs.WriteF32(v)
	}
	for _, v := range d.Gravity {
		bs.WriteF32(v)
	}
	d.ColorPrm.writeTo(bs)
	d.ColorEnv.writeTo(bs)
	bs.WriteAlignTo(4)
	return nil
}
