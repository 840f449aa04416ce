// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

// ParticlesDocument is the top-level Particles.json document: the ordered
// particle name list (ParticleNames.bcsv rebuilt from this on pack, row
// index == particle index) and the ordered texture name list (texture-pool
// order), per spec §4.8.
type ParticlesDocument struct {
	Particles []string `json:"particles"`
	Textures  []string `json:"textures"`
}

// ParticleDocument is one particle's Particles/<name>.json document: its
// full resource in block form, plus the names of the textures it
// references (resolved from texture-pool indices).
type ParticleDocument struct {
	DynamicsBlock DynamicsBlock `json:"dynamicsBlock"`
	FieldBlocks   []FieldBlock  `json:"fieldBlocks"`
	KeyBlocks     []KeyBlock    `json:"keyBlocks"`
	BaseShape     BaseShape     `json:"baseShape"`
	ExtraShape    ExtraShape    `json:"extraShape"`
	ChildShape    *ChildShape   `json:"childShape,omitempty"`
	ExTexShape    *ExTexShape   `json:"exTexShape,omitempty"`
	RawBlocks     []OpaqueBlock `json:"rawBlocks,omitempty"`
	Textures      []string      `json:"textures"`
}

// EffectsDocument is the top-level Effects.json document: every
// AutoEffectList row with defaults stripped (spec §4.8).
type EffectsDocument struct {
	Effects []EffectRow `json:"effects"`
}
