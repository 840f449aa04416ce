// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"bytes"
	"testing"

	"github.com/galaxytools/jpac/internal/logx"
)

func sampleResource() *Resource {
	return &Resource{
		Dynamics: &DynamicsBlock{
			MaxParticles: 100,
			EmitterScale: [3]float32{1, 1, 1},
		},
		Fields: []FieldBlock{
			{Type: FieldGravity, Params: [8]float32{0, -1, 0, 9.8}},
		},
		Keys: []KeyBlock{
			{Target: KeyTargetAlpha, Keys: []Keyframe{{Time: 0, Value: 1}, {Time: 30, Value: 0}}},
		},
		BaseShape: &BaseShape{
			ShapeType: ShapeBillboard,
			BaseSize:  [2]float32{1, 1},
		},
		ExtraShape:     &ExtraShape{ScaleInValue: 1},
		TextureIndices: []uint16{0},
	}
}

func TestResourceEncodeDecodeRoundTrip(t *testing.T) {
	want := sampleResource()
	encoded, err := encodeResource(want)
	if err != nil {
		t.Fatalf("encodeResource: %v", err)
	}
	if len(encoded)%4 != 0 {
		t.Fatalf("encoded resource length %d is not 4-byte aligned", len(encoded))
	}

	got, err := decodeResource(NewByteStream(encoded), false, logx.Discard())
	if err != nil {
		t.Fatalf("decodeResource: %v", err)
	}
	if got.Dynamics.MaxParticles != want.Dynamics.MaxParticles {
		t.Fatalf("MaxParticles = %d, want %d", got.Dynamics.MaxParticles, want.Dynamics.MaxParticles)
	}
	if len(got.Fields) != 1 || got.Fields[0].Type != FieldGravity {
		t.Fatalf("Fields = %+v", got.Fields)
	}
	if len(got.Keys) != 1 || len(got.Keys[0].Keys) != 2 {
		t.Fatalf("Keys = %+v", got.Keys)
	}
	if got.BaseShape.ShapeType != ShapeBillboard {
		t.Fatalf("BaseShape.ShapeType = %v", got.BaseShape.ShapeType)
	}
	if len(got.TextureIndices) != 1 || got.TextureIndices[0] != 0 {
		t.Fatalf("TextureIndices = %v", got.TextureIndices)
	}
}

func TestResourceMissingRequiredBlockFailsEncode(t *testing.T) {
	r := sampleResource()
	r.BaseShape = nil
	if _, err := encodeResource(r); err == nil {
		t.Fatal("expected MissingBlock error when BaseShape is nil")
	}
}

func TestJPCEmptyContainerRoundTrip(t *testing.T) {
	c := &Container{}
	encoded, err := EncodeJPC(c)
	if err != nil {
		t.Fatalf("EncodeJPC: %v", err)
	}

	got, err := DecodeJPC(encoded, false, logx.Discard())
	if err != nil {
		t.Fatalf("DecodeJPC: %v", err)
	}
	if len(got.Resources) != 0 || len(got.Textures) != 0 {
		t.Fatalf("got %d resources, %d textures, want 0, 0", len(got.Resources), len(got.Textures))
	}

	reEncoded, err := EncodeJPC(got)
	if err != nil {
		t.Fatalf("re-EncodeJPC: %v", err)
	}
	if !bytes.Equal(encoded, reEncoded) {
		t.Fatal("empty container did not reach a byte-identical fixpoint after one cycle")
	}
}

func TestJPCSingleResourceSingleTextureRoundTrip(t *testing.T) {
	c := &Container{
		Resources: []*Resource{sampleResource()},
		Textures: []Texture{
			{NameHash: JGadgetHash("mr_glow01_i"), Data: []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		},
	}
	encoded, err := EncodeJPC(c)
	if err != nil {
		t.Fatalf("EncodeJPC: %v", err)
	}

	got, err := DecodeJPC(encoded, false, logx.Discard())
	if err != nil {
		t.Fatalf("DecodeJPC: %v", err)
	}
	if len(got.Resources) != 1 {
		t.Fatalf("got %d resources, want 1", len(got.Resources))
	}
	if len(got.Textures) != 1 || got.Textures[0].NameHash != JGadgetHash("mr_glow01_i") {
		t.Fatalf("got textures %+v", got.Textures)
	}
	if !bytes.Equal(got.Textures[0].Data, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Fatalf("texture data mismatch: %x", got.Textures[0].Data)
	}
}

func TestJPCTextureDeduplication(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	c := &Container{
		Resources: []*Resource{
			func() *Resource { r := sampleResource(); r.TextureIndices = []uint16{0}; return r }(),
			func() *Resource { r := sampleResource(); r.TextureIndices = []uint16{1}; return r }(),
		},
		Textures: []Texture{
			{NameHash: JGadgetHash("tex_a"), Data: data},
			{NameHash: JGadgetHash("tex_b"), Data: append([]byte(nil), data...)},
		},
	}

	encoded, err := EncodeJPC(c)
	if err != nil {
		t.Fatalf("EncodeJPC: %v", err)
	}
	got, err := DecodeJPC(encoded, false, logx.Discard())
	if err != nil {
		t.Fatalf("DecodeJPC: %v", err)
	}
	if len(got.Textures) != 1 {
		t.Fatalf("got %d deduplicated textures, want 1", len(got.Textures))
	}
	for i, r := range got.Resources {
		if r.TextureIndices[0] != 0 {
			t.Fatalf("resource %d texture index = %d, want 0 after dedup", i, r.TextureIndices[0])
		}
	}
}

func TestJPCInvalidMagic(t *testing.T) {
	bad := make([]byte, 16)
	copy(bad, "NOTJPAC")
	if _, err := DecodeJPC(bad, false, logx.Discard()); err == nil {
		t.Fatal("expected InvalidMagic error")
	}
}

func FuzzJPCRoundTrip(f *testing.F) {
	c := &Container{
		Resources: []*Resource{sampleResource()},
		Textures:  []Texture{{NameHash: JGadgetHash("seed"), Data: []byte{1, 2, 3, 4}}},
	}
	seed, err := EncodeJPC(c)
	if err != nil {
		f.Fatalf("EncodeJPC seed: %v", err)
	}
	f.Add(seed)
	f.Add([]byte{})
	f.Add([]byte("JPAC2-10\x00\x00\x00\x00"))

	f.Fuzz(func(t *testing.T, data []byte) {
		container, err := DecodeJPC(data, false, logx.Discard())
		if err != nil {
			return
		}
		if _, err := EncodeJPC(container); err != nil {
			t.Fatalf("EncodeJPC of a successfully decoded container must not fail: %v", err)
		}
	})
}
