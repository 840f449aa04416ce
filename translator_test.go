// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"fmt"
	"testing"
)

func buildSampleJPC(t *testing.T) []byte {
	t.Helper()
	c := &Container{
		Resources: []*Resource{sampleResource()},
		Textures:  []Texture{{NameHash: JGadgetHash("mr_glow01_i"), Name: "mr_glow01_i", Data: []byte{1, 2, 3, 4}}},
	}
	encoded, err := EncodeJPC(c)
	if err != nil {
		t.Fatalf("EncodeJPC: %v", err)
	}
	return encoded
}

func buildSampleBCSVs(t *testing.T) (particleNames, autoEffect []byte) {
	t.Helper()
	nameRows := []Row{{"name": StringCell("Kuribo")}}
	var err error
	particleNames, err = EncodeBCSV(particleNamesColumns(), nameRows)
	if err != nil {
		t.Fatalf("EncodeBCSV(particleNames): %v", err)
	}

	effectRows := []Row{effectRowToBCSVRow(EffectRow{
		GroupName:  "Kuribo",
		UniqueName: "Main",
		EffectName: []string{"Smoke"},
		EndFrame:   -1,
		ScaleValue: 1,
		RateValue:  1,
	})}
	autoEffect, err = EncodeBCSV(autoEffectListColumns(), effectRows)
	if err != nil {
		t.Fatalf("EncodeBCSV(autoEffect): %v", err)
	}
	return particleNames, autoEffect
}

func TestDumpPackRoundTrip(t *testing.T) {
	jpc := buildSampleJPC(t)
	particleNames, autoEffect := buildSampleBCSVs(t)

	texDict := NewNameDictionary("mr_glow01_i")
	dumpOut, err := Dump(DumpInputs{
		JPC:           jpc,
		ParticleNames: particleNames,
		AutoEffect:    autoEffect,
		TextureNames:  texDict,
	})
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if len(dumpOut.ParticleFiles) != 1 {
		t.Fatalf("got %d particle files, want 1", len(dumpOut.ParticleFiles))
	}
	particleJSON, ok := dumpOut.ParticleFiles["Kuribo"]
	if !ok {
		t.Fatalf("missing particle document for Kuribo, got %v", dumpOut.ParticleFiles)
	}
	texData, ok := dumpOut.Textures["mr_glow01_i"]
	if !ok || len(texData) != 4 {
		t.Fatalf("missing or malformed texture data: %v", dumpOut.Textures)
	}

	packOut, err := Pack(PackInputs{
		ParticlesJSON: dumpOut.ParticlesJSON,
		EffectsJSON:   dumpOut.EffectsJSON,
		ParticleFiles: map[string][]byte{"Kuribo": particleJSON},
		Textures:      map[string][]byte{"mr_glow01_i": texData},
	})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	reDumped, err := Dump(DumpInputs{
		JPC:           packOut.JPC,
		ParticleNames: packOut.ParticleNames,
		AutoEffect:    packOut.AutoEffect,
		TextureNames:  texDict,
	})
	if err != nil {
		t.Fatalf("re-Dump: %v", err)
	}
	if string(reDumped.ParticlesJSON) != string(dumpOut.ParticlesJSON) {
		t.Fatalf("particles.json changed across a dump/pack/dump cycle:\n got  %s\n want %s", reDumped.ParticlesJSON, dumpOut.ParticlesJSON)
	}
	if string(reDumped.EffectsJSON) != string(dumpOut.EffectsJSON) {
		t.Fatalf("effects.json changed across a dump/pack/dump cycle:\n got  %s\n want %s", reDumped.EffectsJSON, dumpOut.EffectsJSON)
	}
}

func TestDumpUnresolvedTextureNameFallsBackToHexAlias(t *testing.T) {
	jpc := buildSampleJPC(t)
	particleNames, autoEffect := buildSampleBCSVs(t)

	out, err := Dump(DumpInputs{JPC: jpc, ParticleNames: particleNames, AutoEffect: autoEffect})
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	wantAlias := fmt.Sprintf("_0x%08x", JGadgetHash("mr_glow01_i"))
	if _, ok := out.Textures[wantAlias]; !ok {
		t.Fatalf("expected hex alias %q in textures, got %v", wantAlias, out.Textures)
	}
}

func TestDumpRejectsParticleCountMismatch(t *testing.T) {
	jpc := buildSampleJPC(t)
	_, autoEffect := buildSampleBCSVs(t)
	emptyNames, err := EncodeBCSV(particleNamesColumns(), nil)
	if err != nil {
		t.Fatalf("EncodeBCSV: %v", err)
	}
	if _, err := Dump(DumpInputs{JPC: jpc, ParticleNames: emptyNames, AutoEffect: autoEffect}); err == nil {
		t.Fatal("expected DanglingReference when particle name count does not match resource count")
	}
}

func TestPackRejectsUnknownParentName(t *testing.T) {
	jpc := buildSampleJPC(t)
	particleNames, _ := buildSampleBCSVs(t)
	particlesDoc, err := marshalIndented(ParticlesDocument{Particles: []string{"Kuribo"}, Textures: []string{"mr_glow01_i"}})
	if err != nil {
		t.Fatalf("marshalIndented: %v", err)
	}
	effectsDoc, err := marshalIndented(EffectsDocument{Effects: []EffectRow{{
		GroupName:  "Kuribo",
		UniqueName: "Child",
		EffectName: []string{"Smoke"},
		ParentName: "DoesNotExist",
	}}})
	if err != nil {
		t.Fatalf("marshalIndented: %v", err)
	}
	out, err := Dump(DumpInputs{JPC: jpc, ParticleNames: particleNames, AutoEffect: mustEncodeEmptyAutoEffect(t)})
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	_, err = Pack(PackInputs{
		ParticlesJSON: particlesDoc,
		EffectsJSON:   effectsDoc,
		ParticleFiles: map[string][]byte{"Kuribo": out.ParticleFiles["Kuribo"]},
		Textures:      map[string][]byte{"mr_glow01_i": []byte{1, 2, 3, 4}},
	})
	if err == nil {
		t.Fatal("expected DanglingReference for a ParentName with no matching UniqueName in group")
	}
}

func mustEncodeEmptyAutoEffect(t *testing.T) []byte {
	t.Helper()
	b, err := EncodeBCSV(autoEffectListColumns(), nil)
	if err != nil {
		t.Fatalf("EncodeBCSV: %v", err)
	}
	return b
}
