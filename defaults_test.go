// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseAffectBitsNormalizesOrder(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"T/R", "T/R"},
		{"S/T/R", "T/R/S"},
		{"", ""},
		{"S", "S"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bits, err := ParseAffectBits(tt.in)
			if err != nil {
				t.Fatalf("ParseAffectBits(%q): %v", tt.in, err)
			}
			if got := bits.String(); got != tt.want {
				t.Fatalf("ParseAffectBits(%q).String() = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAffectBitsRejectsUnknown(t *testing.T) {
	if _, err := ParseAffectBits("Q"); err == nil {
		t.Fatal("expected error for unrecognized affect component")
	}
}

func TestDrawOrderRoundTrip(t *testing.T) {
	for i, name := range drawOrderNames {
		t.Run(name, func(t *testing.T) {
			got, err := DrawOrderName(int32(i))
			if err != nil || got != name {
				t.Fatalf("DrawOrderName(%d) = %q, %v, want %q", i, got, err, name)
			}
			back, err := ParseDrawOrder(name)
			if err != nil || back != int32(i) {
				t.Fatalf("ParseDrawOrder(%q) = %d, %v, want %d", name, back, err, i)
			}
		})
	}
}

func TestEffectRowDefaultStrippingIdempotent(t *testing.T) {
	row := EffectRow{
		GroupName:  "Kuribo",
		UniqueName: "X",
		EffectName: []string{"Smoke"},
		EndFrame:   -1,
		ScaleValue: 1.0,
		RateValue:  1.0,
	}

	encoded, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := map[string]bool{"GroupName": true, "UniqueName": true, "EffectName": true}
	if len(got) != len(want) {
		t.Fatalf("marshaled keys = %v, want exactly %v", got, want)
	}
	for k := range got {
		if !want[k] {
			t.Fatalf("unexpected key %q in default-stripped row: %v", k, got)
		}
	}

	var roundTripped EffectRow
	if err := json.Unmarshal(encoded, &roundTripped); err != nil {
		t.Fatalf("Unmarshal into EffectRow: %v", err)
	}
	if !reflect.DeepEqual(roundTripped, row) {
		t.Fatalf("round-tripped row = %+v, want %+v", roundTripped, row)
	}
}

func TestEffectRowNonDefaultFieldsSurvive(t *testing.T) {
	row := EffectRow{
		GroupName:        "Kuribo",
		UniqueName:       "X",
		EffectName:       []string{"Smoke", "Fire"},
		AnimName:         []string{"Walk"},
		ContinueAnimEnd:  true,
		ParentName:       "Parent",
		OffsetX:          1.5,
		StartFrame:       3,
		EndFrame:         90,
		Affect:           AffectT | AffectS,
		Follow:           AffectR,
		ScaleValue:       2.0,
		RateValue:        0.5,
		PrmColor:         "#ff0000",
		LightAffectValue: 0.25,
		DrawOrder:        3,
	}

	encoded, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got EffectRow
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, row) {
		t.Fatalf("round-tripped row = %+v, want %+v", got, row)
	}
}

func TestParseColorHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff0000", Color{R: 0xff, A: 0xff}},
		{"#00ff0080", Color{G: 0xff, A: 0x80}},
		{"AABBCC", Color{R: 0xAA, G: 0xBB, B: 0xCC, A: 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColorHex(tt.in)
			if err != nil {
				t.Fatalf("ParseColorHex(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseColorHex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
