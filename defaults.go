// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AffectBits is the T(ranslation)/R(otation)/S(cale) bitfield that backs
// AutoEffectList's Affect and Follow columns (spec §4.8).
type AffectBits uint8

const (
	AffectT AffectBits = 1 << iota
	AffectR
	AffectS
)

// ParseAffectBits parses a slash-joined subset of "T"/"R"/"S" in any order
// (spec §8 scenario 5: "S/T/R" is accepted on read).
func ParseAffectBits(s string) (AffectBits, error) {
	var bits AffectBits
	if s == "" {
		return bits, nil
	}
	for _, part := range strings.Split(s, "/") {
		switch strings.ToUpper(strings.TrimSpace(part)) {
		case "T":
			bits |= AffectT
		case "R":
			bits |= AffectR
		case "S":
			bits |= AffectS
		default:
			return 0, ValueOutOfRange(fmt.Sprintf("affect/follow field: unknown component %q in %q", part, s))
		}
	}
	return bits, nil
}

// String renders the bitfield in canonical T,R,S order (spec §8 scenario 5:
// always normalized to "T/R/S" order on write), empty string when no bits
// are set.
func (b AffectBits) String() string {
	var parts []string
	if b&AffectT != 0 {
		parts = append(parts, "T")
	}
	if b&AffectR != 0 {
		parts = append(parts, "R")
	}
	if b&AffectS != 0 {
		parts = append(parts, "S")
	}
	return strings.Join(parts, "/")
}

// drawOrderNames is the fixed nine-value DrawOrder vocabulary (spec §6),
// indexed by the column's wire integer value.
var drawOrderNames = []string{
	"3D", "PAUSE_IGNORE", "INDIRECT", "AFTER_INDIRECT", "BLOOM_EFFECT",
	"AFTER_IMAGE_EFFECT", "2D", "2D_PAUSE_IGNORE", "FOR_2D_MODEL",
}

// DrawOrderName maps a DrawOrder wire value to its name.
func DrawOrderName(v int32) (string, error) {
	if v < 0 || int(v) >= len(drawOrderNames) {
		return "", ValueOutOfRange(fmt.Sprintf("draw order value %d out of range [0,%d)", v, len(drawOrderNames)))
	}
	return drawOrderNames[v], nil
}

// ParseDrawOrder maps a DrawOrder name back to its wire value.
func ParseDrawOrder(s string) (int32, error) {
	for i, n := range drawOrderNames {
		if n == s {
			return int32(i), nil
		}
	}
	return 0, ValueOutOfRange(fmt.Sprintf("unrecognized draw order name %q", s))
}

// unquoteJSONString decodes a JSON string literal, used by types that parse
// their own inner syntax (Color) rather than delegating straight to a
// struct field.
func unquoteJSONString(b []byte) (string, error) {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", fmt.Errorf("expected JSON string: %w", err)
	}
	return s, nil
}

// ParseColorHex parses a "#rrggbb" or "#rrggbbaa" string, case-insensitive,
// alpha defaulting to 0xff when omitted (spec §9 "Color encoding").
func ParseColorHex(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 6, 8:
	default:
		return Color{}, ValueOutOfRange(fmt.Sprintf("color %q: want 6 or 8 hex digits", s))
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, ValueOutOfRange(fmt.Sprintf("color %q: %v", s, err))
	}
	if len(s) == 6 {
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// splitJoined splits a wire-format joined string on sep into its components,
// dropping empty leading/trailing artifacts from an empty source string.
func splitJoined(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}

func joinParts(parts []string, sep string) string {
	return strings.Join(parts, sep)
}

// EffectRow is one AutoEffectList row as the document translator presents
// it: typed Go fields mirroring the AutoEffectList schema table (spec §6),
// with wire-format defaults recorded so the translator can strip/reinject
// them losslessly (spec §4.8, §8 "Default stripping idempotence").
type EffectRow struct {
	GroupName        string
	AnimName         []string
	ContinueAnimEnd  bool
	UniqueName       string
	EffectName       []string
	ParentName       string
	JointName        string
	OffsetX          float32
	OffsetY          float32
	OffsetZ          float32
	StartFrame       int32
	EndFrame         int32
	Affect           AffectBits
	Follow           AffectBits
	ScaleValue       float32
	RateValue        float32
	PrmColor         string
	EnvColor         string
	LightAffectValue float32
	DrawOrder        int32
}

// newEffectRowDefaults returns an EffectRow with every column set to its
// documented default (spec §6), ready to be overridden by explicit JSON
// keys or by decoded BCSV cells.
func newEffectRowDefaults() EffectRow {
	return EffectRow{
		EndFrame:   -1,
		ScaleValue: 1.0,
		RateValue:  1.0,
	}
}

// MarshalJSON emits only the keys whose value differs from the documented
// default, plus the three fields with no default (GroupName, UniqueName,
// EffectName), per spec §4.8 and the §8 "Effects defaults" scenario.
func (r EffectRow) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"GroupName":  r.GroupName,
		"UniqueName": r.UniqueName,
		"EffectName": r.EffectName,
	}
	if len(r.AnimName) > 0 {
		m["AnimName"] = r.AnimName
	}
	if r.ContinueAnimEnd {
		m["ContinueAnimEnd"] = true
	}
	if r.ParentName != "" {
		m["ParentName"] = r.ParentName
	}
	if r.JointName != "" {
		m["JointName"] = r.JointName
	}
	if r.OffsetX != 0 {
		m["OffsetX"] = r.OffsetX
	}
	if r.OffsetY != 0 {
		m["OffsetY"] = r.OffsetY
	}
	if r.OffsetZ != 0 {
		m["OffsetZ"] = r.OffsetZ
	}
	if r.StartFrame != 0 {
		m["StartFrame"] = r.StartFrame
	}
	if r.EndFrame != -1 {
		m["EndFrame"] = r.EndFrame
	}
	if r.Affect != 0 {
		m["Affect"] = r.Affect.String()
	}
	if r.Follow != 0 {
		m["Follow"] = r.Follow.String()
	}
	if r.ScaleValue != 1.0 {
		m["ScaleValue"] = r.ScaleValue
	}
	if r.RateValue != 1.0 {
		m["RateValue"] = r.RateValue
	}
	if r.PrmColor != "" {
		m["PrmColor"] = r.PrmColor
	}
	if r.EnvColor != "" {
		m["EnvColor"] = r.EnvColor
	}
	if r.LightAffectValue != 0 {
		m["LightAffectValue"] = r.LightAffectValue
	}
	if r.DrawOrder != 0 {
		name, err := DrawOrderName(r.DrawOrder)
		if err != nil {
			return nil, err
		}
		m["DrawOrder"] = name
	}
	return json.Marshal(m)
}

// UnmarshalJSON starts from the documented defaults and overlays whatever
// keys are present, the inverse of MarshalJSON.
func (r *EffectRow) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*r = newEffectRowDefaults()

	required := []struct {
		key string
		dst *string
	}{
		{"GroupName", &r.GroupName},
		{"UniqueName", &r.UniqueName},
	}
	for _, f := range required {
		v, ok := raw[f.key]
		if !ok {
			return fmt.Errorf("effect row: required field %q missing", f.key)
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return fmt.Errorf("effect row field %q: %w", f.key, err)
		}
	}
	if v, ok := raw["EffectName"]; ok {
		if err := json.Unmarshal(v, &r.EffectName); err != nil {
			return fmt.Errorf("effect row field EffectName: %w", err)
		}
	} else {
		return fmt.Errorf("effect row: required field %q missing", "EffectName")
	}

	optional := []struct {
		key string
		dst interface{}
	}{
		{"AnimName", &r.AnimName},
		{"ContinueAnimEnd", &r.ContinueAnimEnd},
		{"ParentName", &r.ParentName},
		{"JointName", &r.JointName},
		{"OffsetX", &r.OffsetX},
		{"OffsetY", &r.OffsetY},
		{"OffsetZ", &r.OffsetZ},
		{"StartFrame", &r.StartFrame},
		{"EndFrame", &r.EndFrame},
		{"ScaleValue", &r.ScaleValue},
		{"RateValue", &r.RateValue},
		{"PrmColor", &r.PrmColor},
		{"EnvColor", &r.EnvColor},
		{"LightAffectValue", &r.LightAffectValue},
	}
	for _, f := range optional {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return fmt.Errorf("effect row field %q: %w", f.key, err)
		}
	}

	if v, ok := raw["Affect"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("effect row field Affect: %w", err)
		}
		bits, err := ParseAffectBits(s)
		if err != nil {
			return err
		}
		r.Affect = bits
	}
	if v, ok := raw["Follow"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("effect row field Follow: %w", err)
		}
		bits, err := ParseAffectBits(s)
		if err != nil {
			return err
		}
		r.Follow = bits
	}
	if v, ok := raw["DrawOrder"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("effect row field DrawOrder: %w", err)
		}
		order, err := ParseDrawOrder(s)
		if err != nil {
			return err
		}
		r.DrawOrder = order
	}

	return nil
}

// effectRowToBCSVRow converts a fully-populated EffectRow into a BCSV Row
// keyed by column name, ready for EncodeBCSV.
func effectRowToBCSVRow(r EffectRow) Row {
	return Row{
		"GroupName":        StringCell(r.GroupName),
		"AnimName":         StringCell(joinParts(r.AnimName, ",")),
		"ContinueAnimEnd":  IntCell(boolToInt(r.ContinueAnimEnd)),
		"UniqueName":       StringCell(r.UniqueName),
		"EffectName":       StringCell(joinParts(r.EffectName, " ")),
		"ParentName":       StringCell(r.ParentName),
		"JointName":        StringCell(r.JointName),
		"OffsetX":          FloatCell(r.OffsetX),
		"OffsetY":          FloatCell(r.OffsetY),
		"OffsetZ":          FloatCell(r.OffsetZ),
		"StartFrame":       IntCell(r.StartFrame),
		"EndFrame":         IntCell(r.EndFrame),
		"Affect":           IntCell(int32(r.Affect)),
		"Follow":           IntCell(int32(r.Follow)),
		"ScaleValue":       FloatCell(r.ScaleValue),
		"RateValue":        FloatCell(r.RateValue),
		"PrmColor":         StringCell(r.PrmColor),
		"EnvColor":         StringCell(r.EnvColor),
		"LightAffectValue": FloatCell(r.LightAffectValue),
		"DrawOrder":        IntCell(r.DrawOrder),
	}
}

// bcsvRowToEffectRow is the inverse of effectRowToBCSVRow, reading cells out
// of a decoded BCSV Row by resolved column name.
func bcsvRowToEffectRow(row Row) (EffectRow, error) {
	r := newEffectRowDefaults()

	str := func(name string) string { return row[name].Str }
	f32 := func(name string) float32 { return row[name].F32 }
	i32 := func(name string) int32 { return row[name].I32 }

	r.GroupName = str("GroupName")
	r.AnimName = splitJoined(str("AnimName"), ",")
	r.ContinueAnimEnd = i32("ContinueAnimEnd") != 0
	r.UniqueName = str("UniqueName")
	r.EffectName = splitJoined(str("EffectName"), " ")
	r.ParentName = str("ParentName")
	r.JointName = str("JointName")
	r.OffsetX = f32("OffsetX")
	r.OffsetY = f32("OffsetY")
	r.OffsetZ = f32("OffsetZ")
	r.StartFrame = i32("StartFrame")
	r.EndFrame = i32("EndFrame")
	r.Affect = AffectBits(i32("Affect"))
	r.Follow = AffectBits(i32("Follow"))
	r.ScaleValue = f32("ScaleValue")
	r.RateValue = f32("RateValue")
	r.PrmColor = str("PrmColor")
	r.EnvColor = str("EnvColor")
	r.LightAffectValue = f32("LightAffectValue")
	r.DrawOrder = i32("DrawOrder")

	return r, nil
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
