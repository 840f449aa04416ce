// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/galaxytools/jpac/internal/logx"
)

// DumpInputs bundles the three binary sources a dump reads (spec §6 "dump").
type DumpInputs struct {
	JPC           []byte
	ParticleNames []byte
	AutoEffect    []byte

	// ColumnNames resolves BCSV column-name hashes; defaults to
	// DefaultNameDictionary() when nil.
	ColumnNames *NameDictionary
	// TextureNames resolves JPC texture name-hashes back to filenames.
	// Unlike ColumnNames, this codec ships no built-in vocabulary of
	// texture filenames (there is no fixed, small set the way there is for
	// BCSV columns) — callers seed it with whatever names they already
	// know (e.g. carried over from a previous dump). Unresolved hashes
	// round-trip under their "_0xHHHHHHHH" hex alias, same as an unknown
	// BCSV column.
	TextureNames *NameDictionary

	// Strict promotes every tolerated decode anomaly (a BCSV cell with bits
	// outside its column mask, an unknown or known-but-unsupported JPA
	// block tag) from a warning into a hard error (spec §9 "--strict").
	Strict bool

	Logger *logx.Helper
}

// DumpOutputs bundles everything a dump produces (spec §6 "dump").
type DumpOutputs struct {
	ParticlesJSON []byte
	EffectsJSON   []byte
	ParticleFiles map[string][]byte // particle name -> Particles/<name>.json bytes
	Textures      map[string][]byte // texture name (or hex alias) -> raw BTI bytes
}

const jsonIndent = "  "

// Dump converts a JPC container plus its two BCSV sidecar tables into the
// JSON/BTI document set (spec §2 step 8, §4.8). It performs no I/O itself;
// callers are responsible for reading the inputs and writing the outputs.
func Dump(in DumpInputs) (*DumpOutputs, error) {
	logger := in.Logger
	if logger == nil {
		logger = logx.Discard()
	}
	colDict := in.ColumnNames
	if colDict == nil {
		colDict = DefaultNameDictionary()
	}
	texDict := in.TextureNames
	if texDict == nil {
		texDict = NewNameDictionary()
	}

	container, err := DecodeJPC(in.JPC, in.Strict, logger)
	if err != nil {
		return nil, wrap("dump: jpc", err)
	}

	namesTable, err := DecodeBCSV(in.ParticleNames, colDict, in.Strict, logger)
	if err != nil {
		return nil, wrap("dump: particle names", err)
	}
	particleNames := make([]string, len(namesTable.Rows))
	for i, row := range namesTable.Rows {
		particleNames[i] = row["name"].Str
	}
	if len(particleNames) != len(container.Resources) {
		return nil, DanglingReference(fmt.Sprintf(
			"dump: %d particle names but %d resources in container", len(particleNames), len(container.Resources)))
	}
	if dup := firstDuplicate(particleNames); dup != "" {
		return nil, DuplicateKey(fmt.Sprintf("dump: duplicate particle name %q", dup))
	}

	textureNames := make([]string, len(container.Textures))
	textureOut := make(map[string][]byte, len(container.Textures))
	for i, t := range container.Textures {
		name, ok := texDict.Resolve(t.NameHash)
		if !ok {
			name = fmt.Sprintf("_0x%08x", t.NameHash)
		}
		textureNames[i] = name
		textureOut[name] = t.Data
	}

	particlesDoc := ParticlesDocument{Particles: particleNames, Textures: textureNames}
	particlesJSON, err := marshalIndented(particlesDoc)
	if err != nil {
		return nil, wrap("dump: particles.json", err)
	}

	particleFiles := make(map[string][]byte, len(container.Resources))
	for i, r := range container.Resources {
		pd := ParticleDocument{
			DynamicsBlock: *r.Dynamics,
			FieldBlocks:   r.Fields,
			KeyBlocks:     r.Keys,
			BaseShape:     *r.BaseShape,
			ExtraShape:    *r.ExtraShape,
			ChildShape:    r.ChildShape,
			ExTexShape:    r.ExTexShape,
			RawBlocks:     r.RawBlocks,
		}
		for _, idx := range r.TextureIndices {
			if int(idx) >= len(textureNames) {
				return nil, DanglingReference(fmt.Sprintf(
					"dump: resource %d references texture index %d, only %d textures", i, idx, len(textureNames)))
			}
			pd.Textures = append(pd.Textures, textureNames[idx])
		}
		buf, err := marshalIndented(pd)
		if err != nil {
			return nil, wrap(fmt.Sprintf("dump: particle %q", particleNames[i]), err)
		}
		particleFiles[particleNames[i]] = buf
	}

	effectTable, err := DecodeBCSV(in.AutoEffect, colDict, in.Strict, logger)
	if err != nil {
		return nil, wrap("dump: auto effect list", err)
	}
	effects := make([]EffectRow, len(effectTable.Rows))
	for i, row := range effectTable.Rows {
		er, err := bcsvRowToEffectRow(row)
		if err != nil {
			return nil, wrap(fmt.Sprintf("dump: auto effect row %d", i), err)
		}
		effects[i] = er
	}
	if err := validateEffectRows(effects); err != nil {
		return nil, wrap("dump: auto effect list", err)
	}
	effectsJSON, err := marshalIndented(EffectsDocument{Effects: effects})
	if err != nil {
		return nil, wrap("dump: effects.json", err)
	}

	return &DumpOutputs{
		ParticlesJSON: particlesJSON,
		EffectsJSON:   effectsJSON,
		ParticleFiles: particleFiles,
		Textures:      textureOut,
	}, nil
}

// PackInputs bundles the document set a pack reads (spec §6 "pack").
type PackInputs struct {
	ParticlesJSON []byte
	EffectsJSON   []byte
	ParticleFiles map[string][]byte // particle name -> Particles/<name>.json bytes
	Textures      map[string][]byte // texture name -> raw BTI bytes

	Logger *logx.Helper
}

// PackOutputs bundles the three binary artifacts a pack produces.
type PackOutputs struct {
	JPC           []byte
	ParticleNames []byte
	AutoEffect    []byte
}

// Pack is the inverse of Dump: it reassembles a JPC container and its two
// BCSV sidecars from the JSON/BTI document set (spec §4.8, §6 "pack").
func Pack(in PackInputs) (*PackOutputs, error) {
	logger := in.Logger
	if logger == nil {
		logger = logx.Discard()
	}

	var particlesDoc ParticlesDocument
	if err := json.Unmarshal(in.ParticlesJSON, &particlesDoc); err != nil {
		return nil, wrap("pack: particles.json", err)
	}
	if dup := firstDuplicate(particlesDoc.Particles); dup != "" {
		return nil, DuplicateKey(fmt.Sprintf("pack: duplicate particle name %q", dup))
	}

	textureIndex := make(map[string]uint16, len(particlesDoc.Textures))
	for i, name := range particlesDoc.Textures {
		textureIndex[name] = uint16(i)
	}
	textures := make([]Texture, len(particlesDoc.Textures))
	for i, name := range particlesDoc.Textures {
		data, ok := in.Textures[name]
		if !ok {
			return nil, DanglingReference(fmt.Sprintf("pack: texture %q listed in particles.json has no data", name))
		}
		nameHash := JGadgetHash(name)
		// A "_0xHHHHHHHH" alias written by Dump stands for the hash itself.
		if len(name) == 11 && strings.HasPrefix(name, "_0x") {
			if v, err := strconv.ParseUint(name[3:], 16, 32); err == nil {
				nameHash = uint32(v)
			}
		}
		textures[i] = Texture{NameHash: nameHash, Name: name, Data: data}
	}

	resources := make([]*Resource, len(particlesDoc.Particles))
	for i, name := range particlesDoc.Particles {
		raw, ok := in.ParticleFiles[name]
		if !ok {
			return nil, DanglingReference(fmt.Sprintf("pack: particle %q listed in particles.json has no document", name))
		}
		var pd ParticleDocument
		if err := json.Unmarshal(raw, &pd); err != nil {
			return nil, wrap(fmt.Sprintf("pack: particle %q", name), err)
		}
		dynamics := pd.DynamicsBlock
		baseShape := pd.BaseShape
		extraShape := pd.ExtraShape
		r := &Resource{
			Dynamics:   &dynamics,
			Fields:     pd.FieldBlocks,
			Keys:       pd.KeyBlocks,
			BaseShape:  &baseShape,
			ExtraShape: &extraShape,
			ChildShape: pd.ChildShape,
			ExTexShape: pd.ExTexShape,
			RawBlocks:  pd.RawBlocks,
		}
		r.TextureIndices = make([]uint16, len(pd.Textures))
		for j, texName := range pd.Textures {
			idx, ok := textureIndex[texName]
			if !ok {
				return nil, DanglingReference(fmt.Sprintf(
					"pack: particle %q references texture %q not listed in particles.json", name, texName))
			}
			r.TextureIndices[j] = idx
		}
		resources[i] = r
	}

	container := &Container{Resources: resources, Textures: textures}
	jpcBytes, err := EncodeJPC(container)
	if err != nil {
		return nil, wrap("pack: jpc", err)
	}

	nameRows := make([]Row, len(particlesDoc.Particles))
	for i, name := range particlesDoc.Particles {
		nameRows[i] = Row{"name": StringCell(name)}
	}
	particleNamesBytes, err := EncodeBCSV(particleNamesColumns(), nameRows)
	if err != nil {
		return nil, wrap("pack: particle names", err)
	}

	var effectsDoc EffectsDocument
	if err := json.Unmarshal(in.EffectsJSON, &effectsDoc); err != nil {
		return nil, wrap("pack: effects.json", err)
	}
	if err := validateEffectRows(effectsDoc.Effects); err != nil {
		return nil, wrap("pack: effects.json", err)
	}
	effectRows := make([]Row, len(effectsDoc.Effects))
	for i, er := range effectsDoc.Effects {
		effectRows[i] = effectRowToBCSVRow(er)
	}
	autoEffectBytes, err := EncodeBCSV(autoEffectListColumns(), effectRows)
	if err != nil {
		return nil, wrap("pack: auto effect list", err)
	}

	logger.Infof("packed %d resources, %d textures, %d effect rows", len(resources), len(textures), len(effectRows))

	return &PackOutputs{
		JPC:           jpcBytes,
		ParticleNames: particleNamesBytes,
		AutoEffect:    autoEffectBytes,
	}, nil
}

// validateEffectRows enforces the AutoEffectList cross-row invariants (spec
// §4.8 "Failure semantics"): UniqueName must be unique within a GroupName,
// and a non-empty ParentName must resolve to another row's UniqueName
// within the same GroupName.
func validateEffectRows(rows []EffectRow) error {
	byGroup := make(map[string]map[string]bool)
	for _, r := range rows {
		names := byGroup[r.GroupName]
		if names == nil {
			names = make(map[string]bool)
			byGroup[r.GroupName] = names
		}
		if names[r.UniqueName] {
			return DuplicateKey(fmt.Sprintf("auto effect list: duplicate UniqueName %q in group %q", r.UniqueName, r.GroupName))
		}
		names[r.UniqueName] = true
	}
	for _, r := range rows {
		if r.ParentName == "" {
			continue
		}
		if !byGroup[r.GroupName][r.ParentName] {
			return DanglingReference(fmt.Sprintf(
				"auto effect list: row %q references ParentName %q not found in group %q", r.UniqueName, r.ParentName, r.GroupName))
		}
	}
	return nil
}

func firstDuplicate(names []string) string {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return n
		}
		seen[n] = true
	}
	return ""
}

func marshalIndented(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", jsonIndent)
}
