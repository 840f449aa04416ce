// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/galaxytools/jpac"
)

// runPack reads a previously-dumped JSON/BTI tree from inputDir and writes
// Particles.jpc, ParticleNames.bcsv and AutoEffectList.bcsv into outputDir
// (spec §6 "pack"), the inverse of runDump.
func runPack(inputDir, outputDir string) int {
	logger := newLogger()

	particlesJSON, err := os.ReadFile(filepath.Join(inputDir, "Particles.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read Particles.json: %v\n", err)
		return exitInputIO
	}
	effectsJSON, err := os.ReadFile(filepath.Join(inputDir, "Effects.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read Effects.json: %v\n", err)
		return exitInputIO
	}

	particleDir := filepath.Join(inputDir, "Particles")
	particleEntries, err := os.ReadDir(particleDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", particleDir, err)
		return exitInputIO
	}
	textureDir := filepath.Join(inputDir, "Textures")
	textureEntries, err := os.ReadDir(textureDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", textureDir, err)
		return exitInputIO
	}

	type readResult struct {
		name string
		data []byte
		err  error
	}

	readAll := func(dir string, entries []os.DirEntry, ext string) (map[string][]byte, error) {
		results := make(chan readResult, len(entries))
		jobs := make(chan string)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for fileName := range jobs {
					data, err := os.ReadFile(filepath.Join(dir, fileName))
					results <- readResult{name: strings.TrimSuffix(fileName, ext), data: data, err: err}
				}
			}()
		}
		go func() {
			for _, e := range entries {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
					jobs <- e.Name()
				}
			}
			close(jobs)
		}()
		go func() {
			wg.Wait()
			close(results)
		}()

		out := make(map[string][]byte, len(entries))
		for r := range results {
			if r.err != nil {
				return nil, r.err
			}
			out[r.name] = r.data
		}
		return out, nil
	}

	particleFiles, err := readAll(particleDir, particleEntries, ".json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "read particle files: %v\n", err)
		return exitInputIO
	}
	textures, err := readAll(textureDir, textureEntries, ".bti")
	if err != nil {
		fmt.Fprintf(os.Stderr, "read texture files: %v\n", err)
		return exitInputIO
	}

	out, err := jpac.Pack(jpac.PackInputs{
		ParticlesJSON: particlesJSON,
		EffectsJSON:   effectsJSON,
		ParticleFiles: particleFiles,
		Textures:      textures,
		Logger:        logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pack: %v\n", err)
		return exitCodecErr
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", outputDir, err)
		return exitInputIO
	}
	if err := os.WriteFile(filepath.Join(outputDir, "Particles.jpc"), out.JPC, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write Particles.jpc: %v\n", err)
		return exitInputIO
	}
	if err := os.WriteFile(filepath.Join(outputDir, "ParticleNames.bcsv"), out.ParticleNames, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write ParticleNames.bcsv: %v\n", err)
		return exitInputIO
	}
	if err := os.WriteFile(filepath.Join(outputDir, "AutoEffectList.bcsv"), out.AutoEffect, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write AutoEffectList.bcsv: %v\n", err)
		return exitInputIO
	}

	logger.Infof("packed %s -> %s", inputDir, outputDir)
	return exitOK
}
