// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/edsrzf/mmap-go"

	"github.com/galaxytools/jpac"
)

// runDump reads Particles.jpc, ParticleNames.bcsv and AutoEffectList.bcsv
// from inputDir and writes the decoded document tree into outputDir (spec
// §6 "dump"). Particles.jpc is memory-mapped rather than fully buffered,
// since particle archives routinely run tens of megabytes; the BCSV
// sidecars are small and read normally.
func runDump(inputDir, outputDir string) int {
	logger := newLogger()

	jpcPath := filepath.Join(inputDir, "Particles.jpc")
	f, err := os.Open(jpcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", jpcPath, err)
		return exitInputIO
	}
	defer f.Close()

	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mmap %s: %v\n", jpcPath, err)
		return exitInputIO
	}
	defer mapped.Unmap()

	particleNames, err := os.ReadFile(filepath.Join(inputDir, "ParticleNames.bcsv"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read ParticleNames.bcsv: %v\n", err)
		return exitInputIO
	}
	autoEffect, err := os.ReadFile(filepath.Join(inputDir, "AutoEffectList.bcsv"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read AutoEffectList.bcsv: %v\n", err)
		return exitInputIO
	}

	colDict, err := columnDictionary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "schema: %v\n", err)
		return exitInputIO
	}

	out, err := jpac.Dump(jpac.DumpInputs{
		JPC:           []byte(mapped),
		ParticleNames: particleNames,
		AutoEffect:    autoEffect,
		ColumnNames:   colDict,
		Strict:        strict,
		Logger:        logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "dump: %v\n", err)
		return exitCodecErr
	}

	if err := os.MkdirAll(filepath.Join(outputDir, "Particles"), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir Particles: %v\n", err)
		return exitInputIO
	}
	if err := os.MkdirAll(filepath.Join(outputDir, "Textures"), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir Textures: %v\n", err)
		return exitInputIO
	}

	if err := os.WriteFile(filepath.Join(outputDir, "Particles.json"), out.ParticlesJSON, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write Particles.json: %v\n", err)
		return exitInputIO
	}
	if err := os.WriteFile(filepath.Join(outputDir, "Effects.json"), out.EffectsJSON, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write Effects.json: %v\n", err)
		return exitInputIO
	}

	type writeJob struct {
		path string
		data []byte
	}
	jobs := make(chan writeJob)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := os.WriteFile(j.path, j.data, 0o644); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}
		}()
	}

	for name, data := range out.ParticleFiles {
		jobs <- writeJob{path: filepath.Join(outputDir, "Particles", name+".json"), data: data}
	}
	for name, data := range out.Textures {
		jobs <- writeJob{path: filepath.Join(outputDir, "Textures", name+".bti"), data: data}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", firstErr)
		return exitInputIO
	}

	logger.Infof("dumped %d particles, %d textures to %s", len(out.ParticleFiles), len(out.Textures), outputDir)
	return exitOK
}
