// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/galaxytools/jpac"
	"github.com/galaxytools/jpac/internal/logx"
)

const (
	exitOK       = 0
	exitUsage    = 1
	exitInputIO  = 2
	exitCodecErr = 3
)

var (
	verbose bool
	strict  bool
	workers int
	schema  string
)

func newLogger() *logx.Helper {
	min := logx.LevelInfo
	if verbose {
		min = logx.LevelDebug
	}
	return logx.NewHelper(logx.NewFilter(logx.NewStdLogger(os.Stderr), logx.FilterLevel(min)))
}

// columnDictionary builds the BCSV column-name dictionary dump uses to
// resolve hashes: the built-in vocabulary, extended with one name per
// non-empty line of the --schema file when one is given.
func columnDictionary() (*jpac.NameDictionary, error) {
	dict := jpac.DefaultNameDictionary()
	if schema == "" {
		return dict, nil
	}
	f, err := os.Open(schema)
	if err != nil {
		return nil, fmt.Errorf("open schema file: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	dict.Add(names...)
	return dict, nil
}

func main() {
	root := &cobra.Command{
		Use:   "jpactool",
		Short: "A JPC/BCSV/BTI particle archive codec",
		Long:  "jpactool converts between a game's binary particle archive (JPC/BCSV/BTI) and an editable JSON/BTI directory tree",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("jpactool 0.1.0")
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump <input_dir> <output_dir>",
		Short: "Decode a particle archive into an editable JSON/BTI tree",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(runDump(args[0], args[1]))
		},
	}

	packCmd := &cobra.Command{
		Use:   "pack <input_dir> <output_dir>",
		Short: "Encode an editable JSON/BTI tree back into a particle archive",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(runPack(args[0], args[1]))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&strict, "strict", "s", false, "treat tolerated decode anomalies (masked BCSV bits, unknown/opaque block tags) as fatal")
	root.PersistentFlags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "number of concurrent workers for per-file I/O")
	root.PersistentFlags().StringVar(&schema, "schema", "", "path to a newline-delimited column-name file that extends the built-in BCSV name dictionary")

	root.AddCommand(versionCmd, dumpCmd, packCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}
