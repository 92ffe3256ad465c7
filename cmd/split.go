// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

package cmd

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/compbio/samio/internal"
	"github.com/compbio/samio/sam"
)

// SplitHelp is the help string for this command.
const SplitHelp = "split parameters:\n" +
	"samio split sam-file\n" +
	"[--output-path path]\n" +
	"[--output-prefix name]\n" +
	"[--output-extension extension]\n"

// Split implements the split command. It splits a SAM file into one
// file per reference sequence, plus a file for the unmapped records.
func Split() error {
	var flags flag.FlagSet

	outputPath := flags.String("output-path", ".", "directory in which the splits directory is created")
	outputPrefix := flags.String("output-prefix", "", "prefix of the split file names (default: input file name)")
	outputExtension := flags.String("output-extension", "sam", "extension of the split file names")

	parseFlags(flags, 3, SplitHelp)
	input := getFilename(os.Args[2], SplitHelp)

	if *outputPrefix == "" {
		base := filepath.Base(input)
		*outputPrefix = strings.TrimSuffix(base, filepath.Ext(base))
	}

	log.Println("Executing command:\n", strings.Join(os.Args, " "))

	if err := raiseFileDescriptorLimit(); err != nil {
		log.Println("Could not raise the file descriptor limit:", err)
	}

	splitsPath, err := sam.SplitFilePerReference(input, *outputPath, *outputPrefix, *outputExtension)
	if err != nil {
		return err
	}
	if full, err := internal.FullPathname(splitsPath); err == nil {
		splitsPath = full
	}
	log.Println("Split files written to", splitsPath)
	return nil
}
