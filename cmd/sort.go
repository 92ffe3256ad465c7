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
	"strings"

	"github.com/compbio/samio/sam"
)

// SortHelp is the help string for this command.
const SortHelp = "sort parameters:\n" +
	"samio sort sam-file\n" +
	"[--output file]\n"

// Sort implements the sort command. It reads a SAM file into memory,
// sorts the records by query template name, and writes the result.
func Sort() (funcErr error) {
	var flags flag.FlagSet

	output := flags.String("output", "/dev/stdout", "output SAM file")

	parseFlags(flags, 3, SortHelp)
	input := getFilename(os.Args[2], SortHelp)

	log.Println("Executing command:\n", strings.Join(os.Args, " "))

	in, err := sam.Open(input)
	if err != nil {
		return err
	}
	defer func() {
		if err := in.Close(); funcErr == nil {
			funcErr = err
		}
	}()
	header, err := in.ParseHeader()
	if err != nil {
		return err
	}
	records, err := in.ReadAll()
	if err != nil {
		return err
	}
	reads := &sam.Sam{Header: header, Records: records}
	reads.SortByQueryName()

	out, err := sam.Create(*output)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); funcErr == nil {
			funcErr = err
		}
	}()
	return reads.Format(out)
}
