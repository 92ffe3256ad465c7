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

// ViewHelp is the help string for this command.
const ViewHelp = "view parameters:\n" +
	"samio view sam-file\n" +
	"[--output file]\n" +
	"[--filter-unmapped]\n" +
	"[--filter-unmapped-strict]\n" +
	"[--filter-duplicates]\n" +
	"[--filter-qc-failed]\n" +
	"[--reference-name name]\n"

// View implements the view command. It streams a SAM file to the
// output, optionally removing records on the way.
func View() (funcErr error) {
	var flags flag.FlagSet

	output := flags.String("output", "/dev/stdout", "output SAM file")
	filterUnmapped := flags.Bool("filter-unmapped", false, "remove unmapped records")
	filterUnmappedStrict := flags.Bool("filter-unmapped-strict", false, "remove unmapped records, also checking POS and RNAME")
	filterDuplicates := flags.Bool("filter-duplicates", false, "remove duplicate records")
	filterQCFailed := flags.Bool("filter-qc-failed", false, "remove records that failed quality checks")
	referenceName := flags.String("reference-name", "", "keep only records aligned to this reference")

	parseFlags(flags, 3, ViewHelp)
	input := getFilename(os.Args[2], ViewHelp)

	var filters []sam.Filter
	if *filterUnmappedStrict {
		filters = append(filters, sam.FilterUnmappedReadsStrict)
	} else if *filterUnmapped {
		filters = append(filters, sam.FilterUnmappedReads)
	}
	if *filterDuplicates {
		filters = append(filters, sam.FilterDuplicateReads)
	}
	if *filterQCFailed {
		filters = append(filters, sam.FilterQCFailedReads)
	}
	if *referenceName != "" {
		filters = append(filters, sam.FilterReferenceName(*referenceName))
	}

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
	out, err := sam.Create(*output)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); funcErr == nil {
			funcErr = err
		}
	}()
	return sam.RunPipeline(in, out, filters...)
}
