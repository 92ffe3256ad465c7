// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

package sam

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/exascience/pargo/pipeline"
	"github.com/google/uuid"
	"github.com/willf/bitset"

	"github.com/compbio/samio/internal"
)

// SplitFilePerReference splits SAM input into one file per entry of
// the reference sequence dictionary, plus a file for the unmapped
// records. The input may be a single SAM file or a directory of SAM
// files that share a header; the header of the first file is used for
// all splits. Records are routed on RNAME; records whose RNAME is *
// or does not occur in the dictionary go to the unmapped file. Split
// files for references that received no records are removed again,
// so the resulting directory only holds non-empty splits.
//
// The split files are created in a fresh, uniquely named directory
// under outputPath, whose path is returned.
func SplitFilePerReference(input, outputPath, outputPrefix, outputExtension string) (splitsPath string, funcErr error) {
	files, err := internal.Directory(input)
	if err != nil {
		return "", fmt.Errorf("%v, while attempting to fetch file(s) %v in SplitFilePerReference", err, input)
	}
	inputPath := filepath.Dir(input)
	firstFile := filepath.Join(inputPath, files[0])
	firstIn, err := Open(firstFile)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := firstIn.Close(); funcErr == nil {
			funcErr = err
		}
	}()
	header, err := firstIn.ParseHeader()
	if err != nil {
		return "", fmt.Errorf("%v, while parsing header of %v in SplitFilePerReference", err, firstFile)
	}

	splitsPath = filepath.Join(outputPath, "splits-"+uuid.New().String())
	if err := os.MkdirAll(splitsPath, 0700); err != nil {
		return "", err
	}

	// one output per dictionary entry, plus the unmapped group at
	// index len(header.SQ)
	unmappedIndex := len(header.SQ)
	dictTable := make(map[string]int, unmappedIndex)
	groupNames := make([]string, unmappedIndex+1)
	groupFiles := make([]*OutputFile, unmappedIndex+1)
	openGroup := func(index int, group string) error {
		name := filepath.Join(splitsPath, outputPrefix+"-"+group+"."+outputExtension)
		out, err := Create(name)
		if err != nil {
			return err
		}
		if err := out.FormatHeader(header); err != nil {
			return fmt.Errorf("%v, while writing header to %v", err, name)
		}
		groupNames[index] = name
		groupFiles[index] = out
		return nil
	}
	for index, sq := range header.SQ {
		if _, found := dictTable[sq.SN]; found {
			return "", fmt.Errorf("duplicate reference name %v in the dictionary of %v", sq.SN, firstFile)
		}
		dictTable[sq.SN] = index
		if err := openGroup(index, sq.SN); err != nil {
			return "", err
		}
	}
	if err := openGroup(unmappedIndex, "unmapped"); err != nil {
		return "", err
	}

	seen := bitset.New(uint(unmappedIndex + 1))

	processFile := func(in *InputFile) error {
		var p pipeline.Pipeline
		p.Source(in)
		p.SetVariableBatchSize(512, 4096)
		p.Add(
			pipeline.LimitedPar(0, LinesToRecords()),
			pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
				for _, rec := range data.([]*Record) {
					index, found := dictTable[rec.RNAME]
					if !found {
						index = unmappedIndex
					}
					seen.Set(uint(index))
					if err := groupFiles[index].WriteRecord(rec); err != nil {
						p.SetErr(err)
						return nil
					}
				}
				return nil
			})),
		)
		p.Run()
		return p.Err()
	}

	err = processFile(firstIn)
	for _, name := range files[1:] {
		if err != nil {
			break
		}
		inFile := filepath.Join(inputPath, name)
		err = func() (funcErr error) {
			in, err := Open(inFile)
			if err != nil {
				return err
			}
			defer func() {
				if err := in.Close(); funcErr == nil {
					funcErr = err
				}
			}()
			if err := in.SkipHeader(); err != nil {
				return fmt.Errorf("%v, while skipping header of %v in SplitFilePerReference", err, inFile)
			}
			return processFile(in)
		}()
	}

	for _, out := range groupFiles {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return splitsPath, err
	}

	// always keep the unmapped file; drop per-reference files that
	// stayed empty
	for index := range header.SQ {
		if !seen.Test(uint(index)) {
			if rerr := os.Remove(groupNames[index]); rerr != nil {
				return splitsPath, rerr
			}
		}
	}
	return splitsPath, nil
}
