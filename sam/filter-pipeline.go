// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

package sam

import (
	"context"

	"github.com/exascience/pargo/pipeline"
)

type (
	// A RecordFilter receives a Record which it can inspect or
	// modify. It returns true if the record should be kept, and
	// false if the record should be removed.
	RecordFilter func(*Record) bool

	// A Filter receives a Header and returns a RecordFilter or nil.
	Filter func(*Header) RecordFilter
)

// An inputLine pairs one alignment line with its 1-based line number
// in the input, so that parse errors in pipeline stages report
// accurate positions.
type inputLine struct {
	text   string
	number int
}

// Err implements the method of the pipeline.Source interface.
func (f *InputFile) Err() error {
	return f.err
}

// Prepare implements the method of the pipeline.Source interface.
func (f *InputFile) Prepare(_ context.Context) int {
	return -1
}

// Fetch implements the method of the pipeline.Source interface. It
// fetches up to size alignment lines, skipping empty lines.
func (f *InputFile) Fetch(size int) int {
	lines := make([]inputLine, 0, size)
	for len(lines) < size {
		line, ok, err := f.lines.next()
		if err != nil {
			f.err = err
			break
		}
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		lines = append(lines, inputLine{line, f.lines.lineNumber})
	}
	f.data = lines
	return len(lines)
}

// Data implements the method of the pipeline.Source interface.
func (f *InputFile) Data() interface{} {
	return f.data
}

// LinesToRecords returns a pargo pipeline.Filter that parses batches
// of alignment lines into slices of Record pointers. A line that does
// not decompose into the expected field layout stops the pipeline
// with a ParsingError.
func LinesToRecords() pipeline.Filter {
	return func(p *pipeline.Pipeline, _ pipeline.NodeKind, _ *int) (receiver pipeline.Receiver, _ pipeline.Finalizer) {
		receiver = func(_ int, data interface{}) interface{} {
			lines := data.([]inputLine)
			records := make([]*Record, 0, len(lines))
			for _, line := range lines {
				rec, err := parseRecord(line.text, line.number)
				if err != nil {
					p.SetErr(err)
					return records
				}
				records = append(records, rec)
			}
			return records
		}
		return
	}
}

// RecordsToLines returns a pargo pipeline.Filter that formats slices
// of Record pointers into blocks of bytes representing these records
// according to the SAM text format.
func RecordsToLines() pipeline.Filter {
	return func(_ *pipeline.Pipeline, _ pipeline.NodeKind, _ *int) (receiver pipeline.Receiver, _ pipeline.Finalizer) {
		receiver = func(_ int, data interface{}) interface{} {
			records := data.([]*Record)
			var out []byte
			for _, rec := range records {
				out = rec.Format(out)
			}
			return out
		}
		return
	}
}

// ApplyRecordFilters returns a pargo pipeline.Filter that applies the
// given record filters in order, removing records for which any
// filter returns false.
func ApplyRecordFilters(filters []RecordFilter) pipeline.Filter {
	return func(_ *pipeline.Pipeline, _ pipeline.NodeKind, _ *int) (receiver pipeline.Receiver, _ pipeline.Finalizer) {
		receiver = func(_ int, data interface{}) interface{} {
			records := data.([]*Record)
			kept := records[:0]
			for _, rec := range records {
				keep := true
				for _, filter := range filters {
					if !filter(rec) {
						keep = false
						break
					}
				}
				if keep {
					kept = append(kept, rec)
				}
			}
			return kept
		}
		return
	}
}

// RunPipeline streams all records of input to output, applying the
// given filters. The header is parsed first and passed to each filter
// to produce the record filters; it is then written to the output,
// followed by every record that passes all filters, in input order.
func RunPipeline(input *InputFile, output *OutputFile, filters ...Filter) error {
	header, err := input.ParseHeader()
	if err != nil {
		return err
	}
	var recordFilters []RecordFilter
	for _, filter := range filters {
		if filter == nil {
			continue
		}
		if recordFilter := filter(header); recordFilter != nil {
			recordFilters = append(recordFilters, recordFilter)
		}
	}
	if err := output.FormatHeader(header); err != nil {
		return err
	}
	var p pipeline.Pipeline
	p.Source(input)
	p.SetVariableBatchSize(512, 4096)
	p.Add(
		pipeline.LimitedPar(0, LinesToRecords(), ApplyRecordFilters(recordFilters), RecordsToLines()),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			if _, err := output.Write(data.([]byte)); err != nil {
				p.SetErr(err)
			}
			return nil
		})),
	)
	p.Run()
	return p.Err()
}
