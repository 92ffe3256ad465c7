// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

// Package sam is a library for parsing and serializing SAM files in
// their text representation.
//
// The parser is a single-pass streaming reader: ParseHeader consumes
// the header block and leaves the input positioned at the first
// alignment record, after which NextRecord yields one record per
// call, in file order, with one line of lookahead. The writer
// performs the inverse transform. All record fields are kept as raw
// text, so that a parse/format round trip reproduces the input byte
// for byte.
//
// For whole-file transformations, records can also be streamed
// through a pargo pipeline with RunPipeline, which applies header and
// record filters in parallel while preserving record order. See the
// documentation at https://godoc.org/github.com/ExaScience/pargo/pipeline
// for details of pargo pipelines if necessary.
package sam
