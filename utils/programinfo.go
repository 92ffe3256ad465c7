// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

package utils

const (
	// ProgramName is "samio"
	ProgramName = "samio"

	// ProgramVersion is the version of the samio binary
	ProgramVersion = "1.0.0"

	// ProgramURL is the repository for the samio source code
	ProgramURL = "http://github.com/compbio/samio"
)
