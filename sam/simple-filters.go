// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

package sam

// FilterUnmappedReads is a filter for removing unmapped records,
// based on FLAG.
func FilterUnmappedReads(_ *Header) RecordFilter {
	return func(rec *Record) bool { return !rec.IsUnmapped() }
}

// FilterUnmappedReadsStrict is a filter for removing unmapped
// records, based on FLAG, or POS=0, or RNAME=*.
func FilterUnmappedReadsStrict(_ *Header) RecordFilter {
	return func(rec *Record) bool {
		return !rec.IsUnmapped() && (rec.POS != "0") && (rec.RNAME != "*")
	}
}

// FilterDuplicateReads is a filter for removing duplicate records,
// based on FLAG.
func FilterDuplicateReads(_ *Header) RecordFilter {
	return func(rec *Record) bool { return !rec.IsDuplicate() }
}

// FilterQCFailedReads is a filter for removing records that have
// failed platform or vendor quality checks, based on FLAG.
func FilterQCFailedReads(_ *Header) RecordFilter {
	return func(rec *Record) bool { return !rec.IsQCFailed() }
}

// FilterReferenceName returns a filter for keeping only records
// aligned to the given reference sequence name.
func FilterReferenceName(sn string) Filter {
	return func(_ *Header) RecordFilter {
		return func(rec *Record) bool { return rec.RNAME == sn }
	}
}
