// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

package sam

import (
	"sort"

	psort "github.com/exascience/pargo/sort"
)

type (
	// By is a comparison predicate on Record pointers.
	By func(rec1, rec2 *Record) bool

	// RecordSorter is a sorter for slices of Record pointers,
	// implementing the pargo psort.StableSorter interface.
	RecordSorter struct {
		records []*Record
		by      By
	}
)

// SequentialSort implements the method of the psort.StableSorter interface.
func (s RecordSorter) SequentialSort(i, j int) {
	records, by := s.records[i:j], s.by
	sort.SliceStable(records, func(i, j int) bool {
		return by(records[i], records[j])
	})
}

// NewTemp implements the method of the psort.StableSorter interface.
func (s RecordSorter) NewTemp() psort.StableSorter {
	return RecordSorter{make([]*Record, len(s.records)), s.by}
}

// Len implements the method of the psort.StableSorter interface.
func (s RecordSorter) Len() int {
	return len(s.records)
}

// Less implements the method of the psort.StableSorter interface.
func (s RecordSorter) Less(i, j int) bool {
	return s.by(s.records[i], s.records[j])
}

// Assign implements the method of the psort.StableSorter interface.
func (s RecordSorter) Assign(p psort.StableSorter) func(i, j, len int) {
	dst, src := s.records, p.(RecordSorter).records
	return func(i, j, len int) {
		for k := 0; k < len; k++ {
			dst[i+k] = src[j+k]
		}
	}
}

// ParallelStableSort sorts a slice of Record pointers in parallel,
// preserving the input order of records that compare equal.
func (by By) ParallelStableSort(records []*Record) {
	psort.StableSort(RecordSorter{records, by})
}

// QNAMELess compares two records by query template name.
func QNAMELess(rec1, rec2 *Record) bool {
	return rec1.QNAME < rec2.QNAME
}

// SortByQueryName sorts the records of a Sam value by query template
// name and updates the SO field of its @HD line accordingly.
func (sam *Sam) SortByQueryName() {
	By(QNAMELess).ParallelStableSort(sam.Records)
	sam.Header.SetHDSO(Queryname)
}
