// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

package sam

import (
	"fmt"
	"strconv"
	"sync"
	"unicode"
)

// FileFormatVersion is the version of the SAM specification this
// library writes into generated @HD lines.
const FileFormatVersion = "1.6"

// A ParsingError is returned when a header or alignment line violates
// the expected field layout. It carries the 1-based line number of
// the offending line in the input.
type ParsingError struct {
	LineNumber int
	Err        error
}

func (err *ParsingError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("%v, at line %v", err.Err, err.LineNumber)
	}
	return fmt.Sprintf("structural parsing error at line %v", err.LineNumber)
}

func (err *ParsingError) Unwrap() error { return err.Err }

type (
	// HD represents the file-level metadata of an @HD header
	// line. VN is mandatory; SO is empty when absent.
	HD struct {
		VN string
		SO string
	}

	// SQ represents one entry of the reference sequence dictionary.
	// SN and LN are mandatory. LN is kept as raw text, so that
	// formatting a parsed header reproduces the input exactly.
	SQ struct {
		SN string
		LN string
	}

	// A Header represents the header block of a SAM file.
	//
	// HD is nil when the input has no @HD line. If an @HD line is
	// present, it must be the first line of the file. The order of
	// the SQ entries defines the alignment sorting order and is
	// preserved. RG lines are kept verbatim; multiple @RG lines are
	// allowed, in any order.
	Header struct {
		HD *HD
		SQ []SQ
		RG []string
	}
)

// NewHeader allocates and initializes an empty SAM header.
func NewHeader() *Header { return &Header{} }

// EnsureHD returns the HD entry of the header, adding an empty one
// with the default format version if absent.
func (hdr *Header) EnsureHD() *HD {
	if hdr.HD == nil {
		hdr.HD = &HD{VN: FileFormatVersion}
	}
	return hdr.HD
}

// HDSO returns the sorting order stored in the @HD line, or "unknown"
// when it is absent.
func (hdr *Header) HDSO() SortingOrder {
	if hdr.HD == nil || hdr.HD.SO == "" {
		return Unknown
	}
	return SortingOrder(hdr.HD.SO)
}

// SetHDSO sets the sorting order in the @HD line, adding an @HD line
// if necessary.
func (hdr *Header) SetHDSO(so SortingOrder) {
	hdr.EnsureHD().SO = string(so)
}

// SQIndex returns the position of the reference with the given name
// in the reference sequence dictionary, or -1 if there is no such
// reference.
func (hdr *Header) SQIndex(sn string) int {
	for index, sq := range hdr.SQ {
		if sq.SN == sn {
			return index
		}
	}
	return -1
}

// SortingOrder represents the possible values of the SO field of an
// @HD header line.
type SortingOrder string

// Sorting orders.
const (
	Keep       SortingOrder = "keep"
	Unknown    SortingOrder = "unknown"
	Unsorted   SortingOrder = "unsorted"
	Queryname  SortingOrder = "queryname"
	Coordinate SortingOrder = "coordinate"
)

// A Record represents one alignment line of a SAM file.
//
// The 11 mandatory fields are stored as raw text, with no numeric
// coercion, so values such as leading zeros or the * sentinel survive
// a round trip unchanged. Use the accessor methods for on-demand
// numeric views. TAGS holds the optional fields past the eleventh,
// verbatim and in input order.
type Record struct {
	QNAME string
	FLAG  string
	RNAME string
	POS   string
	MAPQ  string
	CIGAR string
	RNEXT string
	PNEXT string
	TLEN  string
	SEQ   string
	QUAL  string
	TAGS  []string
}

// FlagUint returns the FLAG field as an unsigned integer.
func (rec *Record) FlagUint() (uint16, error) {
	value, err := strconv.ParseUint(rec.FLAG, 10, 16)
	return uint16(value), err
}

// PosInt returns the POS field as an integer.
func (rec *Record) PosInt() (int32, error) {
	value, err := strconv.ParseInt(rec.POS, 10, 32)
	return int32(value), err
}

// PnextInt returns the PNEXT field as an integer.
func (rec *Record) PnextInt() (int32, error) {
	value, err := strconv.ParseInt(rec.PNEXT, 10, 32)
	return int32(value), err
}

// TlenInt returns the TLEN field as an integer.
func (rec *Record) TlenInt() (int32, error) {
	value, err := strconv.ParseInt(rec.TLEN, 10, 32)
	return int32(value), err
}

// MapqByte returns the MAPQ field as an unsigned integer.
func (rec *Record) MapqByte() (byte, error) {
	value, err := strconv.ParseUint(rec.MAPQ, 10, 8)
	return byte(value), err
}

// Bit values of the FLAG field.
const (
	Multiple      = 0x1
	Proper        = 0x2
	Unmapped      = 0x4
	NextUnmapped  = 0x8
	Reversed      = 0x10
	NextReversed  = 0x20
	First         = 0x40
	Last          = 0x80
	Secondary     = 0x100
	QCFailed      = 0x200
	Duplicate     = 0x400
	Supplementary = 0x800
)

// flags parses the FLAG field, treating unparsable text as 0.
func (rec *Record) flags() uint16 {
	value, _ := strconv.ParseUint(rec.FLAG, 10, 16)
	return uint16(value)
}

// IsMultiple checks the FLAG against the Multiple bit.
func (rec *Record) IsMultiple() bool { return (rec.flags() & Multiple) != 0 }

// IsProper checks the FLAG against the Proper bit.
func (rec *Record) IsProper() bool { return (rec.flags() & Proper) != 0 }

// IsUnmapped checks the FLAG against the Unmapped bit.
func (rec *Record) IsUnmapped() bool { return (rec.flags() & Unmapped) != 0 }

// IsNextUnmapped checks the FLAG against the NextUnmapped bit.
func (rec *Record) IsNextUnmapped() bool { return (rec.flags() & NextUnmapped) != 0 }

// IsReversed checks the FLAG against the Reversed bit.
func (rec *Record) IsReversed() bool { return (rec.flags() & Reversed) != 0 }

// IsNextReversed checks the FLAG against the NextReversed bit.
func (rec *Record) IsNextReversed() bool { return (rec.flags() & NextReversed) != 0 }

// IsFirst checks the FLAG against the First bit.
func (rec *Record) IsFirst() bool { return (rec.flags() & First) != 0 }

// IsLast checks the FLAG against the Last bit.
func (rec *Record) IsLast() bool { return (rec.flags() & Last) != 0 }

// IsSecondary checks the FLAG against the Secondary bit.
func (rec *Record) IsSecondary() bool { return (rec.flags() & Secondary) != 0 }

// IsQCFailed checks the FLAG against the QCFailed bit.
func (rec *Record) IsQCFailed() bool { return (rec.flags() & QCFailed) != 0 }

// IsDuplicate checks the FLAG against the Duplicate bit.
func (rec *Record) IsDuplicate() bool { return (rec.flags() & Duplicate) != 0 }

// IsSupplementary checks the FLAG against the Supplementary bit.
func (rec *Record) IsSupplementary() bool { return (rec.flags() & Supplementary) != 0 }

// A Sam value represents the contents of a SAM file in memory.
type Sam struct {
	Header  *Header
	Records []*Record
}

// NewSam allocates and initializes an empty Sam value.
func NewSam() *Sam { return &Sam{Header: NewHeader()} }

// CigarOperations contains all valid CIGAR operations.
const CigarOperations = "MmIiDdNnSsHhPpXx="

var cigarOperationsTable = make(map[byte]byte, len(CigarOperations))

func init() {
	for _, c := range CigarOperations {
		cigarOperationsTable[byte(c)] = byte(unicode.ToUpper(rune(c)))
	}
}

func isDigit(char byte) bool { return ('0' <= char) && (char <= '9') }

// A CigarOperation represents a CIGAR operation with its length.
type CigarOperation struct {
	Length    int32
	Operation byte // 'M', 'I', 'D', 'N', 'S', 'H', 'P', '=', or 'X'
}

func newCigarOperation(cigar string, i int) (op CigarOperation, j int, err error) {
	for j = i; ; j++ {
		if j >= len(cigar) {
			return op, j, fmt.Errorf("truncated CIGAR operation in %v", cigar)
		}
		if char := cigar[j]; !isDigit(char) {
			length, nerr := strconv.ParseInt(cigar[i:j], 10, 32)
			if nerr != nil {
				return op, j, nerr
			}
			operation := cigarOperationsTable[char]
			if operation == 0 {
				return op, j, fmt.Errorf("invalid CIGAR operation %v", string(char))
			}
			return CigarOperation{int32(length), operation}, j + 1, nil
		}
	}
}

var (
	cigarSliceCache      = map[string][]CigarOperation{"*": {}}
	cigarSliceCacheMutex = sync.RWMutex{}
)

func slowScanCigarString(cigar string) ([]CigarOperation, error) {
	var slice []CigarOperation
	for i := 0; i < len(cigar); {
		cigarOperation, j, err := newCigarOperation(cigar, i)
		if err != nil {
			return nil, fmt.Errorf("%v, while scanning CIGAR string %v", err, cigar)
		}
		slice = append(slice, cigarOperation)
		i = j
	}
	cigarSliceCacheMutex.Lock()
	if value, found := cigarSliceCache[cigar]; found {
		slice = value
	} else {
		cigarSliceCache[cigar] = slice
	}
	cigarSliceCacheMutex.Unlock()
	return slice, nil
}

// ScanCigarString converts a CIGAR string to a slice of
// CigarOperation. It uses an internal cache to reduce memory use,
// since many CIGAR strings recur in typical files.
func ScanCigarString(cigar string) ([]CigarOperation, error) {
	cigarSliceCacheMutex.RLock()
	value, found := cigarSliceCache[cigar]
	cigarSliceCacheMutex.RUnlock()
	if found {
		return value, nil
	}
	return slowScanCigarString(cigar)
}
