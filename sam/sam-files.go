// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

package sam

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/compbio/samio/internal"
	"github.com/compbio/samio/utils"
)

// SAM file extensions.
const (
	SamExt  = ".sam"
	GzExt   = ".gz"
	bamExt  = ".bam"
	cramExt = ".cram"
)

// An InputFile represents a SAM file for input.
//
// An InputFile is not safe for concurrent use. It reads its input in
// a single forward pass with one line of lookahead: parse the header
// first (ParseHeader or SkipHeader), then pull records with
// NextRecord, ReadAll, or a pipeline.
type InputFile struct {
	rc     io.ReadCloser
	gz     *gzip.Reader
	lines  *lineReader
	closed bool

	// pipeline.Source state, see filter-pipeline.go
	data interface{}
	err  error
}

// An OutputFile represents a SAM file for output.
//
// An OutputFile is not safe for concurrent use.
type OutputFile struct {
	wc     io.WriteCloser
	gz     *gzip.Writer
	buf    *bufio.Writer
	closed bool
}

// NewReader returns an InputFile that parses SAM data from r. The
// caller remains the owner of r; Close on the returned InputFile does
// not close it.
func NewReader(r io.Reader) *InputFile {
	return &InputFile{lines: newLineReader(bufio.NewReader(r))}
}

// NewWriter returns an OutputFile that writes SAM data to w. The
// caller remains the owner of w; Close on the returned OutputFile
// flushes buffered data but does not close it.
func NewWriter(w io.Writer) *OutputFile {
	return &OutputFile{buf: bufio.NewWriter(w)}
}

// Open opens a SAM file for input.
//
// Files with a .gz extension are transparently decompressed. BAM and
// CRAM files are not supported. If the name is "/dev/stdin", the
// input is read from os.Stdin.
func Open(name string) (*InputFile, error) {
	switch filepath.Ext(name) {
	case bamExt, cramExt:
		return nil, fmt.Errorf("binary SAM formats not supported when opening %v", name)
	case GzExt:
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		gz, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, err
		}
		return &InputFile{rc: file, gz: gz, lines: newLineReader(bufio.NewReader(gz))}, nil
	default:
		if name == "/dev/stdin" {
			return &InputFile{rc: os.Stdin, lines: newLineReader(bufio.NewReader(os.Stdin))}, nil
		}
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		return &InputFile{rc: file, lines: newLineReader(bufio.NewReader(file))}, nil
	}
}

// Create creates a SAM file for output.
//
// Files with a .gz extension are transparently compressed. BAM and
// CRAM files are not supported. If the name is "/dev/stdout", the
// output is written to os.Stdout.
func Create(name string) (*OutputFile, error) {
	switch filepath.Ext(name) {
	case bamExt, cramExt:
		return nil, fmt.Errorf("binary SAM formats not supported when creating %v", name)
	case GzExt:
		file, err := os.Create(name)
		if err != nil {
			return nil, err
		}
		gz := gzip.NewWriter(file)
		return &OutputFile{wc: file, gz: gz, buf: bufio.NewWriter(gz)}, nil
	default:
		if name == "/dev/stdout" {
			return &OutputFile{wc: os.Stdout, buf: bufio.NewWriter(os.Stdout)}, nil
		}
		file, err := os.Create(name)
		if err != nil {
			return nil, err
		}
		return &OutputFile{wc: file, buf: bufio.NewWriter(file)}, nil
	}
}

// Close closes the SAM input file. It is safe to call Close more than
// once. When the InputFile was made with NewReader, the underlying
// reader is left open.
func (f *InputFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.gz != nil {
		if err := f.gz.Close(); err != nil {
			return err
		}
	}
	if f.rc != nil && f.rc != os.Stdin {
		return f.rc.Close()
	}
	return nil
}

// Close flushes and closes the SAM output file. It is safe to call
// Close more than once. When the OutputFile was made with NewWriter,
// the underlying writer is left open.
func (f *OutputFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if err := f.buf.Flush(); err != nil {
		return err
	}
	if f.gz != nil {
		if err := f.gz.Close(); err != nil {
			return err
		}
	}
	if f.wc != nil && f.wc != os.Stdout {
		return f.wc.Close()
	}
	return nil
}

// parseHeaderLine parses the tag:value fields following the record
// type code of a SAM header line. Duplicate field tags are an error.
func parseHeaderLine(sc *StringScanner, fields string) (utils.StringMap, error) {
	sc.Reset(fields)
	record := make(utils.StringMap)
	for sc.Len() > 0 {
		tag, value := sc.ParseHeaderField()
		if sc.Err() != nil {
			return nil, sc.Err()
		}
		if !record.SetUniqueEntry(tag, value) {
			return nil, fmt.Errorf("duplicate field tag %v in SAM header line", tag)
		}
	}
	return record, nil
}

func (f *InputFile) headerError(err error) error {
	return &ParsingError{LineNumber: f.lines.lineNumber, Err: err}
}

// ParseHeader parses the header block of a SAM file: every leading
// line starting with @. It consumes the input exactly up to, not
// past, the first alignment line, which stays available to
// NextRecord.
//
// @HD and @SQ lines are decomposed; an @HD line without a VN field,
// an @SQ line without an SN or LN field, or an @HD line that is not
// the first line of the file result in a ParsingError. @RG lines are
// stored verbatim. Other header lines are skipped. Unrecognized field
// tags on @HD and @SQ lines are ignored.
func (f *InputFile) ParseHeader() (*Header, error) {
	hdr := NewHeader()
	var sc StringScanner
	for first := true; ; first = false {
		next, ok, err := f.lines.peek()
		if err != nil {
			return nil, err
		}
		if !ok || !strings.HasPrefix(next, "@") {
			return hdr, nil
		}
		line, _, _ := f.lines.next()
		code, fields := line, ""
		if i := strings.IndexByte(line, '\t'); i >= 0 {
			code, fields = line[:i], line[i+1:]
		}
		switch code {
		case "@HD":
			if !first {
				return nil, f.headerError(errors.New("@HD line not in first line when parsing a SAM header"))
			}
			record, err := parseHeaderLine(&sc, fields)
			if err != nil {
				return nil, f.headerError(err)
			}
			vn, found := record["VN"]
			if !found {
				return nil, f.headerError(errors.New("VN entry in an @HD header line missing"))
			}
			hdr.HD = &HD{VN: vn, SO: record["SO"]}
		case "@SQ":
			record, err := parseHeaderLine(&sc, fields)
			if err != nil {
				return nil, f.headerError(err)
			}
			sn, found := record["SN"]
			if !found {
				return nil, f.headerError(errors.New("SN entry in an @SQ header line missing"))
			}
			ln, found := record["LN"]
			if !found {
				return nil, f.headerError(errors.New("LN entry in an @SQ header line missing"))
			}
			hdr.SQ = append(hdr.SQ, SQ{SN: sn, LN: ln})
		case "@RG":
			hdr.RG = append(hdr.RG, line)
		default:
			// other header lines are skipped
		}
	}
}

// SkipHeader skips the header block of a SAM file. This is more
// efficient than calling ParseHeader and ignoring its result. Like
// ParseHeader, it leaves the input positioned at the first alignment
// line.
func (f *InputFile) SkipHeader() error {
	for {
		next, ok, err := f.lines.peek()
		if err != nil {
			return err
		}
		if !ok || !strings.HasPrefix(next, "@") {
			return nil
		}
		f.lines.next()
	}
}

// parseRecord parses one alignment line into a Record. The line must
// contain the 11 mandatory tab-separated fields; any fields past the
// eleventh are stored verbatim in TAGS.
func parseRecord(line string, lineNumber int) (*Record, error) {
	var sc StringScanner
	sc.Reset(line)

	rec := &Record{}
	rec.QNAME = sc.doString()
	rec.FLAG = sc.doString()
	rec.RNAME = sc.doString()
	rec.POS = sc.doString()
	rec.MAPQ = sc.doString()
	rec.CIGAR = sc.doString()
	rec.RNEXT = sc.doString()
	rec.PNEXT = sc.doString()
	rec.TLEN = sc.doString()
	rec.SEQ = sc.doString()
	rec.QUAL, _ = sc.readUntil('\t')

	for sc.Len() > 0 {
		tag, _ := sc.readUntil('\t')
		rec.TAGS = append(rec.TAGS, tag)
	}

	if err := sc.Err(); err != nil {
		return nil, &ParsingError{LineNumber: lineNumber, Err: err}
	}
	return rec, nil
}

// NextRecord returns the next alignment record, in file order.
//
// At the end of the input, NextRecord returns io.EOF; this is the
// clean termination signal, distinct from a *ParsingError, which is
// returned when a non-empty line cannot be decomposed into the
// expected field layout. Empty lines between records are skipped.
// Once the input is exhausted, NextRecord keeps returning io.EOF.
func (f *InputFile) NextRecord() (*Record, error) {
	for {
		line, ok, err := f.lines.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, io.EOF
		}
		if line == "" {
			continue
		}
		return parseRecord(line, f.lines.lineNumber)
	}
}

// ReadAll drains the remaining records into a slice, in file order.
// It is equivalent to calling NextRecord until io.EOF.
func (f *InputFile) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := f.NextRecord()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// Format appends the tab-delimited text representation of the record
// to out, terminated by a newline. The stored field text is trusted
// verbatim; no validation is performed.
func (rec *Record) Format(out []byte) []byte {
	out = append(append(out, rec.QNAME...), '\t')
	out = append(append(out, rec.FLAG...), '\t')
	out = append(append(out, rec.RNAME...), '\t')
	out = append(append(out, rec.POS...), '\t')
	out = append(append(out, rec.MAPQ...), '\t')
	out = append(append(out, rec.CIGAR...), '\t')
	out = append(append(out, rec.RNEXT...), '\t')
	out = append(append(out, rec.PNEXT...), '\t')
	out = append(append(out, rec.TLEN...), '\t')
	out = append(append(out, rec.SEQ...), '\t')
	out = append(out, rec.QUAL...)
	for _, tag := range rec.TAGS {
		out = append(append(out, '\t'), tag...)
	}
	return append(out, '\n')
}

func formatHeaderField(out *bufio.Writer, tag, value string) {
	out.WriteByte('\t')
	out.WriteString(tag)
	out.WriteByte(':')
	out.WriteString(value)
}

// FormatHeader writes the header block: the @HD line if present, then
// all @SQ lines in stored order, then all @RG lines. @HD fields are
// written in the order VN, SO; @SQ fields in the order SN, LN.
func (f *OutputFile) FormatHeader(hdr *Header) error {
	if hdr.HD != nil {
		f.buf.WriteString("@HD")
		formatHeaderField(f.buf, "VN", hdr.HD.VN)
		if hdr.HD.SO != "" {
			formatHeaderField(f.buf, "SO", hdr.HD.SO)
		}
		f.buf.WriteByte('\n')
	}
	for _, sq := range hdr.SQ {
		f.buf.WriteString("@SQ")
		formatHeaderField(f.buf, "SN", sq.SN)
		formatHeaderField(f.buf, "LN", sq.LN)
		f.buf.WriteByte('\n')
	}
	for _, rg := range hdr.RG {
		f.buf.WriteString(rg)
		f.buf.WriteByte('\n')
	}
	return f.buf.Flush()
}

// WriteRecord writes one alignment record as a tab-delimited line.
func (f *OutputFile) WriteRecord(rec *Record) error {
	buf := internal.ReserveLineBuffer()
	buf = rec.Format(buf)
	_, err := f.buf.Write(buf)
	internal.ReleaseLineBuffer(buf)
	return err
}

// Write can be used to write blocks of bytes from Record.Format to
// the underlying SAM file.
func (f *OutputFile) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

// Format writes the full in-memory SAM file: first the header, then
// all records in order.
func (sam *Sam) Format(f *OutputFile) error {
	if err := f.FormatHeader(sam.Header); err != nil {
		return err
	}
	for _, rec := range sam.Records {
		if err := f.WriteRecord(rec); err != nil {
			return err
		}
	}
	return nil
}
