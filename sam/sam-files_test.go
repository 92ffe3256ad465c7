// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

package sam

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const example1 = "@HD\tVN:1.6\tSO:queryname\n" +
	"@SQ\tSN:1\tLN:1195517\n" +
	"@SQ\tSN:2\tLN:6358\n" +
	"@RG\tID:group1\tSM:sample1\n" +
	"readA\t0\t1\t100\t60\t10M\t*\t0\t0\tACGT\t####\n" +
	"readB\t16\t2\t1056\t60\t4M\t*\t0\t0\tTGTA\t!!!!\n" +
	"readC\t4\t*\t0\t0\t*\t*\t0\t0\tCCGT\t####\tNM:i:0\tRG:Z:group1\n"

func parseString(t *testing.T, s string) (*InputFile, *Header) {
	t.Helper()
	in := NewReader(strings.NewReader(s))
	hdr, err := in.ParseHeader()
	if err != nil {
		t.Fatal("unexpected header parse error: ", err)
	}
	return in, hdr
}

func TestExampleScenario(t *testing.T) {
	input := "@HD\tVN:1.6\tSO:queryname\n" +
		"@SQ\tSN:1\tLN:1195517\n" +
		"readA\t0\t1\t100\t60\t10M\t*\t0\t0\tACGT\t####\n"
	in, hdr := parseString(t, input)
	if hdr.HD == nil || hdr.HD.VN != "1.6" || hdr.HD.SO != "queryname" {
		t.Error("wrong @HD contents: ", hdr.HD)
	}
	if len(hdr.SQ) != 1 || hdr.SQ[0].SN != "1" || hdr.SQ[0].LN != "1195517" {
		t.Error("wrong @SQ contents: ", hdr.SQ)
	}
	rec, err := in.NextRecord()
	if err != nil {
		t.Fatal("unexpected record parse error: ", err)
	}
	if rec.QNAME != "readA" || rec.FLAG != "0" || rec.RNAME != "1" ||
		rec.POS != "100" || rec.MAPQ != "60" || rec.CIGAR != "10M" ||
		rec.RNEXT != "*" || rec.PNEXT != "0" || rec.TLEN != "0" ||
		rec.SEQ != "ACGT" || rec.QUAL != "####" {
		t.Error("wrong record contents: ", rec)
	}
	if _, err := in.NextRecord(); err != io.EOF {
		t.Error("expected io.EOF after last record, got ", err)
	}

	var out bytes.Buffer
	w := NewWriter(&out)
	if err := w.FormatHeader(hdr); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRecord(rec); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if out.String() != input {
		t.Errorf("round trip not byte-identical:\n%q\n%q", input, out.String())
	}
}

func TestRoundTrip(t *testing.T) {
	in, hdr := parseString(t, example1)
	records, err := in.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatal("expected 3 records, got ", len(records))
	}
	if len(records[2].TAGS) != 2 || records[2].TAGS[0] != "NM:i:0" || records[2].TAGS[1] != "RG:Z:group1" {
		t.Error("trailing tags not kept verbatim: ", records[2].TAGS)
	}
	var out bytes.Buffer
	w := NewWriter(&out)
	if err := w.FormatHeader(hdr); err != nil {
		t.Fatal(err)
	}
	for _, rec := range records {
		if err := w.WriteRecord(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if out.String() != example1 {
		t.Errorf("round trip not byte-identical:\n%q\n%q", example1, out.String())
	}

	// reparsing the serialized form yields identical values
	in2, hdr2 := parseString(t, out.String())
	records2, err := in2.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if *hdr2.HD != *hdr.HD || len(hdr2.SQ) != len(hdr.SQ) || len(hdr2.RG) != len(hdr.RG) {
		t.Error("reparsed header differs")
	}
	for i, rec := range records {
		rec2 := records2[i]
		if rec2.QNAME != rec.QNAME || rec2.FLAG != rec.FLAG || rec2.QUAL != rec.QUAL {
			t.Error("reparsed record differs at index ", i)
		}
	}
}

func TestRecordsWithLeadingZeros(t *testing.T) {
	input := "readA\t007\t1\t007\t060\t*\t*\t0\t0\t*\t*\n"
	in := NewReader(strings.NewReader(input))
	rec, err := in.NextRecord()
	if err != nil {
		t.Fatal(err)
	}
	if rec.FLAG != "007" || rec.POS != "007" || rec.MAPQ != "060" {
		t.Error("leading zeros not preserved: ", rec)
	}
	var out bytes.Buffer
	w := NewWriter(&out)
	if err := w.WriteRecord(rec); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if out.String() != input {
		t.Error("leading zeros lost in round trip: ", out.String())
	}
}

func TestHeaderOrdering(t *testing.T) {
	_, hdr := parseString(t, example1)
	if len(hdr.SQ) != 2 || hdr.SQ[0].SN != "1" || hdr.SQ[1].SN != "2" {
		t.Error("@SQ input order not preserved: ", hdr.SQ)
	}
	if len(hdr.RG) != 1 || hdr.RG[0] != "@RG\tID:group1\tSM:sample1" {
		t.Error("@RG line not stored verbatim: ", hdr.RG)
	}

	in := NewReader(strings.NewReader("@SQ\tSN:1\tLN:100\n@HD\tVN:1.6\n"))
	_, err := in.ParseHeader()
	var perr *ParsingError
	if !errors.As(err, &perr) {
		t.Fatal("expected ParsingError for @HD not in first line, got ", err)
	}
	if perr.LineNumber != 2 {
		t.Error("wrong line number for misplaced @HD: ", perr.LineNumber)
	}
}

func TestMandatoryHeaderFields(t *testing.T) {
	for _, test := range []string{
		"@HD\tSO:queryname\n",     // VN missing
		"@SQ\tSN:1\n",             // LN missing
		"@SQ\tLN:100\n",           // SN missing
		"@HD\n",                   // no fields at all
		"@SQ\tSN:1\tSN:2\tLN:5\n", // duplicate field tag
		"@SQ\tSNX\tLN:5\n",        // malformed field
	} {
		in := NewReader(strings.NewReader(test))
		_, err := in.ParseHeader()
		var perr *ParsingError
		if !errors.As(err, &perr) {
			t.Errorf("expected ParsingError for %q, got %v", test, err)
		} else if perr.LineNumber != 1 {
			t.Errorf("wrong line number for %q: %v", test, perr.LineNumber)
		}
	}
}

func TestUnrecognizedHeaderContent(t *testing.T) {
	input := "@HD\tVN:1.6\tGO:none\n" +
		"@SQ\tSN:1\tLN:100\tM5:abcdef\n" +
		"@PG\tID:prog\tPN:prog\n" +
		"@CO\tfree text comment\n" +
		"readA\t0\t1\t1\t60\t*\t*\t0\t0\t*\t*\n"
	in, hdr := parseString(t, input)
	if hdr.HD.VN != "1.6" || hdr.HD.SO != "" {
		t.Error("unrecognized @HD keys should be ignored: ", hdr.HD)
	}
	if len(hdr.SQ) != 1 || hdr.SQ[0].SN != "1" || hdr.SQ[0].LN != "100" {
		t.Error("unrecognized @SQ keys should be ignored: ", hdr.SQ)
	}
	rec, err := in.NextRecord()
	if err != nil {
		t.Fatal("header parser did not stop at the first record line: ", err)
	}
	if rec.QNAME != "readA" {
		t.Error("wrong first record after skipped header lines: ", rec.QNAME)
	}
}

func makeMalformedInput(badLine int) string {
	var sb strings.Builder
	for i := 1; i <= badLine; i++ {
		if i == badLine {
			sb.WriteString("this line is not a SAM record\n")
		} else {
			fmt.Fprintf(&sb, "read%v\t0\t1\t%v\t60\t4M\t*\t0\t0\tACGT\t####\n", i, i)
		}
	}
	return sb.String()
}

func TestParsingErrorLineNumbers(t *testing.T) {
	for _, badLine := range []int{1, 5, 100} {
		in := NewReader(strings.NewReader(makeMalformedInput(badLine)))
		var err error
		for err == nil {
			_, err = in.NextRecord()
		}
		var perr *ParsingError
		if !errors.As(err, &perr) {
			t.Fatalf("expected ParsingError at line %v, got %v", badLine, err)
		}
		if perr.LineNumber != badLine {
			t.Errorf("expected line number %v, got %v", badLine, perr.LineNumber)
		}
	}
}

func TestCleanTermination(t *testing.T) {
	for _, test := range []string{
		"readA\t0\t1\t100\t60\t10M\t*\t0\t0\tACGT\t####\n",
		"readA\t0\t1\t100\t60\t10M\t*\t0\t0\tACGT\t####", // no trailing newline
		"readA\t0\t1\t100\t60\t10M\t*\t0\t0\tACGT\t####\n\n\n",
	} {
		in := NewReader(strings.NewReader(test))
		rec, err := in.NextRecord()
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", test, err)
		}
		if rec.QUAL != "####" {
			t.Error("truncated last field: ", rec.QUAL)
		}
		if _, err := in.NextRecord(); err != io.EOF {
			t.Errorf("expected io.EOF for %q, got %v", test, err)
		}
		// once exhausted, stays exhausted
		if _, err := in.NextRecord(); err != io.EOF {
			t.Errorf("reader did not stay exhausted for %q: %v", test, err)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	in, hdr := parseString(t, "")
	if hdr.HD != nil || len(hdr.SQ) != 0 || len(hdr.RG) != 0 {
		t.Error("expected empty header: ", hdr)
	}
	if _, err := in.NextRecord(); err != io.EOF {
		t.Error("expected io.EOF on empty input, got ", err)
	}
}

func TestHeaderOnlyInput(t *testing.T) {
	in, hdr := parseString(t, "@HD\tVN:1.6\n@SQ\tSN:1\tLN:100\n")
	if hdr.HD.VN != "1.6" || len(hdr.SQ) != 1 {
		t.Error("wrong header: ", hdr)
	}
	if _, err := in.NextRecord(); err != io.EOF {
		t.Error("expected io.EOF on header-only input, got ", err)
	}
}

func TestTruncatedRecord(t *testing.T) {
	in := NewReader(strings.NewReader("readA\t0\t1\t100\t60\t10M\n"))
	_, err := in.NextRecord()
	var perr *ParsingError
	if !errors.As(err, &perr) {
		t.Fatal("expected ParsingError for truncated record, got ", err)
	}
	if perr.LineNumber != 1 {
		t.Error("wrong line number: ", perr.LineNumber)
	}
}

func TestSkipHeader(t *testing.T) {
	in := NewReader(strings.NewReader(example1))
	if err := in.SkipHeader(); err != nil {
		t.Fatal(err)
	}
	rec, err := in.NextRecord()
	if err != nil {
		t.Fatal(err)
	}
	if rec.QNAME != "readA" {
		t.Error("SkipHeader did not stop at the first record line: ", rec.QNAME)
	}
}

func TestCloseIdempotent(t *testing.T) {
	in := NewReader(strings.NewReader(example1))
	if err := in.Close(); err != nil {
		t.Error(err)
	}
	if err := in.Close(); err != nil {
		t.Error("second Close failed: ", err)
	}
}

func TestOpenCreate(t *testing.T) {
	dir, err := ioutil.TempDir("", "samio")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	for _, name := range []string{"example.sam", "example.sam.gz"} {
		filename := filepath.Join(dir, name)
		out, err := Create(filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := out.Write([]byte(example1)); err != nil {
			t.Fatal(err)
		}
		if err := out.Close(); err != nil {
			t.Fatal(err)
		}

		in, err := Open(filename)
		if err != nil {
			t.Fatal(err)
		}
		hdr, err := in.ParseHeader()
		if err != nil {
			t.Fatal(err)
		}
		if len(hdr.SQ) != 2 {
			t.Error("wrong header from ", name, ": ", hdr.SQ)
		}
		records, err := in.ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 3 {
			t.Error("wrong number of records from ", name, ": ", len(records))
		}
		if err := in.Close(); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := Open(filepath.Join(dir, "example.bam")); err == nil {
		t.Error("expected an error when opening a .bam file")
	}
	if _, err := Create(filepath.Join(dir, "example.cram")); err == nil {
		t.Error("expected an error when creating a .cram file")
	}
}
