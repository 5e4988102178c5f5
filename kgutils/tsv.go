// ===========================================================================
//
//                            PUBLIC DOMAIN NOTICE
//            National Center for Biotechnology Information (NCBI)
//
//  This software/database is a "United States Government Work" under the
//  terms of the United States Copyright Act. It was written as part of
//  the author's official duties as a United States Government employee and
//  thus cannot be copyrighted. This software/database is freely available
//  to the public for use. The National Library of Medicine and the U.S.
//  Government do not place any restriction on its use or reproduction.
//  We would, however, appreciate having the NCBI and the author cited in
//  any work or product based on this material.
//
//  Although all reasonable efforts have been taken to ensure the accuracy
//  and reliability of the software and data, the NLM and the U.S.
//  Government do not and cannot warrant the performance or results that
//  may be obtained by using this software or data. The NLM and the U.S.
//  Government disclaim all warranties, express or implied, including
//  warranties of performance, merchantability or fitness for any particular
//  purpose.
//
// ===========================================================================
//
// File Name:  tsv.go
//
// ==========================================================================

package kgutils

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ReadOptions controls parsing of tabular input
type ReadOptions struct {
	// Delimiter overrides the one implied by the file extension
	Delimiter string
	// InferTypes promotes a column to Int64, Float64 or Bool when every
	// non-null value parses as that type
	InferTypes bool
	// OnParseError receives each skipped row; nil logs a warning instead
	OnParseError func(*ParseError)
}

func (o ReadOptions) report(perr *ParseError) {

	if o.OnParseError != nil {
		o.OnParseError(perr)
		return
	}
	log.Warning(perr.Error())
}

// tableBuilder collects raw text by column; empty text is null
type tableBuilder struct {
	file  string
	names []string
	cols  [][]string
}

func newTableBuilder(file string, names []string) (*tableBuilder, error) {

	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if name == "" {
			return nil, &SchemaError{File: file, Reason: "empty column name at position " + strconv.Itoa(i+1)}
		}
		if seen[name] {
			return nil, &SchemaError{File: file, Column: name, Reason: "duplicate column name"}
		}
		seen[name] = true
	}

	return &tableBuilder{file: file, names: names, cols: make([][]string, len(names))}, nil
}

// add pads short rows and truncates long ones
func (b *tableBuilder) add(fields []string) bool {

	ragged := len(fields) != len(b.names)
	for i := range b.names {
		str := ""
		if i < len(fields) {
			str = fields[i]
		}
		b.cols[i] = append(b.cols[i], str)
	}
	return ragged
}

func (b *tableBuilder) build(infer bool) (*Table, error) {

	cols := make([]*Column, len(b.names))

	for i, name := range b.names {
		dt := String
		if infer {
			dt = inferType(b.cols[i])
		}
		col, err := NewTypedColumn(name, dt, b.cols[i]...)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	tbl, err := NewTable(cols...)
	if err != nil {
		var serr *SchemaError
		if errors.As(err, &serr) && serr.File == "" {
			serr.File = b.file
		}
		return nil, err
	}
	return tbl, nil
}

func isBoolText(str string) bool {
	return strings.EqualFold(str, "true") || strings.EqualFold(str, "false")
}

// inferType picks the narrowest datatype that every non-null value fits
func inferType(vals []string) DataType {

	isInt, isFloat, isBool := true, true, true
	seen := false

	for _, str := range vals {
		if str == "" {
			continue
		}
		seen = true
		str = strings.TrimSpace(str)
		if isInt {
			if _, err := strconv.ParseInt(str, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(str, 64); err != nil {
				isFloat = false
			}
		}
		if isBool && !isBoolText(str) {
			isBool = false
		}
		if !isInt && !isFloat && !isBool {
			return String
		}
	}

	switch {
	case !seen:
		return String
	case isInt:
		return Int64
	case isFloat:
		return Float64
	case isBool:
		return Bool
	}
	return String
}

// ReadDelimited parses text with a header line. Ragged rows are padded or
// truncated to the header width; rows that are not valid UTF-8 are reported
// and skipped. Comma-delimited input honors CSV quoting.
func ReadDelimited(inp io.Reader, delim, file string, opts ReadOptions) (*Table, error) {

	if inp == nil {
		return nil, &IOError{Op: "read", Path: file, Err: errors.New("nil reader")}
	}
	if delim == "" {
		delim = "\t"
	}
	if delim == "," {
		return readCSV(inp, file, opts)
	}

	var bldr *tableBuilder
	ragged := 0

	lines := CreateLineProducer(inp)

	for line := range lines {

		if line.Err != nil {
			return nil, &IOError{Op: "read", Path: file, Err: line.Err}
		}

		// blank lines are skipped
		if line.Text == "" {
			continue
		}

		if !utf8.ValidString(line.Text) {
			opts.report(&ParseError{File: file, Line: line.Number, Reason: "invalid UTF-8"})
			continue
		}

		fields := strings.Split(line.Text, delim)

		if bldr == nil {
			b, err := newTableBuilder(file, fields)
			if err != nil {
				drainLines(lines)
				return nil, err
			}
			bldr = b
			continue
		}

		if bldr.add(fields) {
			ragged++
		}
	}

	if bldr == nil {
		return nil, &SchemaError{File: file, Reason: "missing header line"}
	}
	if ragged > 0 {
		log.Debugf("%s: %d ragged rows padded or truncated", file, ragged)
	}

	return bldr.build(opts.InferTypes)
}

func readCSV(inp io.Reader, file string, opts ReadOptions) (*Table, error) {

	rdr := csv.NewReader(inp)
	rdr.FieldsPerRecord = -1
	rdr.LazyQuotes = true

	var bldr *tableBuilder

	for {
		record, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				opts.report(&ParseError{File: file, Line: perr.Line, Err: perr.Err})
				continue
			}
			return nil, &IOError{Op: "read", Path: file, Err: err}
		}

		if bldr == nil {
			b, err := newTableBuilder(file, record)
			if err != nil {
				return nil, err
			}
			bldr = b
			continue
		}
		bldr.add(record)
	}

	if bldr == nil {
		return nil, &SchemaError{File: file, Reason: "missing header line"}
	}

	return bldr.build(opts.InferTypes)
}

// WriteDelimited writes a header line and one line per row. Nulls become empty
// fields. Tab output replaces embedded delimiters and line breaks with spaces;
// comma output uses CSV quoting.
func WriteDelimited(out io.Writer, tbl *Table, delim string) error {

	if delim == "" {
		delim = "\t"
	}
	if delim == "," {
		return writeCSV(out, tbl)
	}

	wrtr := bufio.NewWriter(out)

	clean := strings.NewReplacer(delim, " ", "\r\n", " ", "\n", " ", "\r", " ")

	for i, name := range tbl.Names() {
		if i > 0 {
			wrtr.WriteString(delim)
		}
		wrtr.WriteString(clean.Replace(name))
	}
	wrtr.WriteString("\n")

	cols := tbl.Columns()
	for r := 0; r < tbl.NumRows(); r++ {
		for i, col := range cols {
			if i > 0 {
				wrtr.WriteString(delim)
			}
			if v := col.Values[r]; v.Valid {
				wrtr.WriteString(clean.Replace(v.Text))
			}
		}
		wrtr.WriteString("\n")
	}

	return wrtr.Flush()
}

func writeCSV(out io.Writer, tbl *Table) error {

	wrtr := csv.NewWriter(out)

	if err := wrtr.Write(tbl.Names()); err != nil {
		return err
	}

	record := make([]string, tbl.NumCols())
	for r := 0; r < tbl.NumRows(); r++ {
		for i, col := range tbl.Columns() {
			record[i] = col.Values[r].String()
		}
		if err := wrtr.Write(record); err != nil {
			return err
		}
	}

	wrtr.Flush()
	return wrtr.Error()
}

// TableToMap loads a two-column tab-delimited mapping, ignoring other lines,
// and returns the number of entries read
func TableToMap(inp io.Reader, mp map[string]string) int {

	if inp == nil || mp == nil {
		return 0
	}

	count := 0
	for line := range CreateLineProducer(inp) {
		if line.Err != nil {
			log.Warningf("mapping table line %d: %v", line.Number, line.Err)
			break
		}
		cols := strings.Split(line.Text, "\t")
		if len(cols) != 2 {
			continue
		}
		mp[cols[0]] = cols[1]
		count++
	}

	return count
}
