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
// File Name:  json.go
//
// ==========================================================================

package kgutils

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// ReadJSONTable decodes an array of objects. Objects are parsed as YAML flow
// mappings so key order survives.
func ReadJSONTable(data []byte, file string) (*Table, error) {

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &SchemaError{File: file, Reason: "empty JSON document"}
	}
	if !json.Valid(data) {
		return nil, &ParseError{File: file, Reason: "invalid JSON"}
	}

	var rows []yaml.MapSlice
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, &ParseError{File: file, Reason: "expected an array of objects", Err: err}
	}

	bldr := newRecordBuilder(file)
	for _, rec := range rows {
		bldr.add(rec)
	}
	return bldr.build()
}

// ReadJSONLines decodes one object per line; malformed lines are reported and
// skipped
func ReadJSONLines(inp io.Reader, file string, opts ReadOptions) (*Table, error) {

	bldr := newRecordBuilder(file)

	for line := range CreateLineProducer(inp) {

		if line.Err != nil {
			return nil, &IOError{Op: "read", Path: file, Err: line.Err}
		}

		txt := strings.TrimSpace(line.Text)
		if txt == "" {
			continue
		}

		if !json.Valid([]byte(txt)) {
			opts.report(&ParseError{File: file, Line: line.Number, Reason: "invalid JSON"})
			continue
		}

		var rec yaml.MapSlice
		if err := yaml.Unmarshal([]byte(txt), &rec); err != nil {
			opts.report(&ParseError{File: file, Line: line.Number, Reason: "expected an object", Err: err})
			continue
		}
		bldr.add(rec)
	}

	return bldr.build()
}

func writeJSONObject(wrtr *bufio.Writer, tbl *Table, names [][]byte, row int) error {

	wrtr.WriteString("{")
	for i, col := range tbl.Columns() {
		if i > 0 {
			wrtr.WriteString(",")
		}
		wrtr.Write(names[i])
		wrtr.WriteString(":")
		buff, err := json.Marshal(typedValue(col.Type, col.Values[row]))
		if err != nil {
			return err
		}
		wrtr.Write(buff)
	}
	wrtr.WriteString("}")
	return nil
}

func encodedNames(tbl *Table) ([][]byte, error) {

	names := make([][]byte, tbl.NumCols())
	for i, name := range tbl.Names() {
		buff, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		names[i] = buff
	}
	return names, nil
}

// WriteJSONTable encodes rows as an array of objects in column order
func WriteJSONTable(tbl *Table) ([]byte, error) {

	names, err := encodedNames(tbl)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	wrtr := bufio.NewWriter(&buf)

	wrtr.WriteString("[")
	for r := 0; r < tbl.NumRows(); r++ {
		if r > 0 {
			wrtr.WriteString(",")
		}
		wrtr.WriteString("\n  ")
		if err := writeJSONObject(wrtr, tbl, names, r); err != nil {
			return nil, err
		}
	}
	wrtr.WriteString("\n]\n")

	if err := wrtr.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSONLines encodes one object per line
func WriteJSONLines(out io.Writer, tbl *Table) error {

	names, err := encodedNames(tbl)
	if err != nil {
		return err
	}

	wrtr := bufio.NewWriter(out)
	for r := 0; r < tbl.NumRows(); r++ {
		if err := writeJSONObject(wrtr, tbl, names, r); err != nil {
			return err
		}
		wrtr.WriteString("\n")
	}
	return wrtr.Flush()
}
