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
// File Name:  xlsx.go
//
// ==========================================================================

package kgutils

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// ReadXLSX reads the first worksheet, taking the first row as the header
func ReadXLSX(data []byte, file string, opts ReadOptions) (*Table, error) {

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &IOError{Op: "open workbook", Path: file, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &SchemaError{File: file, Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &IOError{Op: "read sheet " + sheets[0], Path: file, Err: err}
	}
	if len(rows) == 0 {
		return nil, &SchemaError{File: file, Reason: "missing header row"}
	}

	bldr, err := newTableBuilder(file, rows[0])
	if err != nil {
		return nil, err
	}
	for _, row := range rows[1:] {
		// GetRows omits trailing empty cells, so short rows are expected
		bldr.add(row)
	}

	return bldr.build(opts.InferTypes)
}

// WriteXLSX writes a single worksheet with typed cells
func WriteXLSX(tbl *Table) ([]byte, error) {

	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, tbl.NumCols())
	for i, name := range tbl.Names() {
		header[i] = name
	}
	if err := f.SetSheetRow(defaultSheet, "A1", &header); err != nil {
		return nil, err
	}

	cols := tbl.Columns()
	row := make([]interface{}, len(cols))

	for r := 0; r < tbl.NumRows(); r++ {
		for i, col := range cols {
			row[i] = typedValue(col.Type, col.Values[r])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(defaultSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
