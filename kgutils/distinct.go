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
// File Name:  distinct.go
//
// ==========================================================================

package kgutils

import (
	"hash"

	"github.com/minio/highwayhash"
)

var fingerprintKey = []byte("kgutils-row-fingerprint-key-0001")

// rowHasher fingerprints selected columns of a row
type rowHasher struct {
	cols []*Column
	h    hash.Hash64
	buf  []byte
}

func newRowHasher(cols []*Column) (*rowHasher, error) {

	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return nil, err
	}
	return &rowHasher{cols: cols, h: h}, nil
}

// sum hashes each cell with a null marker and a terminator so that adjacent
// cells cannot run together
func (rh *rowHasher) sum(row int) uint64 {

	rh.h.Reset()
	for _, col := range rh.cols {
		v := col.Values[row]
		rh.buf = rh.buf[:0]
		if v.Valid {
			rh.buf = append(rh.buf, 1)
			rh.buf = append(rh.buf, v.Text...)
		} else {
			rh.buf = append(rh.buf, 0)
		}
		rh.buf = append(rh.buf, 0xff)
		rh.h.Write(rh.buf)
	}
	return rh.h.Sum64()
}

func (rh *rowHasher) same(a, b int) bool {

	for _, col := range rh.cols {
		if col.Values[a] != col.Values[b] {
			return false
		}
	}
	return true
}

func hasherFor(tbl *Table, columns []string) (*rowHasher, error) {

	var cols []*Column
	if len(columns) == 0 {
		cols = tbl.Columns()
	} else {
		for _, name := range columns {
			col, ok := tbl.Column(name)
			if !ok {
				return nil, &SchemaError{Column: name, Reason: "column not found"}
			}
			cols = append(cols, col)
		}
	}
	return newRowHasher(cols)
}

// Distinct keeps the first row for each distinct combination of the named
// columns, or of all columns when none are named
func Distinct(tbl *Table, columns ...string) (*Table, error) {

	rh, err := hasherFor(tbl, columns)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64][]int, tbl.NumRows())
	keep := make([]int, 0, tbl.NumRows())

	for r := 0; r < tbl.NumRows(); r++ {
		sum := rh.sum(r)
		dup := false
		for _, prev := range seen[sum] {
			if rh.same(prev, r) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen[sum] = append(seen[sum], r)
		keep = append(keep, r)
	}

	if len(keep) == tbl.NumRows() {
		return tbl, nil
	}
	return tbl.Take(keep), nil
}
