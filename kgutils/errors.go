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
// File Name:  errors.go
//
// ==========================================================================

package kgutils

import (
	"errors"
	"fmt"
)

// ErrNoSources is returned when a merge is started without input tables
var ErrNoSources = errors.New("no source tables")

// SchemaError reports a missing, duplicated or otherwise unusable column
type SchemaError struct {
	Column string
	File   string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {

	msg := "schema error"
	if e.File != "" {
		msg += " in " + e.File
	}
	if e.Column != "" {
		msg += fmt.Sprintf(": column '%s'", e.Column)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// TypeMismatchError reports column datatypes that cannot be compared or combined
type TypeMismatchError struct {
	Column string
	Left   DataType
	Right  DataType
	Value  string
}

func (e *TypeMismatchError) Error() string {

	if e.Value != "" {
		return fmt.Sprintf("type mismatch: column '%s': value '%s' is not %s", e.Column, e.Value, e.Left)
	}
	return fmt.Sprintf("type mismatch: column '%s': %s vs %s", e.Column, e.Left, e.Right)
}

// ParseError describes one malformed row; readers skip the row and continue
type ParseError struct {
	File   string
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {

	msg := "parse error"
	if e.File != "" {
		msg += " in " + e.File
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError wraps a failed open, read, create or write
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("unable to %s '%s': %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// MergeError identifies the merge step that aborted a run
type MergeError struct {
	Step   int
	Source string
	Err    error
}

func (e *MergeError) Error() string {

	if e.Source != "" {
		return fmt.Sprintf("merge step %d (%s): %v", e.Step, e.Source, e.Err)
	}
	return fmt.Sprintf("merge step %d: %v", e.Step, e.Err)
}

func (e *MergeError) Unwrap() error {
	return e.Err
}
