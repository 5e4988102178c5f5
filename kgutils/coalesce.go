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
// File Name:  coalesce.go
//
// ==========================================================================

package kgutils

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies non-fatal findings from the coalescing step
type DiagnosticKind int

// diagnostic kinds
const (
	// DiagnosticUnlistedCollision flags a _right column whose stem was not a candidate
	DiagnosticUnlistedCollision DiagnosticKind = iota
	// DiagnosticOrphanRenamed flags a _right column renamed back to its bare stem
	DiagnosticOrphanRenamed
)

func (k DiagnosticKind) String() string {

	switch k {
	case DiagnosticUnlistedCollision:
		return "unlisted-collision"
	case DiagnosticOrphanRenamed:
		return "orphan-renamed"
	}
	return "unknown"
}

// Diagnostic is a warning raised while reconciling columns
type Diagnostic struct {
	Kind   DiagnosticKind
	Column string
	Step   int
	Source string
}

func (d Diagnostic) String() string {

	prefix := ""
	if d.Step > 0 {
		prefix = fmt.Sprintf("step %d", d.Step)
		if d.Source != "" {
			prefix += " (" + d.Source + ")"
		}
		prefix += ": "
	}

	switch d.Kind {
	case DiagnosticUnlistedCollision:
		return fmt.Sprintf("%scolumn '%s' left unmerged, add '%s' to the coalesce list",
			prefix, d.Column, strings.TrimSuffix(d.Column, RightSuffix))
	case DiagnosticOrphanRenamed:
		return fmt.Sprintf("%scolumn '%s' had no left counterpart and was renamed to '%s'",
			prefix, d.Column, strings.TrimSuffix(d.Column, RightSuffix))
	}
	return prefix + d.Column
}

// CoalesceColumns collapses each candidate stem c with its c_right partner into
// a single column c, taking the c value when it is non-null and the c_right
// value otherwise. A stem with only c is left alone. A stem with only c_right
// is renamed to c and reported. Any remaining _right column whose stem is not a
// candidate is kept and reported as an unlisted collision.
//
// The caller must list every stem expected to collide, or schema drift results.
// Running the function twice with the same candidates changes nothing the
// second time.
func CoalesceColumns(tbl *Table, candidates []string) (*Table, []Diagnostic, error) {

	if tbl == nil {
		return nil, nil, &SchemaError{Reason: "coalesce input is nil"}
	}

	var diags []Diagnostic

	out := tbl
	listed := make(map[string]bool, len(candidates))

	for _, stem := range candidates {
		if stem == "" || listed[stem] {
			continue
		}
		listed[stem] = true

		rname := stem + RightSuffix
		lcol, hasLeft := out.Column(stem)
		rcol, hasRight := out.Column(rname)

		switch {
		case hasLeft && hasRight:
			merged, err := coalescePair(lcol, rcol)
			if err != nil {
				return nil, nil, err
			}
			next, err := out.WithColumn(merged)
			if err != nil {
				return nil, nil, err
			}
			out = next.Drop(rname)
		case hasRight:
			next, err := out.Rename(rname, stem)
			if err != nil {
				return nil, nil, err
			}
			out = next
			diags = append(diags, Diagnostic{Kind: DiagnosticOrphanRenamed, Column: rname})
		}
	}

	for _, name := range out.Names() {
		if !strings.HasSuffix(name, RightSuffix) {
			continue
		}
		if listed[strings.TrimSuffix(name, RightSuffix)] {
			continue
		}
		diags = append(diags, Diagnostic{Kind: DiagnosticUnlistedCollision, Column: name})
	}

	return out, diags, nil
}

// coalescePair applies the left-biased first-non-null rule
func coalescePair(lcol, rcol *Column) (*Column, error) {

	dt, err := commonType(lcol.Name, lcol.Type, rcol.Type)
	if err != nil {
		return nil, err
	}

	lcol, rcol = widen(lcol, dt), widen(rcol, dt)

	out := &Column{Name: lcol.Name, Type: dt, Values: make([]Value, len(lcol.Values))}
	for i, v := range lcol.Values {
		if v.Valid {
			out.Values[i] = v
		} else {
			out.Values[i] = rcol.Values[i]
		}
	}

	return out, nil
}
