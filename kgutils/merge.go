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
// File Name:  merge.go
//
// ==========================================================================

package kgutils

import (
	"context"
	"fmt"
	"time"
)

// Source pairs a table with the name used in diagnostics and errors
type Source struct {
	Name  string
	Table *Table
}

// Merger folds a sequence of tables into one by repeated outer join and
// coalescing. Results depend on source order: for every candidate stem the
// first non-null value seen wins.
type Merger struct {
	Key        JoinKey
	Candidates []string
	Stats      *MergeStats
}

// NewMerger validates the key up front
func NewMerger(key JoinKey, candidates []string) (*Merger, error) {

	if err := key.validate(); err != nil {
		return nil, err
	}
	return &Merger{Key: key, Candidates: candidates}, nil
}

// Seed returns the initial accumulator: key columns only, String, zero rows
func (m *Merger) Seed() (*Table, error) {

	if err := m.Key.validate(); err != nil {
		return nil, err
	}
	return EmptyTable(String, m.Key...)
}

// Step joins one source into the accumulator and reconciles collisions.
// Step numbers start at 1.
func (m *Merger) Step(acc *Table, step int, src Source) (*Table, []Diagnostic, error) {

	start := time.Now()

	if src.Table == nil {
		return nil, nil, &MergeError{Step: step, Source: src.Name, Err: &SchemaError{Reason: "source table is nil"}}
	}

	joined, err := OuterJoin(acc, src.Table, m.Key)
	if err != nil {
		return nil, nil, &MergeError{Step: step, Source: src.Name, Err: err}
	}

	out, diags, err := CoalesceColumns(joined, m.Candidates)
	if err != nil {
		return nil, nil, &MergeError{Step: step, Source: src.Name, Err: err}
	}

	for i := range diags {
		diags[i].Step = step
		diags[i].Source = src.Name
	}

	m.Stats.RecordStep(out.NumRows(), out.NumCols(), len(diags), time.Since(start))

	log.Debugf("step %d (%s): %d rows, %d columns", step, src.Name, out.NumRows(), out.NumCols())

	return out, diags, nil
}

// Merge runs every step in order and stops at the first failure. No partial
// result is returned on error.
func (m *Merger) Merge(sources []Source) (*Table, []Diagnostic, error) {

	acc, err := m.Seed()
	if err != nil {
		return nil, nil, err
	}

	var diags []Diagnostic

	for i, src := range sources {
		next, found, err := m.Step(acc, i+1, src)
		if err != nil {
			m.Stats.RecordFailure()
			return nil, nil, err
		}
		acc = next
		diags = append(diags, found...)
	}

	return acc, diags, nil
}

// MergeFiles reads and merges one location at a time, so only the accumulator
// and the current source are resident. It logs a warning once the projected
// accumulator size passes half of physical memory.
func (m *Merger) MergeFiles(ctx context.Context, locations []string, opts ReadOptions) (*Table, []Diagnostic, error) {

	acc, err := m.Seed()
	if err != nil {
		return nil, nil, err
	}

	var diags []Diagnostic
	warned := false

	for i, loc := range locations {
		if err := ctx.Err(); err != nil {
			return nil, nil, &MergeError{Step: i + 1, Source: loc, Err: err}
		}

		tbl, err := ReadTable(ctx, loc, opts)
		if err != nil {
			m.Stats.RecordFailure()
			return nil, nil, &MergeError{Step: i + 1, Source: loc, Err: err}
		}

		next, found, err := m.Step(acc, i+1, Source{Name: loc, Table: tbl})
		if err != nil {
			m.Stats.RecordFailure()
			return nil, nil, err
		}
		acc = next
		diags = append(diags, found...)

		if !warned {
			if est, total, ok := CheckFootprint(acc.NumRows(), acc.NumCols()); !ok {
				log.Warningf("accumulator estimated at %s exceeds half of %s physical memory", humanBytes(est), humanBytes(total))
				warned = true
			}
		}
	}

	return acc, diags, nil
}

// MergeSequence merges in-memory tables in order with a one-off Merger
func MergeSequence(sources []*Table, key JoinKey, candidates []string) (*Table, []Diagnostic, error) {

	m, err := NewMerger(key, candidates)
	if err != nil {
		return nil, nil, err
	}

	named := make([]Source, len(sources))
	for i, tbl := range sources {
		named[i] = Source{Name: fmt.Sprintf("source %d", i+1), Table: tbl}
	}

	return m.Merge(named)
}
