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
// File Name:  stats.go
//
// ==========================================================================

package kgutils

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cactus/go-statsd-client/statsd"
	"github.com/pbnjay/memory"
)

// StatsSink receives merge counters; statsd.Statter satisfies it
type StatsSink interface {
	Inc(stat string, value int64, rate float32) error
	Gauge(stat string, value int64, rate float32) error
	Timing(stat string, delta int64, rate float32) error
	Close() error
}

// NewStatsdSink connects to a statsd daemon, or returns a no-op client when
// addr is empty
func NewStatsdSink(addr, prefix string) (StatsSink, error) {

	if addr == "" {
		return statsd.NewNoop()
	}
	return statsd.New(addr, prefix)
}

// MergeStats accumulates merge counters. A nil *MergeStats ignores updates.
type MergeStats struct {
	steps       atomic.Int64
	failures    atomic.Int64
	rows        atomic.Int64
	columns     atomic.Int64
	diagnostics atomic.Int64
	elapsed     atomic.Int64

	sink StatsSink
}

// NewMergeStats forwards every update to sink when it is non-nil
func NewMergeStats(sink StatsSink) *MergeStats {
	return &MergeStats{sink: sink}
}

// RecordStep notes the accumulator size after one step
func (s *MergeStats) RecordStep(rows, cols, diags int, d time.Duration) {

	if s == nil {
		return
	}

	s.steps.Add(1)
	s.rows.Store(int64(rows))
	s.columns.Store(int64(cols))
	s.diagnostics.Add(int64(diags))
	s.elapsed.Add(int64(d))

	if s.sink != nil {
		s.sink.Inc("merge.steps", 1, 1.0)
		s.sink.Gauge("merge.rows", int64(rows), 1.0)
		s.sink.Gauge("merge.columns", int64(cols), 1.0)
		if diags > 0 {
			s.sink.Inc("merge.diagnostics", int64(diags), 1.0)
		}
		s.sink.Timing("merge.step", d.Milliseconds(), 1.0)
	}
}

// RecordFailure counts an aborted merge
func (s *MergeStats) RecordFailure() {

	if s == nil {
		return
	}
	s.failures.Add(1)
	if s.sink != nil {
		s.sink.Inc("merge.failures", 1, 1.0)
	}
}

// StatsSnapshot is a point-in-time copy of the counters
type StatsSnapshot struct {
	Steps       int64         `json:"steps"`
	Failures    int64         `json:"failures"`
	Rows        int64         `json:"rows"`
	Columns     int64         `json:"columns"`
	Diagnostics int64         `json:"diagnostics"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// Snapshot reads all counters
func (s *MergeStats) Snapshot() StatsSnapshot {

	if s == nil {
		return StatsSnapshot{}
	}
	return StatsSnapshot{
		Steps:       s.steps.Load(),
		Failures:    s.failures.Load(),
		Rows:        s.rows.Load(),
		Columns:     s.columns.Load(),
		Diagnostics: s.diagnostics.Load(),
		Elapsed:     time.Duration(s.elapsed.Load()),
	}
}

// Close releases the sink
func (s *MergeStats) Close() error {

	if s == nil || s.sink == nil {
		return nil
	}
	return s.sink.Close()
}

// average bytes held per cell, including the Value header
const cellFootprint = 40

// EstimateFootprint approximates the resident size of a rows x cols table
func EstimateFootprint(rows, cols int) uint64 {

	if rows <= 0 || cols <= 0 {
		return 0
	}
	return uint64(rows) * uint64(cols) * cellFootprint
}

// CheckFootprint compares the estimate against half of physical memory. The
// check passes when total memory cannot be determined.
func CheckFootprint(rows, cols int) (estimate, total uint64, ok bool) {

	estimate = EstimateFootprint(rows, cols)
	total = memory.TotalMemory()
	if total == 0 {
		return estimate, total, true
	}
	return estimate, total, estimate <= total/2
}

func humanBytes(n uint64) string {

	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// ValueCount is one distinct value and its frequency
type ValueCount struct {
	Value string
	Count int
}

// ColumnCounts holds the frequency table for one column
type ColumnCounts struct {
	Column string
	Nulls  int
	Counts []ValueCount
}

// ValueCounts tallies distinct values per column, most frequent first. With
// no columns given it counts every column whose name starts with an underscore.
func ValueCounts(tbl *Table, columns ...string) ([]ColumnCounts, error) {

	if len(columns) == 0 {
		columns = UnderscoreColumns(tbl)
	}

	var res []ColumnCounts

	for _, name := range columns {
		col, ok := tbl.Column(name)
		if !ok {
			return nil, &SchemaError{Column: name, Reason: "column not found"}
		}

		tally := make(map[string]int)
		cc := ColumnCounts{Column: name}
		for _, v := range col.Values {
			if !v.Valid {
				cc.Nulls++
				continue
			}
			tally[v.Text]++
		}
		for val, n := range tally {
			cc.Counts = append(cc.Counts, ValueCount{Value: val, Count: n})
		}
		sort.Slice(cc.Counts, func(i, j int) bool {
			if cc.Counts[i].Count != cc.Counts[j].Count {
				return cc.Counts[i].Count > cc.Counts[j].Count
			}
			return cc.Counts[i].Value < cc.Counts[j].Value
		})
		res = append(res, cc)
	}

	return res, nil
}

// UnderscoreColumns lists non-primary columns, marked by a leading underscore
func UnderscoreColumns(tbl *Table) []string {

	var names []string
	for _, name := range tbl.Names() {
		if strings.HasPrefix(name, "_") {
			names = append(names, name)
		}
	}
	return names
}
