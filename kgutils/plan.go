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
// File Name:  plan.go
//
// ==========================================================================

package kgutils

import (
	"context"
	"path"
	"strings"
)

// MergePlan names everything a merge run needs; it is read from TOML, YAML or
// JSON
type MergePlan struct {
	Output    string   `json:"output"`
	Format    string   `json:"format,omitempty"`
	Delimiter string   `json:"delimiter,omitempty"`
	Key       []string `json:"key"`
	Coalesce  []string `json:"coalesce,omitempty"`
	Sources   []string `json:"sources"`
	Infer     bool     `json:"infer,omitempty"`
	Stream    bool     `json:"stream,omitempty"`
}

func configExt(location string) string {

	location = strings.TrimSuffix(location, ".gz")
	return strings.ToLower(path.Ext(location))
}

// Validate checks required fields and fills in the default delimiter
func (p *MergePlan) Validate() error {

	if len(p.Sources) == 0 {
		return &SchemaError{Reason: "merge plan: " + ErrNoSources.Error(), Err: ErrNoSources}
	}
	if p.Output == "" {
		return &SchemaError{Column: "output", Reason: "merge plan needs an output location"}
	}
	if err := JoinKey(p.Key).validate(); err != nil {
		return err
	}
	if p.Format != "" {
		if _, ok := ParseFormat(p.Format); !ok {
			return &SchemaError{Column: "format", Reason: "unknown output format '" + p.Format + "'"}
		}
	}
	if p.Delimiter == "" {
		p.Delimiter = "\t"
	}
	if p.Delimiter == `\t` {
		p.Delimiter = "\t"
	}
	return nil
}

// LoadMergePlan reads and validates a plan; relative source and output paths
// resolve against the plan's own directory when it is local
func LoadMergePlan(ctx context.Context, location string) (*MergePlan, error) {

	data, err := NewStore().Download(ctx, location)
	if err != nil {
		return nil, err
	}

	var plan MergePlan
	if err := decodeConfig(data, location, &plan); err != nil {
		return nil, &ParseError{File: location, Reason: "merge plan", Err: err}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if !strings.Contains(location, "://") {
		dir := path.Dir(strings.ReplaceAll(location, "\\", "/"))
		for i, src := range plan.Sources {
			plan.Sources[i] = resolveRelative(dir, src)
		}
		plan.Output = resolveRelative(dir, plan.Output)
	}

	return &plan, nil
}

func resolveRelative(dir, loc string) string {

	if loc == "" || strings.Contains(loc, "://") || path.IsAbs(loc) || dir == "." {
		return loc
	}
	return path.Join(dir, loc)
}

// Merger builds a merger for the plan
func (p *MergePlan) Merger(stats *MergeStats) (*Merger, error) {

	m, err := NewMerger(JoinKey(p.Key), p.Coalesce)
	if err != nil {
		return nil, err
	}
	m.Stats = stats
	return m, nil
}

// ReadOptions returns the options for reading plan sources
func (p *MergePlan) ReadOptions() ReadOptions {

	opts := ReadOptions{InferTypes: p.Infer}
	if p.Delimiter != "\t" {
		opts.Delimiter = p.Delimiter
	}
	return opts
}

// WriteOptions returns the options for writing the plan output
func (p *MergePlan) WriteOptions() WriteOptions {

	opts := WriteOptions{Format: p.Format}
	if p.Delimiter != "\t" {
		opts.Delimiter = p.Delimiter
	}
	return opts
}
