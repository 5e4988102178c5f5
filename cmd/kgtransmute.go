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
// File Name:  kgtransmute.go
//
// ==========================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"matrixio/kgutils"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Bold(true)
)

// settings shared by every operation
type settings struct {
	inputs  []string
	output  string
	delim   string
	format  string
	infer   bool
	stats   bool
	statsd  string
	quiet   bool
	metrics *kgutils.MergeStats
}

func (s *settings) readOptions() kgutils.ReadOptions {

	return kgutils.ReadOptions{
		Delimiter:  s.delim,
		InferTypes: s.infer,
		OnParseError: func(perr *kgutils.ParseError) {
			if !s.quiet {
				kgutils.DisplayWarning("%s", perr.Error())
			}
		},
	}
}

func (s *settings) writeOptions() kgutils.WriteOptions {
	return kgutils.WriteOptions{Delimiter: s.delim, Format: s.format}
}

// metrics is flushed by exit on every failure path
var metrics *kgutils.MergeStats

// osExit is replaced in tests
var osExit = os.Exit

func exit(code int) {

	if metrics != nil {
		metrics.Close()
		metrics = nil
	}
	osExit(code)
}

func fail(err error) {

	kgutils.DisplayError("%s", err.Error())
	exit(1)
}

// stringArg returns the value following a flag, or exits
func stringArg(args []string, name string) string {

	if len(args) < 2 || strings.HasPrefix(args[1], "-") && len(args[1]) > 1 {
		kgutils.DisplayError("%s argument is missing", name)
		exit(1)
	}
	return args[1]
}

func numericArg(args []string, name string, min int) int {

	str := stringArg(args, name)
	n, err := strconv.Atoi(str)
	if err != nil || n < min {
		kgutils.DisplayError("%s must be an integer of at least %d, not '%s'", name, min, str)
		exit(1)
	}
	return n
}

func splitList(str string) []string {

	var res []string
	for _, item := range strings.Split(str, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}

// readInput reads a location, or stdin for "" and "-"
func readInput(ctx context.Context, st *settings, loc string) *kgutils.Table {

	if loc != "" && loc != "-" {
		tbl, err := kgutils.ReadTable(ctx, loc, st.readOptions())
		if err != nil {
			fail(err)
		}
		return tbl
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fail(&kgutils.IOError{Op: "read", Path: "stdin", Err: err})
	}

	ft := kgutils.FileType{Format: kgutils.FormatDelimited, Delimiter: "\t"}
	if st.format != "" {
		ft = kgutils.DetectFormat("stdin." + st.format)
	}
	tbl, err := kgutils.DecodeTable(ctx, data, ft, "stdin", st.readOptions())
	if err != nil {
		fail(err)
	}
	return tbl
}

func firstInput(st *settings) string {

	if len(st.inputs) > 0 {
		return st.inputs[0]
	}
	return ""
}

// writeOutput writes to a location, or stdout for "" and "-"
func writeOutput(ctx context.Context, st *settings, tbl *kgutils.Table) {

	if st.output != "" && st.output != "-" {
		if err := kgutils.WriteTable(ctx, tbl, st.output, st.writeOptions()); err != nil {
			fail(err)
		}
		return
	}

	ft := kgutils.FileType{Format: kgutils.FormatDelimited, Delimiter: "\t"}
	if st.format != "" {
		ft = kgutils.DetectFormat("stdout." + st.format)
	}
	if st.delim != "" {
		ft.Delimiter = st.delim
	}
	data, err := kgutils.EncodeTable(tbl, ft)
	if err != nil {
		fail(err)
	}
	os.Stdout.Write(data)
}

func summary(st *settings, title string, pairs ...interface{}) {

	if st.quiet {
		return
	}

	var buffer strings.Builder
	buffer.WriteString(titleStyle.Render(title))
	for i := 0; i+1 < len(pairs); i += 2 {
		buffer.WriteString("  ")
		buffer.WriteString(labelStyle.Render(fmt.Sprint(pairs[i]) + ":"))
		buffer.WriteString(" ")
		buffer.WriteString(valueStyle.Render(fmt.Sprint(pairs[i+1])))
	}
	fmt.Fprintln(os.Stderr, buffer.String())
}

func reportDiagnostics(st *settings, diags []kgutils.Diagnostic) {

	if st.quiet {
		return
	}
	for _, d := range diags {
		kgutils.DisplayWarning("%s", d.String())
	}
}

// MERGE

func processMerge(ctx context.Context, st *settings, args []string) {

	var key kgutils.JoinKey
	var candidates []string
	planFile := ""
	stream := false

	for len(args) > 0 {
		switch args[0] {
		case "-key":
			key = kgutils.ParseJoinKey(stringArg(args, "-key"))
			args = args[1:]
		case "-coalesce":
			candidates = append(candidates, splitList(stringArg(args, "-coalesce"))...)
			args = args[1:]
		case "-plan":
			planFile = stringArg(args, "-plan")
			args = args[1:]
		case "-stream":
			stream = true
		default:
			if strings.HasPrefix(args[0], "-") {
				kgutils.DisplayError("Unrecognized -merge argument '%s'", args[0])
				exit(1)
			}
			st.inputs = append(st.inputs, args[0])
		}
		args = args[1:]
	}

	plan := &kgutils.MergePlan{}
	if planFile != "" {
		loaded, err := kgutils.LoadMergePlan(ctx, planFile)
		if err != nil {
			fail(err)
		}
		plan = loaded
	}

	// command line values override or extend the plan
	if len(key) > 0 {
		plan.Key = key
	}
	plan.Coalesce = append(plan.Coalesce, candidates...)
	plan.Sources = append(plan.Sources, st.inputs...)
	if st.output != "" {
		plan.Output = st.output
	}
	if st.format != "" {
		plan.Format = st.format
	}
	if st.delim != "" {
		plan.Delimiter = st.delim
	}
	plan.Infer = plan.Infer || st.infer
	plan.Stream = plan.Stream || stream

	if len(plan.Key) == 0 {
		kgutils.DisplayError("-merge requires -key or a -plan naming the key")
		exit(1)
	}
	if len(plan.Sources) == 0 {
		fail(kgutils.ErrNoSources)
	}

	merger, err := plan.Merger(st.metrics)
	if err != nil {
		fail(err)
	}

	ropts := plan.ReadOptions()
	ropts.OnParseError = st.readOptions().OnParseError

	var acc *kgutils.Table
	var diags []kgutils.Diagnostic

	if plan.Stream {
		acc, diags, err = merger.MergeFiles(ctx, plan.Sources, ropts)
	} else {
		var tables []*kgutils.Table
		tables, err = kgutils.ReadTables(ctx, plan.Sources, ropts)
		if err == nil {
			sources := make([]kgutils.Source, len(tables))
			for i, tbl := range tables {
				sources[i] = kgutils.Source{Name: plan.Sources[i], Table: tbl}
			}
			acc, diags, err = merger.Merge(sources)
		}
	}
	if err != nil {
		fail(err)
	}

	reportDiagnostics(st, diags)

	for _, pair := range kgutils.PluralSiblings(acc) {
		if !st.quiet {
			kgutils.DisplayWarning("columns '%s' and '%s' may hold the same field", pair[0], pair[1])
		}
	}

	if plan.Output != "" && plan.Output != "-" {
		if err := kgutils.WriteTable(ctx, acc, plan.Output, plan.WriteOptions()); err != nil {
			fail(err)
		}
	} else {
		st.format = plan.Format
		if plan.Delimiter != "\t" {
			st.delim = plan.Delimiter
		}
		writeOutput(ctx, st, acc)
	}

	rows, cols := acc.Shape()
	summary(st, "merge", "sources", len(plan.Sources), "rows", rows, "columns", cols, "warnings", len(diags))
}

// CONVERT AND REWRITE

func processConvert(ctx context.Context, st *settings, args []string) {

	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		st.inputs = append(st.inputs, args[0])
	}

	tbl := readInput(ctx, st, firstInput(st))
	writeOutput(ctx, st, tbl)

	rows, cols := tbl.Shape()
	summary(st, "convert", "rows", rows, "columns", cols)
}

func processRewrite(ctx context.Context, st *settings, args []string) {

	rulesFile := ""
	mappingFile := ""
	var columns []string

	for len(args) > 0 {
		switch args[0] {
		case "-rules":
			rulesFile = stringArg(args, "-rules")
			args = args[1:]
		case "-mapping":
			mappingFile = stringArg(args, "-mapping")
			args = args[1:]
		case "-column", "-columns":
			columns = append(columns, splitList(stringArg(args, "-column"))...)
			args = args[1:]
		default:
			kgutils.DisplayError("Unrecognized -rewrite argument '%s'", args[0])
			exit(1)
		}
		args = args[1:]
	}

	tbl := readInput(ctx, st, firstInput(st))

	switch {
	case rulesFile != "":
		rs, err := kgutils.LoadRuleSet(ctx, rulesFile)
		if err != nil {
			fail(err)
		}
		cycles, err := rs.Validate()
		if err != nil {
			fail(err)
		}
		for _, cyc := range cycles {
			kgutils.DisplayWarning("rewrite cycle %s", cyc)
		}
		out, report, err := rs.Apply(tbl)
		if err != nil {
			fail(err)
		}
		writeOutput(ctx, st, out)
		summary(st, "rewrite", "rules", len(rs.Rules), "rows changed", report.Changed)
	case mappingFile != "":
		if len(columns) == 0 {
			kgutils.DisplayError("-mapping requires -column")
			exit(1)
		}
		rs, err := kgutils.MappingRules(ctx, mappingFile, columns...)
		if err != nil {
			fail(err)
		}
		out, report, err := rs.Apply(tbl)
		if err != nil {
			fail(err)
		}
		writeOutput(ctx, st, out)
		summary(st, "rewrite", "mappings", len(rs.Rules)/len(columns), "rows changed", report.Changed)
	default:
		kgutils.DisplayError("-rewrite requires -rules or -mapping")
		exit(1)
	}
}

// NORMALIZATION

func processNormalize(ctx context.Context, st *settings, args []string) {

	idColumn := "id"
	categoryColumn := "category"
	batch := kgutils.DefaultLookupBatchSize
	endpoint := ""
	timeout := kgutils.DefaultLookupTimeout
	ancestors := false

	for len(args) > 0 {
		switch args[0] {
		case "-id":
			idColumn = stringArg(args, "-id")
			args = args[1:]
		case "-category":
			categoryColumn = stringArg(args, "-category")
			args = args[1:]
		case "-batch":
			batch = numericArg(args, "-batch", 1)
			args = args[1:]
		case "-url":
			endpoint = stringArg(args, "-url")
			args = args[1:]
		case "-timeout":
			timeout = time.Duration(numericArg(args, "-timeout", 1)) * time.Second
			args = args[1:]
		case "-ancestors":
			ancestors = true
		default:
			kgutils.DisplayError("Unrecognized -normalize argument '%s'", args[0])
			exit(1)
		}
		args = args[1:]
	}

	tbl := readInput(ctx, st, firstInput(st))

	client := kgutils.NewNodeNormClient(kgutils.NewHTTPClient(timeout), endpoint)

	var fallback map[string]string
	if ancestors {
		counts, err := kgutils.ValueCounts(tbl, categoryColumn)
		if err != nil {
			fail(err)
		}
		var cats []string
		for _, vc := range counts[0].Counts {
			cats = append(cats, vc.Value)
		}
		fallback = client.AncestorMapping(ctx, cats)
	}

	out, report, err := kgutils.NormalizeCategories(ctx, client, tbl, idColumn, categoryColumn, batch, fallback)
	if err != nil {
		fail(err)
	}

	writeOutput(ctx, st, out)
	summary(st, "normalize", "batches", report.Batches, "failed", report.FailedBatches,
		"updated", report.Updated, "fallback", report.Fallback)
}

// VALIDATION

func printInfractions(list []kgutils.Infraction) {

	for _, inf := range list {
		fmt.Println(inf.String())
	}
}

func processValidate(ctx context.Context, st *settings, edges bool) {

	tbl := readInput(ctx, st, firstInput(st))

	var list []kgutils.Infraction
	var err error
	if edges {
		list, err = kgutils.ValidateEdges(tbl)
	} else {
		list, err = kgutils.ValidateNodes(tbl)
	}
	if err != nil {
		fail(err)
	}

	printInfractions(list)
	summary(st, "validate", "rows", tbl.NumRows(), "infractions", len(list))
}

func graphFiles(args []string) (string, string, []string) {

	nodes := ""
	edges := ""
	var rest []string

	for len(args) > 0 {
		switch args[0] {
		case "-nodes":
			nodes = stringArg(args, "-nodes")
			args = args[1:]
		case "-edges":
			edges = stringArg(args, "-edges")
			args = args[1:]
		default:
			rest = append(rest, args[0])
		}
		args = args[1:]
	}

	if nodes == "" || edges == "" {
		kgutils.DisplayError("Both -nodes and -edges are required")
		exit(1)
	}
	return nodes, edges, rest
}

func processCheckIDs(ctx context.Context, st *settings, args []string) {

	nodesFile, edgesFile, _ := graphFiles(args)

	tables, err := kgutils.ReadTables(ctx, []string{nodesFile, edgesFile}, st.readOptions())
	if err != nil {
		fail(err)
	}

	diff, err := kgutils.CheckEdgeIDs(tables[0], tables[1])
	if err != nil {
		fail(err)
	}

	for _, id := range diff.EdgesOnly {
		fmt.Printf("edges\t%s\n", id)
	}
	for _, id := range diff.NodesOnly {
		fmt.Printf("nodes\t%s\n", id)
	}
	summary(st, "check-ids", "edge ids without nodes", len(diff.EdgesOnly), "nodes without edges", len(diff.NodesOnly))
}

// TABLE MAINTENANCE

func processShape(ctx context.Context, st *settings) {

	for _, loc := range append([]string{firstInput(st)}, restInputs(st)...) {
		tbl := readInput(ctx, st, loc)
		rows, cols := tbl.Shape()
		fmt.Printf("%s\t%d\t%d\n", displayName(loc), rows, cols)
	}
}

// processHead prints leading rows, then each column's datatype and null count
func processHead(ctx context.Context, st *settings, args []string) {

	n := 10

	for len(args) > 0 {
		switch args[0] {
		case "-rows":
			n = numericArg(args, "-rows", 1)
			args = args[1:]
		default:
			if strings.HasPrefix(args[0], "-") {
				kgutils.DisplayError("Unrecognized -head argument '%s'", args[0])
				exit(1)
			}
			st.inputs = append(st.inputs, args[0])
		}
		args = args[1:]
	}

	tbl := readInput(ctx, st, firstInput(st))

	fmt.Print(tbl.Head(n).String())
	fmt.Println()
	for _, col := range tbl.Columns() {
		fmt.Printf("%s\t%s\t%d\n", col.Name, col.Type, col.NullCount())
	}

	rows, cols := tbl.Shape()
	summary(st, "head", "rows", rows, "columns", cols)
}

func restInputs(st *settings) []string {

	if len(st.inputs) > 1 {
		return st.inputs[1:]
	}
	return nil
}

func displayName(loc string) string {

	if loc == "" || loc == "-" {
		return "stdin"
	}
	return path.Base(loc)
}

func processCounts(ctx context.Context, st *settings, args []string) {

	var columns []string
	for len(args) > 0 {
		switch args[0] {
		case "-column", "-columns":
			columns = append(columns, splitList(stringArg(args, "-column"))...)
			args = args[1:]
		default:
			kgutils.DisplayError("Unrecognized -counts argument '%s'", args[0])
			exit(1)
		}
		args = args[1:]
	}

	tbl := readInput(ctx, st, firstInput(st))

	res, err := kgutils.ValueCounts(tbl, columns...)
	if err != nil {
		fail(err)
	}

	for _, cc := range res {
		fmt.Printf("%s\t<null>\t%d\n", cc.Column, cc.Nulls)
		for _, vc := range cc.Counts {
			fmt.Printf("%s\t%s\t%d\n", cc.Column, vc.Value, vc.Count)
		}
	}
}

func processCleanHeader(ctx context.Context, st *settings) {

	tbl := readInput(ctx, st, firstInput(st))
	out, err := kgutils.CleanNodesHeader(tbl, nil)
	if err != nil {
		fail(err)
	}
	writeOutput(ctx, st, out)
	summary(st, "clean-header", "columns", out.NumCols(), "secondary", len(kgutils.UnderscoreColumns(out)))
}

func processFixArray(ctx context.Context, st *settings, args []string) {

	column := ""
	for len(args) > 0 {
		switch args[0] {
		case "-column":
			column = stringArg(args, "-column")
			args = args[1:]
		default:
			kgutils.DisplayError("Unrecognized -fix-array argument '%s'", args[0])
			exit(1)
		}
		args = args[1:]
	}
	if column == "" {
		kgutils.DisplayError("-fix-array requires -column")
		exit(1)
	}

	tbl := readInput(ctx, st, firstInput(st))
	out, count, err := kgutils.FixArrayDelimiter(tbl, column)
	if err != nil {
		fail(err)
	}
	writeOutput(ctx, st, out)
	summary(st, "fix-array", "cells changed", count)
}

func processAddColumns(ctx context.Context, st *settings, args []string) {

	var names []string
	for _, arg := range args {
		names = append(names, splitList(arg)...)
	}
	if len(names) == 0 {
		names = kgutils.DefaultEdgeColumns
	}

	tbl := readInput(ctx, st, firstInput(st))
	out, err := kgutils.AddEmptyColumns(tbl, names...)
	if err != nil {
		fail(err)
	}
	writeOutput(ctx, st, out)
	summary(st, "add-columns", "added", out.NumCols()-tbl.NumCols())
}

func processCollapse(ctx context.Context, st *settings, args []string) {

	type collapse struct {
		prefix string
		target string
	}

	var todo []collapse
	sep := kgutils.ArraySeparator

	for len(args) > 0 {
		switch args[0] {
		case "-prefix":
			prefix := stringArg(args, "-prefix")
			todo = append(todo, collapse{prefix: prefix, target: strings.TrimSuffix(prefix, "_")})
			args = args[1:]
		case "-target":
			if len(todo) == 0 {
				kgutils.DisplayError("-target must follow -prefix")
				exit(1)
			}
			todo[len(todo)-1].target = stringArg(args, "-target")
			args = args[1:]
		case "-sep":
			sep = stringArg(args, "-sep")
			args = args[1:]
		default:
			kgutils.DisplayError("Unrecognized -collapse argument '%s'", args[0])
			exit(1)
		}
		args = args[1:]
	}
	if len(todo) == 0 {
		kgutils.DisplayError("-collapse requires at least one -prefix")
		exit(1)
	}

	tbl := readInput(ctx, st, firstInput(st))
	out := tbl
	for _, c := range todo {
		next, err := kgutils.CollapseIndicatorColumns(out, c.prefix, c.target, sep)
		if err != nil {
			fail(err)
		}
		out = next
	}
	writeOutput(ctx, st, out)
	summary(st, "collapse", "columns before", tbl.NumCols(), "after", out.NumCols())
}

func processDistinct(ctx context.Context, st *settings, args []string) {

	var columns []string
	for _, arg := range args {
		columns = append(columns, splitList(arg)...)
	}

	tbl := readInput(ctx, st, firstInput(st))
	out, err := kgutils.Distinct(tbl, columns...)
	if err != nil {
		fail(err)
	}
	writeOutput(ctx, st, out)
	summary(st, "distinct", "rows before", tbl.NumRows(), "after", out.NumRows())
}

func processSample(ctx context.Context, st *settings, args []string) {

	nodesFile, edgesFile, rest := graphFiles(args)

	size := 0
	for len(rest) > 0 {
		switch rest[0] {
		case "-size":
			size = numericArg(rest, "-size", 2)
			rest = rest[1:]
		default:
			kgutils.DisplayError("Unrecognized -sample argument '%s'", rest[0])
			exit(1)
		}
		rest = rest[1:]
	}
	if size == 0 {
		kgutils.DisplayError("-sample requires -size")
		exit(1)
	}
	if st.output == "" {
		kgutils.DisplayError("-sample requires -output naming a directory")
		exit(1)
	}

	tables, err := kgutils.ReadTables(ctx, []string{nodesFile, edgesFile}, st.readOptions())
	if err != nil {
		fail(err)
	}

	nodes, edges, err := kgutils.Sample(tables[0], tables[1], size)
	if err != nil {
		fail(err)
	}

	dir := strings.TrimSuffix(st.output, "/")
	wopts := st.writeOptions()
	if err := kgutils.WriteTable(ctx, edges, fmt.Sprintf("%s/edges_%d.tsv", dir, size), wopts); err != nil {
		fail(err)
	}
	if err := kgutils.WriteTable(ctx, nodes, fmt.Sprintf("%s/nodes_%d.tsv", dir, size), wopts); err != nil {
		fail(err)
	}
	summary(st, "sample", "edges", edges.NumRows(), "nodes", nodes.NumRows())
}

func processPlural(ctx context.Context, st *settings) {

	tbl := readInput(ctx, st, firstInput(st))
	for _, pair := range kgutils.PluralSiblings(tbl) {
		fmt.Printf("%s\t%s\n", pair[0], pair[1])
	}
}

func printStats(st *settings) {

	snap := st.metrics.Snapshot()
	summary(st, "stats", "steps", snap.Steps, "failures", snap.Failures, "rows", snap.Rows,
		"columns", snap.Columns, "diagnostics", snap.Diagnostics, "elapsed", snap.Elapsed.Round(time.Millisecond))
}

func main() {

	// skip past executable name
	args := os.Args[1:]

	if len(args) < 1 {
		kgutils.DisplayError("No command-line arguments supplied to kgtransmute")
		exit(1)
	}

	st := &settings{}
	inSwitch := true

	// get shared flags in any order
	for len(args) > 0 {

		inSwitch = true

		switch args[0] {
		case "-input", "-i":
			st.inputs = append(st.inputs, stringArg(args, "-input"))
			args = args[1:]
		case "-output", "-o":
			st.output = stringArg(args, "-output")
			args = args[1:]
		case "-delim", "-delimiter":
			if len(args) < 2 {
				kgutils.DisplayError("-delim argument is missing")
				exit(1)
			}
			st.delim = args[1]
			if st.delim == `\t` {
				st.delim = "\t"
			}
			args = args[1:]
		case "-format":
			st.format = stringArg(args, "-format")
			if _, ok := kgutils.ParseFormat(st.format); !ok {
				kgutils.DisplayError("Unrecognized -format '%s'", st.format)
				exit(1)
			}
			args = args[1:]
		case "-infer":
			st.infer = true
		case "-debug":
			kgutils.SetLogLevel("DEBUG")
		case "-quiet":
			st.quiet = true
			kgutils.SetLogLevel("ERROR")
		case "-stats", "-stat":
			st.stats = true
		case "-statsd":
			st.statsd = stringArg(args, "-statsd")
			args = args[1:]
		default:
			inSwitch = false
		}

		if !inSwitch {
			break
		}

		args = args[1:]
	}

	if len(args) < 1 {
		kgutils.DisplayError("No operation supplied to kgtransmute")
		exit(1)
	}

	sink, err := kgutils.NewStatsdSink(st.statsd, "kgtransmute")
	if err != nil {
		fail(err)
	}
	st.metrics = kgutils.NewMergeStats(sink)
	metrics = st.metrics

	ctx := context.Background()
	start := time.Now()

	op := args[0]
	args = args[1:]

	switch op {
	case "-merge":
		processMerge(ctx, st, args)
	case "-convert":
		processConvert(ctx, st, args)
	case "-rewrite":
		processRewrite(ctx, st, args)
	case "-normalize":
		processNormalize(ctx, st, args)
	case "-validate-nodes":
		processValidate(ctx, st, false)
	case "-validate-edges":
		processValidate(ctx, st, true)
	case "-check-ids":
		processCheckIDs(ctx, st, args)
	case "-shape":
		st.inputs = append(st.inputs, args...)
		processShape(ctx, st)
	case "-head":
		processHead(ctx, st, args)
	case "-counts":
		processCounts(ctx, st, args)
	case "-clean-header":
		processCleanHeader(ctx, st)
	case "-fix-array":
		processFixArray(ctx, st, args)
	case "-add-columns":
		processAddColumns(ctx, st, args)
	case "-collapse":
		processCollapse(ctx, st, args)
	case "-distinct":
		processDistinct(ctx, st, args)
	case "-sample":
		processSample(ctx, st, args)
	case "-plural":
		processPlural(ctx, st)
	default:
		kgutils.DisplayError("Unrecognized operation '%s'", op)
		exit(1)
	}

	if st.stats {
		printStats(st)
	}

	kgutils.LogDuration(strings.TrimPrefix(op, "-"), start)

	exit(0)
}
