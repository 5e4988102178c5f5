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
// File Name:  rules.go
//
// ==========================================================================

package kgutils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/looplab/tarjan"
	"github.com/surgebase/porter2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MatchKind selects how a rule tests a cell
type MatchKind string

// matchers
const (
	MatchExact    MatchKind = "exact"
	MatchPrefix   MatchKind = "prefix"
	MatchContains MatchKind = "contains"
	MatchRegex    MatchKind = "regex"
	MatchStem     MatchKind = "stem"
	MatchAny      MatchKind = "any"
)

// Rule rewrites one column when its matcher fires.
//
// Replace semantics follow the matcher: exact, stem and any replace the whole
// value, prefix replaces the matched prefix, contains replaces every
// occurrence, regex replaces every match and may use $1 group references.
// Replace and Set values may also name other columns of the same row as
// {column}, or {column:7} to zero-pad a numeric value to seven digits.
// PadLeft zero-pads the numeric part of the result, after any "PREFIX:".
type Rule struct {
	Name    string            `json:"name,omitempty"`
	Column  string            `json:"column"`
	Match   MatchKind         `json:"match"`
	Pattern string            `json:"pattern,omitempty"`
	Replace *string           `json:"replace,omitempty"`
	Case    string            `json:"case,omitempty"`
	PadLeft int               `json:"pad_left,omitempty"`
	Set     map[string]string `json:"set,omitempty"`
	Stop    bool              `json:"stop,omitempty"`

	re      *regexp.Regexp
	stem    string
	setKeys []string
	caser   *cases.Caser
}

// RuleSet is an ordered rule list, evaluated top to bottom for every row
type RuleSet struct {
	Rules []Rule `json:"rules"`

	compiled bool
}

// RewriteReport counts rule hits
type RewriteReport struct {
	Matches []int
	Changed int
}

var columnRef = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_.\-]*?)(?::(\d+))?\}`)

func (r *Rule) label(i int) string {

	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("rule %d", i+1)
}

func (r *Rule) compile(i int) error {

	fail := func(reason string, err error) error {
		return &SchemaError{Column: r.Column, Reason: r.label(i) + ": " + reason, Err: err}
	}

	if r.Column == "" {
		return fail("missing column", nil)
	}
	if r.Match == "" {
		r.Match = MatchExact
	}

	switch r.Match {
	case MatchExact, MatchPrefix, MatchContains:
		if r.Pattern == "" {
			return fail("missing pattern", nil)
		}
	case MatchRegex:
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fail("bad pattern", err)
		}
		r.re = re
	case MatchStem:
		if r.Pattern == "" {
			return fail("missing pattern", nil)
		}
		r.stem = porter2.Stem(strings.ToLower(r.Pattern))
	case MatchAny:
	default:
		return fail("unknown match '"+string(r.Match)+"'", nil)
	}

	var csr cases.Caser
	switch strings.ToLower(r.Case) {
	case "":
	case "lower":
		csr = cases.Lower(language.Und)
		r.caser = &csr
	case "upper":
		csr = cases.Upper(language.Und)
		r.caser = &csr
	case "title":
		csr = cases.Title(language.English)
		r.caser = &csr
	default:
		return fail("unknown case '"+r.Case+"'", nil)
	}

	if r.PadLeft < 0 {
		return fail("negative pad_left", nil)
	}

	r.setKeys = r.setKeys[:0]
	for name := range r.Set {
		r.setKeys = append(r.setKeys, name)
	}
	sort.Strings(r.setKeys)

	return nil
}

// Compile checks every rule; it is called by Apply when needed
func (rs *RuleSet) Compile() error {

	for i := range rs.Rules {
		if err := rs.Rules[i].compile(i); err != nil {
			return err
		}
	}
	rs.compiled = true
	return nil
}

// Validate compiles the rules and returns any rewrite cycles among exact
// rules, such as a -> b followed by b -> a on the same column
func (rs *RuleSet) Validate() ([]string, error) {

	if err := rs.Compile(); err != nil {
		return nil, err
	}
	return rs.Cycles(), nil
}

// Cycles finds strongly connected groups in the exact-rule rewrite graph
func (rs *RuleSet) Cycles() []string {

	graph := make(map[interface{}][]interface{})
	node := func(col, val string) string { return col + "\x00" + val }

	for _, r := range rs.Rules {
		if r.Match != MatchExact && r.Match != "" {
			continue
		}
		// a stop rule ends its cell, so it cannot feed another rule
		if r.Stop {
			continue
		}
		if r.Replace == nil || strings.ContainsAny(*r.Replace, "{$") {
			continue
		}
		from := node(r.Column, r.Pattern)
		to := node(r.Column, *r.Replace)
		graph[from] = append(graph[from], to)
		if _, ok := graph[to]; !ok {
			graph[to] = nil
		}
	}

	var cycles []string

	for _, comp := range tarjan.Connections(graph) {
		if len(comp) == 1 {
			v := comp[0]
			self := false
			for _, w := range graph[v] {
				if w == v {
					self = true
				}
			}
			if !self {
				continue
			}
		}
		var vals []string
		col := ""
		for _, v := range comp {
			parts := strings.SplitN(v.(string), "\x00", 2)
			col = parts[0]
			vals = append(vals, parts[1])
		}
		sort.Strings(vals)
		cycles = append(cycles, col+": "+strings.Join(vals, " <-> "))
	}

	sort.Strings(cycles)
	return cycles
}

func stemMatch(value, stem string) bool {

	words := strings.FieldsFunc(value, func(ch rune) bool {
		return !unicode.IsLetter(ch) && !unicode.IsDigit(ch)
	})
	for _, word := range words {
		if porter2.Stem(strings.ToLower(word)) == stem {
			return true
		}
	}
	return false
}

// rewrite tests the value and returns its replacement
func (r *Rule) rewrite(value string, expand func(string) string) (string, bool) {

	repl := value
	if r.Replace != nil {
		repl = expand(*r.Replace)
	}

	switch r.Match {
	case MatchExact:
		if value != r.Pattern {
			return "", false
		}
		return repl, true
	case MatchPrefix:
		if !strings.HasPrefix(value, r.Pattern) {
			return "", false
		}
		if r.Replace == nil {
			return value, true
		}
		return repl + strings.TrimPrefix(value, r.Pattern), true
	case MatchContains:
		if !strings.Contains(value, r.Pattern) {
			return "", false
		}
		if r.Replace == nil {
			return value, true
		}
		return strings.ReplaceAll(value, r.Pattern, repl), true
	case MatchRegex:
		if !r.re.MatchString(value) {
			return "", false
		}
		if r.Replace == nil {
			return value, true
		}
		return r.re.ReplaceAllString(value, repl), true
	case MatchStem:
		if !stemMatch(value, r.stem) {
			return "", false
		}
		return repl, true
	case MatchAny:
		return repl, true
	}

	return "", false
}

// padNumericPart pads digits that follow an optional CURIE prefix
func padNumericPart(str string, width int) string {

	if width < 1 {
		return str
	}
	if pos := strings.LastIndex(str, ":"); pos >= 0 {
		return str[:pos+1] + padNumericID(str[pos+1:], width)
	}
	return padNumericID(str, width)
}

// rowState resolves column values for one row, preferring rewritten values
type rowState struct {
	tbl     *Table
	working map[string][]Value
	row     int
}

func (s *rowState) get(name string) (Value, bool) {

	if vals, ok := s.working[name]; ok {
		return vals[s.row], true
	}
	return s.tbl.Value(s.row, name)
}

func (s *rowState) expand(tmpl string) string {

	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	return columnRef.ReplaceAllStringFunc(tmpl, func(ref string) string {
		m := columnRef.FindStringSubmatch(ref)
		v, ok := s.get(m[1])
		if !ok {
			return ref
		}
		if m[2] != "" {
			width, _ := strconv.Atoi(m[2])
			return padNumericID(v.Text, width)
		}
		return v.Text
	})
}

// templateColumns lists column names referenced by {column} placeholders
func templateColumns(tmpl string) []string {

	var names []string
	for _, m := range columnRef.FindAllStringSubmatch(tmpl, -1) {
		names = append(names, m[1])
	}
	return names
}

// Apply evaluates the rules against every row. Missing rule columns are a
// SchemaError; Set targets that do not exist yet are added as String columns.
// Rewritten columns become String.
func (rs *RuleSet) Apply(tbl *Table) (*Table, RewriteReport, error) {

	report := RewriteReport{Matches: make([]int, len(rs.Rules))}

	if !rs.compiled {
		if err := rs.Compile(); err != nil {
			return nil, report, err
		}
	}

	working := make(map[string][]Value)
	var added []string

	touch := func(name string) {
		if _, ok := working[name]; ok {
			return
		}
		vals := make([]Value, tbl.NumRows())
		if col, ok := tbl.Column(name); ok {
			copy(vals, col.Values)
		} else {
			added = append(added, name)
		}
		working[name] = vals
	}

	targets := make(map[string]bool)
	for i := range rs.Rules {
		for _, name := range rs.Rules[i].setKeys {
			targets[name] = true
		}
	}

	for i := range rs.Rules {
		r := &rs.Rules[i]
		if !tbl.Has(r.Column) {
			return nil, report, &SchemaError{Column: r.Column, Reason: r.label(i) + ": column not found"}
		}
		var refs []string
		if r.Replace != nil {
			refs = append(refs, templateColumns(*r.Replace)...)
		}
		for _, name := range r.setKeys {
			refs = append(refs, templateColumns(r.Set[name])...)
		}
		for _, ref := range refs {
			if !tbl.Has(ref) && !targets[ref] {
				return nil, report, &SchemaError{Column: ref, Reason: r.label(i) + ": referenced column not found"}
			}
		}
		touch(r.Column)
		for _, name := range r.setKeys {
			touch(name)
		}
	}

	changed := make(map[string]bool)
	state := &rowState{tbl: tbl, working: working}

	// columns whose evaluation a stop rule ended for the current row
	stopped := make(map[string]bool)

	for row := 0; row < tbl.NumRows(); row++ {
		state.row = row
		rowChanged := false
		clear(stopped)

		for i := range rs.Rules {
			r := &rs.Rules[i]

			if stopped[r.Column] {
				continue
			}

			v := working[r.Column][row]
			if !v.Valid {
				continue
			}

			str, ok := r.rewrite(v.Text, state.expand)
			if !ok {
				continue
			}
			str = padNumericPart(str, r.PadLeft)
			if r.caser != nil {
				str = r.caser.String(str)
			}

			report.Matches[i]++

			if str != v.Text {
				working[r.Column][row] = Str(str)
				changed[r.Column] = true
				rowChanged = true
			}

			for _, name := range r.setKeys {
				val := Str(state.expand(r.Set[name]))
				if r.Set[name] == "" {
					val = Null()
				}
				if working[name][row] != val {
					working[name][row] = val
					changed[name] = true
					rowChanged = true
				}
			}

			if r.Stop {
				stopped[r.Column] = true
			}
		}

		if rowChanged {
			report.Changed++
		}
	}

	out := tbl
	for name, vals := range working {
		if !changed[name] && tbl.Has(name) {
			continue
		}
		next, err := out.WithColumn(&Column{Name: name, Type: String, Values: vals})
		if err != nil {
			return nil, report, err
		}
		out = next
	}

	// new columns land in first-mention order
	if len(added) > 1 {
		var order []string
		for _, name := range out.Names() {
			if !contains(added, name) {
				order = append(order, name)
			}
		}
		order = append(order, added...)
		next, err := out.Select(order...)
		if err != nil {
			return nil, report, err
		}
		out = next
	}

	return out, report, nil
}

func contains(list []string, str string) bool {

	for _, item := range list {
		if item == str {
			return true
		}
	}
	return false
}

// LoadRuleSet reads rules from YAML, TOML or JSON
func LoadRuleSet(ctx context.Context, location string) (*RuleSet, error) {

	data, err := NewStore().Download(ctx, location)
	if err != nil {
		return nil, err
	}

	var rs RuleSet
	if err := decodeConfig(data, location, &rs); err != nil {
		return nil, &ParseError{File: location, Reason: "rule set", Err: err}
	}
	if err := rs.Compile(); err != nil {
		var serr *SchemaError
		if errors.As(err, &serr) && serr.File == "" {
			serr.File = location
		}
		return nil, err
	}

	return &rs, nil
}

// MappingRules turns a two-column TSV mapping into exact rules, one per entry
// and target column, each stopping further evaluation of its cell
func MappingRules(ctx context.Context, location string, columns ...string) (*RuleSet, error) {

	data, err := NewStore().Download(ctx, location)
	if err != nil {
		return nil, err
	}

	mp := make(map[string]string)
	TableToMap(bytes.NewReader(data), mp)

	return RulesFromMap(mp, columns...)
}

// RulesFromMap builds exact stop rules from a value mapping, in key order, so
// a cell is replaced at most once and mapped values do not chain
func RulesFromMap(mp map[string]string, columns ...string) (*RuleSet, error) {

	keys := make([]string, 0, len(mp))
	for key := range mp {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rs := &RuleSet{}
	for _, col := range columns {
		for _, key := range keys {
			repl := mp[key]
			rs.Rules = append(rs.Rules, Rule{Column: col, Match: MatchExact, Pattern: key, Replace: &repl, Stop: true})
		}
	}
	if err := rs.Compile(); err != nil {
		return nil, err
	}
	return rs, nil
}
