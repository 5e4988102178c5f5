package kgutils

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const predicateRules = `
rules:
  - column: predicate
    pattern: treats
    replace: biolink:treats
  - name: causal
    column: predicate
    match: regex
    pattern: "^causes$"
    replace: biolink:causes
    set:
      flag: '{id}'
  - column: id
    match: prefix
    pattern: "OMIM:"
    replace: "MONDO:"
    pad_left: 7
  - column: name
    match: stem
    pattern: cancer
    replace: neoplasm
    stop: true
  - column: name
    match: any
    case: upper
`

func writeFile(t *testing.T, name, content string) string {

	t.Helper()

	loc := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(loc, []byte(content), 0o644))
	return loc
}

func strPtr(str string) *string {
	return &str
}

func TestRuleSetApply(t *testing.T) {

	rs, err := LoadRuleSet(context.Background(), writeFile(t, "rules.yaml", predicateRules))
	require.NoError(t, err)
	require.Len(t, rs.Rules, 5)

	tbl := tsvTable(t, "id\tpredicate\tname\tsource\n"+
		"MESH:123\ttreats\tAspirin\tx\n"+
		"OMIM:45\tbiolink:related_to\thypertension\t\n"+
		"NCBIGene:7\tcauses\tCancers\ty\n")

	out, report, err := rs.Apply(tbl)
	require.NoError(t, err)

	expected := tsvTable(t, "id\tpredicate\tname\tsource\tflag\n"+
		"MESH:123\tbiolink:treats\tASPIRIN\tx\t\n"+
		"MONDO:0000045\tbiolink:related_to\tHYPERTENSION\t\t\n"+
		"NCBIGene:7\tbiolink:causes\tneoplasm\ty\tNCBIGene:7\n")

	assertEqualTables(t, out, expected)
	assert.Equal(t, []int{1, 1, 1, 1, 2}, report.Matches)
	assert.Equal(t, 3, report.Changed)

	// input untouched
	assert.Equal(t, "treats", cell(tbl, 0, "predicate"))
}

func TestRuleMatchers(t *testing.T) {

	cases := []struct {
		rule     Rule
		input    string
		expected string
		hit      bool
	}{
		{Rule{Match: MatchExact, Pattern: "a"}, "ab", "", false},
		{Rule{Match: MatchPrefix, Pattern: "UMLS:", Replace: strPtr("UMLS:C")}, "UMLS:0001", "UMLS:C0001", true},
		{Rule{Match: MatchPrefix, Pattern: "UMLS:"}, "UMLS:0001", "UMLS:0001", true},
		{Rule{Match: MatchContains, Pattern: "_", Replace: strPtr(" ")}, "gene_product_of", "gene product of", true},
		{Rule{Match: MatchRegex, Pattern: `^(\w+)_of$`, Replace: strPtr("${1}")}, "part_of", "part", true},
		{Rule{Match: MatchStem, Pattern: "running"}, "runs fast", "runs fast", true},
		{Rule{Match: MatchStem, Pattern: "gene"}, "genome", "", false},
	}

	for i, c := range cases {
		c.rule.Column = "col"
		require.NoError(t, c.rule.compile(i))
		actual, hit := c.rule.rewrite(c.input, func(str string) string { return str })
		assert.Equal(t, c.hit, hit, "case %d", i+1)
		assert.Equal(t, c.expected, actual, "case %d", i+1)
	}
}

func TestRuleTemplates(t *testing.T) {

	rs := &RuleSet{Rules: []Rule{
		{Column: "id", Match: MatchAny, Replace: strPtr("{prefix}:{num:5}")},
		{Column: "id", Match: MatchPrefix, Pattern: "HP:", Set: map[string]string{"kind": "phenotype", "prefix": ""}},
	}}

	tbl := tsvTable(t, "id\tprefix\tnum\nx\tHP\t42\ny\tGO\tabc\n")

	out, _, err := rs.Apply(tbl)
	require.NoError(t, err)

	assert.Equal(t, "HP:00042", cell(out, 0, "id"))
	assert.Equal(t, "GO:abc", cell(out, 1, "id"))
	assert.Equal(t, "phenotype", cell(out, 0, "kind"))
	assert.Equal(t, "<null>", cell(out, 1, "kind"))
	assert.Equal(t, "<null>", cell(out, 0, "prefix"))
	assert.Equal(t, "GO", cell(out, 1, "prefix"))

	bad := &RuleSet{Rules: []Rule{{Column: "id", Match: MatchAny, Replace: strPtr("{missing}")}}}
	_, _, err = bad.Apply(tbl)
	var serr *SchemaError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "missing", serr.Column)
}

func TestRuleSetErrors(t *testing.T) {

	bad := []Rule{
		{Match: MatchExact, Pattern: "x"},
		{Column: "c", Match: MatchExact},
		{Column: "c", Match: MatchRegex, Pattern: "("},
		{Column: "c", Match: "fuzzy", Pattern: "x"},
		{Column: "c", Match: MatchAny, Case: "sentence"},
		{Column: "c", Match: MatchAny, PadLeft: -1},
	}
	for i, r := range bad {
		rs := &RuleSet{Rules: []Rule{r}}
		assert.Error(t, rs.Compile(), "case %d", i+1)
	}

	rs := &RuleSet{Rules: []Rule{{Column: "absent", Match: MatchAny}}}
	_, _, err := rs.Apply(tsvTable(t, "id\nA\n"))
	assert.Error(t, err)
}

func TestRuleSetCycles(t *testing.T) {

	rs := &RuleSet{Rules: []Rule{
		{Column: "predicate", Pattern: "a", Replace: strPtr("b")},
		{Column: "predicate", Pattern: "b", Replace: strPtr("a")},
		{Column: "predicate", Pattern: "c", Replace: strPtr("d")},
		{Column: "category", Pattern: "x", Replace: strPtr("x")},
		{Column: "category", Pattern: "y", Replace: strPtr("{name}")},
	}}

	cycles, err := rs.Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"category: x", "predicate: a <-> b"}, cycles)
}

func TestRuleStopEndsOnlyItsCell(t *testing.T) {

	rs := &RuleSet{Rules: []Rule{
		{Column: "predicate", Pattern: "treats", Replace: strPtr("biolink:treats"), Stop: true},
		{Column: "id", Match: MatchPrefix, Pattern: "OMIM:", Replace: strPtr("MONDO:")},
		{Column: "predicate", Match: MatchAny, Case: "upper"},
	}}

	tbl := tsvTable(t, "id\tpredicate\nOMIM:1\ttreats\nOMIM:2\tcauses\n")

	out, report, err := rs.Apply(tbl)
	require.NoError(t, err)

	expected := tsvTable(t, "id\tpredicate\nMONDO:1\tbiolink:treats\nMONDO:2\tCAUSES\n")
	assertEqualTables(t, out, expected)
	assert.Equal(t, []int{1, 2, 1}, report.Matches)
}

func TestRulesFromMap(t *testing.T) {

	mp := map[string]string{"HP:1": "MONDO:1", "HP:2": "MONDO:2"}
	tbl := tsvTable(t, "subject\tobject\nHP:1\tHP:2\nHP:3\tHP:1\n")

	rs, err := RulesFromMap(mp, "subject", "object")
	require.NoError(t, err)
	require.Len(t, rs.Rules, 4)

	out, report, err := rs.Apply(tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Changed)

	expected := tsvTable(t, "subject\tobject\nMONDO:1\tMONDO:2\nHP:3\tMONDO:1\n")
	assertEqualTables(t, out, expected)

	loc := writeFile(t, "map.tsv", "HP:1\tMONDO:1\nHP:2\tMONDO:2\n")
	fromFile, err := MappingRules(context.Background(), loc, "subject")
	require.NoError(t, err)
	assert.Len(t, fromFile.Rules, 2)

	_, _, err = rs.Apply(tsvTable(t, "predicate\nx\n"))
	assert.Error(t, err)
}

func TestRulesFromMapDoesNotChain(t *testing.T) {

	// b is both a target and a source; each cell is replaced at most once
	mp := map[string]string{"a": "b", "b": "c", "x": "y", "y": "x"}
	tbl := tsvTable(t, "subject\na\nb\nx\ny\n")

	rs, err := RulesFromMap(mp, "subject")
	require.NoError(t, err)

	cycles, err := rs.Validate()
	require.NoError(t, err)
	assert.Empty(t, cycles)

	out, report, err := rs.Apply(tbl)
	require.NoError(t, err)

	expected := tsvTable(t, "subject\nb\nc\ny\nx\n")
	assertEqualTables(t, out, expected)
	assert.Equal(t, 4, report.Changed)
}
