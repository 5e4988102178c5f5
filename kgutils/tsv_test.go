package kgutils

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelimitedRoundTrip(t *testing.T) {

	orig := MustTable(
		NewStringColumn("id", "MONDO:1", "MONDO:2", "CHEBI:3"),
		NewStringColumn("name", "alpha", "beta", "gamma"),
		NewStringColumn("category", "biolink:Disease", "biolink:Disease", "biolink:ChemicalEntity"),
	)

	for _, delim := range []string{"\t", ","} {
		var buf bytes.Buffer
		require.NoError(t, WriteDelimited(&buf, orig, delim))

		back, err := ReadDelimited(&buf, delim, "roundtrip", ReadOptions{})
		require.NoError(t, err)
		assert.True(t, back.Equal(orig), "delimiter %q\n%s", delim, back)
	}
}

func TestReadDelimitedRaggedRows(t *testing.T) {

	tbl, err := ReadDelimited(strings.NewReader("a\tb\tc\n1\t2\n3\t4\t5\t6\n\n7\t8\t9\n"), "\t", "ragged", ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, "<null>", cell(tbl, 0, "c"))
	assert.Equal(t, "5", cell(tbl, 1, "c"))
	assert.Equal(t, "9", cell(tbl, 2, "c"))
}

func TestReadDelimitedSkipsBadUTF8(t *testing.T) {

	var skipped []*ParseError
	opts := ReadOptions{OnParseError: func(perr *ParseError) { skipped = append(skipped, perr) }}

	text := "id\tname\nA\tok\nB\t\xff\xfe\nC\tfine\r\n"
	tbl, err := ReadDelimited(strings.NewReader(text), "\t", "bad.tsv", opts)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, "fine", cell(tbl, 1, "name"))
	require.Len(t, skipped, 1)
	assert.Equal(t, 3, skipped[0].Line)
	assert.Contains(t, skipped[0].Error(), "bad.tsv line 3")
}

func TestReadDelimitedHeaderErrors(t *testing.T) {

	_, err := ReadDelimited(strings.NewReader(""), "\t", "empty.tsv", ReadOptions{})
	var serr *SchemaError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "empty.tsv", serr.File)

	_, err = ReadDelimited(strings.NewReader("id\tid\nA\tB\n"), "\t", "dup.tsv", ReadOptions{})
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "id", serr.Column)

	_, err = ReadDelimited(strings.NewReader("id\t\tname\n"), "\t", "blank.tsv", ReadOptions{})
	assert.Error(t, err)
}

func TestReadDelimitedInference(t *testing.T) {

	tbl := typedTable(t, "i\tf\tb\ts\tn\n1\t1.5\ttrue\tx\t\n2\t2\tFALSE\t3\t\n")

	types := map[string]DataType{"i": Int64, "f": Float64, "b": Bool, "s": String, "n": String}
	for name, dt := range types {
		col, ok := tbl.Column(name)
		require.True(t, ok)
		assert.Equal(t, dt, col.Type, "column %s", name)
	}
	assert.Equal(t, "false", cell(tbl, 1, "b"))
	assert.Equal(t, "2", cell(tbl, 1, "f"))
}

func TestReadDelimitedMixedCaseBool(t *testing.T) {

	tbl := typedTable(t, "id\tflag\nA\ttrue\nB\ttRuE\nC\tFalse\n")

	col, ok := tbl.Column("flag")
	require.True(t, ok)
	assert.Equal(t, Bool, col.Type)
	assert.Equal(t, "true", cell(tbl, 1, "flag"))
	assert.Equal(t, "false", cell(tbl, 2, "flag"))
}

func TestCSVQuoting(t *testing.T) {

	text := "id,label\n\"A,1\",\"say \"\"hi\"\"\"\nB,plain\n"
	tbl, err := ReadDelimited(strings.NewReader(text), ",", "quoted.csv", ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "A,1", cell(tbl, 0, "id"))
	assert.Equal(t, `say "hi"`, cell(tbl, 0, "label"))

	var buf bytes.Buffer
	require.NoError(t, WriteDelimited(&buf, tbl, ","))
	assert.Equal(t, text, buf.String())
}

func TestWriteDelimitedCleansTabs(t *testing.T) {

	tbl := MustTable(
		NewStringColumn("id", "A", "B"),
		NewStringColumn("text", "two\twords", "line\nbreak"),
		NewStringColumn("empty", "", "x"),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteDelimited(&buf, tbl, "\t"))
	assert.Equal(t, "id\ttext\tempty\nA\ttwo words\t\nB\tline break\tx\n", buf.String())
}

func TestTableToMap(t *testing.T) {

	mp := make(map[string]string)
	count := TableToMap(strings.NewReader("HP:1\tMONDO:1\nbad line\nHP:2\tMONDO:2\r\nx\ty\tz\n"), mp)

	assert.Equal(t, 2, count)
	assert.Equal(t, map[string]string{"HP:1": "MONDO:1", "HP:2": "MONDO:2"}, mp)
	assert.Equal(t, 0, TableToMap(nil, mp))
}

func TestCreateLineProducer(t *testing.T) {

	var lines []TextLine
	for ln := range CreateLineProducer(strings.NewReader("first\r\nsecond\n\nlast")) {
		lines = append(lines, ln)
	}

	require.Len(t, lines, 4)
	assert.Equal(t, "first", lines[0].Text)
	assert.Equal(t, "", lines[2].Text)
	assert.Equal(t, 4, lines[3].Number)
	assert.Equal(t, "last", lines[3].Text)
}
