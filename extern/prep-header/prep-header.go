// prep-header.go

// Public domain notice for all NCBI EDirect scripts is located at:
// https://www.ncbi.nlm.nih.gov/books/NBK179288/#chapter6.Public_Domain_Notice

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"

	"matrixio/kgutils"
)

// cleanHeader rewrites only the first line of a tab-delimited nodes file,
// streaming every data row through unchanged
func cleanHeader(inp io.Reader, out io.Writer, primary []string) error {

	keep := make(map[string]bool, len(primary))
	for _, name := range primary {
		keep[name] = true
	}

	rdr := bufio.NewReaderSize(inp, 1<<20)
	wrtr := bufio.NewWriter(out)
	defer wrtr.Flush()

	line, err := rdr.ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	if line == "" {
		return fmt.Errorf("input has no header line")
	}

	eol := ""
	if strings.HasSuffix(line, "\n") {
		eol = "\n"
		line = strings.TrimSuffix(line, "\n")
	}
	line = strings.TrimSuffix(line, "\r")

	seen := make(map[string]bool)
	fields := strings.Split(line, "\t")
	for i, fld := range fields {
		name := kgutils.CleanHeaderName(fld, keep)
		if seen[name] {
			return fmt.Errorf("cleaned header repeats column '%s'", name)
		}
		seen[name] = true
		fields[i] = name
	}

	wrtr.WriteString(strings.Join(fields, "\t"))
	wrtr.WriteString(eol)

	_, err = io.Copy(wrtr, rdr)
	return err
}

// primaryColumns extends a copy of the default primary columns
func primaryColumns(extra []string) []string {

	primary := make([]string, 0, len(kgutils.DefaultPrimaryColumns)+len(extra))
	primary = append(primary, kgutils.DefaultPrimaryColumns...)
	return append(primary, extra...)
}

func main() {

	args := os.Args[1:]

	var extra []string
	zipped := false

	for len(args) > 0 {
		switch args[0] {
		case "-gzip":
			zipped = true
		case "-keep":
			if len(args) < 2 {
				kgutils.DisplayError("-keep argument is missing")
				os.Exit(1)
			}
			extra = append(extra, strings.Split(args[1], ",")...)
			args = args[1:]
		default:
			kgutils.DisplayError("Unrecognized argument '%s'", args[0])
			os.Exit(1)
		}
		args = args[1:]
	}

	var inp io.Reader = os.Stdin
	if zipped {
		zpr, err := pgzip.NewReader(os.Stdin)
		if err != nil {
			kgutils.DisplayError("Unable to open gzip input: %s", err.Error())
			os.Exit(1)
		}
		defer zpr.Close()
		inp = zpr
	}

	if err := cleanHeader(inp, os.Stdout, primaryColumns(extra)); err != nil {
		kgutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}
}
