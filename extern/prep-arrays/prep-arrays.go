// prep-arrays.go

// Public domain notice for all NCBI EDirect scripts is located at:
// https://www.ncbi.nlm.nih.gov/books/NBK179288/#chapter6.Public_Domain_Notice

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"matrixio/kgutils"
)

// fixArrays swaps the array separator for "|" in one column of a
// tab-delimited stream and returns the number of cells changed
func fixArrays(inp io.Reader, out io.Writer, column string) (int, error) {

	lines := kgutils.CreateLineProducer(inp)

	first, ok := <-lines
	if !ok {
		return 0, fmt.Errorf("input has no header line")
	}
	if first.Err != nil {
		return 0, first.Err
	}

	col := -1
	for i, name := range strings.Split(first.Text, "\t") {
		if name == column {
			col = i
			break
		}
	}
	if col < 0 {
		for range lines {
		}
		return 0, fmt.Errorf("column '%s' not found in header", column)
	}

	wrtr := bufio.NewWriter(out)

	wrtr.WriteString(first.Text)
	wrtr.WriteString("\n")

	count := 0
	for ln := range lines {
		if ln.Err != nil {
			wrtr.Flush()
			return count, ln.Err
		}
		fields := strings.Split(ln.Text, "\t")
		if col < len(fields) {
			fixed := strings.ReplaceAll(fields[col], kgutils.ArraySeparator, "|")
			if fixed != fields[col] {
				fields[col] = fixed
				count++
			}
		}
		wrtr.WriteString(strings.Join(fields, "\t"))
		wrtr.WriteString("\n")
	}

	return count, wrtr.Flush()
}

func main() {

	args := os.Args[1:]

	if len(args) < 1 {
		kgutils.DisplayError("Column name is missing")
		os.Exit(1)
	}

	count, err := fixArrays(os.Stdin, os.Stdout, args[0])
	if err != nil {
		kgutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "%d cells fixed\n", count)
}
