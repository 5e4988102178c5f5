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
// File Name:  text.go
//
// ==========================================================================

package kgutils

import (
	"bufio"
	"io"
	"strings"
)

// TextLine is one input line without its terminator. Number counts from 1.
type TextLine struct {
	Number int
	Text   string
	Err    error
}

// CreateLineProducer reads line-oriented text and sends numbered lines down a
// channel. Lines of any length are accepted and a trailing carriage return is
// removed. A read failure is sent as the final item.
func CreateLineProducer(inp io.Reader) <-chan TextLine {

	if inp == nil {
		return nil
	}

	out := make(chan TextLine, chanDepth)

	// lineReader sends lines through the output channel
	lineReader := func(inp io.Reader, out chan<- TextLine) {

		// close channel when all lines have been sent
		defer close(out)

		rdr := bufio.NewReaderSize(inp, 1024*1024)
		num := 0

		for {
			line, err := rdr.ReadString('\n')
			if line != "" {
				num++
				line = strings.TrimSuffix(line, "\n")
				line = strings.TrimSuffix(line, "\r")
				out <- TextLine{Number: num, Text: line}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				out <- TextLine{Number: num + 1, Err: err}
				return
			}
		}
	}

	// launch single line reader goroutine
	go lineReader(inp, out)

	return out
}

// drainLines lets an abandoned producer run to completion in the background
func drainLines(lines <-chan TextLine) {

	go func() {
		for range lines {
		}
	}()
}
