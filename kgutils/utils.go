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
// File Name:  utils.go
//
// ==========================================================================

package kgutils

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/klauspost/cpuid"
	"github.com/op/go-logging"
)

// channel buffer depth for line and record producers
const chanDepth = 64

const loggerName = "kgutils"

var log = logging.MustGetLogger(loggerName)

var logFormat = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{level:.4s}%{color:reset} %{message}`,
)

func init() {

	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetBackend(logging.NewBackendFormatter(backend, logFormat))
	logging.SetLevel(logging.INFO, loggerName)
}

// SetLogLevel accepts DEBUG, INFO, NOTICE, WARNING, ERROR or CRITICAL
func SetLogLevel(level string) error {

	lvl, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		return err
	}
	logging.SetLevel(lvl, loggerName)
	return nil
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
)

// DisplayError prints a highlighted message to stderr
func DisplayError(format string, params ...interface{}) {

	str := fmt.Sprintf(format, params...)
	errorColor.Fprint(os.Stderr, "\n ERROR: ")
	fmt.Fprintf(os.Stderr, "%s\n", strings.TrimSpace(str))
}

// DisplayWarning prints a non-fatal message to stderr
func DisplayWarning(format string, params ...interface{}) {

	str := fmt.Sprintf(format, params...)
	warningColor.Fprint(os.Stderr, " WARNING: ")
	fmt.Fprintf(os.Stderr, "%s\n", strings.TrimSpace(str))
}

// NumWorkers sizes goroutine pools to physical cores when they can be detected
func NumWorkers() int {

	n := cpuid.CPU.PhysicalCores
	if n < 1 {
		n = cpuid.CPU.LogicalCores
	}
	if n < 1 {
		n = runtime.NumCPU()
	}
	if procs := runtime.GOMAXPROCS(0); n > procs {
		n = procs
	}
	if n < 1 {
		n = 1
	}
	return n
}

// LogDuration reports elapsed time for a named operation
func LogDuration(operation string, start time.Time) {

	log.Infof("%s duration: %s", operation, time.Since(start).Round(time.Millisecond))
}

// padNumericID zero-pads an all-digit identifier to the requested width
func padNumericID(id string, width int) string {

	if width < 1 || id == "" || len(id) >= width {
		return id
	}
	for _, ch := range id {
		if ch < '0' || ch > '9' {
			return id
		}
	}
	return strings.Repeat("0", width-len(id)) + id
}
