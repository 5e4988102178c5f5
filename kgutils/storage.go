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
// File Name:  storage.go
//
// ==========================================================================

package kgutils

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

// Store reads and writes whole objects at local paths or storage URLs
// (file://, mem://, gs://, s3://, ...)
type Store struct {
	fs afs.Service
}

// NewStore wraps a fresh afs service
func NewStore() *Store {
	return &Store{fs: afs.New()}
}

// Location turns a plain path into a file:// URL and passes URLs through
func Location(path string) string {

	if strings.Contains(path, "://") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

func localPath(url string) (string, bool) {

	if strings.HasPrefix(url, "file://") {
		return filepath.FromSlash(strings.TrimPrefix(url, "file://")), true
	}
	return "", false
}

// Download fetches the full content at path
func (s *Store) Download(ctx context.Context, path string) ([]byte, error) {

	data, err := s.fs.DownloadWithURL(ctx, Location(path))
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// Upload replaces the object at path, creating local parent directories
func (s *Store) Upload(ctx context.Context, path string, data []byte) error {

	url := Location(path)
	if local, ok := localPath(url); ok {
		if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
			return &IOError{Op: "create", Path: path, Err: err}
		}
	}
	if err := s.fs.Upload(ctx, url, 0o644, bytes.NewReader(data)); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
