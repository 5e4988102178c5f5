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
// File Name:  toml.go
//
// ==========================================================================

package kgutils

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/komkom/toml"
)

// decodeTOML converts TOML to a JSON stream and decodes it
func decodeTOML(data []byte, v interface{}) error {

	rdr := toml.New(bytes.NewReader(data))
	dec := json.NewDecoder(rdr)
	return dec.Decode(v)
}

// decodeConfig picks the decoder from the file extension
func decodeConfig(data []byte, location string, v interface{}) error {

	switch configExt(location) {
	case ".toml":
		return decodeTOML(data, v)
	case ".json":
		return json.Unmarshal(data, v)
	}
	return decodeYAML(data, v)
}
