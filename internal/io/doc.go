// Package ioutils provides file system utilities for the downloader.
//
// This package contains functions for:
//   - Directory creation
//   - Filename sanitization for cross-platform compatibility
//   - Collision-free file naming
//   - Publishing a finished temp file under a unique name
//
// # Unique Names
//
// UniquePath probes candidate, then stem_1.ext, stem_2.ext, ... and returns
// the first name that does not exist:
//
//	path, err := ioutils.UniquePath("/data/OTpdf/gen1.pdf")
//	// "/data/OTpdf/gen1_1.pdf" if gen1.pdf already exists
//
// CreateUnique does the same probing with exclusive creates, so two
// concurrent callers are never handed the same name:
//
//	f, path, err := ioutils.CreateUnique("/data/OTpdf/gen1.pdf")
//
// # Publishing Downloads
//
// Downloads are streamed into a temp file first and then moved onto a
// reserved unique name, so the final path is either absent or complete:
//
//	final, err := ioutils.PlaceUnique(tmp.Name(), "/data/OTpdf/gen1.pdf")
package ioutils
