// Package slp provides random access to strings compressed by straight-line
// grammars.
//
// # Overview
//
// A straight-line grammar derives exactly one string: the original text. The
// offline compressors in the Re-Pair family (MR-Repair, Navarro's Re-Pair,
// BigRePair) emit such grammars. This package loads one, augments the start
// rule with a succinct positional index, and then streams any byte range of
// the text without ever materializing it: a predecessor query finds the
// start-rule child covering the range's first byte, and a depth-first walk
// of the grammar emits terminals until the range is exhausted.
//
// # When to Use This Package
//
// It fits workloads that keep large, highly repetitive texts (genomes,
// versioned document collections, log archives) compressed at rest and need
// to read small windows of them:
//   - Substring extraction in time proportional to the range plus the
//     grammar depth, not the text length
//   - Memory proportional to the grammar, not the text
//
// It does not compress text (run one of the compressors offline first), does
// not modify or persist grammars, and does not search for patterns.
//
// # Basic Usage
//
//	g, err := slp.LoadBigRepair("input.C", "input.R")
//	if err != nil {
//		// ...
//	}
//	// Stream bytes [100, 200) of the decompressed text.
//	var buf bytes.Buffer
//	if err := g.Extract(&buf, 100, 200); err != nil {
//		// ...
//	}
//
// # Concurrency
//
// A loaded Grammar is immutable. Extractions carry their own cursor state,
// so any number of goroutines may call Extract on one Grammar concurrently.
package slp
