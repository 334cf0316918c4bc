package slp

import "github.com/alancleary/slp/amt"

// Core constants for the grammar symbol namespace.
//
// Symbols live in a single integer namespace: values below alphabetSize are
// terminal bytes, values in [alphabetSize, alphabetSize+numRules) identify
// rules, and alphabetSize+numRules is the start rule. dummyCode terminates
// every rule body in the flat rule storage.
const (
	alphabetSize = 256 // terminal symbols are raw byte values
	dummyCode    = -1  // end-of-rule sentinel, outside both symbol ranges

	keyLength = amt.KeyLen6 // positional index key width (48-bit offsets)

	maxTextLength = 1<<48 - 1 // offsets must fit the key width
)

func isTerminal(sym int32) bool { return sym >= 0 && sym < alphabetSize }

func isEndOfRule(sym int32) bool { return sym == dummyCode }
