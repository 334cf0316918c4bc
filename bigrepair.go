package slp

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// LoadBigRepair loads a grammar produced by BigRePair from its .C
// (start-rule sequence) and .R (rules) files.
func LoadBigRepair(pathC, pathR string) (*Grammar, error) {
	rData, err := os.ReadFile(pathR)
	if err != nil {
		return nil, err
	}
	cData, err := os.ReadFile(pathC)
	if err != nil {
		return nil, err
	}
	g, err := ParseBigRepair(cData, rData)
	if err != nil {
		return nil, fmt.Errorf("%s, %s: %w", pathC, pathR, err)
	}
	return g, nil
}

// ParseBigRepair parses the BigRePair binary pair form. It differs from the
// Re-Pair form in two ways: the alphabet is always the full byte range with
// no map, and pair values at or above it are already rule ids in the symbol
// namespace. The header still carries the (fixed) alphabet size.
func ParseBigRepair(cData, rData []byte) (*Grammar, error) {
	if len(rData) < 4 {
		return nil, fmt.Errorf("%w: rule bytes shorter than the header", ErrMalformedGrammar)
	}
	alphabet := int32(binary.NativeEndian.Uint32(rData))
	if alphabet != alphabetSize {
		return nil, fmt.Errorf("%w: alphabet size %d, want %d", ErrMalformedGrammar, alphabet, alphabetSize)
	}
	pairs := rData[4:]
	if len(pairs)%pairBytes != 0 {
		return nil, fmt.Errorf("%w: rule bytes are not a whole number of pairs", ErrMalformedGrammar)
	}
	numRules := len(pairs) / pairBytes

	decode := func(v int32) (int32, error) {
		if v < 0 {
			return 0, fmt.Errorf("%w: symbol %d out of range", ErrMalformedGrammar, v)
		}
		// terminals are direct byte values, rule ids are already offset
		return v, nil
	}

	b, err := newGrammarBuilder(numRules)
	if err != nil {
		return nil, err
	}
	var body [2]int32
	for i := range numRules {
		left, err := decode(int32(binary.NativeEndian.Uint32(pairs[i*pairBytes:])))
		if err != nil {
			return nil, err
		}
		right, err := decode(int32(binary.NativeEndian.Uint32(pairs[i*pairBytes+4:])))
		if err != nil {
			return nil, err
		}
		body[0], body[1] = left, right
		if err := b.addRule(body[:]); err != nil {
			return nil, err
		}
	}

	if len(cData) == 0 || len(cData)%4 != 0 {
		return nil, fmt.Errorf("%w: sequence bytes are not a whole number of symbols", ErrMalformedGrammar)
	}
	children := make([]int32, len(cData)/4)
	for i := range children {
		c, err := decode(int32(binary.NativeEndian.Uint32(cData[i*4:])))
		if err != nil {
			return nil, err
		}
		children[i] = c
	}
	g, err := b.setStart(children)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded BigRePair grammar",
		"rules", g.numRules, "startSize", g.startSize,
		"textLength", g.textLength, "depth", g.depth)
	return g, nil
}
