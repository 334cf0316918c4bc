package slp

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// pairBytes is the on-disk size of one rule pair: two native-endian int32s,
// written in host byte order by the compressors.
const pairBytes = 8

// LoadNavarro loads a grammar produced by Navarro's Re-Pair from its .C
// (start-rule sequence) and .R (rules) files.
func LoadNavarro(pathC, pathR string) (*Grammar, error) {
	rData, err := os.ReadFile(pathR)
	if err != nil {
		return nil, err
	}
	cData, err := os.ReadFile(pathC)
	if err != nil {
		return nil, err
	}
	g, err := ParseNavarro(cData, rData)
	if err != nil {
		return nil, fmt.Errorf("%s, %s: %w", pathC, pathR, err)
	}
	return g, nil
}

// ParseNavarro parses the Re-Pair binary pair form. The rule bytes hold an
// int32 alphabet size, that many bytes mapping compact terminal codes to
// real byte values, then (left, right) int32 pairs to end of data. The
// sequence bytes are a stream of int32s forming the start rule. A pair value
// below the alphabet size is a terminal through the map; anything else is a
// rule id offset into the symbol namespace.
func ParseNavarro(cData, rData []byte) (*Grammar, error) {
	if len(rData) < 4 {
		return nil, fmt.Errorf("%w: rule bytes shorter than the header", ErrMalformedGrammar)
	}
	alphabet := int32(binary.NativeEndian.Uint32(rData))
	if alphabet < 1 || alphabet > alphabetSize {
		return nil, fmt.Errorf("%w: impossible alphabet size %d", ErrMalformedGrammar, alphabet)
	}
	if len(rData) < 4+int(alphabet) {
		return nil, fmt.Errorf("%w: truncated alphabet map", ErrMalformedGrammar)
	}
	sigma := rData[4 : 4+alphabet]
	pairs := rData[4+alphabet:]
	if len(pairs)%pairBytes != 0 {
		return nil, fmt.Errorf("%w: rule bytes are not a whole number of pairs", ErrMalformedGrammar)
	}
	numRules := len(pairs) / pairBytes

	decode := func(v int32) (int32, error) {
		if v < 0 {
			return 0, fmt.Errorf("%w: symbol %d out of range", ErrMalformedGrammar, v)
		}
		if v < alphabet {
			return int32(sigma[v]), nil
		}
		return v - alphabet + alphabetSize, nil
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
	log.Debug("loaded Re-Pair grammar",
		"alphabet", alphabet, "rules", g.numRules, "startSize", g.startSize,
		"textLength", g.textLength, "depth", g.depth)
	return g, nil
}
