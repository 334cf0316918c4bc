package slp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// LoadMRRepair loads a grammar produced by MR-Repair from its text file.
func LoadMRRepair(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := ParseMRRepair(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ParseMRRepair parses the MR-Repair text form: three decimal header lines
// (text length, rule count, start-rule size), then one symbol per line for
// each rule body in id order, each body terminated by a dummy-code line,
// then the start-rule children with no trailing sentinel.
func ParseMRRepair(r io.Reader) (*Grammar, error) {
	sc := bufio.NewScanner(r)
	readInt := func() (int64, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("slp: truncated grammar: %w", io.ErrUnexpectedEOF)
		}
		v, err := strconv.ParseInt(strings.TrimSpace(sc.Text()), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a symbol", ErrMalformedGrammar, sc.Text())
		}
		return v, nil
	}

	textLength, err := readInt()
	if err != nil {
		return nil, err
	}
	numRules, err := readInt()
	if err != nil {
		return nil, err
	}
	startSize, err := readInt()
	if err != nil {
		return nil, err
	}
	if textLength < 1 || textLength > maxTextLength {
		return nil, fmt.Errorf("%w: impossible text length %d", ErrMalformedGrammar, textLength)
	}
	if startSize < 1 || startSize > textLength {
		return nil, fmt.Errorf("%w: impossible start-rule size %d", ErrMalformedGrammar, startSize)
	}
	if numRules < 0 || numRules > int64(math.MaxInt32)-alphabetSize {
		return nil, fmt.Errorf("%w: impossible rule count %d", ErrMalformedGrammar, numRules)
	}

	b, err := newGrammarBuilder(int(numRules))
	if err != nil {
		return nil, err
	}
	body := make([]int32, 0, 8)
	for range numRules {
		body = body[:0]
		for {
			v, err := readInt()
			if err != nil {
				return nil, err
			}
			if v == dummyCode {
				break
			}
			if v < 0 || v > math.MaxInt32 {
				return nil, fmt.Errorf("%w: symbol %d out of range", ErrMalformedGrammar, v)
			}
			body = append(body, int32(v))
		}
		if err := b.addRule(body); err != nil {
			return nil, err
		}
	}

	children := make([]int32, startSize)
	for i := range children {
		v, err := readInt()
		if err != nil {
			return nil, err
		}
		if v < 0 || v > math.MaxInt32 {
			return nil, fmt.Errorf("%w: symbol %d out of range", ErrMalformedGrammar, v)
		}
		children[i] = int32(v)
	}
	g, err := b.setStart(children)
	if err != nil {
		return nil, err
	}
	if g.textLength != uint64(textLength) {
		return nil, fmt.Errorf("%w: start rule expands to %d bytes, header declares %d",
			ErrMalformedGrammar, g.textLength, textLength)
	}
	log.Debug("loaded MR-Repair grammar",
		"rules", g.numRules, "startSize", g.startSize,
		"textLength", g.textLength, "depth", g.depth)
	return g, nil
}
