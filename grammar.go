package slp

import (
	"errors"
	"fmt"

	"github.com/alancleary/slp/amt"
)

// ErrMalformedGrammar indicates a grammar file that cannot describe a valid
// straight-line grammar: impossible header fields, a body symbol referencing
// a rule that is not loaded yet, or a rule-count mismatch with the file size.
var ErrMalformedGrammar = errors.New("slp: malformed grammar")

// ErrRange indicates an extraction range outside [0, TextLength()].
var ErrRange = errors.New("slp: byte range out of bounds")

// Grammar is a straight-line grammar augmented with a positional index over
// its start rule. It is built by one of the loaders and immutable afterwards:
// concurrent extractions against the same Grammar are safe.
type Grammar struct {
	// rules holds every rule body back to back, each terminated by
	// dummyCode. offsets maps rule id − alphabetSize to the start of its
	// body; the final entry is the start rule.
	rules   []int32
	offsets []int32

	// sizes maps every symbol id below the start rule to the length of its
	// expansion in terminals (1 for terminal bytes). The extractor descends
	// past whole subtrees by these lengths when a query begins inside a
	// start-rule child.
	sizes []uint64

	numRules   int
	startRule  int32
	startSize  int
	textLength uint64
	depth      int

	// index maps the absolute text offset of each start-rule child to its
	// position in the start rule, via rank-flavored predecessor queries.
	index *amt.CompressedSumSet
}

// TextLength returns the length of the decompressed text in bytes.
func (g *Grammar) TextLength() uint64 { return g.textLength }

// Depth returns the height of the grammar's parse tree.
func (g *Grammar) Depth() int { return g.depth }

// NumRules returns the number of rules, not counting the start rule.
func (g *Grammar) NumRules() int { return g.numRules }

// StartSize returns the number of symbols in the start rule.
func (g *Grammar) StartSize() int { return g.startSize }

// child returns the symbol at position index of a rule's body; the position
// just past the body holds dummyCode.
func (g *Grammar) child(rule, index int32) int32 {
	return g.rules[g.offsets[rule-alphabetSize]+index]
}

// bodyLen returns the number of symbols in a rule's body, excluding the
// trailing sentinel.
func (g *Grammar) bodyLen(rule int32) int32 {
	start := g.offsets[rule-alphabetSize]
	n := int32(0)
	for !isEndOfRule(g.rules[start+n]) {
		n++
	}
	return n
}

// grammarBuilder accumulates rule bodies in ascending id order, deriving
// expansion sizes and parse-tree depths from already-loaded children in a
// single bottom-up pass. The depth slice is load-time scratch; only the
// aggregate depth survives on the Grammar.
type grammarBuilder struct {
	g      *Grammar
	depths []int32
	next   int32 // id the next added rule will receive
}

func newGrammarBuilder(numRules int) (*grammarBuilder, error) {
	if numRules < 0 || numRules > 1<<31-1-alphabetSize {
		return nil, fmt.Errorf("%w: impossible rule count %d", ErrMalformedGrammar, numRules)
	}
	startRule := int32(alphabetSize + numRules)
	b := &grammarBuilder{
		g: &Grammar{
			numRules:  numRules,
			startRule: startRule,
			offsets:   make([]int32, 0, numRules+1),
			sizes:     make([]uint64, startRule),
		},
		depths: make([]int32, startRule),
		next:   alphabetSize,
	}
	for i := range alphabetSize {
		b.g.sizes[i] = 1
		b.depths[i] = 1
	}
	return b, nil
}

// checkSymbol validates a body symbol against the rules loaded so far.
func (b *grammarBuilder) checkSymbol(c int32) error {
	if isEndOfRule(c) {
		return fmt.Errorf("%w: sentinel %d used as a symbol", ErrMalformedGrammar, c)
	}
	if c < 0 || (!isTerminal(c) && c >= b.next) {
		return fmt.Errorf("%w: symbol %d referenced before definition", ErrMalformedGrammar, c)
	}
	return nil
}

// addRule appends the next rule's body, computing its expansion size and
// depth from its already-loaded children.
func (b *grammarBuilder) addRule(body []int32) error {
	if b.next >= b.g.startRule {
		return fmt.Errorf("%w: more rules than the header declares", ErrMalformedGrammar)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body for rule %d", ErrMalformedGrammar, b.next)
	}
	var (
		size  uint64
		depth int32
	)
	for _, c := range body {
		if err := b.checkSymbol(c); err != nil {
			return err
		}
		size += b.g.sizes[c]
		if size > maxTextLength {
			return fmt.Errorf("%w: expansion of rule %d overflows 48-bit offsets", ErrMalformedGrammar, b.next)
		}
		depth = max(depth, b.depths[c]+1)
	}
	b.g.sizes[b.next] = size
	b.depths[b.next] = depth
	b.g.offsets = append(b.g.offsets, int32(len(b.g.rules)))
	b.g.rules = append(b.g.rules, body...)
	b.g.rules = append(b.g.rules, dummyCode)
	b.next++
	return nil
}

// setStart installs the start-rule children, builds and freezes the
// positional index over their cumulative offsets, and returns the finished
// grammar. The mutable set and the depth scratch do not outlive the call.
func (b *grammarBuilder) setStart(children []int32) (*Grammar, error) {
	if b.next != b.g.startRule {
		return nil, fmt.Errorf("%w: %d rules loaded, header declares %d",
			ErrMalformedGrammar, int(b.next)-alphabetSize, b.g.numRules)
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: empty start rule", ErrMalformedGrammar)
	}
	g := b.g
	g.startSize = len(children)
	g.offsets = append(g.offsets, int32(len(g.rules)))

	set := amt.NewSet(len(children))
	key := make([]byte, keyLength)
	var (
		pos   uint64
		depth int32
	)
	for _, c := range children {
		if err := b.checkSymbol(c); err != nil {
			return nil, err
		}
		amt.PutKey6(key, pos)
		set.Insert(key)
		g.rules = append(g.rules, c)
		pos += g.sizes[c]
		if pos > maxTextLength {
			return nil, fmt.Errorf("%w: text length overflows 48-bit offsets", ErrMalformedGrammar)
		}
		depth = max(depth, b.depths[c]+1)
	}
	g.rules = append(g.rules, dummyCode)
	g.textLength = pos
	g.depth = int(depth)
	g.index = amt.NewCompressedSumSet(set, keyLength, amt.Codec6{})
	return g, nil
}
