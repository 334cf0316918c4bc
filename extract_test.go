package slp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestExtractEmptyRange(t *testing.T) {
	g, err := ParseMRRepair(strings.NewReader(mrGrammar))
	require.NoError(t, err)

	assert.Equal(t, "", mustExtract(t, g, 0, 0))
	assert.Equal(t, "", mustExtract(t, g, 3, 3))
	assert.Equal(t, "", mustExtract(t, g, g.TextLength(), g.TextLength()))
}

func TestExtractRangeError(t *testing.T) {
	g, err := ParseMRRepair(strings.NewReader(mrGrammar))
	require.NoError(t, err)

	var sink strings.Builder
	assert.ErrorIs(t, g.Extract(&sink, 0, g.TextLength()+1), ErrRange)
	assert.ErrorIs(t, g.Extract(&sink, 4, 2), ErrRange)

	// the instance stays usable
	assert.Equal(t, "abcab", mustExtract(t, g, 0, 5))
}

func TestExtractSingleBytes(t *testing.T) {
	g, err := ParseMRRepair(strings.NewReader(mrGrammar))
	require.NoError(t, err)

	text := mustExtract(t, g, 0, g.TextLength())
	for i := uint64(0); i < g.TextLength(); i++ {
		assert.Equal(t, text[i:i+1], mustExtract(t, g, i, i+1), "byte %d", i)
	}
}

func TestExtractWriteError(t *testing.T) {
	g, err := ParseMRRepair(strings.NewReader(mrGrammar))
	require.NoError(t, err)

	assert.Error(t, g.Extract(failingWriter{}, 0, g.TextLength()))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, assert.AnError }

// testRules is a small pair-rule pool used to generate BigRePair grammars:
// R256 -> "AB", R257 -> "ABC", R258 -> "ABABC", R259 -> "ABABCABABC".
var testRules = [][2]int32{
	{'A', 'B'},
	{256, 'C'},
	{256, 257},
	{258, 258},
}

// naiveExpand decompresses a symbol by plain recursion, independently of the
// extraction engine.
func naiveExpand(sym int32) string {
	if isTerminal(sym) {
		return string(byte(sym))
	}
	pair := testRules[sym-alphabetSize]
	return naiveExpand(pair[0]) + naiveExpand(pair[1])
}

// testGrammar assembles the BigRePair encoding of testRules plus the given
// start-rule children and the text it should derive.
func testGrammar(t rapidT, children []int32) (*Grammar, string) {
	rData := u32(256)
	for _, pair := range testRules {
		rData = cat(rData, u32(uint32(pair[0])), u32(uint32(pair[1])))
	}
	var cData []byte
	var text strings.Builder
	for _, c := range children {
		cData = cat(cData, u32(uint32(c)))
		text.WriteString(naiveExpand(c))
	}
	g, err := ParseBigRepair(cData, rData)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return g, text.String()
}

// rapidT is the overlap of *testing.T and *rapid.T the helpers need.
type rapidT interface {
	Fatalf(format string, args ...any)
}

func TestExtractCoverage(t *testing.T) {
	g, text := testGrammar(t, []int32{259, 'x', 258, 256, 257})
	assert.Equal(t, text, mustExtract(t, g, 0, g.TextLength()))
}

func TestExtractRapid(t *testing.T) {
	childGen := rapid.SampledFrom([]int32{'A', 'B', 'x', 256, 257, 258, 259})
	rapid.Check(t, func(t *rapid.T) {
		children := rapid.SliceOfN(childGen, 1, 20).Draw(t, "children")
		g, text := testGrammar(t, children)
		n := g.TextLength()
		require.Equal(t, uint64(len(text)), n)

		// subrange composition: extract(a, b) || extract(b, c) == extract(a, c)
		a := rapid.Uint64Range(0, n).Draw(t, "a")
		b := rapid.Uint64Range(a, n).Draw(t, "b")
		c := rapid.Uint64Range(b, n).Draw(t, "c")

		var left, right, whole strings.Builder
		require.NoError(t, g.Extract(&left, a, b))
		require.NoError(t, g.Extract(&right, b, c))
		require.NoError(t, g.Extract(&whole, a, c))
		assert.Equal(t, whole.String(), left.String()+right.String())
		assert.Equal(t, text[a:c], whole.String())
	})
}

func TestExtractConcurrent(t *testing.T) {
	g, text := testGrammar(t, []int32{259, 259, 258, 257})
	n := g.TextLength()

	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for a := uint64(0); a < n; a += 3 {
				b := min(a+7, n)
				var buf strings.Builder
				if err := g.Extract(&buf, a, b); err != nil {
					t.Errorf("extract [%d, %d): %v", a, b, err)
					return
				}
				if buf.String() != text[a:b] {
					t.Errorf("extract [%d, %d) mismatch", a, b)
					return
				}
			}
		}()
	}
	for range 8 {
		<-done
	}
}
