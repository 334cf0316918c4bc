package slp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alancleary/slp/amt"
)

// mrGrammar is the MR-Repair form of "abcab": one rule 256 -> 'a' 'b' and
// start rule 256 'c' 256.
const mrGrammar = "5\n1\n3\n97\n98\n-1\n256\n99\n256\n"

func mustExtract(t *testing.T, g *Grammar, begin, end uint64) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, g.Extract(&buf, begin, end))
	return buf.String()
}

func TestGrammarAccessors(t *testing.T) {
	g, err := ParseMRRepair(strings.NewReader(mrGrammar))
	require.NoError(t, err)

	assert.Equal(t, uint64(5), g.TextLength())
	assert.Equal(t, 1, g.NumRules())
	assert.Equal(t, 3, g.StartSize())
	assert.Equal(t, 3, g.Depth())
	assert.Equal(t, int32(2), g.bodyLen(256))
	assert.Equal(t, int32('a'), g.child(256, 0))
	assert.Equal(t, int32('b'), g.child(256, 1))
	assert.True(t, isEndOfRule(g.child(256, 2)))
}

func TestMetadataInvariants(t *testing.T) {
	g, err := ParseMRRepair(strings.NewReader(mrGrammar))
	require.NoError(t, err)

	// size of every non-terminal is the sum over its body
	for id := int32(alphabetSize); id < g.startRule; id++ {
		var sum uint64
		for i := int32(0); !isEndOfRule(g.child(id, i)); i++ {
			sum += g.sizes[g.child(id, i)]
		}
		assert.Equal(t, g.sizes[id], sum, "rule %d", id)
	}

	// start-rule children cover the whole text
	var total uint64
	for i := int32(0); !isEndOfRule(g.child(g.startRule, i)); i++ {
		total += g.sizes[g.child(g.startRule, i)]
	}
	assert.Equal(t, g.textLength, total)
}

func TestPositionalIndexBoundaries(t *testing.T) {
	g, err := ParseMRRepair(strings.NewReader(mrGrammar))
	require.NoError(t, err)

	key := make([]byte, keyLength)
	var off uint64
	for i := int32(0); !isEndOfRule(g.child(g.startRule, i)); i++ {
		size := g.sizes[g.child(g.startRule, i)]

		amt.PutKey6(key, off)
		assert.Equal(t, uint64(i), g.index.PredecessorIndex(key))
		amt.PutKey6(key, off+size-1)
		assert.Equal(t, uint64(i), g.index.PredecessorIndex(key))

		off += size
	}
}

func TestLoadIdempotence(t *testing.T) {
	g1, err := ParseMRRepair(strings.NewReader(mrGrammar))
	require.NoError(t, err)
	g2, err := ParseMRRepair(strings.NewReader(mrGrammar))
	require.NoError(t, err)

	assert.Equal(t, g1.TextLength(), g2.TextLength())
	assert.Equal(t, g1.Depth(), g2.Depth())
	assert.Equal(t,
		mustExtract(t, g1, 0, g1.TextLength()),
		mustExtract(t, g2, 0, g2.TextLength()))
}
