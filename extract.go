package slp

import (
	"fmt"
	"io"

	"github.com/alancleary/slp/amt"
)

// extractBufferSize is how many terminals accumulate before a sink write.
const extractBufferSize = 4096

// frame is one suspended rule position on the extraction stack.
type frame struct {
	rule  int32
	index int32
}

// Extract writes the text bytes in [begin, end) to w without decompressing
// anything outside the range. begin may fall anywhere, including inside a
// start-rule child. The empty range writes nothing. Ranges outside
// [0, TextLength()] fail with ErrRange and leave the grammar usable.
//
// Extract keeps its cursor and stack on the call frame, so concurrent calls
// against the same Grammar are safe.
func (g *Grammar) Extract(w io.Writer, begin, end uint64) error {
	if begin > end || end > g.textLength {
		return fmt.Errorf("%w: [%d, %d) of text length %d", ErrRange, begin, end, g.textLength)
	}
	if begin == end {
		return nil
	}

	// Locate the start-rule child covering begin. The predecessor query
	// rewrites key to that child's absolute offset, which is at most begin.
	key := make([]byte, keyLength)
	amt.PutKey6(key, begin)
	child := g.index.PredecessorIndex(key)
	skip := begin - amt.Key6(key)

	rule := g.startRule
	index := int32(child)
	stack := make([]frame, 0, g.depth)

	// Drop the first skip terminals without emitting: step over whole
	// children whose expansion fits in the remaining skip, descend into the
	// one that straddles the boundary.
	for skip > 0 {
		sym := g.child(rule, index)
		if isTerminal(sym) {
			skip--
			index++
			continue
		}
		if size := g.sizes[sym]; size <= skip {
			skip -= size
			index++
			continue
		}
		stack = append(stack, frame{rule, index + 1})
		rule = sym
		index = 0
	}

	buf := make([]byte, 0, extractBufferSize)
	length := end - begin
	for j := uint64(0); j < length; {
		sym := g.child(rule, index)
		switch {
		case isEndOfRule(sym):
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			rule, index = top.rule, top.index
		case isTerminal(sym):
			buf = append(buf, byte(sym))
			if len(buf) == extractBufferSize {
				if _, err := w.Write(buf); err != nil {
					return err
				}
				buf = buf[:0]
			}
			index++
			j++
		default:
			stack = append(stack, frame{rule, index + 1})
			rule = sym
			index = 0
		}
	}
	if len(buf) > 0 {
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
