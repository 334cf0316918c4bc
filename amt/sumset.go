package amt

// sumNode is one frozen trie node. Children are contiguous in the node
// array starting at firstChild, in key-byte order; firstChild is -1 at the
// last key byte, where the bitmap alone records membership.
//
// rank and count are the "sums": rank is the number of keys sorted before
// this subtree, count the number of keys inside it. A leaf bit's ordinal is
// therefore node.rank + (set bits below it), with no key material stored.
type sumNode struct {
	bitmap     bitmap256
	firstChild int32
	rank       uint64
	count      uint64
}

// CompressedSumSet is an immutable rank-enabled set of fixed-width keys,
// built by freezing a Set. It supports predecessor queries that return the
// ordinal position of the matched key rather than its value.
type CompressedSumSet struct {
	nodes  []sumNode
	keyLen int
	size   uint64
	codec  KeyCodec
	maxKey uint64
}

// NewCompressedSumSet freezes set into its compact rank-enabled form and
// consumes it: the mutable set is emptied and must not be used afterwards.
// keyLen is the fixed key width; codec must be the order-preserving codec
// the keys were encoded with. Key widths above 8 are not supported.
func NewCompressedSumSet(set *Set, keyLen int, codec KeyCodec) *CompressedSumSet {
	if set.keyLen != 0 && set.keyLen != keyLen {
		panic("amt: key width mismatch")
	}
	if keyLen < 1 || keyLen > 8 {
		panic("amt: unsupported key width")
	}
	s := &CompressedSumSet{keyLen: keyLen, codec: codec}
	root := set.root
	set.root = nil
	set.size = 0
	if root == nil || root.bitmap.count() == 0 {
		return s
	}

	// Breadth-first flatten: children of each node land contiguously, and
	// every parent index precedes its children, which the two metadata
	// passes below rely on.
	type buildItem struct {
		src *setNode
		dst int32
	}
	s.nodes = append(s.nodes, sumNode{})
	queue := []buildItem{{root, 0}}
	for depth := 0; len(queue) > 0; depth++ {
		var next []buildItem
		for _, it := range queue {
			s.nodes[it.dst].bitmap = it.src.bitmap
			if depth == keyLen-1 {
				s.nodes[it.dst].firstChild = -1
				s.nodes[it.dst].count = uint64(it.src.bitmap.count())
				continue
			}
			firstChild := int32(len(s.nodes))
			s.nodes[it.dst].firstChild = firstChild
			for ci, child := range it.src.children {
				s.nodes = append(s.nodes, sumNode{})
				next = append(next, buildItem{child, firstChild + int32(ci)})
			}
		}
		queue = next
	}

	// Subtree counts, bottom-up.
	for i := len(s.nodes) - 1; i >= 0; i-- {
		n := &s.nodes[i]
		if n.firstChild < 0 {
			continue
		}
		var count uint64
		for c := range int32(n.bitmap.count()) {
			count += s.nodes[n.firstChild+c].count
		}
		n.count = count
	}

	// Cumulative ranks, top-down.
	for i := range s.nodes {
		n := s.nodes[i]
		if n.firstChild < 0 {
			continue
		}
		acc := n.rank
		for c := range int32(n.bitmap.count()) {
			s.nodes[n.firstChild+c].rank = acc
			acc += s.nodes[n.firstChild+c].count
		}
	}

	s.size = s.nodes[0].count
	key := make([]byte, keyLen)
	s.maxDescendValue(0, 0, key)
	s.maxKey = codec.Decode(key)
	return s
}

// Len returns the number of keys frozen into the set.
func (s *CompressedSumSet) Len() uint64 { return s.size }

// PredecessorIndex returns the rank i of the largest member not exceeding
// key, and rewrites key in place to that member. The result for a key
// smaller than every member is unspecified (0 is returned); inserting key 0
// upstream rules the case out.
func (s *CompressedSumSet) PredecessorIndex(key []byte) uint64 {
	if len(key) != s.keyLen {
		panic("amt: key width mismatch")
	}
	if s.size == 0 {
		return 0
	}
	if s.codec.Decode(key) >= s.maxKey {
		s.codec.Encode(key, s.maxKey)
		return s.size - 1
	}

	// Descend along the query bytes. Whenever the exact byte is present but
	// a smaller sibling exists, that sibling's subtree holds the best
	// fallback should a lower level run out of members below the query.
	var (
		idx     int32
		value   uint64
		fbIdx   = int32(-1)
		fbValue uint64
	)
	for depth := range s.keyLen {
		node := &s.nodes[idx]
		b := key[depth]
		if node.bitmap.test(b) {
			if node.firstChild < 0 {
				// key itself is a member
				return node.rank + uint64(node.bitmap.rank(b))
			}
			if p, ok := node.bitmap.prev(b); ok {
				fbIdx = node.firstChild + int32(node.bitmap.rank(p))
				fbValue = value<<8 | uint64(p)
			}
			idx = node.firstChild + int32(node.bitmap.rank(b))
			value = value<<8 | uint64(b)
			continue
		}
		if p, ok := node.bitmap.prev(b); ok {
			if node.firstChild < 0 {
				s.codec.Encode(key, value<<8|uint64(p))
				return node.rank + uint64(node.bitmap.rank(p))
			}
			child := node.firstChild + int32(node.bitmap.rank(p))
			return s.maxDescendValue(child, value<<8|uint64(p), key)
		}
		if fbIdx >= 0 {
			return s.maxDescendValue(fbIdx, fbValue, key)
		}
		return 0
	}
	return 0
}

// maxDescendValue walks the maximum path under idx, appending bytes to the
// partial value, writes the resulting member into key, and returns its rank.
func (s *CompressedSumSet) maxDescendValue(idx int32, value uint64, key []byte) uint64 {
	for {
		node := &s.nodes[idx]
		b := node.bitmap.max()
		value = value<<8 | uint64(b)
		if node.firstChild < 0 {
			s.codec.Encode(key, value)
			return node.rank + node.count - 1
		}
		idx = node.firstChild + int32(node.bitmap.rank(b))
	}
}
