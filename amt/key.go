// Package amt provides fixed-width integer key sets backed by an
// array-mapped trie, with a freeze step into a compact rank-enabled form
// that answers predecessor queries.
//
// Keys are fixed-width byte strings whose lexicographic order must match the
// numeric order of the values they encode (i.e. a big-endian encoding).
// The mutable Set accumulates keys; NewCompressedSumSet consumes it and
// produces an immutable CompressedSumSet whose PredecessorIndex returns the
// ordinal position (rank) of the largest member not exceeding a query key.
package amt

// KeyLen6 is the width of the 6-byte key encoding, wide enough for 48-bit
// values.
const KeyLen6 = 6

// PutKey6 writes value into key as 6 big-endian bytes and returns the number
// of bytes written. Values at or above 1<<48 are a caller bug and are
// silently truncated to their low 48 bits.
func PutKey6(key []byte, value uint64) int {
	key[0] = byte(value >> 40)
	key[1] = byte(value >> 32)
	key[2] = byte(value >> 24)
	key[3] = byte(value >> 16)
	key[4] = byte(value >> 8)
	key[5] = byte(value)
	return KeyLen6
}

// Key6 decodes a 6-byte big-endian key.
func Key6(key []byte) uint64 {
	return uint64(key[0])<<40 |
		uint64(key[1])<<32 |
		uint64(key[2])<<24 |
		uint64(key[3])<<16 |
		uint64(key[4])<<8 |
		uint64(key[5])
}

// KeyCodec converts between key byte strings and the integer values they
// encode. Implementations must be order-preserving: numeric order of values
// equals lexicographic order of encoded keys.
type KeyCodec interface {
	// Encode writes value into key and returns the number of bytes written.
	Encode(key []byte, value uint64) int
	// Decode returns the value a key encodes.
	Decode(key []byte) uint64
}

// Codec6 is the KeyCodec for 6-byte big-endian keys.
type Codec6 struct{}

// Encode implements KeyCodec.
func (Codec6) Encode(key []byte, value uint64) int { return PutKey6(key, value) }

// Decode implements KeyCodec.
func (Codec6) Decode(key []byte) uint64 { return Key6(key) }
