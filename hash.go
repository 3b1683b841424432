package bloombroom

import (
	"hash/fnv"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Hasher produces the 64-bit digest a filter derives its bucket positions
// from. Implementations must be deterministic and free of side effects; the
// same input always yields the same digest for the lifetime of a filter.
type Hasher interface {
	// Sum64 returns the digest of data.
	Sum64(data []byte) uint64

	// Sum64String returns the digest of s. It must agree with Sum64 on the
	// equivalent byte content. Implementations backed by a string-aware hash
	// avoid the []byte conversion allocation.
	Sum64String(s string) uint64
}

type xxh3Hasher struct{}

func (xxh3Hasher) Sum64(data []byte) uint64    { return xxh3.Hash(data) }
func (xxh3Hasher) Sum64String(s string) uint64 { return xxh3.HashString(s) }

// XXH3 returns the default Hasher, backed by the xxh3 hash. Both the byte
// and string forms are allocation-free.
func XXH3() Hasher { return xxh3Hasher{} }

type xxhashHasher struct{}

func (xxhashHasher) Sum64(data []byte) uint64    { return xxhash.Sum64(data) }
func (xxhashHasher) Sum64String(s string) uint64 { return xxhash.Sum64String(s) }

// XXHash returns a Hasher backed by xxHash (XXH64). Both the byte and string
// forms are allocation-free.
func XXHash() Hasher { return xxhashHasher{} }

type murmur3Hasher struct{}

func (murmur3Hasher) Sum64(data []byte) uint64    { return murmur3.Sum64(data) }
func (murmur3Hasher) Sum64String(s string) uint64 { return murmur3.Sum64([]byte(s)) }

// Murmur3 returns a Hasher backed by MurmurHash3. The string form converts
// to []byte and may allocate.
func Murmur3() Hasher { return murmur3Hasher{} }

type fnvHasher struct{}

func (fnvHasher) Sum64(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}

func (fnvHasher) Sum64String(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// FNV1a returns a Hasher backed by 64-bit FNV-1a from the standard library.
// Slower than the other built-ins; provided for compatibility with position
// sets produced by earlier FNV-based deployments.
func FNV1a() Hasher { return fnvHasher{} }

// eachPosition derives k bucket positions from the single digest h and calls
// fn with each position in order, stopping early if fn returns false.
//
// The digest is split into its upper 32 bits (hi) and lower 32 bits (lo) and
// the i-th position is hi + lo*i for i = 1..k, in wrapping uint64 arithmetic,
// reduced modulo m. This is standard double hashing: one digest computation
// yields k positions whose distribution preserves the false positive analysis
// behind OptimalParams. The index runs from 1, not 0; the position sets and
// therefore the realized false positive rate depend on that origin.
func eachPosition(h uint64, k uint32, m uint64, fn func(pos uint64) bool) {
	hi := h >> 32
	lo := h & 0xffffffff
	for i := uint64(1); i <= uint64(k); i++ {
		if !fn((hi + lo*i) % m) {
			return
		}
	}
}
