// Package bloombroom provides bloom filters for Go, including a continuous
// (self-expiring) filter for unbounded key streams.
//
// A bloom filter is a space-efficient probabilistic data structure that tests
// whether an element is a member of a set. False positive matches are
// possible, but false negatives are not – if the filter says an element is
// not present, it definitely is not. If it says an element might be present,
// it could be a false positive.
//
// # Implementations
//
// [Filter] is a standard bloom filter: one bit per bucket, keys are
// remembered until [Filter.Clear]. It is not thread-safe.
//
// [ContinuousFilter] remembers keys for roughly one time to live and then
// forgets them, without any per-key bookkeeping. Each bucket is a 4-bit stamp
// of the time slot it was written in; a coarse slot counter advances twice
// per ttl, and buckets more than two ticks behind are expired lazily as
// tests visit them. This costs 4 bits per bucket instead of a timestamp per
// key, at the price of coarse expiry: a key is retained for between 1x and
// 2x the configured ttl. Add and Test are safe for concurrent use.
//
// # Architecture
//
// Both filters derive k bucket positions from a single 64-bit digest using
// double hashing: the digest's upper and lower halves are combined as
// hi + lo*i for i = 1..k. This avoids k independent hash computations while
// preserving the false positive analysis behind [OptimalParams] ("Less
// Hashing, Same Performance", Kirsch & Mitzenmacher).
//
// Buckets live in a [BitField], a fixed-width bit-packed counter array with
// O(1) byte/shift/mask access. The standard filter uses 1-bit counters, the
// continuous filter 4-bit ones; the width is a construction parameter of the
// field itself.
//
// The digest is pluggable via [WithHasher]. The default is [XXH3]; [XXHash],
// [Murmur3] and [FNV1a] are also provided, and any deterministic 64-bit hash
// can be supplied through the [Hasher] interface.
//
// # Choosing Parameters
//
// Use [New] or [NewContinuous] with your expected number of items and
// desired false positive rate:
//
//	// Filter for 1 million items with 1% false positive rate
//	f := bloombroom.New(1_000_000, 0.01)
//
//	// Continuous filter for 1 million simultaneously live items,
//	// forgetting keys after roughly 10 minutes
//	cf, err := bloombroom.NewContinuous(1_000_000, 0.01, 10*time.Minute)
//
// [OptimalParams] exposes the sizing computation directly, and
// [NewWithParams] and [NewContinuousWithParams] accept explicit m and k.
// For a continuous filter, size for the number of items live at any one
// moment, not the stream total.
//
// # Time Management
//
// A continuous filter's clock only moves when [ContinuousFilter.Tick] is
// called. [ContinuousFilter.StartTicking] runs a background goroutine that
// ticks every ttl/2; [ContinuousFilter.StopTicking] stops it. Both are
// idempotent. Alternatively call Tick yourself, which also gives tests full
// control over time.
//
// [ContinuousFilter.Test] expires the stale buckets it visits – membership
// testing doubles as garbage collection. [ContinuousFilter.Peek] is the
// strictly read-only variant, and [ContinuousFilter.Sweep] expires all stale
// buckets in one pass for workloads whose reads are too sparse to sweep
// organically.
//
// # Thread Safety
//
// [Filter] is NOT thread-safe; guard it externally.
//
// [ContinuousFilter] supports concurrent Add, Test and Peek. Its slot
// counter is mutex-guarded with sub-microsecond critical sections; bucket
// writes are unsynchronized and last-write-wins, which is within the
// filter's probabilistic error budget.
//
// # References
//
//   - Less Hashing, Same Performance: https://www.eecs.harvard.edu/~michaelm/postscripts/rsa2008.pdf
//   - Bloom, B. H. (1970). Space/time trade-offs in hash coding with allowable errors.
package bloombroom
