package bloombroom

import (
	"fmt"
	"sync"
	"time"
)

const (
	// slotBits is the width of a bucket's time-slot stamp.
	slotBits = 4

	// maxSlot is the highest time slot. The slot counter cycles through
	// [1, maxSlot]; 0 is reserved as the never-written sentinel.
	maxSlot = 1<<slotBits - 1

	// staleTicks is the ring distance beyond which a stamped bucket is
	// considered expired.
	staleTicks = 2
)

// ContinuousFilter is a bloom filter for an unbounded key stream: keys are
// remembered for roughly one time to live and then forgotten. Instead of a
// single bit, each bucket holds a 4-bit stamp of the time slot it was last
// written in. A coarse slot counter advances once per tick (TickPeriod, half
// the ttl), and a bucket more than two ticks behind the counter is expired.
// A key is therefore retained for between 1x and 2x the configured ttl,
// trading expiry precision for 4 bits per bucket.
//
// Expiry is lazy: Test resets the stale buckets it visits as a side effect.
// Peek is the read-only variant, and Sweep expires every stale bucket in one
// pass for workloads whose reads are too sparse to sweep organically. The
// slot ring wraps after maxSlot (15) ticks, so a bucket left unvisited for
// more than maxSlot-staleTicks ticks can transiently look fresh again; keep
// the filter read often enough, or Sweep at least once per ring revolution.
//
// Add, Test and Peek are safe for concurrent use. The slot counter is read
// and advanced under a mutex, held only for the snapshot or increment, never
// across hashing or bucket access. The bucket array itself is deliberately
// unsynchronized: writes to distinct buckets are independent, and a
// last-write-wins race on a shared bucket at worst shifts one stamp by a
// tick, within the filter's probabilistic contract.
type ContinuousFilter struct {
	field  *BitField
	m      uint64
	k      uint32
	hasher Hasher
	ttl    time.Duration

	mu   sync.Mutex
	slot uint8 // cycles through [1, maxSlot], never 0

	tickerMu sync.Mutex
	stop     chan struct{}
	done     chan struct{}
}

// NewContinuous creates a continuous filter sized by OptimalParams for the
// expected number of simultaneously live items and desired false positive
// rate, expiring keys after roughly ttl.
func NewContinuous(expectedItems uint64, fpRate float64, ttl time.Duration, opts ...Option) (*ContinuousFilter, error) {
	m, k := OptimalParams(expectedItems, fpRate)
	return NewContinuousWithParams(m, k, ttl, opts...)
}

// NewContinuousWithParams creates a continuous filter with m buckets, k hash
// positions per key and the given time to live.
func NewContinuousWithParams(m uint64, k uint32, ttl time.Duration, opts ...Option) (*ContinuousFilter, error) {
	if m == 0 || k == 0 || ttl <= 0 {
		return nil, fmt.Errorf("%w: m=%d k=%d ttl=%v", ErrInvalidParams, m, k, ttl)
	}
	cfg := newConfig(opts...)
	field, err := NewBitField(m, slotBits)
	if err != nil {
		return nil, err
	}
	return &ContinuousFilter{
		field:  field,
		m:      m,
		k:      k,
		hasher: cfg.hasher,
		ttl:    ttl,
		slot:   1,
	}, nil
}

// Add adds data to the filter, stamping its buckets with the current slot.
func (f *ContinuousFilter) Add(data []byte) {
	f.add(f.hasher.Sum64(data))
}

// AddString adds a string to the filter without allocating, provided the
// configured hasher has an allocation-free string form.
func (f *ContinuousFilter) AddString(s string) {
	f.add(f.hasher.Sum64String(s))
}

func (f *ContinuousFilter) add(h uint64) {
	// One snapshot for the whole call: all k buckets carry the same stamp
	// even if the counter advances mid-call.
	slot := f.CurrentSlot()
	eachPosition(h, f.k, f.m, func(pos uint64) bool {
		f.field.set(pos, slot)
		return true
	})
}

// Test reports whether data might be in the filter and not yet expired. A
// false result means the data was definitely not added within the retention
// window; a true result may be a false positive.
//
// Test expires the stale buckets it visits, resetting them to zero. Use Peek
// for a test without that side effect.
func (f *ContinuousFilter) Test(data []byte) bool {
	return f.test(f.hasher.Sum64(data), true)
}

// TestString is the string form of Test.
func (f *ContinuousFilter) TestString(s string) bool {
	return f.test(f.hasher.Sum64String(s), true)
}

// Peek reports whether data might be in the filter, like Test, but never
// mutates the filter. Stale buckets are left for Test, Sweep or a later Add
// to reclaim.
func (f *ContinuousFilter) Peek(data []byte) bool {
	return f.test(f.hasher.Sum64(data), false)
}

// PeekString is the string form of Peek.
func (f *ContinuousFilter) PeekString(s string) bool {
	return f.test(f.hasher.Sum64String(s), false)
}

func (f *ContinuousFilter) test(h uint64, evict bool) bool {
	cur := f.CurrentSlot()
	present := true
	// All k positions are visited even after the result is decided:
	// visiting is what expires a stale bucket, and an early exit would
	// leave the remainder unswept.
	eachPosition(h, f.k, f.m, func(pos uint64) bool {
		v := f.field.get(pos)
		switch {
		case v == 0:
			present = false
		case ringDistance(cur, v) > staleTicks:
			if evict {
				f.field.set(pos, 0)
			}
			present = false
		}
		return true
	})
	return present
}

// ringDistance returns how many ticks ago slot v was stamped, given the
// current slot cur. Both are in [1, maxSlot].
func ringDistance(cur, v uint8) uint8 {
	if cur >= v {
		return cur - v
	}
	return cur + maxSlot - v
}

// Tick advances the slot counter by one, wrapping from maxSlot to 1. It is
// called automatically every TickPeriod while background ticking is running,
// and may be called directly for manual time management or deterministic
// tests.
func (f *ContinuousFilter) Tick() {
	f.mu.Lock()
	f.slot = f.slot%maxSlot + 1
	f.mu.Unlock()
}

// CurrentSlot returns a snapshot of the slot counter, in [1, maxSlot].
func (f *ContinuousFilter) CurrentSlot() uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slot
}

// Sweep expires every stale bucket in one pass over the store. Not needed
// when Test traffic covers the key space; meant for read-sparse workloads
// where lazy expiry never gets a chance to run.
func (f *ContinuousFilter) Sweep() {
	cur := f.CurrentSlot()
	for i := uint64(0); i < f.m; i++ {
		v := f.field.get(i)
		if v != 0 && ringDistance(cur, v) > staleTicks {
			f.field.set(i, 0)
		}
	}
}

// NonzeroBuckets returns the number of buckets currently stamped, including
// stale ones not yet expired.
func (f *ContinuousFilter) NonzeroBuckets() uint64 {
	return f.field.CountNonzero()
}

// StartTicking launches the background goroutine that calls Tick every
// TickPeriod. It is idempotent: calling it while ticking is already running
// is a no-op. The goroutine runs until StopTicking.
func (f *ContinuousFilter) StartTicking() {
	f.tickerMu.Lock()
	defer f.tickerMu.Unlock()
	if f.stop != nil {
		return
	}
	f.stop = make(chan struct{})
	f.done = make(chan struct{})
	go f.tickLoop(f.stop, f.done)
}

// StopTicking stops the background ticking goroutine and waits for it to
// exit. It is idempotent: calling it while ticking is not running is a no-op.
// The slot counter keeps its value; ticking can be restarted later.
func (f *ContinuousFilter) StopTicking() {
	f.tickerMu.Lock()
	defer f.tickerMu.Unlock()
	if f.stop == nil {
		return
	}
	close(f.stop)
	<-f.done
	f.stop, f.done = nil, nil
}

func (f *ContinuousFilter) tickLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(f.TickPeriod())
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			f.Tick()
		case <-stop:
			return
		}
	}
}

// M returns the number of buckets.
func (f *ContinuousFilter) M() uint64 { return f.m }

// K returns the number of hash positions per key.
func (f *ContinuousFilter) K() uint32 { return f.k }

// TTL returns the configured time to live. A key's actual retention is
// between 1x and 2x this value.
func (f *ContinuousFilter) TTL() time.Duration { return f.ttl }

// TickPeriod returns the interval between automatic ticks, half the ttl.
func (f *ContinuousFilter) TickPeriod() time.Duration {
	return f.ttl / staleTicks
}
