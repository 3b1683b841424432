package bloombroom

import "fmt"

// Filter is a standard (non-expiring) bloom filter. Once a key is added it is
// remembered until Clear; for a filter that forgets keys after a time to live,
// use ContinuousFilter.
//
// Filter is not safe for concurrent use. Guard it externally if multiple
// goroutines share one.
type Filter struct {
	field  *BitField
	m      uint64
	k      uint32
	hasher Hasher
	count  uint64
}

// New creates a filter sized by OptimalParams for the expected number of
// items and desired false positive rate.
func New(expectedItems uint64, fpRate float64, opts ...Option) *Filter {
	m, k := OptimalParams(expectedItems, fpRate)
	f, err := NewWithParams(m, k, opts...)
	if err != nil {
		// OptimalParams always yields m >= 1 and k >= 1.
		panic(err)
	}
	return f
}

// NewWithParams creates a filter with m buckets and k hash positions per key.
func NewWithParams(m uint64, k uint32, opts ...Option) (*Filter, error) {
	if m == 0 || k == 0 {
		return nil, fmt.Errorf("%w: m=%d k=%d", ErrInvalidParams, m, k)
	}
	cfg := newConfig(opts...)
	field, err := NewBitField(m, 1)
	if err != nil {
		return nil, err
	}
	return &Filter{
		field:  field,
		m:      m,
		k:      k,
		hasher: cfg.hasher,
	}, nil
}

// Add adds data to the filter.
func (f *Filter) Add(data []byte) {
	f.add(f.hasher.Sum64(data))
}

// AddString adds a string to the filter without allocating, provided the
// configured hasher has an allocation-free string form.
func (f *Filter) AddString(s string) {
	f.add(f.hasher.Sum64String(s))
}

func (f *Filter) add(h uint64) {
	eachPosition(h, f.k, f.m, func(pos uint64) bool {
		f.field.set(pos, 1)
		return true
	})
	f.count++
}

// Test reports whether data might be in the filter. A false result means the
// data was definitely never added; a true result may be a false positive.
func (f *Filter) Test(data []byte) bool {
	return f.test(f.hasher.Sum64(data))
}

// TestString reports whether s might be in the filter.
func (f *Filter) TestString(s string) bool {
	return f.test(f.hasher.Sum64String(s))
}

func (f *Filter) test(h uint64) bool {
	present := true
	eachPosition(h, f.k, f.m, func(pos uint64) bool {
		if f.field.get(pos) == 0 {
			present = false
			return false
		}
		return true
	})
	return present
}

// TestAndAdd tests for data and then adds it, returning the result of the
// test. Equivalent to Test followed by Add with a single digest computation.
func (f *Filter) TestAndAdd(data []byte) bool {
	h := f.hasher.Sum64(data)
	present := f.test(h)
	f.add(h)
	return present
}

// Clear resets the filter to empty.
func (f *Filter) Clear() {
	f.field.Clear()
	f.count = 0
}

// M returns the number of buckets.
func (f *Filter) M() uint64 { return f.m }

// K returns the number of hash positions per key.
func (f *Filter) K() uint32 { return f.k }

// Count returns the number of items added since construction or the last
// Clear. Re-adding an existing key counts again.
func (f *Filter) Count() uint64 { return f.count }

// EstimatedFillRatio returns the proportion of buckets that are set.
func (f *Filter) EstimatedFillRatio() float64 {
	return float64(f.field.CountNonzero()) / float64(f.m)
}

// EstimatedFalsePositiveRate estimates the current false positive rate based
// on the number of items added.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	return EstimateFalsePositiveRate(f.m, f.k, f.count)
}
