package bloombroom

import (
	"errors"
	"fmt"
	"testing"
)

func TestFilterBasic(t *testing.T) {
	f := New(1000, 0.01)

	f.Add([]byte("hello"))
	f.Add([]byte("world"))
	f.AddString("foo")

	if !f.Test([]byte("hello")) {
		t.Error("expected hello to be present")
	}
	if !f.Test([]byte("world")) {
		t.Error("expected world to be present")
	}
	if !f.TestString("foo") {
		t.Error("expected foo to be present")
	}

	if f.Test([]byte("notpresent")) {
		t.Log("warning: false positive for 'notpresent'")
	}
}

func TestFilterFalsePositiveRate(t *testing.T) {
	expectedItems := uint64(10000)
	targetFPRate := 0.01 // 1%

	f := New(expectedItems, targetFPRate)

	for i := uint64(0); i < expectedItems; i++ {
		f.Add(fmt.Appendf(nil, "item-%d", i))
	}

	testItems := uint64(10000)
	var falsePositives uint64
	for i := uint64(0); i < testItems; i++ {
		if f.Test(fmt.Appendf(nil, "notitem-%d", i)) {
			falsePositives++
		}
	}

	actualFPRate := float64(falsePositives) / float64(testItems)

	// Allow 2x margin for statistical variance
	if actualFPRate > targetFPRate*2 {
		t.Errorf("false positive rate too high: got %.4f, want <= %.4f", actualFPRate, targetFPRate*2)
	}

	t.Logf("FP rate: %.4f (target: %.4f, m=%d, k=%d)", actualFPRate, targetFPRate, f.M(), f.K())
}

func TestFilterTestAndAdd(t *testing.T) {
	f := New(1000, 0.01)

	if f.TestAndAdd([]byte("test")) {
		t.Error("expected TestAndAdd to return false for new item")
	}
	if !f.TestAndAdd([]byte("test")) {
		t.Error("expected TestAndAdd to return true for existing item")
	}
}

func TestFilterClear(t *testing.T) {
	f := New(100, 0.01)

	f.Add([]byte("test"))
	if !f.Test([]byte("test")) {
		t.Error("expected test to be present before clear")
	}

	f.Clear()

	if f.Test([]byte("test")) {
		t.Error("expected test to not be present after clear")
	}
	if f.Count() != 0 {
		t.Errorf("expected count to be 0 after clear, got %d", f.Count())
	}
}

func TestFilterEstimatedFillRatio(t *testing.T) {
	f := New(1000, 0.01)

	if f.EstimatedFillRatio() != 0 {
		t.Errorf("expected 0 fill ratio for empty filter, got %f", f.EstimatedFillRatio())
	}

	for i := 0; i < 500; i++ {
		f.Add(fmt.Appendf(nil, "item-%d", i))
	}

	ratio := f.EstimatedFillRatio()
	if ratio <= 0 || ratio >= 1 {
		t.Errorf("expected fill ratio between 0 and 1, got %f", ratio)
	}

	t.Logf("Fill ratio after 500 items: %.4f", ratio)
}

func TestFilterWithHasher(t *testing.T) {
	for name, hasher := range map[string]Hasher{
		"xxhash":  XXHash(),
		"murmur3": Murmur3(),
		"fnv1a":   FNV1a(),
	} {
		f, err := NewWithParams(1000, 5, WithHasher(hasher))
		if err != nil {
			t.Fatalf("%s: NewWithParams: %v", name, err)
		}
		f.AddString("pluggable")
		if !f.TestString("pluggable") {
			t.Errorf("%s: expected key to be present", name)
		}
		if f.TestString("absent-key") {
			t.Logf("%s: warning: false positive for 'absent-key'", name)
		}
	}
}

func TestNewWithParamsInvalid(t *testing.T) {
	if _, err := NewWithParams(0, 5); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("m=0 error = %v, want ErrInvalidParams", err)
	}
	if _, err := NewWithParams(1000, 0); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("k=0 error = %v, want ErrInvalidParams", err)
	}
}

func TestFilterAccessors(t *testing.T) {
	f, err := NewWithParams(1234, 5)
	if err != nil {
		t.Fatalf("NewWithParams: %v", err)
	}
	if f.M() != 1234 {
		t.Errorf("M = %d, want 1234", f.M())
	}
	if f.K() != 5 {
		t.Errorf("K = %d, want 5", f.K())
	}

	f.Add([]byte("a"))
	f.Add([]byte("b"))
	if f.Count() != 2 {
		t.Errorf("Count = %d, want 2", f.Count())
	}
	if rate := f.EstimatedFalsePositiveRate(); rate <= 0 || rate >= 1 {
		t.Errorf("EstimatedFalsePositiveRate = %g, want in (0, 1)", rate)
	}
}
