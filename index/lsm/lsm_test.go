package lsm

import (
	"math"
	"slices"
	"testing"

	"github.com/btree-query-bench/bmark/index"
	"github.com/btree-query-bench/bmark/index/indextest"
)

func openMem(t *testing.T) *LSM {
	t.Helper()
	l, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return l
}

func TestConformance(t *testing.T) {
	indextest.Run(t, func(t *testing.T) index.Index { return openMem(t) })
}

func TestKeyEncodingPreservesOrder(t *testing.T) {
	ks := []int64{math.MinInt64, -1 << 40, -2, -1, 0, 1, 2, 1 << 40, math.MaxInt64}
	for i := 1; i < len(ks); i++ {
		a, b := encodeKey(ks[i-1]), encodeKey(ks[i])
		if string(a) >= string(b) {
			t.Fatalf("encodeKey(%d) >= encodeKey(%d)", ks[i-1], ks[i])
		}
	}
	for _, k := range ks {
		if got := decodeKey(encodeKey(k)); got != k {
			t.Fatalf("decodeKey(encodeKey(%d)) = %d", k, got)
		}
	}
}

func TestRangeToMaxKey(t *testing.T) {
	l := openMem(t)
	defer l.Close()
	for _, k := range []int64{1, math.MaxInt64 - 1, math.MaxInt64} {
		if err := l.Insert(k, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	got := indextest.Scan(t, l, 0, math.MaxInt64)
	if want := []int64{1, math.MaxInt64 - 1, math.MaxInt64}; !slices.Equal(got, want) {
		t.Fatalf("scan to MaxInt64: got %v, want %v", got, want)
	}
}
