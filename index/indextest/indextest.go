// Package indextest holds a conformance suite that every index.Index
// implementation in this module is expected to pass.
package indextest

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/btree-query-bench/bmark/index"
	"github.com/cockroachdb/errors"
	"github.com/kr/pretty"
)

// Factory opens a fresh, empty index.
type Factory func(t *testing.T) index.Index

// Run exercises open against the index.Index contract.
func Run(t *testing.T, open Factory) {
	t.Run("Empty", func(t *testing.T) { testEmpty(t, open(t)) })
	t.Run("RoundTrip", func(t *testing.T) { testRoundTrip(t, open(t)) })
	t.Run("Overwrite", func(t *testing.T) { testOverwrite(t, open(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, open(t)) })
	t.Run("Range", func(t *testing.T) { testRange(t, open(t)) })
	t.Run("NegativeKeys", func(t *testing.T) { testNegativeKeys(t, open(t)) })
	t.Run("Random", func(t *testing.T) { testRandom(t, open(t)) })
}

func closeIndex(t *testing.T, idx index.Index) {
	t.Helper()
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func val(k int64) []byte { return []byte(fmt.Sprintf("v%d", k)) }

// Scan collects the keys yielded by Range(start, end).
func Scan(t *testing.T, idx index.Index, start, end int64) []int64 {
	t.Helper()
	it, err := idx.Range(start, end)
	if err != nil {
		t.Fatalf("range [%d, %d]: %v", start, end, err)
	}
	var out []int64
	for it.Next() {
		out = append(out, it.Key())
	}
	if err := it.Error(); err != nil {
		t.Fatalf("range [%d, %d]: iterate: %v", start, end, err)
	}
	if err := it.Close(); err != nil {
		t.Fatalf("range [%d, %d]: close: %v", start, end, err)
	}
	return out
}

func mustInsert(t *testing.T, idx index.Index, k int64, v []byte) {
	t.Helper()
	if err := idx.Insert(k, v); err != nil {
		t.Fatalf("insert %d: %v", k, err)
	}
}

func expectGet(t *testing.T, idx index.Index, k int64, want []byte) {
	t.Helper()
	got, err := idx.Get(k)
	if err != nil {
		t.Fatalf("get %d: %v", k, err)
	}
	if string(got) != string(want) {
		t.Fatalf("get %d: got %q, want %q", k, got, want)
	}
}

func expectMissing(t *testing.T, idx index.Index, k int64) {
	t.Helper()
	if _, err := idx.Get(k); !errors.Is(err, index.ErrKeyNotFound) {
		t.Fatalf("get %d: got err %v, want ErrKeyNotFound", k, err)
	}
}

func testEmpty(t *testing.T, idx index.Index) {
	defer closeIndex(t, idx)
	expectMissing(t, idx, 5)
	if err := idx.Delete(5); !errors.Is(err, index.ErrKeyNotFound) {
		t.Fatalf("delete on empty index: got %v, want ErrKeyNotFound", err)
	}
	if got := Scan(t, idx, -100, 100); len(got) != 0 {
		t.Fatalf("scan on empty index: got %v", got)
	}
}

func testRoundTrip(t *testing.T, idx index.Index) {
	defer closeIndex(t, idx)
	for _, k := range []int64{1, 3, 7, 10, 16, 18, 23, 26, 30} {
		mustInsert(t, idx, k, val(k))
	}
	for _, k := range []int64{1, 3, 7, 10, 16, 18, 23, 26, 30} {
		expectGet(t, idx, k, val(k))
	}
	for _, k := range []int64{2, 25, 50} {
		expectMissing(t, idx, k)
	}
}

func testOverwrite(t *testing.T, idx index.Index) {
	defer closeIndex(t, idx)
	for k := int64(0); k < 50; k++ {
		mustInsert(t, idx, k, val(k))
	}
	mustInsert(t, idx, 25, []byte("updated"))
	expectGet(t, idx, 25, []byte("updated"))
	if got := Scan(t, idx, 0, 100); len(got) != 50 {
		t.Fatalf("overwrite changed key count: got %d keys, want 50", len(got))
	}
}

func testDelete(t *testing.T, idx index.Index) {
	defer closeIndex(t, idx)
	for k := int64(1); k <= 5; k++ {
		mustInsert(t, idx, k, val(k))
	}
	for k := int64(1); k <= 5; k++ {
		if err := idx.Delete(k); err != nil {
			t.Fatalf("delete %d: %v", k, err)
		}
		expectMissing(t, idx, k)
		if err := idx.Delete(k); !errors.Is(err, index.ErrKeyNotFound) {
			t.Fatalf("second delete %d: got %v, want ErrKeyNotFound", k, err)
		}
	}
	if got := Scan(t, idx, 0, 10); len(got) != 0 {
		t.Fatalf("scan after deleting everything: got %v", got)
	}
}

func testRange(t *testing.T, idx index.Index) {
	defer closeIndex(t, idx)
	for k := int64(0); k < 200; k += 2 {
		mustInsert(t, idx, k, val(k))
	}
	cases := []struct {
		start, end int64
		want       []int64
	}{
		{10, 20, []int64{10, 12, 14, 16, 18, 20}},
		{11, 19, []int64{12, 14, 16, 18}},
		{-5, 3, []int64{0, 2}},
		{197, 500, []int64{198}},
		{199, 500, nil},
		{7, 7, nil},
		{8, 8, []int64{8}},
	}
	for _, c := range cases {
		got := Scan(t, idx, c.start, c.end)
		if !slices.Equal(got, c.want) {
			t.Errorf("range [%d, %d]: %v", c.start, c.end, pretty.Diff(got, c.want))
		}
	}
}

func testNegativeKeys(t *testing.T, idx index.Index) {
	defer closeIndex(t, idx)
	keys := []int64{-300, -2, -1, 0, 1, 2, 300}
	for _, k := range []int64{2, -1, 300, 0, -300, 1, -2} {
		mustInsert(t, idx, k, val(k))
	}
	if got := Scan(t, idx, -1000, 1000); !slices.Equal(got, keys) {
		t.Fatalf("negative keys out of order: %v", pretty.Diff(got, keys))
	}
}

// testRandom applies a random operation mix to idx and to a plain map and
// checks they agree after every step.
func testRandom(t *testing.T, idx index.Index) {
	defer closeIndex(t, idx)
	rng := rand.New(rand.NewSource(1))
	model := map[int64][]byte{}
	for i := 0; i < 2000; i++ {
		k := int64(rng.Intn(300))
		switch op := rng.Intn(10); {
		case op < 6:
			v := []byte(fmt.Sprintf("%d-%d", k, i))
			mustInsert(t, idx, k, v)
			model[k] = v
		case op < 9:
			err := idx.Delete(k)
			if _, ok := model[k]; ok {
				if err != nil {
					t.Fatalf("step %d: delete present %d: %v", i, k, err)
				}
				delete(model, k)
			} else if !errors.Is(err, index.ErrKeyNotFound) {
				t.Fatalf("step %d: delete absent %d: got %v", i, k, err)
			}
		default:
			if want, ok := model[k]; ok {
				expectGet(t, idx, k, want)
			} else {
				expectMissing(t, idx, k)
			}
		}
	}
	want := make([]int64, 0, len(model))
	for k := range model {
		want = append(want, k)
	}
	slices.Sort(want)
	if got := Scan(t, idx, 0, 300); !slices.Equal(got, want) {
		t.Fatalf("final scan mismatch: %v", pretty.Diff(got, want))
	}
}

// Agree applies the same seeded operation stream to every index and fails
// as soon as two of them answer a Get, Delete or Range differently.
func Agree(t *testing.T, seed int64, ops int, idxs ...index.Index) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < ops; i++ {
		k := int64(rng.Intn(1000)) - 500
		switch op := rng.Intn(20); {
		case op < 10:
			v := []byte(fmt.Sprintf("%d", i))
			for _, idx := range idxs {
				mustInsert(t, idx, k, v)
			}
		case op < 16:
			first := idxs[0].Delete(k)
			for j, idx := range idxs[1:] {
				if err := idx.Delete(k); errors.Is(err, index.ErrKeyNotFound) != errors.Is(first, index.ErrKeyNotFound) {
					t.Fatalf("op %d: delete %d: index 0 returned %v, index %d returned %v", i, k, first, j+1, err)
				}
			}
		case op < 19:
			want, werr := idxs[0].Get(k)
			for j, idx := range idxs[1:] {
				got, err := idx.Get(k)
				if errors.Is(err, index.ErrKeyNotFound) != errors.Is(werr, index.ErrKeyNotFound) || string(got) != string(want) {
					t.Fatalf("op %d: get %d: index 0 returned %q/%v, index %d returned %q/%v", i, k, want, werr, j+1, got, err)
				}
			}
		default:
			hi := k + int64(rng.Intn(200))
			want := Scan(t, idxs[0], k, hi)
			for j, idx := range idxs[1:] {
				if got := Scan(t, idx, k, hi); !slices.Equal(got, want) {
					t.Fatalf("op %d: range [%d, %d] index %d: %v", i, k, hi, j+1, pretty.Diff(got, want))
				}
			}
		}
	}
}
