package btree

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/kr/pretty"
)

func collect(it *Iterator[int, int]) (out []int) {
	for it.Next() {
		out = append(out, it.Key())
	}
	return
}

func TestIteratorOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, order := range []int{2, 3, 8} {
		bt := mustNew[int](t, order)
		for _, k := range perm(rng, 500) {
			bt.Insert(k, k*2)
		}
		it := bt.Iter()
		prev := -1
		n := 0
		for it.Next() {
			if it.Key() <= prev {
				t.Fatalf("t=%d: key %d after %d", order, it.Key(), prev)
			}
			if it.Value() != it.Key()*2 {
				t.Fatalf("t=%d: key %d has value %d", order, it.Key(), it.Value())
			}
			prev = it.Key()
			n++
		}
		if err := it.Err(); err != nil {
			t.Fatal(err)
		}
		if n != 500 {
			t.Fatalf("t=%d: iterated %d keys, want 500", order, n)
		}
	}
}

func TestIteratorRewind(t *testing.T) {
	bt := mustNew[int](t, 2)
	for _, k := range rang(30) {
		bt.Insert(k, k)
	}
	it := bt.Iter()
	first := collect(it)
	if it.Next() {
		t.Fatal("exhausted iterator advanced")
	}
	it.Rewind()
	second := collect(it)
	if !slices.Equal(first, rang(30)) || !slices.Equal(second, first) {
		t.Fatalf("rewind: %v", pretty.Diff(second, first))
	}
}

func TestIteratorSeek(t *testing.T) {
	bt := mustNew[int](t, 2)
	for k := 0; k < 100; k += 10 {
		bt.Insert(k, k)
	}
	cases := []struct {
		seek int
		want []int
	}{
		{-5, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}},
		{0, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}},
		{35, []int{40, 50, 60, 70, 80, 90}},
		{40, []int{40, 50, 60, 70, 80, 90}},
		{90, []int{90}},
		{91, nil},
	}
	it := bt.Iter()
	for _, c := range cases {
		it.Seek(c.seek)
		if got := collect(it); !slices.Equal(got, c.want) {
			t.Errorf("Seek(%d): %v", c.seek, pretty.Diff(got, c.want))
		}
	}
}

func TestIteratorInvalidatedByMutation(t *testing.T) {
	bt := mustNew[int](t, 2)
	for _, k := range rang(10) {
		bt.Insert(k, k)
	}
	it := bt.Iter()
	if !it.Next() || it.Key() != 0 {
		t.Fatal("first key")
	}

	// Overwriting a value leaves the shape alone and the cursor usable.
	bt.Insert(5, 50)
	if !it.Next() || it.Key() != 1 {
		t.Fatalf("after overwrite: key %d, err %v", it.Key(), it.Err())
	}

	bt.Insert(100, 100)
	if it.Next() {
		t.Fatal("iterator advanced after insert")
	}
	if !errors.Is(it.Err(), ErrIteratorInvalidated) {
		t.Fatalf("Err: got %v, want ErrIteratorInvalidated", it.Err())
	}

	it.Rewind()
	if got := collect(it); len(got) != 11 || it.Err() != nil {
		t.Fatalf("after rewind: %v, err %v", got, it.Err())
	}

	it.Seek(3)
	bt.Delete(7)
	if it.Next() || !errors.Is(it.Err(), ErrIteratorInvalidated) {
		t.Fatalf("after delete: err %v", it.Err())
	}
}

func TestAllAndRange(t *testing.T) {
	bt := mustNew[int](t, 3)
	for _, k := range rang(100) {
		bt.Insert(k, -k)
	}

	var got []int
	for k, v := range bt.All() {
		if v != -k {
			t.Fatalf("All: key %d value %d", k, v)
		}
		if k == 5 {
			break
		}
		got = append(got, k)
	}
	if !slices.Equal(got, rang(5)) {
		t.Fatalf("All with break: %v", got)
	}

	got = got[:0]
	for k := range bt.Range(42, 47) {
		got = append(got, k)
	}
	if want := []int{42, 43, 44, 45, 46, 47}; !slices.Equal(got, want) {
		t.Fatalf("Range(42, 47): %v", pretty.Diff(got, want))
	}

	got = got[:0]
	for k := range bt.Range(200, 300) {
		got = append(got, k)
	}
	if len(got) != 0 {
		t.Fatalf("Range past the end: %v", got)
	}
}

func BenchmarkIterate(b *testing.B) {
	tr, _ := New[int, int](32)
	for _, k := range perm(rand.New(rand.NewSource(1)), benchmarkTreeSize) {
		tr.Insert(k, k)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		it := tr.Iter()
		for it.Next() {
		}
	}
}
