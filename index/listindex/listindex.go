// Package listindex is the simplest possible index: a slice of entries kept
// sorted by key. It serves as the linear-time baseline in benchmarks and as
// the reference model the tree is checked against in tests.
package listindex

import (
	"cmp"
	"slices"

	"github.com/btree-query-bench/bmark/index"
)

var _ index.Index = (*ListIndex)(nil)

type Data struct {
	Key int64
	Val []byte
}

type ListIndex struct {
	Data []Data
}

func NewListIndex() *ListIndex {
	return &ListIndex{
		Data: make([]Data, 0),
	}
}

func (l *ListIndex) find(key int64) (int, bool) {
	return slices.BinarySearchFunc(l.Data, key, func(d Data, k int64) int {
		return cmp.Compare(d.Key, k)
	})
}

func (l *ListIndex) Insert(key int64, value []byte) error {
	i, found := l.find(key)
	if found {
		l.Data[i].Val = value
		return nil
	}
	l.Data = slices.Insert(l.Data, i, Data{Key: key, Val: value})
	return nil
}

func (l *ListIndex) Get(key int64) ([]byte, error) {
	i, found := l.find(key)
	if !found {
		return nil, index.ErrKeyNotFound
	}
	return l.Data[i].Val, nil
}

func (l *ListIndex) Delete(key int64) error {
	i, found := l.find(key)
	if !found {
		return index.ErrKeyNotFound
	}
	l.Data = slices.Delete(l.Data, i, i+1)
	return nil
}

// Len returns the number of entries.
func (l *ListIndex) Len() int { return len(l.Data) }

// Keys returns a copy of the keys in ascending order.
func (l *ListIndex) Keys() []int64 {
	out := make([]int64, len(l.Data))
	for i, d := range l.Data {
		out[i] = d.Key
	}
	return out
}

func (l *ListIndex) Range(start, end int64) (index.Iterator, error) {
	lo, _ := l.find(start)
	return &ListIterator{
		data: l.Data,
		cur:  lo - 1,
		end:  end,
	}, nil
}

func (l *ListIndex) Close() error { return nil }

type ListIterator struct {
	data []Data
	cur  int
	end  int64
}

func (it *ListIterator) Next() bool {
	it.cur++
	return it.cur < len(it.data) && it.data[it.cur].Key <= it.end
}

func (it *ListIterator) Key() int64    { return it.data[it.cur].Key }
func (it *ListIterator) Value() []byte { return it.data[it.cur].Val }
func (it *ListIterator) Error() error  { return nil }
func (it *ListIterator) Close() error  { return nil }
