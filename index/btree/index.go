package btree

import (
	"github.com/btree-query-bench/bmark/index"
)

var _ index.Index = (*Index)(nil)

// Index exposes a BTree keyed by int64 through index.Index.
type Index struct {
	tree *BTree[int64, []byte]
}

// NewIndex creates an empty Index of minimum degree t.
func NewIndex(t int) (*Index, error) {
	tree, err := New[int64, []byte](t)
	if err != nil {
		return nil, err
	}
	return &Index{tree: tree}, nil
}

// Tree returns the underlying tree.
func (ix *Index) Tree() *BTree[int64, []byte] { return ix.tree }

func (ix *Index) Insert(key int64, value []byte) error {
	ix.tree.Insert(key, value)
	return nil
}

func (ix *Index) Get(key int64) ([]byte, error) {
	v, ok := ix.tree.Search(key)
	if !ok {
		return nil, index.ErrKeyNotFound
	}
	return v, nil
}

func (ix *Index) Delete(key int64) error {
	if !ix.tree.Delete(key) {
		return index.ErrKeyNotFound
	}
	return nil
}

// Len returns the number of keys.
func (ix *Index) Len() int { return ix.tree.Len() }

// Range returns an iterator over all keys in [start, end].
func (ix *Index) Range(start, end int64) (index.Iterator, error) {
	it := ix.tree.Iter()
	it.Seek(start)
	return &rangeIterator{it: it, end: end}, nil
}

func (ix *Index) Close() error { return nil }

type rangeIterator struct {
	it   *Iterator[int64, []byte]
	end  int64
	done bool
}

func (r *rangeIterator) Next() bool {
	if r.done || !r.it.Next() {
		return false
	}
	if r.it.Key() > r.end {
		r.done = true
		return false
	}
	return true
}

func (r *rangeIterator) Key() int64    { return r.it.Key() }
func (r *rangeIterator) Value() []byte { return r.it.Value() }
func (r *rangeIterator) Error() error  { return r.it.Err() }
func (r *rangeIterator) Close() error  { return nil }
