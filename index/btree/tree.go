// Package btree implements an in-memory classic B-tree of minimum degree t.
//
// Every node other than the root holds between t-1 and 2t-1 keys and all
// leaves sit at the same depth. Values are stored next to their keys at
// every level of the tree. Insert and Delete make a single pass from the
// root to a leaf: a full child is split before descending into it, and a
// child at the minimum size is grown by borrowing from a sibling or merging
// with one before descending into it. No call ever has to walk back up.
//
// A BTree is not safe for concurrent use. Callers must serialize writes and
// must not read while a write is in progress.
package btree

import (
	"cmp"
	"iter"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidOrder is returned when a tree is created with t < 2.
	ErrInvalidOrder = errors.New("btree: order must be at least 2")
	// ErrIteratorInvalidated is reported by an Iterator whose tree was
	// modified after the iterator was positioned.
	ErrIteratorInvalidated = errors.New("btree: tree modified during iteration")
)

// BTree is an ordered map from K to V.
type BTree[K, V any] struct {
	t      int
	cmp    func(a, b K) int
	root   *node[K, V]
	length int
	// version changes on every structural mutation so that live iterators
	// can tell their node stack is stale.
	version uint64
}

// New creates an empty tree of minimum degree t ordered by the natural
// ordering of K.
//
// New(2), for example, creates a 2-3-4 tree: each node holds 1-3 keys and
// internal nodes have 2-4 children.
func New[K cmp.Ordered, V any](t int) (*BTree[K, V], error) {
	return NewFunc[K, V](t, cmp.Compare[K])
}

// NewFunc creates an empty tree of minimum degree t ordered by compare,
// which must return a negative number, zero or a positive number like
// cmp.Compare.
func NewFunc[K, V any](t int, compare func(a, b K) int) (*BTree[K, V], error) {
	if t < 2 {
		return nil, errors.Wrapf(ErrInvalidOrder, "got %d", t)
	}
	return &BTree[K, V]{t: t, cmp: compare, root: newLeaf[K, V]()}, nil
}

func (bt *BTree[K, V]) maxKeys() int { return 2*bt.t - 1 }

// Order returns the minimum degree t.
func (bt *BTree[K, V]) Order() int { return bt.t }

// Len returns the number of keys in the tree.
func (bt *BTree[K, V]) Len() int { return bt.length }

// IsEmpty reports whether the tree holds no keys.
func (bt *BTree[K, V]) IsEmpty() bool { return bt.length == 0 }

// Height returns the number of levels, counting a lone root leaf as 1.
func (bt *BTree[K, V]) Height() int {
	h := 1
	for x := bt.root; !x.leaf; x = x.children[0] {
		h++
	}
	return h
}

// Search returns the value stored under key.
func (bt *BTree[K, V]) Search(key K) (V, bool) {
	x := bt.root
	for {
		i, found := x.find(key, bt.cmp)
		if found {
			return x.values[i], true
		}
		if x.leaf {
			var zero V
			return zero, false
		}
		x = x.children[i]
	}
}

// Has reports whether key is present.
func (bt *BTree[K, V]) Has(key K) bool {
	_, ok := bt.Search(key)
	return ok
}

// Min returns the smallest key and its value.
func (bt *BTree[K, V]) Min() (K, V, bool) {
	if bt.length == 0 {
		var (
			k K
			v V
		)
		return k, v, false
	}
	k, v := bt.root.min()
	return k, v, true
}

// Max returns the largest key and its value.
func (bt *BTree[K, V]) Max() (K, V, bool) {
	if bt.length == 0 {
		var (
			k K
			v V
		)
		return k, v, false
	}
	k, v := bt.root.max()
	return k, v, true
}

// Insert stores value under key. An existing key has its value replaced in
// place without changing the shape of the tree.
func (bt *BTree[K, V]) Insert(key K, value V) {
	if bt.replace(key, value) {
		return
	}
	if len(bt.root.keys) == bt.maxKeys() {
		old := bt.root
		bt.root = &node[K, V]{children: []*node[K, V]{old}}
		bt.root.splitChild(0)
	}
	bt.insertNonFull(bt.root, key, value)
	bt.length++
	bt.version++
	bt.checkInvariants()
}

// replace overwrites the value of key if it is present.
func (bt *BTree[K, V]) replace(key K, value V) bool {
	x := bt.root
	for {
		i, found := x.find(key, bt.cmp)
		if found {
			x.values[i] = value
			return true
		}
		if x.leaf {
			return false
		}
		x = x.children[i]
	}
}

// insertNonFull adds a key known to be absent below a node known to have
// room for one more key, splitting full children before descending.
func (bt *BTree[K, V]) insertNonFull(x *node[K, V], k K, v V) {
	for {
		i, _ := x.find(k, bt.cmp)
		if x.leaf {
			x.insertAt(i, k, v)
			return
		}
		if len(x.children[i].keys) == bt.maxKeys() {
			x.splitChild(i)
			if bt.cmp(k, x.keys[i]) > 0 {
				i++
			}
		}
		x = x.children[i]
	}
}

// Delete removes key and reports whether it was present.
func (bt *BTree[K, V]) Delete(key K) bool {
	if bt.length == 0 {
		return false
	}
	found := bt.delete(bt.root, key)
	if len(bt.root.keys) == 0 && !bt.root.leaf {
		old := bt.root
		bt.root = old.children[0]
		old.children = nil
		bt.version++
	}
	if found {
		bt.length--
		bt.version++
	}
	bt.checkInvariants()
	return found
}

// delete removes k from the subtree rooted at x. Every node it recurses
// into already holds at least t keys, so removing one never underflows.
func (bt *BTree[K, V]) delete(x *node[K, V], k K) bool {
	i, found := x.find(k, bt.cmp)
	switch {
	case found && x.leaf:
		x.removeAt(i)
		return true
	case found:
		return bt.deleteInternal(x, i)
	case x.leaf:
		return false
	}
	if len(x.children[i].keys) < bt.t {
		i = bt.fill(x, i)
	}
	return bt.delete(x.children[i], k)
}

// deleteInternal removes keys[i] of the internal node x, replacing it with
// its predecessor or successor when a neighbouring child can spare a key.
func (bt *BTree[K, V]) deleteInternal(x *node[K, V], i int) bool {
	y, z := x.children[i], x.children[i+1]
	switch {
	case len(y.keys) >= bt.t:
		pk, pv := y.max()
		x.keys[i], x.values[i] = pk, pv
		return bt.delete(y, pk)
	case len(z.keys) >= bt.t:
		sk, sv := z.min()
		x.keys[i], x.values[i] = sk, sv
		return bt.delete(z, sk)
	default:
		k := x.keys[i]
		x.mergeChildren(i)
		bt.version++
		return bt.delete(y, k)
	}
}

// fill grows child i to at least t keys and returns the index of the child
// that now covers the same key range.
func (bt *BTree[K, V]) fill(x *node[K, V], i int) int {
	bt.version++
	switch {
	case i > 0 && len(x.children[i-1].keys) >= bt.t:
		x.rotateFromLeft(i)
	case i < len(x.keys) && len(x.children[i+1].keys) >= bt.t:
		x.rotateFromRight(i)
	case i < len(x.keys):
		x.mergeChildren(i)
	default:
		x.mergeChildren(i - 1)
		i--
	}
	return i
}

// Clear removes every key.
func (bt *BTree[K, V]) Clear() {
	bt.root = newLeaf[K, V]()
	bt.length = 0
	bt.version++
}

// Iter returns an iterator positioned before the smallest key.
func (bt *BTree[K, V]) Iter() *Iterator[K, V] {
	it := &Iterator[K, V]{tree: bt}
	it.Rewind()
	return it
}

// All yields every key and value in ascending key order.
func (bt *BTree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := bt.Iter()
		for it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Range yields the keys in [lo, hi] and their values in ascending order.
func (bt *BTree[K, V]) Range(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := bt.Iter()
		it.Seek(lo)
		for it.Next() {
			if bt.cmp(it.Key(), hi) > 0 || !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}
