package btree

// frame records a node on the path from the root to the cursor and the
// index of the next key of that node still to be yielded.
type frame[K, V any] struct {
	n   *node[K, V]
	pos int
}

// Iterator walks a BTree in ascending key order. It keeps the path from the
// root to the current position on an explicit stack, so each step touches
// only the nodes between two neighbouring keys.
//
// An Iterator is bound to the shape of the tree at the time it was
// positioned. After Insert or Delete modify the tree, Next returns false and
// Err returns ErrIteratorInvalidated until Rewind or Seek is called.
type Iterator[K, V any] struct {
	tree    *BTree[K, V]
	stack   []frame[K, V]
	version uint64
	key     K
	value   V
	err     error
}

// Rewind positions the iterator before the smallest key.
func (it *Iterator[K, V]) Rewind() {
	it.reset()
	it.pushLeftmost(it.tree.root)
}

// Seek positions the iterator before the smallest key >= key.
func (it *Iterator[K, V]) Seek(key K) {
	it.reset()
	x := it.tree.root
	for {
		i, found := x.find(key, it.tree.cmp)
		it.stack = append(it.stack, frame[K, V]{n: x, pos: i})
		if found || x.leaf {
			return
		}
		x = x.children[i]
	}
}

func (it *Iterator[K, V]) reset() {
	clear(it.stack)
	it.stack = it.stack[:0]
	it.version = it.tree.version
	it.err = nil
	var (
		k K
		v V
	)
	it.key, it.value = k, v
}

func (it *Iterator[K, V]) pushLeftmost(x *node[K, V]) {
	for {
		it.stack = append(it.stack, frame[K, V]{n: x})
		if x.leaf {
			return
		}
		x = x.children[0]
	}
}

// Next advances to the next key and reports whether there is one.
func (it *Iterator[K, V]) Next() bool {
	if it.err != nil {
		return false
	}
	if it.version != it.tree.version {
		it.err = ErrIteratorInvalidated
		return false
	}
	for len(it.stack) > 0 {
		top := len(it.stack) - 1
		f := &it.stack[top]
		if f.pos >= len(f.n.keys) {
			it.stack[top] = frame[K, V]{}
			it.stack = it.stack[:top]
			continue
		}
		x, i := f.n, f.pos
		f.pos++
		it.key, it.value = x.keys[i], x.values[i]
		if !x.leaf {
			it.pushLeftmost(x.children[i+1])
		}
		return true
	}
	return false
}

// Key returns the key at the current position.
func (it *Iterator[K, V]) Key() K { return it.key }

// Value returns the value at the current position.
func (it *Iterator[K, V]) Value() V { return it.value }

// Err returns ErrIteratorInvalidated if the tree changed under the iterator.
func (it *Iterator[K, V]) Err() error { return it.err }
