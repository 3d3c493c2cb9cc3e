package btree

import "slices"

// node is a single B-tree node. Values sit next to their keys at every
// level. children is nil for leaves and holds len(keys)+1 entries otherwise;
// every child is owned by exactly one slot.
type node[K, V any] struct {
	leaf     bool
	keys     []K
	values   []V
	children []*node[K, V]
}

func newLeaf[K, V any]() *node[K, V] {
	return &node[K, V]{leaf: true}
}

// find returns the slot holding key, or the index of the child to descend
// into when the key is not stored in this node.
func (n *node[K, V]) find(key K, cmp func(a, b K) int) (int, bool) {
	return slices.BinarySearchFunc(n.keys, key, cmp)
}

func (n *node[K, V]) insertAt(i int, k K, v V) {
	n.keys = slices.Insert(n.keys, i, k)
	n.values = slices.Insert(n.values, i, v)
}

func (n *node[K, V]) removeAt(i int) (K, V) {
	k, v := n.keys[i], n.values[i]
	n.keys = slices.Delete(n.keys, i, i+1)
	n.values = slices.Delete(n.values, i, i+1)
	return k, v
}

// split divides a full node around its median. The receiver keeps the lower
// half; the returned sibling owns the upper half and, for internal nodes,
// the upper half of the children.
func (n *node[K, V]) split() (K, V, *node[K, V]) {
	mid := len(n.keys) / 2
	right := &node[K, V]{leaf: n.leaf}
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.values = append(right.values, n.values[mid+1:]...)
	if !n.leaf {
		right.children = append(right.children, n.children[mid+1:]...)
		clear(n.children[mid+1:])
		n.children = n.children[:mid+1]
	}

	k, v := n.keys[mid], n.values[mid]
	clear(n.keys[mid:])
	clear(n.values[mid:])
	n.keys, n.values = n.keys[:mid], n.values[:mid]
	return k, v, right
}

// splitChild splits the full child i and hangs the new sibling at i+1 with
// the promoted median between them.
func (n *node[K, V]) splitChild(i int) {
	k, v, right := n.children[i].split()
	n.insertAt(i, k, v)
	n.children = slices.Insert(n.children, i+1, right)
}

// mergeWith absorbs the separator and the whole of right. The caller drops
// right from its parent slot.
func (n *node[K, V]) mergeWith(sepK K, sepV V, right *node[K, V]) {
	n.keys = append(append(n.keys, sepK), right.keys...)
	n.values = append(append(n.values, sepV), right.values...)
	if !n.leaf {
		n.children = append(n.children, right.children...)
	}
}

// mergeChildren folds child i+1 and separator i into child i.
func (n *node[K, V]) mergeChildren(i int) {
	left, right := n.children[i], n.children[i+1]
	k, v := n.removeAt(i)
	n.children = slices.Delete(n.children, i+1, i+2)
	left.mergeWith(k, v, right)
}

// rotateFromLeft moves the separator i-1 down into the front of child i and
// replaces it with the last key of child i-1.
func (n *node[K, V]) rotateFromLeft(i int) {
	c, s := n.children[i], n.children[i-1]
	last := len(s.keys) - 1
	c.insertAt(0, n.keys[i-1], n.values[i-1])
	if !c.leaf {
		c.children = slices.Insert(c.children, 0, s.children[last+1])
		s.children[last+1] = nil
		s.children = s.children[:last+1]
	}
	n.keys[i-1], n.values[i-1] = s.removeAt(last)
}

// rotateFromRight moves the separator i down onto the end of child i and
// replaces it with the first key of child i+1.
func (n *node[K, V]) rotateFromRight(i int) {
	c, s := n.children[i], n.children[i+1]
	c.keys = append(c.keys, n.keys[i])
	c.values = append(c.values, n.values[i])
	if !c.leaf {
		c.children = append(c.children, s.children[0])
		s.children = slices.Delete(s.children, 0, 1)
	}
	n.keys[i], n.values[i] = s.removeAt(0)
}

func (n *node[K, V]) min() (K, V) {
	for !n.leaf {
		n = n.children[0]
	}
	return n.keys[0], n.values[0]
}

func (n *node[K, V]) max() (K, V) {
	for !n.leaf {
		n = n.children[len(n.children)-1]
	}
	last := len(n.keys) - 1
	return n.keys[last], n.values[last]
}
