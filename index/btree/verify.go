package btree

import "github.com/cockroachdb/errors"

// Verify walks the whole tree and checks the structural invariants: equal
// leaf depth, key-count bounds per node, strict key order within and across
// nodes, child counts, and the cached length. It returns an assertion
// failure describing the first violation found.
func (bt *BTree[K, V]) Verify() error {
	r := bt.root
	if r == nil {
		return errors.AssertionFailedf("nil root")
	}
	if !r.leaf && len(r.keys) == 0 {
		return errors.AssertionFailedf("internal root with no keys")
	}
	v := verifier[K, V]{bt: bt, leafDepth: -1}
	if err := v.walk(r, 0, nil, nil); err != nil {
		return err
	}
	if v.count != bt.length {
		return errors.AssertionFailedf("length %d but %d keys reachable", bt.length, v.count)
	}
	return nil
}

type verifier[K, V any] struct {
	bt        *BTree[K, V]
	leafDepth int
	count     int
}

// walk checks the subtree rooted at x whose keys must lie strictly between
// lo and hi (nil meaning unbounded).
func (v *verifier[K, V]) walk(x *node[K, V], depth int, lo, hi *K) error {
	t, cmp := v.bt.t, v.bt.cmp
	n := len(x.keys)
	if len(x.values) != n {
		return errors.AssertionFailedf("depth %d: %d keys but %d values", depth, n, len(x.values))
	}
	if n > 2*t-1 {
		return errors.AssertionFailedf("depth %d: %d keys exceeds maximum %d", depth, n, 2*t-1)
	}
	if depth > 0 && n < t-1 {
		return errors.AssertionFailedf("depth %d: %d keys below minimum %d", depth, n, t-1)
	}
	for i := range x.keys {
		if i > 0 && cmp(x.keys[i-1], x.keys[i]) >= 0 {
			return errors.AssertionFailedf("depth %d: keys %d and %d out of order", depth, i-1, i)
		}
		if lo != nil && cmp(x.keys[i], *lo) <= 0 {
			return errors.AssertionFailedf("depth %d: key %d not above separator", depth, i)
		}
		if hi != nil && cmp(x.keys[i], *hi) >= 0 {
			return errors.AssertionFailedf("depth %d: key %d not below separator", depth, i)
		}
	}
	v.count += n

	if x.leaf {
		if x.children != nil {
			return errors.AssertionFailedf("depth %d: leaf with %d children", depth, len(x.children))
		}
		if v.leafDepth < 0 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return errors.AssertionFailedf("leaf at depth %d, expected %d", depth, v.leafDepth)
		}
		return nil
	}

	if len(x.children) != n+1 {
		return errors.AssertionFailedf("depth %d: %d keys but %d children", depth, n, len(x.children))
	}
	for i, c := range x.children {
		if c == nil {
			return errors.AssertionFailedf("depth %d: nil child %d", depth, i)
		}
		clo, chi := lo, hi
		if i > 0 {
			clo = &x.keys[i-1]
		}
		if i < n {
			chi = &x.keys[i]
		}
		if err := v.walk(c, depth+1, clo, chi); err != nil {
			return err
		}
	}
	return nil
}
