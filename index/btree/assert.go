package btree

// checkInvariants panics if a mutation left the tree inconsistent. It is a
// no-op unless built with the invariants tag.
func (bt *BTree[K, V]) checkInvariants() {
	if !invariantsEnabled {
		return
	}
	if err := bt.Verify(); err != nil {
		panic(err)
	}
}
