package lsm

import (
	"testing"

	"github.com/btree-query-bench/bmark/index/btree"
	"github.com/btree-query-bench/bmark/index/indextest"
	"github.com/btree-query-bench/bmark/index/listindex"
)

// TestAgreesWithBTree cross-checks the B-tree against Pebble and the sorted
// list on one operation stream.
func TestAgreesWithBTree(t *testing.T) {
	for _, order := range []int{2, 5} {
		bt, err := btree.NewIndex(order)
		if err != nil {
			t.Fatal(err)
		}
		l := openMem(t)
		indextest.Agree(t, int64(order), 3000, bt, l, listindex.NewListIndex())
		if err := bt.Tree().Verify(); err != nil {
			t.Fatal(err)
		}
		if err := l.Close(); err != nil {
			t.Fatal(err)
		}
	}
}
