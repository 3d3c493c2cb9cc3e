package btree_test

import (
	"fmt"
	"testing"

	"github.com/btree-query-bench/bmark/index"
	"github.com/btree-query-bench/bmark/index/btree"
	"github.com/btree-query-bench/bmark/index/indextest"
)

func TestIndexConformance(t *testing.T) {
	for _, order := range []int{2, 3, 16} {
		order := order
		t.Run(fmt.Sprintf("t=%d", order), func(t *testing.T) {
			indextest.Run(t, func(t *testing.T) index.Index {
				ix, err := btree.NewIndex(order)
				if err != nil {
					t.Fatal(err)
				}
				return ix
			})
		})
	}
}

func TestIndexLenTracksTree(t *testing.T) {
	ix, err := btree.NewIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	for k := int64(0); k < 20; k++ {
		if err := ix.Insert(k, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := ix.Delete(3); err != nil {
		t.Fatal(err)
	}
	if ix.Len() != 19 || ix.Tree().Len() != 19 {
		t.Fatalf("Len: %d / %d, want 19", ix.Len(), ix.Tree().Len())
	}
	if err := ix.Tree().Verify(); err != nil {
		t.Fatal(err)
	}
}
