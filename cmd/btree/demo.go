package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/btree-query-bench/bmark/index/btree"
)

type demoWriter struct {
	bt  *btree.BTree[int64, string]
	out io.Writer
	err error
}

func (d *demoWriter) printf(format string, args ...any) {
	if d.err == nil {
		_, d.err = fmt.Fprintf(d.out, format, args...)
	}
}

func (d *demoWriter) tree() {
	if d.err == nil {
		d.err = d.bt.Print(d.out)
	}
}

func (d *demoWriter) rule(c string, n int) { d.printf("%s\n", strings.Repeat(c, n)) }

func (d *demoWriter) insert(keys ...int64) {
	for _, k := range keys {
		d.bt.Insert(k, fmt.Sprintf("v%d", k))
	}
}

func (d *demoWriter) delete(k int64, note string) {
	d.printf("\nDeleting %d%s:\nBefore:\n", k, note)
	d.tree()
	d.printf("Deleted %d: %t\nAfter:\n", k, d.bt.Delete(k))
	d.tree()
}

// demo walks through the textbook deletion cases on bt.
func demo(bt *btree.BTree[int64, string], out io.Writer) error {
	d := &demoWriter{bt: bt, out: out}
	d.printf("=== B-tree (t=%d) insert/delete walkthrough ===\n\n", bt.Order())

	d.printf("1. Building initial tree:\n")
	d.insert(1, 3, 7, 10, 16, 18, 23, 26, 30, 33, 35, 38, 41, 45)
	d.tree()
	d.rule("=", 50)

	d.printf("\n2. Delete from a leaf with spare keys:")
	d.delete(3, "")
	d.rule("=", 50)

	d.printf("\n3. Delete from an internal node:")
	d.delete(16, " (replaced by predecessor or successor)")
	d.rule("=", 50)

	d.printf("\n4. Adding more keys:\n")
	d.insert(2, 4, 5, 6, 8, 9, 11, 12, 13, 14, 15, 17, 19, 20, 21, 22)
	d.tree()
	d.rule("=", 50)

	d.printf("\n5. Deleting keys that make a sibling lend a key:\n")
	for _, k := range []int64{2, 4, 5} {
		d.delete(k, "")
		d.rule("-", 30)
	}
	d.rule("=", 50)

	d.printf("\n6. Deleting keys that force merges:\n")
	for _, k := range []int64{6, 8, 9, 11} {
		d.delete(k, "")
		d.rule("-", 30)
	}
	d.rule("=", 50)

	d.printf("\n7. Root deletion:")
	d.delete(18, " (may shrink the root)")
	d.rule("=", 50)

	d.printf("\n8. Deleting an absent key:\n")
	d.printf("Deleted 100: %t\n", bt.Delete(100))
	d.rule("=", 50)

	d.printf("\n9. Final search:\n")
	for _, k := range []int64{1, 7, 10, 12, 13, 14, 15, 17, 19, 20, 21, 22, 23, 26, 30, 33, 35, 38, 41, 45} {
		mark := "missing"
		if bt.Has(k) {
			mark = "found"
		}
		d.printf("Search %d: %s\n", k, mark)
	}
	d.printf("\nFinal tree (%d keys, height %d):\n", bt.Len(), bt.Height())
	d.tree()
	if d.err != nil {
		return d.err
	}
	return bt.Verify()
}
