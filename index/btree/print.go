package btree

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"
)

// Print writes one line per node, indented by depth:
//
//	Keys: [20] (leaf: false)
//	 Keys: [10] (leaf: true)
//	 Keys: [30 40 50] (leaf: true)
func (bt *BTree[K, V]) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var rec func(x *node[K, V], level int)
	rec = func(x *node[K, V], level int) {
		fmt.Fprintf(bw, "%sKeys: %v (leaf: %t)\n", strings.Repeat(" ", level), x.keys, x.leaf)
		for _, c := range x.children {
			rec(c, level+1)
		}
	}
	rec(bt.root, 0)
	return bw.Flush()
}

// WriteDOT writes the tree as a Graphviz digraph. Internal nodes show their
// child ports between separator keys; leaves list keys with a short value
// preview. Render with `dot -Tpng`.
func (bt *BTree[K, V]) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph BTree {")
	fmt.Fprintln(bw, "  graph [ranksep=0.8, nodesep=0.5, bgcolor=\"#ffffff\", rankdir=TB];")
	fmt.Fprintln(bw, "  node [shape=none, fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(bw, "  edge [arrowsize=0.8, color=\"#444444\"];")

	var counter int
	var rec func(x *node[K, V], depth int) string
	rec = func(x *node[K, V], depth int) string {
		name := fmt.Sprintf("node%d", counter)
		counter++
		fill := 100 * float64(len(x.keys)) / float64(bt.maxKeys())

		if x.leaf {
			var b strings.Builder
			fmt.Fprintf(&b, `<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">`+
				`<TR><TD BGCOLOR="#D5E8D4"><B>LEAF d=%d</B><BR/><FONT POINT-SIZE="8">Fill: %.1f%%</FONT></TD></TR>`+
				`<TR><TD BGCOLOR="#F5F5F5" ALIGN="LEFT">`, depth, fill)
			for i, k := range x.keys {
				fmt.Fprintf(&b, "<B>%s</B> <FONT COLOR='#666666'>[%s]</FONT><BR/>",
					html.EscapeString(fmt.Sprint(k)), preview(x.values[i]))
			}
			b.WriteString(`</TD></TR></TABLE>>`)
			fmt.Fprintf(bw, "  %s [label=%s];\n", name, b.String())
			return name
		}

		var b strings.Builder
		fmt.Fprintf(&b, `<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">`+
			`<TR><TD COLSPAN="%d" BGCOLOR="#DAE8FC"><B>INTERNAL d=%d</B><BR/><FONT POINT-SIZE="8">Fill: %.1f%%</FONT></TD></TR><TR>`,
			2*len(x.keys)+1, depth, fill)
		for i, k := range x.keys {
			fmt.Fprintf(&b, `<TD PORT="f%d" BGCOLOR="#E1F5FE"> </TD><TD BGCOLOR="#FFFFFF"><B>%s</B><BR/><FONT POINT-SIZE="7" COLOR="#444444">[%s]</FONT></TD>`,
				i, html.EscapeString(fmt.Sprint(k)), preview(x.values[i]))
		}
		fmt.Fprintf(&b, `<TD PORT="f%d" BGCOLOR="#E1F5FE"> </TD></TR></TABLE>>`, len(x.keys))
		fmt.Fprintf(bw, "  %s [label=%s];\n", name, b.String())

		for i, c := range x.children {
			fmt.Fprintf(bw, "  %s:f%d -> %s;\n", name, i, rec(c, depth+1))
		}
		return name
	}
	rec(bt.root, 0)

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func preview(v any) string {
	var s string
	if b, ok := v.([]byte); ok {
		s = string(b)
	} else {
		s = fmt.Sprint(v)
	}
	if len(s) > 3 {
		s = s[:3] + ".."
	}
	return html.EscapeString(s)
}
