//go:build invariants

package btree

// invariantsEnabled is true when built with the invariants tag, which makes
// every mutation re-verify the whole tree.
const invariantsEnabled = true
