//go:build !invariants

package btree

const invariantsEnabled = false
