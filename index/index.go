// Package index defines the interface shared by every index structure in
// this module so that they can be exercised and benchmarked side by side.
package index

import "github.com/cockroachdb/errors"

// ErrKeyNotFound is returned by Get and Delete when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// Index is the common interface for all implementations.
type Index interface {
	Insert(key int64, value []byte) error
	Get(key int64) ([]byte, error)
	Delete(key int64) error
	Range(start, end int64) (Iterator, error)
	Close() error
}
