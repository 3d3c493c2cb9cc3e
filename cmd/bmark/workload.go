package main

import (
	"math/rand"

	"github.com/btree-query-bench/bmark/index"
	"github.com/cockroachdb/errors"
)

type WorkloadType string

const (
	OLTP      WorkloadType = "OLTP (90/10)"
	OLAP      WorkloadType = "OLAP (10/90)"
	Churn     WorkloadType = "Churn (50/50 delete/insert)"
	Reporting WorkloadType = "Reporting (Range)"
)

// ExecuteWorkload runs a mixed distribution of ops over keys in [0, keySpace).
// Absent keys are a normal outcome; any other error aborts the run.
func ExecuteWorkload(idx index.Index, wType WorkloadType, rng *rand.Rand, ops, keySpace int) error {
	for i := 0; i < ops; i++ {
		choice := rng.Intn(100)
		key := int64(rng.Intn(keySpace))

		var err error
		switch wType {
		case OLTP:
			if choice < 90 {
				_, err = idx.Get(key)
			} else {
				err = idx.Insert(key, []byte("x"))
			}
		case OLAP:
			if choice < 10 {
				_, err = idx.Get(key)
			} else {
				err = idx.Insert(key, []byte("x"))
			}
		case Churn:
			if choice < 50 {
				err = idx.Delete(key)
			} else {
				err = idx.Insert(key, []byte("y"))
			}
		case Reporting:
			err = scan(idx, key, key+100)
		default:
			return errors.Newf("unknown workload %q", wType)
		}
		if err != nil && !errors.Is(err, index.ErrKeyNotFound) {
			return errors.Wrapf(err, "%s op %d", wType, i)
		}
	}
	return nil
}

func scan(idx index.Index, start, end int64) error {
	it, err := idx.Range(start, end)
	if err != nil {
		return err
	}
	for it.Next() {
	}
	if err := it.Error(); err != nil {
		it.Close()
		return err
	}
	return it.Close()
}
