// Command bmark loads each index with n sequential keys and then runs a set
// of mixed workloads against it, recording per-op latency and heap size to
// a CSV file and, optionally, a chart.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/btree-query-bench/bmark/index"
	"github.com/btree-query-bench/bmark/index/btree"
	"github.com/btree-query-bench/bmark/index/listindex"
	"github.com/btree-query-bench/bmark/index/lsm"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "bmark: %v\n", err)
		os.Exit(2)
	}
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bmark: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("benchmark failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "-log-level")
	}
	var zc zap.Config
	switch format {
	case "console":
		zc = zap.NewDevelopmentConfig()
	case "json":
		zc = zap.NewProductionConfig()
	default:
		return nil, errors.Newf("-log-format: unknown format %q", format)
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// subject is one index under test together with the label it is recorded as.
type subject struct {
	name string
	conf string
	open func() (index.Index, error)
}

func subjects(cfg config) []subject {
	var out []subject
	for _, t := range cfg.Orders {
		out = append(out, subject{
			name: "B-Tree",
			conf: strconv.Itoa(t),
			open: func() (index.Index, error) { return btree.NewIndex(t) },
		})
	}
	if cfg.List {
		out = append(out, subject{
			name: "SortedList",
			conf: "-",
			open: func() (index.Index, error) { return listindex.NewListIndex(), nil },
		})
	}
	if cfg.LSM {
		s := subject{name: "LSM-Pebble", conf: "mem", open: lsmOpener("")}
		if cfg.LSMDir != "" {
			s.conf = "disk"
			s.open = lsmOpener(cfg.LSMDir)
		}
		out = append(out, s)
	}
	return out
}

func lsmOpener(dir string) func() (index.Index, error) {
	return func() (index.Index, error) {
		if dir == "" {
			return lsm.OpenInMemory()
		}
		sub, err := os.MkdirTemp(dir, "bmark-lsm-")
		if err != nil {
			return nil, errors.Wrap(err, "lsm scratch dir")
		}
		return lsm.Open(sub)
	}
}

func run(cfg config, logger *zap.Logger) error {
	f, err := os.Create(cfg.Out)
	if err != nil {
		return errors.Wrap(err, "create results file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	var all []BenchResult
	for _, s := range subjects(cfg) {
		res, err := runSuite(cfg, s, logger.With(zap.String("structure", s.name), zap.String("config", s.conf)))
		if err != nil {
			return errors.Wrapf(err, "%s (%s)", s.name, s.conf)
		}
		for _, r := range res {
			if err := Record(w, r); err != nil {
				return errors.Wrap(err, "write results")
			}
		}
		all = append(all, res...)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "flush results")
	}
	logger.Info("results written", zap.String("path", cfg.Out), zap.Int("rows", len(all)))

	if cfg.Plot != "" {
		if err := plotLatencies(all, cfg.Plot); err != nil {
			return errors.Wrap(err, "plot")
		}
		logger.Info("chart written", zap.String("path", cfg.Plot))
	}
	return nil
}

func runSuite(cfg config, s subject, logger *zap.Logger) ([]BenchResult, error) {
	logger.Info("starting suite", zap.Int("n", cfg.N))
	idx, err := s.open()
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	n := cfg.N
	start := time.Now()
	for k := 0; k < n; k++ {
		if err := idx.Insert(int64(k), []byte("v")); err != nil {
			return nil, errors.Wrapf(err, "initial load key %d", k)
		}
	}
	insertLatency := time.Since(start).Nanoseconds() / int64(n)

	stats := GetDetailedMem()
	results := []BenchResult{{
		Name:      s.name,
		Config:    s.conf,
		Operation: "Footprint_SteadyState",
		LatencyNs: insertLatency,
		MemMB:     stats.AllocMB,
		Objects:   stats.HeapObjects,
	}}
	logger.Debug("initial load done", zap.Int64("ns_per_op", insertLatency), zap.Uint64("heap_mb", stats.AllocMB))

	rng := rand.New(rand.NewSource(cfg.Seed))
	phases := []struct {
		op   string
		kind WorkloadType
		ops  int
	}{
		{"Workload_OLTP", OLTP, n / 2},
		{"Workload_OLAP", OLAP, n / 2},
		{"Workload_Churn", Churn, n / 2},
		{"Workload_Range", Reporting, 100},
	}
	for _, p := range phases {
		start := time.Now()
		if err := ExecuteWorkload(idx, p.kind, rng, p.ops, n); err != nil {
			return nil, err
		}
		lat := time.Since(start).Nanoseconds() / int64(p.ops)
		mem := GetDetailedMem()
		results = append(results, BenchResult{
			Name:      s.name,
			Config:    s.conf,
			Operation: p.op,
			LatencyNs: lat,
			MemMB:     mem.AllocMB,
			Objects:   mem.HeapObjects,
		})
		logger.Debug("phase done", zap.String("phase", p.op), zap.Int64("ns_per_op", lat))
	}
	logger.Info("suite done")
	return results, nil
}
