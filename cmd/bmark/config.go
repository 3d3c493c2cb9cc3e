package main

import (
	"flag"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

type config struct {
	N         int
	Orders    []int
	List      bool
	LSM       bool
	LSMDir    string
	Seed      int64
	Out       string
	Plot      string
	LogLevel  string
	LogFormat string
}

func parseFlags(fs *flag.FlagSet, args []string) (config, error) {
	var (
		cfg    config
		orders string
	)
	fs.IntVar(&cfg.N, "n", 100000, "number of keys loaded before the workloads run")
	fs.StringVar(&orders, "orders", "8,32,128", "comma separated B-tree minimum degrees to sweep")
	fs.BoolVar(&cfg.List, "list", false, "include the sorted-list baseline (quadratic load)")
	fs.BoolVar(&cfg.LSM, "lsm", false, "include the Pebble LSM")
	fs.StringVar(&cfg.LSMDir, "lsm-dir", "", "directory for the Pebble store (default: in memory)")
	fs.Int64Var(&cfg.Seed, "seed", 1, "workload random seed")
	fs.StringVar(&cfg.Out, "out", "results.csv", "CSV results file")
	fs.StringVar(&cfg.Plot, "plot", "", "write a latency chart to this PNG/SVG/PDF file")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", "console", "console or json")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	for _, s := range strings.Split(orders, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		t, err := strconv.Atoi(s)
		if err != nil {
			return cfg, errors.Wrapf(err, "bad -orders entry %q", s)
		}
		cfg.Orders = append(cfg.Orders, t)
	}
	return cfg, cfg.validate()
}

func (c config) validate() error {
	if c.N < 2 {
		return errors.Newf("-n must be at least 2, got %d", c.N)
	}
	for _, t := range c.Orders {
		if t < 2 {
			return errors.Newf("-orders: minimum degree must be at least 2, got %d", t)
		}
	}
	if len(c.Orders) == 0 && !c.List && !c.LSM {
		return errors.New("nothing to benchmark: give -orders, -list or -lsm")
	}
	if c.Out == "" {
		return errors.New("-out must not be empty")
	}
	return nil
}
