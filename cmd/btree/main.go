// Command btree is a small harness for poking at an in-memory B-tree by hand.
//
//	btree -order 3 demo     scripted insert/delete walkthrough
//	btree -order 2 shell    read commands from stdin
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/btree-query-bench/bmark/index/btree"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	fs := flag.NewFlagSet("btree", flag.ExitOnError)
	order := fs.Int("order", 3, "minimum degree t of the tree")
	level := fs.String("log-level", "warn", "debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: btree [-order t] [-log-level l] demo|shell")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	lvl, err := zapcore.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "btree: -log-level: %v\n", err)
		os.Exit(2)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "btree: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	if err := run(fs.Args(), *order, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("btree failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(args []string, order int, in io.Reader, out io.Writer, logger *zap.Logger) error {
	if len(args) != 1 {
		return errors.New("expected exactly one command: demo or shell")
	}
	bt, err := btree.New[int64, string](order)
	if err != nil {
		return err
	}
	logger.Debug("tree created", zap.Int("order", order), zap.String("command", args[0]))
	switch args[0] {
	case "demo":
		return demo(bt, out)
	case "shell":
		return newShell(bt, out, logger).run(in)
	default:
		return errors.Newf("unknown command %q", args[0])
	}
}
