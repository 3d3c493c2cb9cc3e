package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/btree-query-bench/bmark/index/btree"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var errQuit = errors.New("quit")

type shell struct {
	bt     *btree.BTree[int64, string]
	out    io.Writer
	logger *zap.Logger
}

func newShell(bt *btree.BTree[int64, string], out io.Writer, logger *zap.Logger) *shell {
	return &shell{bt: bt, out: out, logger: logger}
}

// run executes one command per line until EOF or quit. A bad command is
// reported and skipped; a failing write to out ends the session.
func (s *shell) run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		err := s.exec(fields[0], fields[1:])
		switch {
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, errUsage):
			s.logger.Debug("bad command", zap.Int("line", line), zap.Error(err))
			if _, werr := fmt.Fprintf(s.out, "error: %v\n", err); werr != nil {
				return werr
			}
		case err != nil:
			return errors.Wrapf(err, "line %d", line)
		}
	}
	return sc.Err()
}

var errUsage = errors.New("usage")

func usagef(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), errUsage)
}

func parseKey(s string) (int64, error) {
	k, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, usagef("bad key %q", s)
	}
	return k, nil
}

func (s *shell) exec(cmd string, args []string) error {
	switch cmd {
	case "insert":
		if len(args) < 1 {
			return usagef("insert KEY [VALUE]")
		}
		k, err := parseKey(args[0])
		if err != nil {
			return err
		}
		v := strings.Join(args[1:], " ")
		s.bt.Insert(k, v)
		s.logger.Debug("insert", zap.Int64("key", k), zap.Int("len", s.bt.Len()))
		return nil

	case "get":
		if len(args) != 1 {
			return usagef("get KEY")
		}
		k, err := parseKey(args[0])
		if err != nil {
			return err
		}
		if v, ok := s.bt.Search(k); ok {
			_, err = fmt.Fprintf(s.out, "%d: %q\n", k, v)
		} else {
			_, err = fmt.Fprintf(s.out, "%d: not found\n", k)
		}
		return err

	case "delete":
		if len(args) != 1 {
			return usagef("delete KEY")
		}
		k, err := parseKey(args[0])
		if err != nil {
			return err
		}
		ok := s.bt.Delete(k)
		s.logger.Debug("delete", zap.Int64("key", k), zap.Bool("found", ok))
		_, err = fmt.Fprintf(s.out, "%t\n", ok)
		return err

	case "len":
		_, err := fmt.Fprintf(s.out, "%d\n", s.bt.Len())
		return err

	case "print":
		return s.bt.Print(s.out)

	case "dot":
		return s.bt.WriteDOT(s.out)

	case "scan":
		seq := s.bt.All()
		switch len(args) {
		case 0:
		case 2:
			lo, err := parseKey(args[0])
			if err != nil {
				return err
			}
			hi, err := parseKey(args[1])
			if err != nil {
				return err
			}
			seq = s.bt.Range(lo, hi)
		default:
			return usagef("scan [LO HI]")
		}
		for k, v := range seq {
			if _, err := fmt.Fprintf(s.out, "%d: %q\n", k, v); err != nil {
				return err
			}
		}
		return nil

	case "verify":
		if err := s.bt.Verify(); err != nil {
			_, werr := fmt.Fprintf(s.out, "invalid: %v\n", err)
			return werr
		}
		_, err := fmt.Fprintln(s.out, "ok")
		return err

	case "quit", "exit":
		return errQuit

	default:
		return usagef("unknown command %q", cmd)
	}
}
