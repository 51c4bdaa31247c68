// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/db47h/intcode/ascii"
	"github.com/db47h/intcode/chain"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// session holds the I/O setup shared by single and ring runs.
type session struct {
	cfg    *config
	log    *zap.Logger
	in     io.Reader
	out    io.Writer
	flush  func() error // flushes out, may be nil
	prompt io.Writer    // numeric input prompt, may be nil
}

// output returns the handler used to write machine output.
func (s *session) output() vm.OutHandler {
	if s.cfg.ascii {
		return ascii.NewWriter(s.out).Output()
	}
	return numWriter(s.out)
}

// input returns the handler used to read machine input. Pending output is
// flushed before each read.
func (s *session) input() vm.InHandler {
	var h vm.InHandler
	if s.cfg.ascii {
		h = ascii.NewReader(s.in).Input()
	} else {
		nr := newNumReader(s.in)
		if s.prompt != nil {
			nr.prompt = func() error {
				_, err := io.WriteString(s.prompt, "? ")
				return err
			}
		}
		h = nr.Input()
	}
	return func(i *vm.Instance) (vm.Cell, bool, error) {
		if s.flush != nil {
			if err := s.flush(); err != nil {
				return 0, false, errors.Wrap(err, "flush failed")
			}
		}
		return h(i)
	}
}

// single runs one machine until it halts. Input comes from the -input values,
// then from s.in.
func (s *session) single(ctx context.Context, mem []vm.Cell) (*vm.Instance, error) {
	opts := append(s.cfg.vmOptions(),
		vm.Input(s.cfg.input...),
		vm.BindInHandler(s.input()),
		vm.BindOutHandler(s.output()))
	i, err := vm.New(mem, opts...)
	if err != nil {
		return nil, err
	}
	s.log.Debug("start", zap.Int("size", len(i.Mem)))
	var steps int64
	for {
		st, err := i.Run()
		steps += i.InstructionCount()
		switch {
		case err == vm.ErrStepLimit:
			if err = ctx.Err(); err != nil {
				return i, errors.Wrapf(err, "aborted @pc=%d", i.PC)
			}
			continue
		case err != nil:
			return i, err
		case st == vm.AwaitingInput:
			return i, errors.Errorf("end of input @pc=%d", i.PC)
		}
		s.log.Debug("halted", zap.Int64("steps", steps), zap.Int("size", len(i.Mem)))
		return i, nil
	}
}

// ring runs cfg.ring copies of the program in a feedback ring and writes the
// values produced by the last machine.
func (s *session) ring(ctx context.Context, mem []vm.Cell) ([]*vm.Instance, error) {
	ms := make([]*vm.Instance, s.cfg.ring)
	for k := range ms {
		opts := s.cfg.vmOptions()
		if k < len(s.cfg.nodeInputs) {
			opts = append(opts, vm.Input(s.cfg.nodeInputs[k]...))
		}
		m, err := vm.New(mem, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "machine %d", k)
		}
		ms[k] = m
	}
	trace, err := chain.Ring(ctx, ms, s.cfg.input, chain.WithLogger(s.log))
	out := s.output()
	for _, v := range trace {
		if werr := out(nil, v); werr != nil {
			if err == nil {
				err = werr
			}
			break
		}
	}
	return ms, err
}

// runContext returns a context canceled on the first interrupt or after
// timeout, if not 0. A second interrupt kills the process.
func runContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	done := ctx.Done()
	go func() {
		<-done
		stop()
	}()
	if timeout <= 0 {
		return ctx, stop
	}
	tctx, tcancel := context.WithTimeout(ctx, timeout)
	return tctx, func() {
		tcancel()
		stop()
	}
}

func atExit(ms []*vm.Instance, err error, debug bool) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	for k, i := range ms {
		if i == nil {
			continue
		}
		if i.PC < len(i.Mem) {
			fmt.Fprintf(os.Stderr, "machine %d: PC: %v (%v), RB: %v, status: %v\n", k, i.PC, i.Mem[i.PC], i.RB, i.Status())
		} else {
			fmt.Fprintf(os.Stderr, "machine %d: PC: %v, RB: %v, status: %v\n", k, i.PC, i.RB, i.Status())
		}
	}
	os.Exit(1)
}

func main() {
	var (
		err error
		ms  []*vm.Instance
	)

	cfg := newConfig()
	_ = cfg.flagSet(os.Args[0], flag.ExitOnError).Parse(os.Args[1:])

	log := newLogger(os.Stderr, cfg.debug)
	defer func() {
		log.Sync()
		atExit(ms, err, cfg.debug)
	}()

	if err = cfg.check(); err != nil {
		return
	}

	ctx, cancel := runContext(context.Background(), cfg.timeout)
	defer cancel()

	mem, err := vm.Load(cfg.program)
	if err != nil {
		return
	}
	log.Debug("loaded", zap.String("program", cfg.program), zap.Int("size", len(mem)))

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	s := &session{cfg: cfg, log: log, in: os.Stdin, out: stdout, flush: stdout.Flush}
	tty := term.IsTerminal(int(os.Stdin.Fd()))
	switch {
	case cfg.ascii && cfg.raw && tty:
		restore, rerr := setRawIO()
		if rerr != nil {
			log.Warn("raw mode unavailable", zap.Error(rerr))
			break
		}
		defer restore()
		var echo io.Writer = os.Stdout
		if rawCRLF {
			echo = crlfWriter{os.Stdout}
			s.out = crlfWriter{stdout}
		}
		s.in = &rawReader{r: os.Stdin, w: echo}
	case !cfg.ascii && tty:
		s.prompt = os.Stderr
	}

	// -with files are read in order of appearance on the command line, then
	// stdin.
	if len(cfg.with) > 0 {
		rs := make([]io.Reader, 0, len(cfg.with)+1)
		for _, name := range cfg.with {
			var f *os.File
			f, err = os.Open(name)
			if err != nil {
				err = errors.Wrap(err, "open failed")
				return
			}
			defer f.Close()
			rs = append(rs, f)
		}
		s.in = io.MultiReader(append(rs, s.in)...)
	}

	if cfg.ring > 0 {
		ms, err = s.ring(ctx, mem)
	} else {
		var i *vm.Instance
		i, err = s.single(ctx, mem)
		ms = []*vm.Instance{i}
	}

	if cfg.dump {
		for k, i := range ms {
			if i == nil {
				continue
			}
			if len(ms) > 1 {
				fmt.Fprintf(s.out, "machine %d: ", k)
			}
			if derr := i.Dump(s.out); derr != nil && err == nil {
				err = derr
			}
		}
	}
}
