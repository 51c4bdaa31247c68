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
	"flag"
	"strconv"
	"strings"
	"time"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"gitlab.com/efronlicht/enve"
)

type fileList []string

func (f *fileList) String() string     { return strings.Join(*f, ",") }
func (f *fileList) Set(s string) error { *f = append(*f, s); return nil }
func (f *fileList) Get() interface{}   { return *f }

// cellList accumulates comma separated values.
type cellList []vm.Cell

func (l *cellList) String() string {
	s := make([]string, len(*l))
	for k, v := range *l {
		s[k] = strconv.FormatInt(int64(v), 10)
	}
	return strings.Join(s, ",")
}

func (l *cellList) Set(s string) error {
	cells, err := vm.ReadProgram(strings.NewReader(s))
	if err != nil {
		return err
	}
	*l = append(*l, cells...)
	return nil
}

func (l *cellList) Get() interface{} { return *l }

// nodeInputs holds one cellList per -node-input flag.
type nodeInputs []cellList

func (n *nodeInputs) String() string {
	s := make([]string, len(*n))
	for k := range *n {
		s[k] = (*n)[k].String()
	}
	return strings.Join(s, " ")
}

func (n *nodeInputs) Set(s string) error {
	var l cellList
	if err := l.Set(s); err != nil {
		return err
	}
	*n = append(*n, l)
	return nil
}

func (n *nodeInputs) Get() interface{} { return *n }

type patch struct {
	addr int
	v    vm.Cell
}

type patchList []patch

func (p *patchList) String() string {
	s := make([]string, len(*p))
	for k, e := range *p {
		s[k] = strconv.Itoa(e.addr) + "=" + strconv.FormatInt(int64(e.v), 10)
	}
	return strings.Join(s, ",")
}

func (p *patchList) Set(s string) error {
	a, v, ok := strings.Cut(s, "=")
	if !ok {
		return errors.Errorf("%q: expected addr=value", s)
	}
	addr, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return errors.Wrap(err, "bad address")
	}
	if addr < 0 {
		return errors.Errorf("%d: negative address", addr)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return errors.Wrap(err, "bad value")
	}
	*p = append(*p, patch{addr, vm.Cell(n)})
	return nil
}

func (p *patchList) Get() interface{} { return *p }

// defaultMemLimit is the default memory limit in cells (128 MiB).
const defaultMemLimit = 1 << 24

type config struct {
	program    string
	input      cellList
	patches    patchList
	with       fileList
	nodeInputs nodeInputs
	ascii      bool
	raw        bool
	ring       int
	dump       bool
	debug      bool
	maxSteps   int64
	memLimit   int
	timeout    time.Duration
}

func newConfig() *config {
	return &config{
		program:  "input.txt",
		maxSteps: int64(enve.IntOr("INTCODE_MAX_STEPS", 1<<20)),
		memLimit: enve.IntOr("INTCODE_MEM_LIMIT", defaultMemLimit),
		timeout:  enve.DurationOr("INTCODE_TIMEOUT", 0),
	}
}

func (c *config) flagSet(name string, h flag.ErrorHandling) *flag.FlagSet {
	fs := flag.NewFlagSet(name, h)
	fs.StringVar(&c.program, "program", c.program, "Load program listing from file `filename`")
	fs.Var(&c.input, "input", "comma separated `values` queued as input before starting (can be specified multiple times)")
	fs.Var(&c.patches, "set", "set memory cell before starting, as `addr=value` (can be specified multiple times)")
	fs.Var(&c.with, "with", "Add `filename` to the input list (can be specified multiple times)")
	fs.BoolVar(&c.ascii, "ascii", false, "ASCII I/O: values 0-127 are characters")
	fs.BoolVar(&c.raw, "raw", false, "switch the terminal to raw mode in ASCII mode")
	fs.IntVar(&c.ring, "ring", 0, "run `n` copies of the program in a feedback ring")
	fs.Var(&c.nodeInputs, "node-input", "comma separated `values` queued as input to the next ring node (can be specified multiple times)")
	fs.BoolVar(&c.dump, "dump", false, "dump machine state upon exit")
	fs.BoolVar(&c.debug, "debug", false, "enable debug diagnostics")
	fs.Int64Var(&c.maxSteps, "max-steps", c.maxSteps, "check for timeout and interrupts every `n` instructions, 0 to disable (env INTCODE_MAX_STEPS)")
	fs.IntVar(&c.memLimit, "mem-limit", c.memLimit, "memory limit in cells, 0 for none (env INTCODE_MEM_LIMIT)")
	fs.DurationVar(&c.timeout, "timeout", c.timeout, "abort after `duration`, 0 for none (env INTCODE_TIMEOUT)")
	return fs
}

// check validates flag combinations.
func (c *config) check() error {
	switch {
	case c.ring < 0:
		return errors.Errorf("-ring %d: negative ring size", c.ring)
	case c.ring == 0 && len(c.nodeInputs) > 0:
		return errors.New("-node-input requires -ring")
	case len(c.nodeInputs) > c.ring && c.ring > 0:
		return errors.Errorf("%d -node-input flags for a ring of %d machines", len(c.nodeInputs), c.ring)
	case c.ring > 0 && len(c.with) > 0:
		return errors.New("-with cannot be used with -ring")
	case c.maxSteps < 0:
		return errors.Errorf("-max-steps %d: negative step count", c.maxSteps)
	}
	return nil
}

// vmOptions returns the machine options shared by all machines.
func (c *config) vmOptions() []vm.Option {
	opts := []vm.Option{vm.MaxSteps(c.maxSteps), vm.MemLimit(c.memLimit)}
	for _, p := range c.patches {
		opts = append(opts, vm.Patch(p.addr, p.v))
	}
	return opts
}
