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

package vm

import (
	"fmt"
	"io"

	"github.com/db47h/intcode/internal/ici"
	"github.com/pkg/errors"
)

// Cell is the raw type stored in a memory location.
type Cell int64

// Status describes why Run returned.
type Status int

// Machine states.
const (
	Running Status = iota
	AwaitingInput
	Halted
	Faulted
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingInput:
		return "awaiting input"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Instance represents an Intcode machine instance.
type Instance struct {
	PC       int   // Program Counter (aka. Instruction Pointer)
	RB       Cell  // Relative base
	Mem      []Cell
	in       []Cell
	out      []Cell
	status   Status
	insCount int64
	maxSteps int64
	memLimit int
	inH      InHandler
	outH     OutHandler
}

// Option interface
type Option func(*Instance) error

// InHandler is the function prototype for custom input handlers.
//
// An input handler is called when an input instruction finds the input queue
// empty. It returns the value to store and true, or false if no value is
// available, in which case Run returns with status AwaitingInput. Any error
// aborts Run.
type InHandler func(i *Instance) (v Cell, ok bool, err error)

// OutHandler is the function prototype for custom output handlers. When bound,
// output values are handed over to the handler instead of being queued. Any
// error aborts Run.
type OutHandler func(i *Instance, v Cell) error

// Input queues the given values as input.
func Input(v ...Cell) Option {
	return func(i *Instance) error { i.SendInput(v...); return nil }
}

// Patch sets the memory cell at addr to v. It is typically used to configure a
// program before running it.
func Patch(addr int, v Cell) Option {
	return func(i *Instance) error {
		if addr < 0 {
			return errors.Errorf("Patch: negative address %d", addr)
		}
		i.Write(addr, v)
		return nil
	}
}

// MemSize extends memory to at least size cells. It will not shrink memory.
func MemSize(size int) Option {
	return func(i *Instance) error {
		i.grow(size)
		return nil
	}
}

// MemLimit sets the maximum memory size in cells. Instructions that would grow
// memory beyond this size raise a fault. The default is 0, meaning unlimited.
func MemLimit(size int) Option {
	return func(i *Instance) error {
		if size < 0 {
			return errors.Errorf("MemLimit: invalid size %d", size)
		}
		i.memLimit = size
		return nil
	}
}

// MaxSteps sets the maximum number of instructions that a single call to Run
// will execute before returning ErrStepLimit. The default is 0, meaning
// unlimited.
func MaxSteps(n int64) Option {
	return func(i *Instance) error {
		if n < 0 {
			return errors.Errorf("MaxSteps: invalid count %d", n)
		}
		i.maxSteps = n
		return nil
	}
}

// BindInHandler binds the provided input handler. See InHandler.
func BindInHandler(h InHandler) Option {
	return func(i *Instance) error { i.inH = h; return nil }
}

// BindOutHandler binds the provided output handler. See OutHandler.
func BindOutHandler(h OutHandler) Option {
	return func(i *Instance) error { i.outH = h; return nil }
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Intcode machine instance.
//
// The mem parameter is the initial memory image, usually loaded from file
// with the Load function. It is copied, so the same image can be used to
// create several instances.
//
// Options will be set by calling SetOptions.
func New(mem []Cell, opts ...Option) (*Instance, error) {
	i := &Instance{
		Mem: append(make([]Cell, 0, len(mem)), mem...),
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	return i, nil
}

// Clone returns a deep copy of the instance: memory, registers and queues are
// copied, handlers and limits are shared.
func (i *Instance) Clone() *Instance {
	c := *i
	c.Mem = append([]Cell(nil), i.Mem...)
	c.in = append([]Cell(nil), i.in...)
	c.out = append([]Cell(nil), i.out...)
	return &c
}

// Halted returns true if the instruction at PC is a halt instruction. It does
// not modify the machine state.
func (i *Instance) Halted() bool {
	ins, err := Decode(i.Read(i.PC))
	return err == nil && ins.Op == OpHalt
}

// Status returns the status returned by the last call to Run.
func (i *Instance) Status() Status {
	return i.status
}

// InstructionCount returns the number of instructions executed by the last
// call to Run.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// Dump writes the machine registers followed by the memory listing to w.
func (i *Instance) Dump(w io.Writer) error {
	ew := ici.NewErrWriter(w)
	fmt.Fprintf(ew, "pc=%d rb=%d status=%v in=%v out=%v\n", i.PC, i.RB, i.status, i.in, i.out)
	if ew.Err != nil {
		return ew.Err
	}
	return WriteProgram(ew, i.Mem)
}
