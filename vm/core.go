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

import "github.com/pkg/errors"

// fault aborts execution of the current instruction. It is recovered by Run.
func (i *Instance) fault(cause error, addr Cell) {
	panic(&Fault{PC: i.PC, Word: i.Read(i.PC), Addr: addr, Err: cause})
}

// addr resolves operand k of the current instruction to an address. Memory is
// extended to cover the address.
func (i *Instance) addr(m Mode, k int) int {
	v := i.Read(i.PC + 1 + k)
	if m == Relative {
		v += i.RB
	}
	if v < 0 {
		i.fault(ErrNegativeAddress, v)
	}
	if i.memLimit > 0 && v >= Cell(i.memLimit) {
		i.fault(ErrMemLimit, v)
	}
	a := int(v)
	i.grow(a + 1)
	return a
}

// load returns the value of operand k of the current instruction.
func (i *Instance) load(m Mode, k int) Cell {
	if m == Immediate {
		return i.Read(i.PC + 1 + k)
	}
	a := i.addr(m, k)
	return i.Mem[a]
}

// jump sets the PC to the given target.
func (i *Instance) jump(target Cell) {
	if target < 0 {
		i.fault(ErrNegativeAddress, target)
	}
	i.PC = int(target)
}

// Run starts or resumes execution of the machine.
//
// Run returns AwaitingInput when an input instruction finds no input
// available. The PC is left on that instruction so that the next call to Run
// will retry it. Run returns Halted once a halt instruction is reached;
// subsequent calls return immediately.
//
// If the program is malformed, Run returns Faulted and an error wrapping a
// *Fault, with the PC pointing to the faulting instruction. Errors returned by
// I/O handlers are returned with status Running and the PC on the I/O
// instruction.
func (i *Instance) Run() (st Status, err error) {
	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case *Fault:
				err = errors.WithStack(e)
			case error:
				err = errors.Wrapf(e, "Recovered error @pc=%d/%d, rb=%d", i.PC, len(i.Mem), i.RB)
			default:
				panic(e)
			}
			st = Faulted
			i.status = st
		}
	}()
	i.insCount = 0
	for {
		if i.maxSteps > 0 && i.insCount >= i.maxSteps {
			i.status = Running
			return Running, ErrStepLimit
		}
		ins, derr := Decode(i.Read(i.PC))
		if derr != nil {
			i.fault(derr, 0)
		}
		switch ins.Op {
		case OpAdd:
			a, b := i.load(ins.Modes[0], 0), i.load(ins.Modes[1], 1)
			d := i.addr(ins.Modes[2], 2)
			i.Mem[d] = a + b
			i.PC += 4
		case OpMul:
			a, b := i.load(ins.Modes[0], 0), i.load(ins.Modes[1], 1)
			d := i.addr(ins.Modes[2], 2)
			i.Mem[d] = a * b
			i.PC += 4
		case OpIn:
			// resolve the target first so that a fault does not consume input
			d := i.addr(ins.Modes[0], 0)
			v, ok, ierr := i.input()
			if ierr != nil {
				i.status = Running
				return Running, ierr
			}
			if !ok {
				i.status = AwaitingInput
				return AwaitingInput, nil
			}
			i.Mem[d] = v
			i.PC += 2
		case OpOut:
			if oerr := i.output(i.load(ins.Modes[0], 0)); oerr != nil {
				i.status = Running
				return Running, oerr
			}
			i.PC += 2
		case OpJumpTrue:
			if i.load(ins.Modes[0], 0) != 0 {
				i.jump(i.load(ins.Modes[1], 1))
			} else {
				i.PC += 3
			}
		case OpJumpFalse:
			if i.load(ins.Modes[0], 0) == 0 {
				i.jump(i.load(ins.Modes[1], 1))
			} else {
				i.PC += 3
			}
		case OpLess:
			var v Cell
			if i.load(ins.Modes[0], 0) < i.load(ins.Modes[1], 1) {
				v = 1
			}
			d := i.addr(ins.Modes[2], 2)
			i.Mem[d] = v
			i.PC += 4
		case OpEqual:
			var v Cell
			if i.load(ins.Modes[0], 0) == i.load(ins.Modes[1], 1) {
				v = 1
			}
			d := i.addr(ins.Modes[2], 2)
			i.Mem[d] = v
			i.PC += 4
		case OpRel:
			i.RB += i.load(ins.Modes[0], 0)
			i.PC += 2
		case OpHalt:
			i.status = Halted
			return Halted, nil
		}
		i.insCount++
	}
}
