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

import "strconv"

// Opcode identifies an Intcode operation.
type Opcode int

// Intcode opcodes.
const (
	OpAdd       Opcode = 1
	OpMul       Opcode = 2
	OpIn        Opcode = 3
	OpOut       Opcode = 4
	OpJumpTrue  Opcode = 5
	OpJumpFalse Opcode = 6
	OpLess      Opcode = 7
	OpEqual     Opcode = 8
	OpRel       Opcode = 9
	OpHalt      Opcode = 99
)

var opcodes = [...]struct {
	name string
	args int
	dst  int // index of the write target operand, -1 if none
}{
	OpAdd:       {"add", 3, 2},
	OpMul:       {"mul", 3, 2},
	OpIn:        {"in", 1, 0},
	OpOut:       {"out", 1, -1},
	OpJumpTrue:  {"jnz", 2, -1},
	OpJumpFalse: {"jz", 2, -1},
	OpLess:      {"lt", 3, 2},
	OpEqual:     {"eq", 3, 2},
	OpRel:       {"rel", 1, -1},
}

func (op Opcode) valid() bool {
	return op == OpHalt || op > 0 && int(op) < len(opcodes) && opcodes[op].name != ""
}

func (op Opcode) String() string {
	switch {
	case op == OpHalt:
		return "halt"
	case op.valid():
		return opcodes[op].name
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// Args returns the number of operands of the opcode.
func (op Opcode) Args() int {
	if op == OpHalt || !op.valid() {
		return 0
	}
	return opcodes[op].args
}

// Mode is an operand addressing mode.
type Mode int

// Addressing modes.
const (
	Position Mode = iota
	Immediate
	Relative
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Op    Opcode
	Modes [3]Mode
}

// Width returns the number of cells occupied by the instruction, including the
// instruction word itself.
func (ins Instruction) Width() int {
	return ins.Op.Args() + 1
}

// Decode decodes the instruction word w. It does not have any side effect.
//
// The returned error is one of ErrBadOpcode, ErrBadMode or ErrImmediateTarget.
// Mode digits beyond the opcode's operand count are ignored.
func Decode(w Cell) (Instruction, error) {
	var ins Instruction
	if w < 0 {
		return ins, ErrBadOpcode
	}
	ins.Op = Opcode(w % 100)
	if !ins.Op.valid() {
		return ins, ErrBadOpcode
	}
	w /= 100
	n := ins.Op.Args()
	for k := 0; k < n; k++ {
		m := Mode(w % 10)
		w /= 10
		if m > Relative {
			return ins, ErrBadMode
		}
		if m == Immediate && opcodes[ins.Op].dst == k {
			return ins, ErrImmediateTarget
		}
		ins.Modes[k] = m
	}
	return ins, nil
}
