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

// Package vm implements the Intcode virtual machine.
//
// An Intcode machine is a stored-program computer operating on a growable
// memory of signed 64 bits cells. Instructions are encoded in a single cell as
// an opcode (the value modulo 100) followed by one addressing mode digit per
// operand, starting at the hundreds place:
//
//	0	position mode: the operand is the address of the value
//	1	immediate mode: the operand is the value
//	2	relative mode: the operand is an offset from the relative base
//
// Memory grows with zero cells whenever an instruction addresses a cell past
// its end. It never shrinks.
//
// Communication with the host program goes through two FIFO queues. Input
// values are queued with SendInput, output values are collected with
// ReceiveOutput. When an input instruction finds the input queue empty, Run
// returns with the PC still pointing at that instruction so that a later Run
// retries it. This makes it possible to compose several machines into
// pipelines or feedback loops by moving values between their queues (see
// package chain).
//
// Malformed programs (unknown opcodes or addressing modes, writes in immediate
// mode, negative addresses) stop Run with a *Fault error. The machine is not
// usable after a fault other than for inspection.
//
// An Instance must not be shared between goroutines.
package vm
