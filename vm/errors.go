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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Fault causes. A *Fault wraps one of these.
var (
	ErrBadOpcode       = errors.New("bad opcode")
	ErrBadMode         = errors.New("bad addressing mode")
	ErrImmediateTarget = errors.New("write target in immediate mode")
	ErrNegativeAddress = errors.New("negative address")
	ErrMemLimit        = errors.New("memory limit exceeded")
)

// ErrStepLimit is returned by Run when the instruction budget set with the
// MaxSteps option is used up. This is not a fault: the machine state is intact
// and Run can be called again.
var ErrStepLimit = errors.New("step limit reached")

// Fault is a fatal error raised while executing a malformed program.
type Fault struct {
	PC   int  // address of the faulting instruction
	Word Cell // raw instruction word at PC
	Addr Cell // offending address, for ErrNegativeAddress and ErrMemLimit
	Err  error
}

func (f *Fault) Error() string {
	var b strings.Builder
	b.WriteString(f.Err.Error())
	switch f.Err {
	case ErrNegativeAddress, ErrMemLimit:
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(int64(f.Addr), 10))
	}
	b.WriteString(" (instruction ")
	b.WriteString(strconv.FormatInt(int64(f.Word), 10))
	if ins, err := Decode(f.Word); err == nil {
		b.WriteByte('/')
		b.WriteString(ins.Op.String())
	}
	b.WriteString(") @pc=")
	b.WriteString(strconv.Itoa(f.PC))
	return b.String()
}

// Cause returns the fault cause. It makes faults play nice with errors.Cause.
func (f *Fault) Cause() error { return f.Err }

// Unwrap returns the fault cause.
func (f *Fault) Unwrap() error { return f.Err }
