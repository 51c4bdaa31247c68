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

// SendInput appends the given values to the input queue. It can be called at
// any time, including while the machine is awaiting input.
func (i *Instance) SendInput(v ...Cell) {
	i.in = append(i.in, v...)
}

// Pending returns the number of values in the input queue.
func (i *Instance) Pending() int {
	return len(i.in)
}

// ReceiveOutput pops the oldest value from the output queue. It returns false if
// the queue is empty.
func (i *Instance) ReceiveOutput() (Cell, bool) {
	if len(i.out) == 0 {
		return 0, false
	}
	v := i.out[0]
	i.out = i.out[1:]
	if len(i.out) == 0 {
		i.out = nil
	}
	return v, true
}

// Outputs drains the output queue and returns its contents in production
// order.
func (i *Instance) Outputs() []Cell {
	out := i.out
	i.out = nil
	return out
}

// input returns the next input value. If none is available, it returns false.
func (i *Instance) input() (Cell, bool, error) {
	if len(i.in) > 0 {
		v := i.in[0]
		i.in = i.in[1:]
		if len(i.in) == 0 {
			i.in = nil
		}
		return v, true, nil
	}
	if i.inH == nil {
		return 0, false, nil
	}
	v, ok, err := i.inH(i)
	if err != nil {
		return 0, false, errors.Wrapf(err, "input handler @pc=%d", i.PC)
	}
	return v, ok, nil
}

func (i *Instance) output(v Cell) error {
	if i.outH == nil {
		i.out = append(i.out, v)
		return nil
	}
	return errors.Wrapf(i.outH(i, v), "output handler @pc=%d", i.PC)
}
