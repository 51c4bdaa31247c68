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

// Package chain composes Intcode machines: the output queue of each machine is
// wired to the input queue of the next one.
//
// Pipeline and Feedback drive all machines from the calling goroutine. Ring
// runs each machine in its own goroutine and connects them with channels. In
// both cases, a machine's queues are only ever touched by the goroutine that
// drives it.
package chain

import (
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

var (
	// ErrDeadlock is returned by Feedback when all machines are waiting for
	// input and no value is in transit.
	ErrDeadlock = errors.New("deadlock: all machines awaiting input")
	// ErrInputClosed is returned by Ring when a machine is waiting for input
	// but its upstream machine has stopped.
	ErrInputClosed = errors.New("input closed")
)

// run runs machine k and wraps any error.
func run(machines []*vm.Instance, k int) (vm.Status, error) {
	st, err := machines[k].Run()
	if err != nil {
		return st, errors.Wrapf(err, "machine %d", k)
	}
	return st, nil
}

// Pipeline feeds input to the first machine, runs it, then moves its outputs to
// the second machine and runs it, and so on. It returns the outputs of the last
// machine.
//
// Machines are run once each: a machine still waiting for input when its turn
// is over is left as is.
func Pipeline(machines []*vm.Instance, input ...vm.Cell) ([]vm.Cell, error) {
	carry := input
	for k, m := range machines {
		m.SendInput(carry...)
		if _, err := run(machines, k); err != nil {
			return nil, err
		}
		carry = m.Outputs()
	}
	return carry, nil
}

// Feedback runs machines in a ring where the outputs of the last machine are
// fed back to the first one. The seed values are queued as input to the first
// machine before the first round.
//
// Each round runs every machine in order, moving its outputs to the next
// machine. Feedback returns once the last machine has halted, with all the
// values produced by the last machine in production order.
//
// Values sent to a machine that has already halted stay in its input queue.
func Feedback(machines []*vm.Instance, seed ...vm.Cell) ([]vm.Cell, error) {
	if len(machines) == 0 {
		return nil, errors.New("Feedback: no machines")
	}
	var (
		trace []vm.Cell
		carry = seed
		last  = len(machines) - 1
	)
	for {
		progress := false
		for k, m := range machines {
			m.SendInput(carry...)
			st, err := run(machines, k)
			if err != nil {
				return trace, err
			}
			carry = m.Outputs()
			if k == last {
				trace = append(trace, carry...)
				if st == vm.Halted {
					return trace, nil
				}
			}
			if m.InstructionCount() > 0 {
				progress = true
			}
		}
		if !progress {
			return trace, ErrDeadlock
		}
	}
}
