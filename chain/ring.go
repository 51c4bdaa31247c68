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

package chain

import (
	"context"
	"sync"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Option configures Ring.
type Option func(*config)

type config struct {
	logger *zap.Logger
}

// WithLogger sets the logger used to trace node activity at debug level. The
// default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// node drives one machine. Values arrive on in. done is closed when the node
// stops.
type node struct {
	id   int
	m    *vm.Instance
	in   chan vm.Cell
	done chan struct{}
	log  *zap.Logger
}

// Ring runs machines concurrently in a ring where the outputs of the last
// machine are fed back to the first one. Each machine runs in its own
// goroutine; links between machines are unbuffered channels. The seed values
// are queued as input to the first machine before starting.
//
// Ring returns once all machines have stopped, with all the values produced by
// the last machine in production order. Values sent to a machine that has
// already halted are dropped. If a machine is waiting for input while its
// upstream machine has stopped, it fails with ErrInputClosed. The first error
// cancels the whole ring.
//
// Cancellation of ctx is only noticed between calls to Run. Machines created
// with the vm.MaxSteps option return to Ring periodically, which bounds the
// time needed to notice it.
//
// For deterministic programs, the result is the same as Feedback.
func Ring(ctx context.Context, machines []*vm.Instance, seed []vm.Cell, opts ...Option) ([]vm.Cell, error) {
	if len(machines) == 0 {
		return nil, errors.New("Ring: no machines")
	}
	cfg := config{logger: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}

	nodes := make([]*node, len(machines))
	for k, m := range machines {
		nodes[k] = &node{
			id:   k,
			m:    m,
			in:   make(chan vm.Cell),
			done: make(chan struct{}),
			log:  cfg.logger.With(zap.Int("node", k)),
		}
	}
	machines[0].SendInput(seed...)

	var (
		mu    sync.Mutex
		trace []vm.Cell
		last  = len(nodes) - 1
	)
	g, ctx := errgroup.WithContext(ctx)
	for k, n := range nodes {
		n := n
		prev, next := nodes[(k+last)%len(nodes)], nodes[(k+1)%len(nodes)]
		var tap func(vm.Cell)
		if k == last {
			tap = func(v vm.Cell) {
				mu.Lock()
				trace = append(trace, v)
				mu.Unlock()
			}
		}
		g.Go(func() error {
			defer close(n.done)
			return n.run(ctx, prev, next, tap)
		})
	}
	err := g.Wait()
	return trace, err
}

func (n *node) run(ctx context.Context, prev, next *node, tap func(vm.Cell)) error {
	n.log.Debug("start")
	for {
		st, err := n.m.Run()
		if err != nil && err != vm.ErrStepLimit {
			n.log.Debug("fault", zap.Error(err))
			return errors.Wrapf(err, "machine %d", n.id)
		}
		out := n.m.Outputs()
		for _, v := range out {
			if tap != nil {
				tap(v)
			}
			if serr := n.send(ctx, next, v); serr != nil {
				return serr
			}
		}
		switch {
		case st == vm.Halted:
			n.log.Debug("halted", zap.Int64("steps", n.m.InstructionCount()))
			return nil
		case err == vm.ErrStepLimit:
			// step budget used up, give cancellation a chance
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			continue
		case n.m.Pending() > 0:
			// input queued while sending
			continue
		case prev == n:
			return errors.Wrapf(ErrInputClosed, "machine %d @pc=%d", n.id, n.m.PC)
		}
		select {
		case v := <-n.in:
			n.log.Debug("recv", zap.Int64("value", int64(v)))
			n.m.SendInput(v)
		case <-prev.done:
			return errors.Wrapf(ErrInputClosed, "machine %d @pc=%d", n.id, n.m.PC)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// send sends v to next. Values arriving on n.in while waiting are queued as
// input to n, so that nodes sending to each other at the same time make
// progress.
func (n *node) send(ctx context.Context, next *node, v vm.Cell) error {
	if next == n {
		n.m.SendInput(v)
		return nil
	}
	for {
		select {
		case next.in <- v:
			n.log.Debug("send", zap.Int("to", next.id), zap.Int64("value", int64(v)))
			return nil
		case x := <-n.in:
			n.log.Debug("recv", zap.Int64("value", int64(x)))
			n.m.SendInput(x)
		case <-next.done:
			n.log.Debug("drop", zap.Int("to", next.id), zap.Int64("value", int64(v)))
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
