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
	"bytes"
	"context"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/db47h/intcode/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func parse(t *testing.T, args ...string) (*config, error) {
	t.Helper()
	cfg := newConfig()
	fs := cfg.flagSet("intcode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return cfg, fs.Parse(args)
}

func TestFlags(t *testing.T) {
	cfg, err := parse(t,
		"-program", "day7.txt",
		"-input", "1,2", "-input", "3",
		"-set", "1=12", "-set", " 2 = -2",
		"-ring", "2", "-node-input", "9", "-node-input", "8,7",
		"-ascii", "-timeout", "2s", "-max-steps", "100")
	require.NoError(t, err)
	assert.Equal(t, "day7.txt", cfg.program)
	assert.Equal(t, cellList{1, 2, 3}, cfg.input)
	assert.Equal(t, patchList{{1, 12}, {2, -2}}, cfg.patches)
	assert.Equal(t, nodeInputs{{9}, {8, 7}}, cfg.nodeInputs)
	assert.Equal(t, 2, cfg.ring)
	assert.True(t, cfg.ascii)
	assert.Equal(t, 2*time.Second, cfg.timeout)
	assert.Equal(t, int64(100), cfg.maxSteps)
	assert.NoError(t, cfg.check())
	assert.Equal(t, "1=12,2=-2", cfg.patches.String())
	assert.Equal(t, "1,2,3", cfg.input.String())
}

func TestFlags_errors(t *testing.T) {
	for _, args := range [][]string{
		{"-set", "12"},
		{"-set", "x=1"},
		{"-set", "-1=1"},
		{"-set", "1=y"},
		{"-input", "1,a"},
		{"-node-input", ""},
	} {
		_, err := parse(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestCheck(t *testing.T) {
	for _, args := range [][]string{
		{"-ring", "-1"},
		{"-node-input", "1"},
		{"-ring", "1", "-node-input", "1", "-node-input", "2"},
		{"-ring", "2", "-with", "file.txt"},
		{"-max-steps", "-5"},
	} {
		cfg, err := parse(t, args...)
		require.NoError(t, err)
		assert.Error(t, cfg.check(), "%v", args)
	}
}

func newSession(cfg *config, in string, out io.Writer) *session {
	return &session{cfg: cfg, log: zap.NewNop(), in: strings.NewReader(in), out: out}
}

// read a, read b, output a*b, halt
var mul = []vm.Cell{3, 11, 3, 12, 2, 11, 12, 13, 4, 13, 99}

func TestSingle(t *testing.T) {
	var b bytes.Buffer
	cfg := newConfig()
	i, err := newSession(cfg, "6 7\n", &b).single(context.Background(), mul)
	require.NoError(t, err)
	assert.Equal(t, vm.Halted, i.Status())
	assert.Equal(t, "42\n", b.String())
}

func TestSingle_inputFlag(t *testing.T) {
	var b bytes.Buffer
	cfg := newConfig()
	cfg.input = cellList{6}
	_, err := newSession(cfg, "-7", &b).single(context.Background(), mul)
	require.NoError(t, err)
	assert.Equal(t, "-42\n", b.String())
}

func TestSingle_patch(t *testing.T) {
	cfg := newConfig()
	cfg.patches = patchList{{1, 9}, {2, 10}}
	i, err := newSession(cfg, "", io.Discard).single(context.Background(), []vm.Cell{1, 0, 0, 3, 2, 3, 11, 0, 99, 30, 40, 50})
	require.NoError(t, err)
	assert.Equal(t, vm.Cell(3500), i.Read(0))
}

func TestSingle_endOfInput(t *testing.T) {
	var b bytes.Buffer
	_, err := newSession(newConfig(), "6", &b).single(context.Background(), mul)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end of input @pc=2")
}

func TestSingle_ascii(t *testing.T) {
	var b bytes.Buffer
	cfg := newConfig()
	cfg.ascii = true
	// echo until newline: in a; out a; a = a == 10; jz a 0; halt
	echoLine := []vm.Cell{3, 100, 4, 100, 1008, 100, 10, 100, 1006, 100, 0, 99}
	_, err := newSession(cfg, "hello\nworld\n", &b).single(context.Background(), echoLine)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", b.String())
}

func TestSingle_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := newConfig()
	cfg.maxSteps = 1000
	_, err := newSession(cfg, "", io.Discard).single(ctx, []vm.Cell{1105, 1, 0})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSingle_fault(t *testing.T) {
	_, err := newSession(newConfig(), "", io.Discard).single(context.Background(), []vm.Cell{1101, 1, 1, 0, 42})
	assert.ErrorIs(t, err, vm.ErrBadOpcode)
}

func TestSingle_memLimit(t *testing.T) {
	cfg := newConfig()
	assert.Equal(t, defaultMemLimit, cfg.memLimit)
	_, err := newSession(cfg, "", io.Discard).single(context.Background(), []vm.Cell{1101, 1, 1, 1099511627776, 99})
	assert.ErrorIs(t, err, vm.ErrMemLimit)
}

func TestRunContext(t *testing.T) {
	ctx, cancel := runContext(context.Background(), 10*time.Millisecond)
	defer cancel()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timeout not honored")
	}
	assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
}

func TestRunContext_cancel(t *testing.T) {
	for _, timeout := range []time.Duration{0, time.Hour} {
		ctx, cancel := runContext(context.Background(), timeout)
		cancel()
		<-ctx.Done()
		assert.ErrorIs(t, ctx.Err(), context.Canceled, "timeout %v", timeout)
	}
}

func TestRing(t *testing.T) {
	var b bytes.Buffer
	cfg := newConfig()
	cfg.ring = 5
	cfg.input = cellList{0}
	cfg.nodeInputs = nodeInputs{{9}, {8}, {7}, {6}, {5}}
	prog := []vm.Cell{3, 26, 1001, 26, -4, 26, 3, 27, 1002, 27, 2, 27, 1, 27, 26,
		27, 4, 27, 1001, 28, -1, 28, 1005, 28, 6, 99, 0, 0, 5}
	ms, err := newSession(cfg, "", &b).ring(context.Background(), prog)
	require.NoError(t, err)
	require.Len(t, ms, 5)
	for _, m := range ms {
		assert.Equal(t, vm.Halted, m.Status())
	}
	assert.True(t, strings.HasSuffix(b.String(), "\n139629729\n"), b.String())
}

func TestNumReader(t *testing.T) {
	r := newNumReader(strings.NewReader("1, -2\n\t3,,x"))
	for _, want := range []vm.Cell{1, -2, 3} {
		v, ok, err := r.next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
	_, _, err := r.next()
	assert.Error(t, err)
	_, ok, err := r.next()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNumReader_prompt(t *testing.T) {
	var p bytes.Buffer
	r := newNumReader(strings.NewReader("5\n"))
	r.prompt = func() error { _, err := p.WriteString("? "); return err }
	v, ok, err := r.next()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, vm.Cell(5), v)
	assert.Equal(t, "? ", p.String())
}

func TestRawReader(t *testing.T) {
	var echo bytes.Buffer
	r := &rawReader{r: strings.NewReader("ab\x7fc\rde\x04"), w: &echo}
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "ac\nde", string(b))
	assert.Equal(t, "ab\b \bc\nde", echo.String())
}

func TestRawReader_eof(t *testing.T) {
	r := &rawReader{r: strings.NewReader("\x04more"), w: io.Discard}
	n, err := r.Read(make([]byte, 8))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
	_, err = r.Read(make([]byte, 8))
	assert.Equal(t, io.EOF, err)
}

func TestCRLFWriter(t *testing.T) {
	var b bytes.Buffer
	n, err := crlfWriter{&b}.Write([]byte("a\nb\n\nc"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "a\r\nb\r\n\r\nc", b.String())
}
