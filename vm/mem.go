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
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"

	"github.com/db47h/intcode/internal/ici"
	"github.com/pkg/errors"
)

// Read returns the value of the memory cell at addr. Cells past the end of
// memory read as 0; memory is not extended. Read panics if addr is negative.
func (i *Instance) Read(addr int) Cell {
	if addr >= len(i.Mem) {
		return 0
	}
	return i.Mem[addr]
}

// Write sets the memory cell at addr to v, extending memory if necessary.
// Write panics if addr is negative.
func (i *Instance) Write(addr int, v Cell) {
	i.grow(addr + 1)
	i.Mem[addr] = v
}

// grow extends memory with zero cells so that it holds at least n cells.
func (i *Instance) grow(n int) {
	l := len(i.Mem)
	if n <= l {
		return
	}
	if n > cap(i.Mem) {
		c := 2 * cap(i.Mem)
		if c < n {
			c = n
		}
		if i.memLimit >= n && c > i.memLimit {
			c = i.memLimit
		}
		m := make([]Cell, l, c)
		copy(m, i.Mem)
		i.Mem = m
	}
	i.Mem = i.Mem[:n]
	clear(i.Mem[l:])
}

// ReadProgram parses a program listing: base 10 signed integers separated by
// commas, with optional surrounding white space.
func ReadProgram(r io.Reader) ([]Cell, error) {
	s := bufio.NewScanner(r)
	s.Split(scanCells)
	var mem []Cell
	for s.Scan() {
		t := bytes.TrimSpace(s.Bytes())
		v, err := strconv.ParseInt(string(t), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "cell %d", len(mem))
		}
		mem = append(mem, Cell(v))
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	if len(mem) == 0 {
		return nil, errors.New("empty program")
	}
	return mem, nil
}

// scanCells is a bufio.SplitFunc that splits comma separated fields. A trailing
// field made only of white space is dropped.
func scanCells(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if k := bytes.IndexByte(data, ','); k >= 0 {
		return k + 1, data[:k], nil
	}
	if !atEOF {
		return 0, nil, nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return len(data), nil, nil
	}
	return len(data), data, nil
}

// Load loads a program listing from file fileName.
func Load(fileName string) ([]Cell, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	defer f.Close()
	mem, err := ReadProgram(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", fileName)
	}
	return mem, nil
}

// WriteProgram writes mem as a program listing to w. The output is terminated
// by a newline and can be read back with ReadProgram.
func WriteProgram(w io.Writer, mem []Cell) error {
	ew := ici.NewErrWriter(w)
	var b []byte
	for k, v := range mem {
		b = b[:0]
		if k > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(v), 10)
		if _, err := ew.Write(b); err != nil {
			return err
		}
	}
	_, err := ew.Write([]byte{'\n'})
	return err
}
