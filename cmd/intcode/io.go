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
	"bufio"
	"io"
	"strconv"

	"github.com/db47h/intcode/internal/ici"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// numReader reads decimal values separated by white space or commas.
type numReader struct {
	r      *bufio.Reader
	prompt func() error
}

func newNumReader(r io.Reader) *numReader {
	return &numReader{r: bufio.NewReader(r)}
}

func isSep(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == ','
}

func (n *numReader) next() (vm.Cell, bool, error) {
	if n.prompt != nil {
		if err := n.prompt(); err != nil {
			return 0, false, err
		}
	}
	var tok []byte
	for {
		c, err := n.r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, false, errors.Wrap(err, "read failed")
		}
		if isSep(c) {
			if len(tok) > 0 {
				break
			}
			continue
		}
		tok = append(tok, c)
	}
	if len(tok) == 0 {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(string(tok), 10, 64)
	if err != nil {
		return 0, false, errors.Wrap(err, "bad input value")
	}
	return vm.Cell(v), true, nil
}

func (n *numReader) Input() vm.InHandler {
	return func(*vm.Instance) (vm.Cell, bool, error) { return n.next() }
}

// numWriter writes values in decimal, one per line.
func numWriter(w io.Writer) vm.OutHandler {
	ew := ici.NewErrWriter(w)
	var b []byte
	return func(_ *vm.Instance, v vm.Cell) error {
		b = strconv.AppendInt(b[:0], int64(v), 10)
		b = append(b, '\n')
		_, err := ew.Write(b)
		return err
	}
}

// rawReader handles the line discipline for a terminal in raw mode: input is
// echoed to w, CTRL-D ends the input, CR is read as a newline and backspace
// erases the last character typed.
type rawReader struct {
	r    io.Reader
	w    io.Writer
	buf  []byte // line being edited
	line []byte // completed line, not yet read
	eof  bool
}

func (r *rawReader) Read(p []byte) (int, error) {
	if len(r.line) > 0 {
		n := copy(p, r.line)
		r.line = r.line[n:]
		return n, nil
	}
	if r.eof {
		return 0, io.EOF
	}
	var c [1]byte
	for {
		n, err := r.r.Read(c[:])
		if n == 0 {
			if err == nil {
				continue
			}
			return 0, err
		}
		switch c[0] {
		case 4:
			if len(r.buf) == 0 {
				r.eof = true
				return 0, io.EOF
			}
			// flush the pending line, as a tty would
			r.line, r.buf = r.buf, nil
			n = copy(p, r.line)
			r.line = r.line[n:]
			return n, nil
		case 8, 127:
			if len(r.buf) > 0 {
				r.buf = r.buf[:len(r.buf)-1]
				if _, err = r.w.Write([]byte{8, ' ', 8}); err != nil {
					return 0, err
				}
			}
			continue
		case '\r':
			c[0] = '\n'
		}
		if _, err = r.w.Write(c[:]); err != nil {
			return 0, err
		}
		r.buf = append(r.buf, c[0])
		if c[0] != '\n' {
			continue
		}
		r.line, r.buf = r.buf, nil
		n = copy(p, r.line)
		r.line = r.line[n:]
		return n, nil
	}
}

// crlfWriter turns LF into CRLF for terminals with output processing disabled.
type crlfWriter struct {
	w io.Writer
}

func (w crlfWriter) Write(p []byte) (int, error) {
	var n int
	for len(p) > 0 {
		k := 0
		for k < len(p) && p[k] != '\n' {
			k++
		}
		m, err := w.w.Write(p[:k])
		n += m
		if err != nil {
			return n, err
		}
		if k == len(p) {
			break
		}
		if _, err = w.w.Write([]byte("\r\n")); err != nil {
			return n, err
		}
		n++
		p = p[k+1:]
	}
	return n, nil
}
