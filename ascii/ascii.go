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

// Package ascii provides helpers for Intcode programs that talk ASCII over
// their input and output queues: values 0 to 127 are characters, anything else
// is a plain number.
package ascii

import (
	"bufio"
	"io"
	"strconv"

	"github.com/db47h/intcode/internal/ici"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// MaxChar is the largest value treated as a character.
const MaxChar = 127

// IsChar returns true if v is an ASCII character.
func IsChar(v vm.Cell) bool {
	return v >= 0 && v <= MaxChar
}

// Encode returns the cells for the bytes of s.
func Encode(s string) []vm.Cell {
	cells := make([]vm.Cell, len(s))
	for k := 0; k < len(s); k++ {
		cells[k] = vm.Cell(s[k])
	}
	return cells
}

// Line returns the cells for s followed by a newline.
func Line(s string) []vm.Cell {
	return append(Encode(s), '\n')
}

// Decode splits cells into text and numbers. Characters are concatenated in
// order into the returned string, other values are returned in order in the
// cell slice.
func Decode(cells []vm.Cell) (string, []vm.Cell) {
	var (
		text []byte
		nums []vm.Cell
	)
	for _, c := range cells {
		if IsChar(c) {
			text = append(text, byte(c))
		} else {
			nums = append(nums, c)
		}
	}
	return string(text), nums
}

// Writer renders output values to an io.Writer: characters are written as
// is, other values are written in decimal on a line of their own.
type Writer struct {
	w   *ici.ErrWriter
	eol bool // last byte written was a newline, or nothing written yet
}

// NewWriter returns a new Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: ici.NewErrWriter(w), eol: true}
}

// WriteCell writes v.
func (w *Writer) WriteCell(v vm.Cell) error {
	if IsChar(v) {
		_, err := w.w.Write([]byte{byte(v)})
		w.eol = v == '\n'
		return err
	}
	b := make([]byte, 0, 24)
	if !w.eol {
		b = append(b, '\n')
	}
	b = strconv.AppendInt(b, int64(v), 10)
	b = append(b, '\n')
	w.eol = true
	_, err := w.w.Write(b)
	return err
}

// Output returns a vm.OutHandler that writes values with WriteCell.
func (w *Writer) Output() vm.OutHandler {
	return func(_ *vm.Instance, v vm.Cell) error { return w.WriteCell(v) }
}

// Reader feeds input bytes to a machine, one cell per byte.
type Reader struct {
	r *bufio.Reader
}

// NewReader returns a new Reader reading from r.
func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{br}
	}
	return &Reader{bufio.NewReader(r)}
}

// ReadCell returns the next byte as a cell. It returns false on io.EOF.
func (r *Reader) ReadCell() (vm.Cell, bool, error) {
	c, err := r.r.ReadByte()
	switch err {
	case nil:
		return vm.Cell(c), true, nil
	case io.EOF:
		return 0, false, nil
	}
	return 0, false, errors.Wrap(err, "read failed")
}

// Input returns a vm.InHandler that reads values with ReadCell.
func (r *Reader) Input() vm.InHandler {
	return func(*vm.Instance) (vm.Cell, bool, error) { return r.ReadCell() }
}
