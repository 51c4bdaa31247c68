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

// The intcode command line tool runs Intcode programs, interactively or as a
// ring of machines, and is a showcase for the package
// github.com/db47h/intcode/vm.
//
// Usage:
//
//	-ascii
//		  ASCII I/O: values 0-127 are characters
//	-debug
//		  enable debug diagnostics
//	-dump
//		  dump machine state upon exit
//	-input values
//		  comma separated values queued as input before starting (can be specified multiple times)
//	-max-steps n
//		  check for timeout and interrupts every n instructions, 0 to disable (env INTCODE_MAX_STEPS) (default 1048576)
//	-mem-limit int
//		  memory limit in cells, 0 for none (env INTCODE_MEM_LIMIT) (default 16777216)
//	-node-input values
//		  comma separated values queued as input to the next ring node (can be specified multiple times)
//	-program filename
//		  Load program listing from file filename (default "input.txt")
//	-raw
//		  switch the terminal to raw mode in ASCII mode
//	-ring n
//		  run n copies of the program in a feedback ring
//	-set addr=value
//		  set memory cell before starting, as addr=value (can be specified multiple times)
//	-timeout duration
//		  abort after duration, 0 for none (env INTCODE_TIMEOUT)
//	-with filename
//		  Add filename to the input list (can be specified multiple times)
//
// In the default numeric mode, input values are read from stdin as decimal
// numbers separated by white space or commas, and each output value is
// printed on its own line. A prompt is printed on stderr when stdin is a
// terminal. In ASCII mode, input bytes are fed as is and output values that
// are not characters are printed in decimal on a line of their own.
//
// The program stops with an error if it waits for input after the end of
// input has been reached.
//
// -raw: in ASCII mode, switch the terminal to raw mode if stdin is a terminal.
// Input is echoed by intcode itself; CTRL-D ends the input.
//
// -ring: run n copies of the program concurrently, the output of each machine
// being fed to the next one and the output of the last machine to the first.
// Values given with -input are fed to the first machine. The first -node-input
// flag gives the initial input of the first machine, the second one of the
// second machine, and so on. The values produced by the last machine are
// printed once all machines have stopped.
//
// -with: feed the specified file to the program as input before stdin. If
// specified multiple times, files will be fed in order of appearance on the
// command line.
//
// -max-steps: machines return control every n instructions so that timeouts
// and interrupts can be honored. With 0, a running program can only be
// stopped by killing the process.
//
// -debug: will print a full stacktrace and machine registers should a machine
// fault. Debug logging of ring activity is also enabled.
package main
