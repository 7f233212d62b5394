/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package memory

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
)

const (
	Size = 0x1000

	ProgramStart Address = 0x200
	FontAddress  Address = 0x000

	MaxProgramSize = Size - int(ProgramStart)
)

var ErrOutOfBounds = errors.New("address out of bounds")

type Address uint16

func (a Address) String() string {
	return fmt.Sprintf("0x%03X", uint16(a))
}

func (a Address) inRange(n int) bool {
	return n >= 0 && int(a)+n <= Size
}

// Memory is the flat 4KB address space of the machine.
// The font glyphs are placed at FontAddress on reset.
type Memory struct {
	bytes [Size]byte
}

func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

func (m *Memory) Reset() {
	m.bytes = [Size]byte{}
	copy(m.bytes[FontAddress:], Font[:])
}

// Load copies a program image from r into memory at ProgramStart.
func (m *Memory) Load(r io.Reader) (int, error) {
	program, err := ioutil.ReadAll(io.LimitReader(r, int64(MaxProgramSize)+1))
	if err != nil {
		return 0, err
	}
	if err := m.LoadBytes(program); err != nil {
		return 0, err
	}
	return len(program), nil
}

func (m *Memory) LoadBytes(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: program is %d bytes, max is %d", ErrOutOfBounds, len(program), MaxProgramSize)
	}
	return m.Write(ProgramStart, program)
}

func (m *Memory) ReadByte(addr Address) (byte, error) {
	if !addr.inRange(1) {
		return 0, fmt.Errorf("%w: read at %v", ErrOutOfBounds, addr)
	}
	return m.bytes[addr], nil
}

func (m *Memory) WriteByte(addr Address, data byte) error {
	if !addr.inRange(1) {
		return fmt.Errorf("%w: write at %v", ErrOutOfBounds, addr)
	}
	m.bytes[addr] = data
	return nil
}

// ReadWord reads a big-endian word.
func (m *Memory) ReadWord(addr Address) (uint16, error) {
	if !addr.inRange(2) {
		return 0, fmt.Errorf("%w: word read at %v", ErrOutOfBounds, addr)
	}
	return uint16(m.bytes[addr])<<8 | uint16(m.bytes[addr+1]), nil
}

// Slice returns a copy of n bytes starting at addr.
func (m *Memory) Slice(addr Address, n int) ([]byte, error) {
	if !addr.inRange(n) {
		return nil, fmt.Errorf("%w: read of %d bytes at %v", ErrOutOfBounds, n, addr)
	}
	data := make([]byte, n)
	copy(data, m.bytes[addr:])
	return data, nil
}

// Write stores data at addr. Nothing is written unless the whole range fits.
func (m *Memory) Write(addr Address, data []byte) error {
	if !addr.inRange(len(data)) {
		return fmt.Errorf("%w: write of %d bytes at %v", ErrOutOfBounds, len(data), addr)
	}
	copy(m.bytes[addr:], data)
	return nil
}
