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

package processor

import (
	"errors"
	"fmt"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
)

const (
	ScreenWidth  = 64
	ScreenHeight = 32
	NumKeys      = 16
)

var (
	ErrOutOfBounds          = memory.ErrOutOfBounds
	ErrInvalidOpcode        = errors.New("invalid opcode")
	ErrStackOverflow        = errors.New("stack overflow")
	ErrStackUnderflow       = errors.New("stack underflow")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// OpcodeError is returned for instruction words the processor can not execute.
type OpcodeError struct {
	Word uint16
	PC   memory.Address
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode 0x%04X at %v", e.Word, e.PC)
}

func (e *OpcodeError) Is(target error) bool {
	return target == ErrInvalidOpcode
}

// Quirks toggle deviations from the original interpreter.
// The zero value gives standard behaviour.
type Quirks struct {
	LoadStoreIgnoresI bool
	ShiftReadsVX      bool
	DrawWrapsPixels   bool
}

func (q Quirks) String() string {
	return fmt.Sprintf("load-store-ignores-i=%v shift-reads-vx=%v draw-wraps-pixels=%v", q.LoadStoreIgnoresI, q.ShiftReadsVX, q.DrawWrapsPixels)
}

// Screen is the 64x32 monochrome display. Coordinates passed by the processor are always in range.
type Screen interface {
	Clear()
	Pixel(x, y int) bool
	SetPixel(x, y int, on bool)
}

type Keyboard interface {
	IsKeyDown(key byte) bool

	// WaitForKey never blocks. The first call starts a wait and later calls
	// report the first key pressed after that.
	WaitForKey() (byte, bool)
}

type Beeper interface {
	Start()
	Stop()
}

type Random interface {
	Intn(n int) int
}

type StepResult int

const (
	StepExecuted StepResult = iota
	StepAwaitingKey
)

func (r StepResult) String() string {
	switch r {
	case StepExecuted:
		return "executed"
	case StepAwaitingKey:
		return "awaiting key"
	default:
		return "unknown"
	}
}

type Stats struct {
	NumInstructions uint64
	NumKeyWaits     uint64
}

type Debug interface {
	GetStats() Stats
}

type Processor interface {
	Debug
	GetRegisters() *Registers
	Quirks() Quirks
}
