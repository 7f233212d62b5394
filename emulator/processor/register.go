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
	"fmt"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
)

const StackDepth = 16

type Registers struct {
	V     [16]byte
	I     uint16
	PC    uint16
	SP    byte
	Stack [StackDepth]uint16
	DT    byte
	ST    byte
}

func (r *Registers) Reset() {
	*r = Registers{PC: uint16(memory.ProgramStart)}
}

func (r *Registers) Push(addr uint16) error {
	if int(r.SP) >= StackDepth {
		return fmt.Errorf("%w: call from 0x%03X", ErrStackOverflow, r.PC)
	}
	r.Stack[r.SP] = addr
	r.SP++
	return nil
}

func (r *Registers) Pop() (uint16, error) {
	if r.SP == 0 {
		return 0, fmt.Errorf("%w: return to nothing at 0x%03X", ErrStackUnderflow, r.PC)
	}
	r.SP--
	return r.Stack[r.SP], nil
}

func (r *Registers) String() string {
	return fmt.Sprintf("PC=0x%03X I=0x%03X SP=%d DT=%d ST=%d V=% X", r.PC, r.I, r.SP, r.DT, r.ST, r.V[:])
}
