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

package cpu

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
	"github.com/andreas-jonsson/virtualc8/emulator/processor"
	"github.com/andreas-jonsson/virtualc8/emulator/processor/validator"
)

type Config struct {
	Quirks   processor.Quirks
	Screen   processor.Screen
	Keyboard processor.Keyboard

	// Random defaults to a time seeded source.
	Random processor.Random
}

type CPU struct {
	// Read from other goroutines. Keep first for 64-bit alignment.
	atomicInstructionCounter,
	atomicKeyWaitCounter uint64

	processor.Registers

	quirks   processor.Quirks
	mem      *memory.Memory
	screen   processor.Screen
	keyboard processor.Keyboard
	rnd      processor.Random
}

func NewCPU(mem *memory.Memory, cfg Config) (*CPU, error) {
	if mem == nil || cfg.Screen == nil || cfg.Keyboard == nil {
		return nil, fmt.Errorf("%w: memory, screen and keyboard are required", processor.ErrInvalidConfiguration)
	}

	p := &CPU{
		quirks:   cfg.Quirks,
		mem:      mem,
		screen:   cfg.Screen,
		keyboard: cfg.Keyboard,
		rnd:      cfg.Random,
	}
	if p.rnd == nil {
		p.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	p.Registers.Reset()
	return p, nil
}

func (p *CPU) Reset() {
	log.Print("CPU reset!")
	p.Registers.Reset()
	p.GetStats()
}

func (p *CPU) Quirks() processor.Quirks {
	return p.quirks
}

func (p *CPU) GetRegisters() *processor.Registers {
	return &p.Registers
}

func (p *CPU) GetStats() processor.Stats {
	return processor.Stats{
		NumInstructions: atomic.SwapUint64(&p.atomicInstructionCounter, 0),
		NumKeyWaits:     atomic.SwapUint64(&p.atomicKeyWaitCounter, 0),
	}
}

// Step executes one instruction. A failed step leaves registers and memory untouched.
// If the instruction waits for a key and none is available the PC is left on it
// and StepAwaitingKey is returned.
func (p *CPU) Step() (processor.StepResult, error) {
	pc := p.PC

	word, err := p.mem.ReadWord(memory.Address(pc))
	if err != nil {
		return processor.StepExecuted, fmt.Errorf("fetch: %w", err)
	}

	inst, err := Decode(word)
	if err != nil {
		return processor.StepExecuted, &processor.OpcodeError{Word: word, PC: memory.Address(pc)}
	}

	validator.Begin(pc, word, p.Registers)
	p.PC += 2

	res, err := p.execute(inst)
	if err != nil {
		p.PC = pc
		validator.Discard()

		var oe *processor.OpcodeError
		if errors.As(err, &oe) {
			oe.Word, oe.PC = word, memory.Address(pc)
			return res, oe
		}
		return res, fmt.Errorf("%v at 0x%03X: %w", inst, pc, err)
	}

	if res == processor.StepAwaitingKey {
		p.PC = pc
		atomic.AddUint64(&p.atomicKeyWaitCounter, 1)
		validator.Discard()
		return res, nil
	}

	atomic.AddUint64(&p.atomicInstructionCounter, 1)
	validator.End(p.Registers)
	return res, nil
}

func (p *CPU) readSlice(addr uint16, n int) ([]byte, error) {
	data, err := p.mem.Slice(memory.Address(addr), n)
	if err != nil {
		return nil, err
	}
	for i, v := range data {
		validator.ReadByte(addr+uint16(i), v)
	}
	return data, nil
}

func (p *CPU) writeSlice(addr uint16, data []byte) error {
	if err := p.mem.Write(memory.Address(addr), data); err != nil {
		return err
	}
	for i, v := range data {
		validator.WriteByte(addr+uint16(i), v)
	}
	return nil
}
