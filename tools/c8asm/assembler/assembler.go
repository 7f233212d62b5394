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

package assembler

import (
	"fmt"
	"io"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
	"github.com/andreas-jonsson/virtualc8/emulator/processor/cpu"
)

// Operand slots of an instruction pattern.
type slot byte

const (
	slotX slot = iota
	slotY
	slotV0
	slotByte
	slotNibble
	slotAddr
	slotI
	slotIndirect
	slotDT
	slotST
	slotK
	slotF
	slotB
)

var slotKeywords = map[slot]string{
	slotI:        "I",
	slotIndirect: "[I]",
	slotDT:       "DT",
	slotST:       "ST",
	slotK:        "K",
	slotF:        "F",
	slotB:        "B",
}

type pattern struct {
	op    cpu.Op
	slots []slot
}

var patterns = map[string][]pattern{
	"SYS":  {{cpu.OpSYS, []slot{slotAddr}}},
	"CLS":  {{cpu.OpCLS, nil}},
	"RET":  {{cpu.OpRET, nil}},
	"JP":   {{cpu.OpJP, []slot{slotAddr}}, {cpu.OpJPV0, []slot{slotV0, slotAddr}}},
	"CALL": {{cpu.OpCALL, []slot{slotAddr}}},
	"SE":   {{cpu.OpSEByte, []slot{slotX, slotByte}}, {cpu.OpSEReg, []slot{slotX, slotY}}},
	"SNE":  {{cpu.OpSNEByte, []slot{slotX, slotByte}}, {cpu.OpSNEReg, []slot{slotX, slotY}}},
	"LD": {
		{cpu.OpLDByte, []slot{slotX, slotByte}},
		{cpu.OpLDReg, []slot{slotX, slotY}},
		{cpu.OpLDI, []slot{slotI, slotAddr}},
		{cpu.OpLDVxDT, []slot{slotX, slotDT}},
		{cpu.OpLDVxK, []slot{slotX, slotK}},
		{cpu.OpLDDTVx, []slot{slotDT, slotX}},
		{cpu.OpLDSTVx, []slot{slotST, slotX}},
		{cpu.OpLDF, []slot{slotF, slotX}},
		{cpu.OpLDB, []slot{slotB, slotX}},
		{cpu.OpStore, []slot{slotIndirect, slotX}},
		{cpu.OpLoad, []slot{slotX, slotIndirect}},
	},
	"ADD": {
		{cpu.OpADDByte, []slot{slotX, slotByte}},
		{cpu.OpADDReg, []slot{slotX, slotY}},
		{cpu.OpADDI, []slot{slotI, slotX}},
	},
	"OR":   {{cpu.OpOR, []slot{slotX, slotY}}},
	"AND":  {{cpu.OpAND, []slot{slotX, slotY}}},
	"XOR":  {{cpu.OpXOR, []slot{slotX, slotY}}},
	"SUB":  {{cpu.OpSUB, []slot{slotX, slotY}}},
	"SHR":  {{cpu.OpSHR, []slot{slotX, slotY}}},
	"SUBN": {{cpu.OpSUBN, []slot{slotX, slotY}}},
	"SHL":  {{cpu.OpSHL, []slot{slotX, slotY}}},
	"RND":  {{cpu.OpRND, []slot{slotX, slotByte}}},
	"DRW":  {{cpu.OpDRW, []slot{slotX, slotY, slotNibble}}},
	"SKP":  {{cpu.OpSKP, []slot{slotX}}},
	"SKNP": {{cpu.OpSKNP, []slot{slotX}}},
	"SKPN": {{cpu.OpSKNP, []slot{slotX}}},
}

func (s slot) accepts(o operand) bool {
	switch s {
	case slotX, slotY:
		return o.kind == registerOperand
	case slotV0:
		return o.kind == registerOperand && o.value == 0
	case slotByte:
		return o.kind == numberOperand && o.value <= 0xFF
	case slotNibble:
		return o.kind == numberOperand && o.value <= 0xF
	case slotAddr:
		return o.kind == labelOperand || (o.kind == numberOperand && o.value <= 0xFFF)
	default:
		return o.kind == keywordOperand && o.name == slotKeywords[s]
	}
}

func match(mnemonic string, operands []operand) (cpu.Op, error) {
	candidates, ok := patterns[mnemonic]
	if !ok {
		return cpu.OpInvalid, fmt.Errorf("%w: unknown instruction %q", ErrSyntax, mnemonic)
	}

next:
	for _, p := range candidates {
		if len(p.slots) != len(operands) {
			continue
		}
		for i, s := range p.slots {
			if !s.accepts(operands[i]) {
				continue next
			}
		}
		return p.op, nil
	}
	return cpu.OpInvalid, fmt.Errorf("%w: invalid operands for %s", ErrSyntax, mnemonic)
}

func slotsOf(op cpu.Op) []slot {
	for _, candidates := range patterns {
		for _, p := range candidates {
			if p.op == op {
				return p.slots
			}
		}
	}
	return nil
}

// Labels assigns an address to every label. Programs start at 0x200.
func Labels(lines []Line) (map[string]uint16, error) {
	addr := uint16(memory.ProgramStart)
	labels := make(map[string]uint16)

	for _, l := range lines {
		if l.Label != "" {
			if _, ok := labels[l.Label]; ok {
				return nil, fmt.Errorf("line %d: %w: %q", l.Num, ErrDuplicateLabel, l.Label)
			}
			labels[l.Label] = addr
		}
		addr += uint16(l.Size())
	}
	return labels, nil
}

func encode(l *Line, labels map[string]uint16) (uint16, error) {
	inst := cpu.Instruction{Op: l.Op}
	for i, s := range slotsOf(l.Op) {
		o := l.Operands[i]
		switch s {
		case slotX:
			inst.X = byte(o.value)
		case slotY:
			inst.Y = byte(o.value)
		case slotByte:
			inst.KK = byte(o.value)
		case slotNibble:
			inst.N = byte(o.value)
		case slotAddr:
			inst.NNN = o.value
			if o.kind == labelOperand {
				addr, ok := labels[o.name]
				if !ok {
					return 0, fmt.Errorf("line %d: %w: %q", l.Num, ErrUnknownLabel, o.name)
				}
				if addr > 0xFFF {
					return 0, fmt.Errorf("line %d: %w: %q is at 0x%X", l.Num, ErrLabelRange, o.name, addr)
				}
				inst.NNN = addr
			}
		}
	}
	return inst.Encode(), nil
}

// Generate encodes parsed lines into a program image.
func Generate(lines []Line, w io.Writer) error {
	labels, err := Labels(lines)
	if err != nil {
		return err
	}

	for i := range lines {
		l := &lines[i]
		if l.Op == cpu.OpInvalid {
			if _, err := w.Write(l.Data); err != nil {
				return err
			}
			continue
		}

		word, err := encode(l, labels)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte{byte(word >> 8), byte(word)}); err != nil {
			return err
		}
	}
	return nil
}

// Assemble parses source from r and writes the program image to w.
func Assemble(r io.Reader, w io.Writer) error {
	lines, err := Parse(r)
	if err != nil {
		return err
	}
	return Generate(lines, w)
}

// Disassemble writes source for a program image. Odd trailing bytes become data.
func Disassemble(program []byte, w io.Writer) error {
	for i := 0; i < len(program); i += 2 {
		addr := int(memory.ProgramStart) + i

		var err error
		if i+1 < len(program) {
			word := uint16(program[i])<<8 | uint16(program[i+1])
			_, err = fmt.Fprintf(w, "\t%-20s# 0x%03X: %04X\n", cpu.Disassemble(word), addr, word)
		} else {
			_, err = fmt.Fprintf(w, "\t%-20s# 0x%03X\n", fmt.Sprintf("0x%02X", program[i]), addr)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
