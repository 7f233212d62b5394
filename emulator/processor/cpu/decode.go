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
	"fmt"

	"github.com/andreas-jonsson/virtualc8/emulator/processor"
)

type Op byte

const (
	OpInvalid Op = iota
	OpSYS
	OpCLS
	OpRET
	OpJP
	OpCALL
	OpSEByte
	OpSNEByte
	OpSEReg
	OpLDByte
	OpADDByte
	OpLDReg
	OpOR
	OpAND
	OpXOR
	OpADDReg
	OpSUB
	OpSHR
	OpSUBN
	OpSHL
	OpSNEReg
	OpLDI
	OpJPV0
	OpRND
	OpDRW
	OpSKP
	OpSKNP
	OpLDVxDT
	OpLDVxK
	OpLDDTVx
	OpLDSTVx
	OpADDI
	OpLDF
	OpLDB
	OpStore
	OpLoad

	numOps
)

type layout byte

const (
	noOperands layout = iota
	addrOperand
	regByteOperands
	regRegOperands
	regOperand
	drawOperands
)

type opInfo struct {
	base   uint16
	layout layout
	format string
}

var opTable = [numOps]opInfo{
	OpSYS:     {0x0000, addrOperand, "SYS 0x%03X"},
	OpCLS:     {0x00E0, noOperands, "CLS"},
	OpRET:     {0x00EE, noOperands, "RET"},
	OpJP:      {0x1000, addrOperand, "JP 0x%03X"},
	OpCALL:    {0x2000, addrOperand, "CALL 0x%03X"},
	OpSEByte:  {0x3000, regByteOperands, "SE V%X, 0x%02X"},
	OpSNEByte: {0x4000, regByteOperands, "SNE V%X, 0x%02X"},
	OpSEReg:   {0x5000, regRegOperands, "SE V%X, V%X"},
	OpLDByte:  {0x6000, regByteOperands, "LD V%X, 0x%02X"},
	OpADDByte: {0x7000, regByteOperands, "ADD V%X, 0x%02X"},
	OpLDReg:   {0x8000, regRegOperands, "LD V%X, V%X"},
	OpOR:      {0x8001, regRegOperands, "OR V%X, V%X"},
	OpAND:     {0x8002, regRegOperands, "AND V%X, V%X"},
	OpXOR:     {0x8003, regRegOperands, "XOR V%X, V%X"},
	OpADDReg:  {0x8004, regRegOperands, "ADD V%X, V%X"},
	OpSUB:     {0x8005, regRegOperands, "SUB V%X, V%X"},
	OpSHR:     {0x8006, regRegOperands, "SHR V%X, V%X"},
	OpSUBN:    {0x8007, regRegOperands, "SUBN V%X, V%X"},
	OpSHL:     {0x800E, regRegOperands, "SHL V%X, V%X"},
	OpSNEReg:  {0x9000, regRegOperands, "SNE V%X, V%X"},
	OpLDI:     {0xA000, addrOperand, "LD I, 0x%03X"},
	OpJPV0:    {0xB000, addrOperand, "JP V0, 0x%03X"},
	OpRND:     {0xC000, regByteOperands, "RND V%X, 0x%02X"},
	OpDRW:     {0xD000, drawOperands, "DRW V%X, V%X, %d"},
	OpSKP:     {0xE09E, regOperand, "SKP V%X"},
	OpSKNP:    {0xE0A1, regOperand, "SKNP V%X"},
	OpLDVxDT:  {0xF007, regOperand, "LD V%X, DT"},
	OpLDVxK:   {0xF00A, regOperand, "LD V%X, K"},
	OpLDDTVx:  {0xF015, regOperand, "LD DT, V%X"},
	OpLDSTVx:  {0xF018, regOperand, "LD ST, V%X"},
	OpADDI:    {0xF01E, regOperand, "ADD I, V%X"},
	OpLDF:     {0xF029, regOperand, "LD F, V%X"},
	OpLDB:     {0xF033, regOperand, "LD B, V%X"},
	OpStore:   {0xF055, regOperand, "LD [I], V%X"},
	OpLoad:    {0xF065, regOperand, "LD V%X, [I]"},
}

// Instruction is a decoded instruction word.
// Only the operand fields used by Op are set.
type Instruction struct {
	Op      Op
	X, Y, N byte
	KK      byte
	NNN     uint16
}

func newInstruction(op Op, word uint16) Instruction {
	inst := Instruction{Op: op}
	switch opTable[op].layout {
	case addrOperand:
		inst.NNN = word & 0xFFF
	case regByteOperands:
		inst.X = byte(word>>8) & 0xF
		inst.KK = byte(word)
	case regRegOperands:
		inst.X = byte(word>>8) & 0xF
		inst.Y = byte(word>>4) & 0xF
	case regOperand:
		inst.X = byte(word>>8) & 0xF
	case drawOperands:
		inst.X = byte(word>>8) & 0xF
		inst.Y = byte(word>>4) & 0xF
		inst.N = byte(word) & 0xF
	}
	return inst
}

// Decode fails with an *processor.OpcodeError for words that are not instructions.
func Decode(word uint16) (Instruction, error) {
	op := decodeOp(word)
	if op == OpInvalid {
		return Instruction{}, &processor.OpcodeError{Word: word}
	}
	return newInstruction(op, word), nil
}

func decodeOp(word uint16) Op {
	n := word & 0xF
	kk := word & 0xFF

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x0000:
			return OpInvalid
		case 0x00E0:
			return OpCLS
		case 0x00EE:
			return OpRET
		}
		return OpSYS
	case 0x1:
		return OpJP
	case 0x2:
		return OpCALL
	case 0x3:
		return OpSEByte
	case 0x4:
		return OpSNEByte
	case 0x5:
		if n == 0 {
			return OpSEReg
		}
	case 0x6:
		return OpLDByte
	case 0x7:
		return OpADDByte
	case 0x8:
		switch n {
		case 0x0:
			return OpLDReg
		case 0x1:
			return OpOR
		case 0x2:
			return OpAND
		case 0x3:
			return OpXOR
		case 0x4:
			return OpADDReg
		case 0x5:
			return OpSUB
		case 0x6:
			return OpSHR
		case 0x7:
			return OpSUBN
		case 0xE:
			return OpSHL
		}
	case 0x9:
		if n == 0 {
			return OpSNEReg
		}
	case 0xA:
		return OpLDI
	case 0xB:
		return OpJPV0
	case 0xC:
		return OpRND
	case 0xD:
		return OpDRW
	case 0xE:
		switch kk {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF:
		switch kk {
		case 0x07:
			return OpLDVxDT
		case 0x0A:
			return OpLDVxK
		case 0x15:
			return OpLDDTVx
		case 0x18:
			return OpLDSTVx
		case 0x1E:
			return OpADDI
		case 0x29:
			return OpLDF
		case 0x33:
			return OpLDB
		case 0x55:
			return OpStore
		case 0x65:
			return OpLoad
		}
	}
	return OpInvalid
}

// Encode returns the instruction word. Operands are masked to their field width.
func (i Instruction) Encode() uint16 {
	if i.Op == OpInvalid || i.Op >= numOps {
		return 0
	}

	info := &opTable[i.Op]
	word := info.base
	x, y := uint16(i.X&0xF)<<8, uint16(i.Y&0xF)<<4

	switch info.layout {
	case addrOperand:
		word |= i.NNN & 0xFFF
	case regByteOperands:
		word |= x | uint16(i.KK)
	case regRegOperands:
		word |= x | y
	case regOperand:
		word |= x
	case drawOperands:
		word |= x | y | uint16(i.N&0xF)
	}
	return word
}

func (i Instruction) String() string {
	if i.Op == OpInvalid || i.Op >= numOps {
		return "???"
	}

	info := &opTable[i.Op]
	switch info.layout {
	case addrOperand:
		return fmt.Sprintf(info.format, i.NNN)
	case regByteOperands:
		return fmt.Sprintf(info.format, i.X, i.KK)
	case regRegOperands:
		return fmt.Sprintf(info.format, i.X, i.Y)
	case regOperand:
		return fmt.Sprintf(info.format, i.X)
	case drawOperands:
		return fmt.Sprintf(info.format, i.X, i.Y, i.N)
	default:
		return info.format
	}
}

// Disassemble formats a word, or a data directive if it is not an instruction.
func Disassemble(word uint16) string {
	if inst, err := Decode(word); err == nil {
		return inst.String()
	}
	return fmt.Sprintf("0x%02X, 0x%02X", byte(word>>8), byte(word))
}
