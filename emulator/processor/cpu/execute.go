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
	"github.com/andreas-jonsson/virtualc8/emulator/memory"
	"github.com/andreas-jonsson/virtualc8/emulator/processor"
)

const addressMask = 0xFFF

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (p *CPU) skipIf(b bool) {
	if b {
		p.PC += 2
	}
}

func (p *CPU) execute(inst Instruction) (processor.StepResult, error) {
	v := &p.V
	x, y := inst.X, inst.Y

	switch inst.Op {
	case OpSYS:
		// Machine code routines are not supported.
		return processor.StepExecuted, &processor.OpcodeError{}
	case OpCLS:
		p.screen.Clear()
	case OpRET:
		addr, err := p.Pop()
		if err != nil {
			return processor.StepExecuted, err
		}
		p.PC = addr
	case OpJP:
		p.PC = inst.NNN
	case OpCALL:
		if err := p.Push(p.PC); err != nil {
			return processor.StepExecuted, err
		}
		p.PC = inst.NNN
	case OpSEByte:
		p.skipIf(v[x] == inst.KK)
	case OpSNEByte:
		p.skipIf(v[x] != inst.KK)
	case OpSEReg:
		p.skipIf(v[x] == v[y])
	case OpLDByte:
		v[x] = inst.KK
	case OpADDByte:
		v[x] += inst.KK
	case OpLDReg:
		v[x] = v[y]
	case OpOR:
		v[x] |= v[y]
	case OpAND:
		v[x] &= v[y]
	case OpXOR:
		v[x] ^= v[y]
	case OpADDReg:
		sum := uint16(v[x]) + uint16(v[y])
		v[x] = byte(sum)
		v[0xF] = flag(sum > 0xFF)
	case OpSUB:
		a, b := v[x], v[y]
		v[x] = a - b
		v[0xF] = flag(a >= b)
	case OpSUBN:
		a, b := v[x], v[y]
		v[x] = b - a
		v[0xF] = flag(b >= a)
	case OpSHR:
		src := p.shiftSource(x, y)
		v[x] = src >> 1
		v[0xF] = src & 1
	case OpSHL:
		src := p.shiftSource(x, y)
		v[x] = src << 1
		v[0xF] = src >> 7
	case OpSNEReg:
		p.skipIf(v[x] != v[y])
	case OpLDI:
		p.I = inst.NNN
	case OpJPV0:
		p.PC = inst.NNN + uint16(v[0])
	case OpRND:
		v[x] = byte(p.rnd.Intn(0x100)) & inst.KK
	case OpDRW:
		return processor.StepExecuted, p.draw(x, y, inst.N)
	case OpSKP:
		key := v[x]
		p.skipIf(key < processor.NumKeys && p.keyboard.IsKeyDown(key))
	case OpSKNP:
		key := v[x]
		p.skipIf(key < processor.NumKeys && !p.keyboard.IsKeyDown(key))
	case OpLDVxDT:
		v[x] = p.DT
	case OpLDVxK:
		key, ok := p.keyboard.WaitForKey()
		if !ok {
			return processor.StepAwaitingKey, nil
		}
		v[x] = key
	case OpLDDTVx:
		p.DT = v[x]
	case OpLDSTVx:
		p.ST = v[x]
	case OpADDI:
		p.I = (p.I + uint16(v[x])) & addressMask
	case OpLDF:
		p.I = uint16(memory.GlyphAddress(v[x]))
	case OpLDB:
		n := v[x]
		return processor.StepExecuted, p.writeSlice(p.I, []byte{n / 100, n / 10 % 10, n % 10})
	case OpStore:
		if err := p.writeSlice(p.I, v[:x+1]); err != nil {
			return processor.StepExecuted, err
		}
		p.advanceI(x)
	case OpLoad:
		data, err := p.readSlice(p.I, int(x)+1)
		if err != nil {
			return processor.StepExecuted, err
		}
		copy(v[:], data)
		p.advanceI(x)
	default:
		return processor.StepExecuted, &processor.OpcodeError{}
	}
	return processor.StepExecuted, nil
}

func (p *CPU) shiftSource(x, y byte) byte {
	if p.quirks.ShiftReadsVX {
		return p.V[x]
	}
	return p.V[y]
}

func (p *CPU) advanceI(x byte) {
	if !p.quirks.LoadStoreIgnoresI {
		p.I = (p.I + uint16(x) + 1) & addressMask
	}
}

// draw XORs an n byte sprite from I onto the screen at (Vx, Vy).
// The origin always wraps; pixels past the edge wrap or clip depending on quirks.
func (p *CPU) draw(x, y, n byte) error {
	sprite, err := p.readSlice(p.I, int(n))
	if err != nil {
		return err
	}

	ox := int(p.V[x]) % processor.ScreenWidth
	oy := int(p.V[y]) % processor.ScreenHeight
	wrap := p.quirks.DrawWrapsPixels

	var collision bool
	for row, data := range sprite {
		py := oy + row
		if py >= processor.ScreenHeight {
			if !wrap {
				break
			}
			py %= processor.ScreenHeight
		}

		for bit := 0; bit < 8; bit++ {
			if data&(0x80>>bit) == 0 {
				continue
			}

			px := ox + bit
			if px >= processor.ScreenWidth {
				if !wrap {
					break
				}
				px %= processor.ScreenWidth
			}

			on := p.screen.Pixel(px, py)
			collision = collision || on
			p.screen.SetPixel(px, py, !on)
		}
	}

	p.V[0xF] = flag(collision)
	return nil
}
