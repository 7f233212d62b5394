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

package validator

import (
	"compress/gzip"
	"io"
	"math"

	"github.com/andreas-jonsson/virtualc8/emulator/processor"
)

// Encoder writes events in a compact big-endian binary form, gzip compressed.
type Encoder struct {
	writer *gzip.Writer
	err    error
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{writer: gzip.NewWriter(w)}
}

func (enc *Encoder) Encode(event Event) error {
	enc.appendWord(event.PC)
	enc.appendWord(event.Opcode)

	for _, regs := range [2]*processor.Registers{&event.Before, &event.After} {
		enc.appendBytes(regs.V[:]...)
		enc.appendWord(regs.I)
		enc.appendWord(regs.PC)
		enc.appendBytes(regs.SP, regs.DT, regs.ST)
		for _, v := range regs.Stack {
			enc.appendWord(v)
		}
	}

	for _, ops := range [2]*[MaxMemOps]MemOp{&event.Reads, &event.Writes} {
		for _, op := range ops {
			if op.Addr == math.MaxUint32 {
				enc.appendWord(0xFFFF)
			} else {
				enc.appendWord(uint16(op.Addr))
			}
			enc.appendBytes(op.Data)
		}
	}
	return enc.err
}

func (enc *Encoder) appendWord(v uint16) {
	enc.appendBytes(byte(v>>8), byte(v))
}

func (enc *Encoder) appendBytes(values ...byte) {
	if enc.err == nil {
		_, enc.err = enc.writer.Write(values)
	}
}

func (enc *Encoder) Close() error {
	if err := enc.writer.Close(); err != nil {
		return err
	}
	return enc.err
}
