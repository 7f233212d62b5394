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

package timer

import (
	"errors"

	"github.com/andreas-jonsson/virtualc8/emulator/peripheral"
	"github.com/andreas-jonsson/virtualc8/emulator/processor"
)

const Frequency = 60

// Device drives the delay and sound timers and signals the beeper when
// the sound timer changes between zero and non-zero.
type Device struct {
	Beeper processor.Beeper

	regs    *processor.Registers
	beeping bool
	ticks   uint64
}

func (m *Device) Install(p processor.Processor) error {
	if m.regs = p.GetRegisters(); m.regs == nil {
		return errors.New("processor has no registers")
	}
	if m.Beeper == nil {
		m.Beeper = &peripheral.NullBeeper{}
	}
	return nil
}

func (m *Device) Name() string {
	return "Delay & Sound Timer"
}

func (m *Device) Reset() {
	if m.beeping {
		m.Beeper.Stop()
	}
	m.beeping = false
	m.ticks = 0
}

// Tick is called at Frequency.
func (m *Device) Tick() {
	if m.regs.DT > 0 {
		m.regs.DT--
	}
	if m.regs.ST > 0 {
		m.regs.ST--
	}
	m.ticks++
	m.Sync()
}

// Sync notifies the beeper of sound timer transitions made by the processor.
func (m *Device) Sync() {
	if on := m.regs.ST > 0; on != m.beeping {
		m.beeping = on
		if on {
			m.Beeper.Start()
		} else {
			m.Beeper.Stop()
		}
	}
}

func (m *Device) Beeping() bool {
	return m.beeping
}

func (m *Device) Ticks() uint64 {
	return m.ticks
}
