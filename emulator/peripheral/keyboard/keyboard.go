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

package keyboard

import (
	"errors"

	"github.com/andreas-jonsson/virtualc8/emulator/processor"
	"github.com/andreas-jonsson/virtualc8/platform"
)

const MaxEvents = 64

// Device is the hexadecimal keypad. Host key events are queued by
// SendKeyEvent and applied on the processor goroutine when it polls.
type Device struct {
	Profile string

	keymap  map[string]byte
	events  chan platform.KeyEvent
	down    [processor.NumKeys]bool
	waiting bool
	pressed int
}

func (m *Device) Install(processor.Processor) error {
	var err error
	if m.keymap, err = LookupProfile(m.Profile); err != nil {
		return err
	}
	m.events = make(chan platform.KeyEvent, MaxEvents)
	m.pressed = -1
	return nil
}

func (m *Device) Name() string {
	return "Hexadecimal Keypad"
}

func (m *Device) Reset() {
	m.down = [processor.NumKeys]bool{}
	m.waiting = false
	m.pressed = -1
	for {
		select {
		case <-m.events:
		default:
			return
		}
	}
}

// SendKeyEvent can be called from any goroutine.
func (m *Device) SendKeyEvent(ev platform.KeyEvent) error {
	if _, ok := m.keymap[ev.Name]; !ok {
		return errors.New("unknown key")
	}
	return m.pushEvent(ev)
}

func (m *Device) pushEvent(ev platform.KeyEvent) error {
	select {
	case m.events <- ev:
		return nil
	default:
		return errors.New("event queue is full")
	}
}

func (m *Device) processEvents() {
	for {
		select {
		case ev := <-m.events:
			key := m.keymap[ev.Name]
			m.down[key] = !ev.Up
			if !ev.Up && m.waiting && m.pressed < 0 {
				m.pressed = int(key)
			}
		default:
			return
		}
	}
}

func (m *Device) IsKeyDown(key byte) bool {
	m.processEvents()
	return int(key) < len(m.down) && m.down[key]
}

// WaitForKey registers interest on the first call. Later calls report the
// first key pressed after that.
func (m *Device) WaitForKey() (byte, bool) {
	m.processEvents()

	if !m.waiting {
		m.waiting = true
		m.pressed = -1
		return 0, false
	}

	if m.pressed < 0 {
		return 0, false
	}

	key := byte(m.pressed)
	m.waiting = false
	m.pressed = -1
	return key, true
}
