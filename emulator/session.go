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

package emulator

import (
	"fmt"
	"log"
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/keyboard"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/speaker"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/timer"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/video"
	"github.com/andreas-jonsson/virtualc8/emulator/processor"
	"github.com/andreas-jonsson/virtualc8/emulator/processor/cpu"
	"github.com/andreas-jonsson/virtualc8/emulator/scheduler"
	"github.com/andreas-jonsson/virtualc8/platform"
)

type Options struct {
	ROM       string
	Frequency int
	Quirks    processor.Quirks

	KeyboardProfile        string
	Foreground, Background string

	WavFile   string
	TraceFile string

	// Random defaults to a time seeded source.
	Random processor.Random
}

// Session is one loaded program with its own memory, processor and devices.
type Session struct {
	Memory    *memory.Memory
	CPU       *cpu.CPU
	Timer     *timer.Device
	Scheduler *scheduler.Scheduler
	Display   *video.Device
	Keyboard  *keyboard.Device

	rom         string
	platform    platform.Platform
	peripherals []peripheral.Peripheral
}

func NewSession(p platform.Platform, opt Options) (*Session, error) {
	if err := scheduler.ValidateFrequency(opt.Frequency); err != nil {
		return nil, err
	}

	s := &Session{
		Memory:   memory.New(),
		Display:  &video.Device{Foreground: opt.Foreground, Background: opt.Background, Platform: p},
		Keyboard: &keyboard.Device{Profile: opt.KeyboardProfile},
		rom:      opt.ROM,
		platform: p,
	}

	if err := s.loadROM(opt.ROM); err != nil {
		return nil, err
	}

	var err error
	if s.CPU, err = cpu.NewCPU(s.Memory, cpu.Config{
		Quirks:   opt.Quirks,
		Screen:   s.Display,
		Keyboard: s.Keyboard,
		Random:   opt.Random,
	}); err != nil {
		return nil, err
	}

	beepers := peripheral.Beepers{}
	s.peripherals = []peripheral.Peripheral{
		s.Display,  // Display
		s.Keyboard, // Keypad
	}

	spkr := &speaker.Device{Platform: p}
	beepers = append(beepers, spkr)
	s.peripherals = append(s.peripherals, spkr)

	if opt.WavFile != "" {
		rec := &speaker.WavRecorder{
			FileSystem: p.FileSystem(),
			FileName:   opt.WavFile,
			Now:        func() time.Duration { return s.Scheduler.Now() },
		}
		beepers = append(beepers, rec)
		s.peripherals = append(s.peripherals, rec)
	}

	s.Timer = &timer.Device{Beeper: beepers}
	s.peripherals = append(s.peripherals, s.Timer)

	if s.Scheduler, err = scheduler.New(s.CPU, s.Timer, opt.Frequency); err != nil {
		return nil, err
	}

	for i, d := range s.peripherals {
		log.Print("Install: ", d.Name())
		if err := d.Install(s.CPU); err != nil {
			closePeripherals(s.peripherals[:i])
			return nil, fmt.Errorf("%s: %w", d.Name(), err)
		}
	}

	p.SetKeyboardHandler(func(ev platform.KeyEvent) {
		s.Keyboard.SendKeyEvent(ev)
	})
	return s, nil
}

func (s *Session) loadROM(name string) error {
	if name == "" {
		return fmt.Errorf("%w: no program image selected", processor.ErrInvalidConfiguration)
	}

	fp, err := s.platform.FileSystem().Open(name)
	if err != nil {
		return err
	}
	defer fp.Close()

	n, err := s.Memory.Load(fp)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Printf("Loaded %d bytes from %s", n, name)
	return nil
}

// Reset reloads the program image and restarts it.
func (s *Session) Reset() error {
	s.Memory.Reset()
	if err := s.loadROM(s.rom); err != nil {
		return err
	}

	s.CPU.Reset()
	for _, d := range s.peripherals {
		d.Reset()
	}
	s.Scheduler.Reset()
	return nil
}

// Run executes the program until quit is closed or the processor fails.
func (s *Session) Run(quit <-chan struct{}) error {
	return s.Scheduler.Run(quit)
}

func (s *Session) Close() error {
	s.platform.SetKeyboardHandler(nil)
	return closePeripherals(s.peripherals)
}

func closePeripherals(peripherals []peripheral.Peripheral) error {
	var err error
	for _, d := range peripherals {
		if c, ok := d.(peripheral.PeripheralCloser); ok {
			if e := c.Close(); e != nil && err == nil {
				err = e
			}
		}
	}
	return err
}
