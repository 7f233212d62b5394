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
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/keyboard"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/video"
	"github.com/andreas-jonsson/virtualc8/emulator/processor/validator"
	"github.com/andreas-jonsson/virtualc8/emulator/scheduler"
	"github.com/andreas-jonsson/virtualc8/platform"
	"github.com/andreas-jonsson/virtualc8/platform/dialog"
)

var defaultOptions = Options{
	Frequency:       scheduler.DefaultFrequency,
	KeyboardProfile: keyboard.DefaultProfile,
	Foreground:      video.DefaultForeground,
	Background:      video.DefaultBackground,
}

func init() {
	if p, ok := os.LookupEnv("VC8_DEFAULT_ROM"); ok {
		defaultOptions.ROM = p
	}
	if p, ok := os.LookupEnv("VC8_KEYBOARD_PROFILE"); ok {
		defaultOptions.KeyboardProfile = p
	}

	opt := &defaultOptions
	flag.StringVar(&opt.ROM, "rom", opt.ROM, "Path to program image")
	flag.IntVar(&opt.Frequency, "cpu-frequency", opt.Frequency, fmt.Sprintf("Set CPU frequency (%d-%d Hz)", scheduler.MinFrequency, scheduler.MaxFrequency))

	flag.BoolVar(&opt.Quirks.LoadStoreIgnoresI, "load-store-ignores-i", false, "Load and store instructions do not increment the I register")
	flag.BoolVar(&opt.Quirks.ShiftReadsVX, "shift-reads-vx", false, "Shift operations read the VX register instead of VY")
	flag.BoolVar(&opt.Quirks.DrawWrapsPixels, "draw-wraps-pixels", false, "Draw operations wrap pixels around the edges of the screen")

	flag.StringVar(&opt.KeyboardProfile, "kb-profile", opt.KeyboardProfile, "Keyboard profile ("+strings.Join(keyboard.Profiles(), ", ")+")")
	flag.StringVar(&opt.Foreground, "fg", opt.Foreground, "Foreground color (hex RGB)")
	flag.StringVar(&opt.Background, "bg", opt.Background, "Background color (hex RGB)")

	flag.StringVar(&opt.WavFile, "wav", "", "Record the beeper to a WAV file")
	flag.StringVar(&opt.TraceFile, "trace", "", "Record executed instructions to a JSON file (or binary if the name ends with .gz)")
}

// Start runs the program selected on the command line until shutdown is requested.
func Start(p platform.Platform) {
	opt := defaultOptions
	if opt.ROM == "" {
		opt.ROM = flag.Arg(0)
	}
	if err := run(p, opt); err != nil {
		log.Print(err)
		dialog.ShowErrorMessage(err.Error())
	}
}

func run(p platform.Platform, opt Options) error {
	if opt.TraceFile != "" {
		if !validator.Enabled {
			log.Print("Built without validator support. No trace will be recorded!")
		} else if err := validator.Initialize(p.FileSystem(), opt.TraceFile, validator.DefaultQueueSize, validator.DefaultBufferSize); err != nil {
			return err
		}
		defer validator.Shutdown()
	}

	log.Print("Quirks: ", opt.Quirks)

	s, err := NewSession(p, opt)
	if err != nil {
		return err
	}

	log.Printf("Running %s at %d Hz", opt.ROM, opt.Frequency)
	for err == nil {
		var restart bool
		if restart, err = s.runUntilInterrupted(); err != nil || !restart {
			break
		}
		log.Print("Restart!")
		err = s.Reset()
	}

	if e := s.Close(); err == nil {
		err = e
	}
	return err
}

// runUntilInterrupted reports true if the program was stopped for a restart.
func (s *Session) runUntilInterrupted() (bool, error) {
	quit := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- s.Run(quit) }()

	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			return false, err
		case <-ticker.C:
			if dialog.ShutdownRequested() {
				close(quit)
				return false, <-done
			}
			if dialog.RestartRequested() {
				close(quit)
				return true, <-done
			}
		}
	}
}
