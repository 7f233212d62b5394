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

package scheduler

import (
	"fmt"
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/processor"
)

const (
	MinFrequency     = 1
	MaxFrequency     = 5000
	DefaultFrequency = 500
	TimerFrequency   = 60

	DefaultMaxLag = 100 * time.Millisecond
	CycleTime     = 2 * time.Millisecond
)

type Stepper interface {
	Step() (processor.StepResult, error)
}

type Timer interface {
	Tick()
	Sync()
}

func ValidateFrequency(hz int) error {
	if hz < MinFrequency || hz > MaxFrequency {
		return fmt.Errorf("%w: CPU frequency %d Hz is outside %d-%d Hz", processor.ErrInvalidConfiguration, hz, MinFrequency, MaxFrequency)
	}
	return nil
}

// Scheduler interleaves processor steps and timer ticks on a virtual clock.
// The clock is advanced by wall-clock time from the caller.
type Scheduler struct {
	// MaxLag bounds how far behind the clock may fall before work is dropped.
	MaxLag time.Duration

	cpu   Stepper
	timer Timer

	cpuPeriod, timerPeriod time.Duration
	now, nextStep, nextTick time.Duration
}

func New(cpu Stepper, timer Timer, frequency int) (*Scheduler, error) {
	if err := ValidateFrequency(frequency); err != nil {
		return nil, err
	}

	s := &Scheduler{
		MaxLag:      DefaultMaxLag,
		cpu:         cpu,
		timer:       timer,
		cpuPeriod:   time.Second / time.Duration(frequency),
		timerPeriod: time.Second / TimerFrequency,
	}
	s.Reset()
	return s, nil
}

// Reset restarts the step and tick cycles from the current time. Now keeps counting.
func (s *Scheduler) Reset() {
	s.nextStep = s.now + s.cpuPeriod
	s.nextTick = s.now + s.timerPeriod
}

func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Advance runs all steps and ticks that are due after elapsed time, in
// chronological order. A tick and a step due at the same time runs the tick first.
// If the processor waits for a key the remaining steps of this call are skipped
// while timer ticks still run. The wait is polled again at the next CPU period after
// the elapsed time, so at most once per call.
func (s *Scheduler) Advance(elapsed time.Duration) error {
	s.now += elapsed

	if oldest := s.now - s.MaxLag; s.MaxLag > 0 {
		if s.nextStep < oldest {
			s.nextStep = oldest
		}
		if s.nextTick < oldest {
			s.nextTick = oldest
		}
	}

	var awaitingKey bool
	for {
		stepDue := !awaitingKey && s.nextStep <= s.now
		tickDue := s.nextTick <= s.now

		if tickDue && (!stepDue || s.nextTick <= s.nextStep) {
			s.timer.Tick()
			s.nextTick += s.timerPeriod
			continue
		}
		if !stepDue {
			break
		}

		res, err := s.cpu.Step()
		s.nextStep += s.cpuPeriod
		if err != nil {
			return err
		}
		s.timer.Sync()

		awaitingKey = res == processor.StepAwaitingKey
	}

	if awaitingKey && s.nextStep <= s.now {
		s.nextStep += ((s.now-s.nextStep)/s.cpuPeriod + 1) * s.cpuPeriod
	}
	return nil
}

// Run advances the scheduler from the wall clock until quit is closed or the processor fails.
func (s *Scheduler) Run(quit <-chan struct{}) error {
	ticker := time.NewTicker(CycleTime)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-quit:
			return nil
		case t := <-ticker.C:
			if err := s.Advance(t.Sub(last)); err != nil {
				return err
			}
			last = t
		}
	}
}
