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
	"errors"
	"testing"
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
	"github.com/andreas-jonsson/virtualc8/emulator/peripheral/timer"
	"github.com/andreas-jonsson/virtualc8/emulator/processor"
	"github.com/andreas-jonsson/virtualc8/emulator/processor/cpu"
)

type recorder struct {
	events       []byte
	steps, ticks int
	result       processor.StepResult
	err          error
}

func (r *recorder) Step() (processor.StepResult, error) {
	r.events = append(r.events, 'S')
	r.steps++
	return r.result, r.err
}

func (r *recorder) Tick() {
	r.events = append(r.events, 'T')
	r.ticks++
}

func (r *recorder) Sync() {}

func newRecorder(t *testing.T, hz int) (*recorder, *Scheduler) {
	rec := &recorder{}
	s, err := New(rec, rec, hz)
	if err != nil {
		t.Fatal(err)
	}
	return rec, s
}

func TestValidateFrequency(t *testing.T) {
	for _, hz := range []int{-1, 0, MaxFrequency + 1, 100000} {
		if err := ValidateFrequency(hz); !errors.Is(err, processor.ErrInvalidConfiguration) {
			t.Errorf("frequency %d was accepted", hz)
		}
		if _, err := New(&recorder{}, &recorder{}, hz); err == nil {
			t.Errorf("scheduler created with frequency %d", hz)
		}
	}
	for _, hz := range []int{MinFrequency, DefaultFrequency, MaxFrequency} {
		if err := ValidateFrequency(hz); err != nil {
			t.Error(err)
		}
	}
}

func TestRates(t *testing.T) {
	rec, s := newRecorder(t, DefaultFrequency)
	for i := 0; i < 100; i++ {
		if err := s.Advance(10 * time.Millisecond); err != nil {
			t.Fatal(err)
		}
	}
	if rec.steps != DefaultFrequency {
		t.Errorf("Invalid number of steps! (Got %d but expected %d)", rec.steps, DefaultFrequency)
	}
	if rec.ticks != TimerFrequency {
		t.Errorf("Invalid number of ticks! (Got %d but expected %d)", rec.ticks, TimerFrequency)
	}
}

func TestTimerIndependentOfFrequency(t *testing.T) {
	for _, hz := range []int{MinFrequency, 60, 1000, MaxFrequency} {
		rec, s := newRecorder(t, hz)
		for i := 0; i < 50; i++ {
			s.Advance(20 * time.Millisecond)
		}
		if rec.ticks != TimerFrequency {
			t.Errorf("Invalid number of ticks at %d Hz! (Got %d but expected %d)", hz, rec.ticks, TimerFrequency)
		}
	}
}

func TestChronologicalOrder(t *testing.T) {
	rec, s := newRecorder(t, 120)
	if err := s.Advance(50 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if e := "STSSTSSTS"; string(rec.events) != e {
		t.Errorf("Invalid event order! (Got %s but expected %s)", rec.events, e)
	}
}

func TestKeyWaitPollsOncePerCycle(t *testing.T) {
	rec, s := newRecorder(t, DefaultFrequency)
	rec.result = processor.StepAwaitingKey

	s.Advance(100 * time.Millisecond)
	if rec.steps != 1 {
		t.Errorf("Invalid number of polls! (Got %d but expected %d)", rec.steps, 1)
	}
	if rec.ticks != 6 {
		t.Errorf("Invalid number of ticks! (Got %d but expected %d)", rec.ticks, 6)
	}

	s.Advance(10 * time.Millisecond)
	if rec.steps != 2 {
		t.Errorf("Invalid number of polls! (Got %d but expected %d)", rec.steps, 2)
	}

	rec.result = processor.StepExecuted
	s.Advance(10 * time.Millisecond)
	if rec.steps != 7 {
		t.Errorf("Invalid number of steps! (Got %d but expected %d)", rec.steps, 7)
	}
}

func TestMaxLag(t *testing.T) {
	rec, s := newRecorder(t, DefaultFrequency)
	s.Advance(10 * time.Second)
	if rec.steps == 0 || rec.steps > 51 {
		t.Errorf("Invalid number of steps after stall: %d", rec.steps)
	}
	if rec.ticks == 0 || rec.ticks > 7 {
		t.Errorf("Invalid number of ticks after stall: %d", rec.ticks)
	}
}

func TestErrorStopsAdvance(t *testing.T) {
	rec, s := newRecorder(t, DefaultFrequency)
	rec.err = errors.New("step failed")
	if err := s.Advance(time.Second / 10); err != rec.err {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.steps != 1 {
		t.Errorf("Invalid number of steps! (Got %d but expected %d)", rec.steps, 1)
	}
}

func TestRun(t *testing.T) {
	rec, s := newRecorder(t, MaxFrequency)
	quit := make(chan struct{})
	done := make(chan error)

	go func() { done <- s.Run(quit) }()
	time.Sleep(50 * time.Millisecond)
	close(quit)

	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if rec.steps == 0 {
		t.Error("no steps executed")
	}
}

type nullScreen struct{}

func (nullScreen) Clear()                {}
func (nullScreen) Pixel(int, int) bool   { return false }
func (nullScreen) SetPixel(int, int, bool) {}

type idleKeyboard struct{}

func (idleKeyboard) IsKeyDown(byte) bool       { return false }
func (idleKeyboard) WaitForKey() (byte, bool) { return 0, false }

type countingBeeper struct {
	starts, stops int
}

func (b *countingBeeper) Start() { b.starts++ }
func (b *countingBeeper) Stop()  { b.stops++ }

func newMachine(t *testing.T, program ...byte) (*cpu.CPU, *countingBeeper, *Scheduler) {
	mem := memory.New()
	if err := mem.LoadBytes(program); err != nil {
		t.Fatal(err)
	}

	p, err := cpu.NewCPU(mem, cpu.Config{Screen: nullScreen{}, Keyboard: idleKeyboard{}})
	if err != nil {
		t.Fatal(err)
	}

	b := &countingBeeper{}
	tm := &timer.Device{Beeper: b}
	if err := tm.Install(p); err != nil {
		t.Fatal(err)
	}

	s, err := New(p, tm, DefaultFrequency)
	if err != nil {
		t.Fatal(err)
	}
	return p, b, s
}

func TestBeeperStartsAndStopsOnce(t *testing.T) {
	// LD V0, 3; LD ST, V0; JP 0x204
	_, b, s := newMachine(t, 0x60, 0x03, 0xF0, 0x18, 0x12, 0x04)
	for i := 0; i < 100; i++ {
		if err := s.Advance(10 * time.Millisecond); err != nil {
			t.Fatal(err)
		}
	}
	if b.starts != 1 || b.stops != 1 {
		t.Errorf("Invalid beeper calls! (Got %d/%d but expected 1/1)", b.starts, b.stops)
	}
}

func TestKeyWaitKeepsTimersRunning(t *testing.T) {
	// LD V0, 30; LD DT, V0; LD V1, K
	p, _, s := newMachine(t, 0x60, 0x1E, 0xF0, 0x15, 0xF1, 0x0A)

	last := byte(0xFF)
	for i := 0; i < 40; i++ {
		if err := s.Advance(16 * time.Millisecond); err != nil {
			t.Fatal(err)
		}
		if p.PC != 0x204 {
			t.Fatalf("Invalid PC! (Got 0x%X but expected 0x%X)", p.PC, 0x204)
		}
		if p.DT > last {
			t.Fatalf("Delay timer increased from %d to %d", last, p.DT)
		}
		last = p.DT
	}
	if p.DT != 0 {
		t.Errorf("Invalid delay timer! (Got %d but expected %d)", p.DT, 0)
	}
}
