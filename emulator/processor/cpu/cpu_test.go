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
	"errors"
	"testing"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
	"github.com/andreas-jonsson/virtualc8/emulator/processor"
)

type testScreen struct {
	pixels [processor.ScreenWidth][processor.ScreenHeight]bool
	clears int
}

func (s *testScreen) Clear() {
	s.pixels = [processor.ScreenWidth][processor.ScreenHeight]bool{}
	s.clears++
}

func (s *testScreen) Pixel(x, y int) bool {
	return s.pixels[x][y]
}

func (s *testScreen) SetPixel(x, y int, on bool) {
	s.pixels[x][y] = on
}

func (s *testScreen) count() (n int) {
	for _, col := range s.pixels {
		for _, on := range col {
			if on {
				n++
			}
		}
	}
	return
}

type testKeyboard struct {
	down    [processor.NumKeys]bool
	pressed []byte
	polls   int
}

func (k *testKeyboard) IsKeyDown(key byte) bool {
	return k.down[key]
}

func (k *testKeyboard) WaitForKey() (byte, bool) {
	k.polls++
	if len(k.pressed) == 0 {
		return 0, false
	}
	key := k.pressed[0]
	k.pressed = k.pressed[1:]
	return key, true
}

type fixedRandom int

func (r fixedRandom) Intn(int) int {
	return int(r)
}

func newTestCPU(t *testing.T, quirks processor.Quirks, program ...uint16) (*CPU, *testScreen, *testKeyboard) {
	mem := memory.New()

	var rom []byte
	for _, w := range program {
		rom = append(rom, byte(w>>8), byte(w))
	}
	if err := mem.LoadBytes(rom); err != nil {
		t.Fatal(err)
	}

	scr, kb := &testScreen{}, &testKeyboard{}
	p, err := NewCPU(mem, Config{Quirks: quirks, Screen: scr, Keyboard: kb, Random: fixedRandom(0xAB)})
	if err != nil {
		t.Fatal(err)
	}
	return p, scr, kb
}

func run(t *testing.T, p *CPU, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		if _, err := p.Step(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNewCPUValidation(t *testing.T) {
	if _, err := NewCPU(memory.New(), Config{}); !errors.Is(err, processor.ErrInvalidConfiguration) {
		t.Errorf("expected invalid configuration, got %v", err)
	}
}

func TestInstructions(t *testing.T) {
	type regs map[int]byte

	cases := []struct {
		name    string
		program []uint16
		v       regs
		i       int
	}{
		{"add carry", []uint16{0x60FF, 0x6102, 0x8014}, regs{0: 0x01, 0xF: 1}, -1},
		{"add no carry", []uint16{0x6010, 0x6120, 0x8014}, regs{0: 0x30, 0xF: 0}, -1},
		{"add to VF", []uint16{0x6FFF, 0x6102, 0x8F14}, regs{0xF: 1}, -1},
		{"add byte wraps", []uint16{0x60FF, 0x7002}, regs{0: 0x01, 0xF: 0}, -1},
		{"sub", []uint16{0x6030, 0x6110, 0x8015}, regs{0: 0x20, 0xF: 1}, -1},
		{"sub borrow", []uint16{0x6010, 0x6130, 0x8015}, regs{0: 0xE0, 0xF: 0}, -1},
		{"sub equal", []uint16{0x6010, 0x6110, 0x8015}, regs{0: 0x00, 0xF: 1}, -1},
		{"subn", []uint16{0x6010, 0x6130, 0x8017}, regs{0: 0x20, 0xF: 1}, -1},
		{"subn borrow", []uint16{0x6030, 0x6110, 0x8017}, regs{0: 0xE0, 0xF: 0}, -1},
		{"or", []uint16{0x60F0, 0x610F, 0x8011}, regs{0: 0xFF}, -1},
		{"and", []uint16{0x60F0, 0x610F, 0x8012}, regs{0: 0x00}, -1},
		{"xor", []uint16{0x60FF, 0x610F, 0x8013}, regs{0: 0xF0}, -1},
		{"ld reg", []uint16{0x6142, 0x8010}, regs{0: 0x42, 1: 0x42}, -1},
		{"shr", []uint16{0x6001, 0x6105, 0x8016}, regs{0: 0x02, 1: 0x05, 0xF: 1}, -1},
		{"shl", []uint16{0x6001, 0x6181, 0x801E}, regs{0: 0x02, 1: 0x81, 0xF: 1}, -1},
		{"rnd", []uint16{0xC00F}, regs{0: 0x0B}, -1},
		{"timers", []uint16{0x6007, 0xF015, 0xF118, 0xF207}, regs{2: 7}, -1},
		{"ld i", []uint16{0xA123}, nil, 0x123},
		{"add i wraps", []uint16{0xAFFF, 0x6002, 0xF01E}, nil, 0x001},
		{"ld f", []uint16{0x600A, 0xF029}, nil, 50},
		{"ld f low nibble", []uint16{0x601A, 0xF029}, nil, 50},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, _, _ := newTestCPU(t, processor.Quirks{}, c.program...)
			run(t, p, len(c.program))

			for r, e := range c.v {
				if p.V[r] != e {
					t.Errorf("Invalid V%X! (Got 0x%X but expected 0x%X)", r, p.V[r], e)
				}
			}
			if c.i >= 0 && p.I != uint16(c.i) {
				t.Errorf("Invalid I! (Got 0x%X but expected 0x%X)", p.I, c.i)
			}
			if e := uint16(0x200 + 2*len(c.program)); p.PC != e {
				t.Errorf("Invalid PC! (Got 0x%X but expected 0x%X)", p.PC, e)
			}
		})
	}
}

func TestTimerRegisters(t *testing.T) {
	p, _, _ := newTestCPU(t, processor.Quirks{}, 0x6009, 0xF015, 0xF018)
	run(t, p, 3)
	if p.DT != 9 || p.ST != 9 {
		t.Errorf("Invalid timers! DT=%d ST=%d", p.DT, p.ST)
	}
}

func TestSkips(t *testing.T) {
	cases := []struct {
		name    string
		program []uint16
		down    int
		skip    bool
	}{
		{"se byte", []uint16{0x6005, 0x3005}, -1, true},
		{"se byte no", []uint16{0x6005, 0x3006}, -1, false},
		{"sne byte", []uint16{0x6005, 0x4006}, -1, true},
		{"se reg", []uint16{0x6005, 0x6105, 0x5010}, -1, true},
		{"sne reg", []uint16{0x6005, 0x6105, 0x9010}, -1, false},
		{"skp", []uint16{0x6003, 0xE09E}, 3, true},
		{"skp up", []uint16{0x6003, 0xE09E}, -1, false},
		{"sknp", []uint16{0x6003, 0xE0A1}, -1, true},
		{"sknp down", []uint16{0x6003, 0xE0A1}, 3, false},
		{"skp invalid key", []uint16{0x6020, 0xE09E}, -1, false},
		{"sknp invalid key", []uint16{0x6020, 0xE0A1}, -1, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, _, kb := newTestCPU(t, processor.Quirks{}, c.program...)
			if c.down >= 0 {
				kb.down[c.down] = true
			}
			run(t, p, len(c.program))

			e := uint16(0x200 + 2*len(c.program))
			if c.skip {
				e += 2
			}
			if p.PC != e {
				t.Errorf("Invalid PC! (Got 0x%X but expected 0x%X)", p.PC, e)
			}
		})
	}
}

func TestControlFlow(t *testing.T) {
	// 0x200: CALL 0x206; 0x202: JP 0x202; 0x204: -; 0x206: RET
	p, _, _ := newTestCPU(t, processor.Quirks{}, 0x2206, 0x1202, 0x0000, 0x00EE)
	run(t, p, 1)
	if p.PC != 0x206 || p.SP != 1 || p.Stack[0] != 0x202 {
		t.Fatalf("Invalid call state! %v", &p.Registers)
	}
	run(t, p, 1)
	if p.PC != 0x202 || p.SP != 0 {
		t.Fatalf("Invalid return state! %v", &p.Registers)
	}
	run(t, p, 3)
	if p.PC != 0x202 {
		t.Errorf("Invalid PC! (Got 0x%X but expected 0x%X)", p.PC, 0x202)
	}

	p, _, _ = newTestCPU(t, processor.Quirks{}, 0x6004, 0xB300)
	run(t, p, 2)
	if p.PC != 0x304 {
		t.Errorf("Invalid PC! (Got 0x%X but expected 0x%X)", p.PC, 0x304)
	}
}

func TestStackDepth(t *testing.T) {
	// Every instruction calls the next one.
	var program []uint16
	for i := 0; i < processor.StackDepth+1; i++ {
		program = append(program, 0x2000|uint16(0x202+2*i))
	}

	p, _, _ := newTestCPU(t, processor.Quirks{}, program...)
	run(t, p, processor.StackDepth)

	before := p.Registers
	_, err := p.Step()
	if !errors.Is(err, processor.ErrStackOverflow) {
		t.Fatalf("expected stack overflow, got %v", err)
	}
	if p.Registers != before {
		t.Error("registers changed by failed call")
	}

	p, _, _ = newTestCPU(t, processor.Quirks{}, 0x00EE)
	if _, err := p.Step(); !errors.Is(err, processor.ErrStackUnderflow) {
		t.Fatalf("expected stack underflow, got %v", err)
	}
	if p.PC != 0x200 {
		t.Errorf("Invalid PC! (Got 0x%X but expected 0x%X)", p.PC, 0x200)
	}
}

func TestCallReturnAlternating(t *testing.T) {
	// 0x200: CALL 0x204; 0x202: JP 0x200; 0x204: RET
	p, _, _ := newTestCPU(t, processor.Quirks{}, 0x2204, 0x1200, 0x00EE)
	run(t, p, 3*processor.StackDepth*4)
	if p.SP != 0 && p.SP != 1 {
		t.Errorf("Invalid stack depth %d", p.SP)
	}
}

func TestInvalidOpcodeStep(t *testing.T) {
	for _, word := range []uint16{0x5561, 0x0123} {
		p, _, _ := newTestCPU(t, processor.Quirks{}, 0x6001, word)
		run(t, p, 1)

		_, err := p.Step()
		var oe *processor.OpcodeError
		if !errors.As(err, &oe) || !errors.Is(err, processor.ErrInvalidOpcode) {
			t.Fatalf("expected opcode error, got %v", err)
		}
		if oe.Word != word || oe.PC != 0x202 {
			t.Errorf("Invalid error payload: %v", oe)
		}
		if p.PC != 0x202 {
			t.Errorf("Invalid PC! (Got 0x%X but expected 0x%X)", p.PC, 0x202)
		}
	}
}

func TestFetchOutOfBounds(t *testing.T) {
	p, _, _ := newTestCPU(t, processor.Quirks{}, 0x1FFF)
	run(t, p, 1)
	if _, err := p.Step(); !errors.Is(err, processor.ErrOutOfBounds) {
		t.Fatalf("expected out of bounds, got %v", err)
	}
}

func TestFailedStepCommitsNothing(t *testing.T) {
	cases := []struct {
		name    string
		program []uint16
	}{
		{"store", []uint16{0x6011, 0xAFFE, 0xF355}},
		{"load", []uint16{0x6011, 0xAFFE, 0xF365}},
		{"bcd", []uint16{0x60FF, 0xAFFE, 0xF033}},
		{"draw", []uint16{0x6011, 0xAFFE, 0xD005}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, scr, _ := newTestCPU(t, processor.Quirks{}, c.program...)
			run(t, p, len(c.program)-1)

			before := p.Registers
			tail, _ := p.mem.Slice(0xFFE, 2)

			if _, err := p.Step(); !errors.Is(err, processor.ErrOutOfBounds) {
				t.Fatalf("expected out of bounds, got %v", err)
			}
			if p.Registers != before {
				t.Errorf("registers changed: %v", &p.Registers)
			}
			if after, _ := p.mem.Slice(0xFFE, 2); after[0] != tail[0] || after[1] != tail[1] {
				t.Error("memory changed")
			}
			if scr.count() != 0 {
				t.Error("screen changed")
			}
		})
	}
}

func TestBCD(t *testing.T) {
	p, _, _ := newTestCPU(t, processor.Quirks{}, 0x60FB, 0xA300, 0xF033)
	run(t, p, 3)

	data, _ := p.mem.Slice(0x300, 3)
	for i, e := range []byte{2, 5, 1} {
		if data[i] != e {
			t.Errorf("Invalid digit %d! (Got %d but expected %d)", i, data[i], e)
		}
	}
	if p.I != 0x300 {
		t.Errorf("Invalid I! (Got 0x%X but expected 0x%X)", p.I, 0x300)
	}
}

func TestLoadStoreQuirk(t *testing.T) {
	program := []uint16{0x6011, 0x6122, 0x6233, 0xA300, 0xF255, 0xA300, 0xF365}

	for _, ignore := range []bool{false, true} {
		p, _, _ := newTestCPU(t, processor.Quirks{LoadStoreIgnoresI: ignore}, program[:5]...)
		run(t, p, 5)

		data, _ := p.mem.Slice(0x300, 4)
		for i, e := range []byte{0x11, 0x22, 0x33, 0x00} {
			if data[i] != e {
				t.Errorf("Invalid memory at %d! (Got 0x%X but expected 0x%X)", i, data[i], e)
			}
		}

		e := uint16(0x303)
		if ignore {
			e = 0x300
		}
		if p.I != e {
			t.Errorf("Invalid I after store! (Got 0x%X but expected 0x%X)", p.I, e)
		}

		p, _, _ = newTestCPU(t, processor.Quirks{LoadStoreIgnoresI: ignore}, program[3:4]...)
		p.mem.Write(0x300, []byte{0xA, 0xB, 0xC, 0xD})
		p.mem.Write(0x202, []byte{0xF3, 0x65})
		run(t, p, 2)

		for i, e := range []byte{0xA, 0xB, 0xC, 0xD} {
			if p.V[i] != e {
				t.Errorf("Invalid V%X! (Got 0x%X but expected 0x%X)", i, p.V[i], e)
			}
		}
		e = 0x304
		if ignore {
			e = 0x300
		}
		if p.I != e {
			t.Errorf("Invalid I after load! (Got 0x%X but expected 0x%X)", p.I, e)
		}
	}
}

func TestShiftQuirk(t *testing.T) {
	cases := []struct {
		word   uint16
		quirk  bool
		vx, vf byte
	}{
		{0x8016, false, 0x02, 1}, // SHR V0, V1 reads V1=0x05
		{0x8016, true, 0x40, 0},  // reads V0=0x80
		{0x801E, false, 0x0A, 0}, // SHL reads V1
		{0x801E, true, 0x00, 1},  // reads V0
	}

	for _, c := range cases {
		p, _, _ := newTestCPU(t, processor.Quirks{ShiftReadsVX: c.quirk}, 0x6080, 0x6105, c.word)
		run(t, p, 3)
		if p.V[0] != c.vx || p.V[0xF] != c.vf {
			t.Errorf("Invalid shift 0x%04X quirk=%v! (Got 0x%X,%d but expected 0x%X,%d)", c.word, c.quirk, p.V[0], p.V[0xF], c.vx, c.vf)
		}
		if p.V[1] != 0x05 {
			t.Errorf("Source register was modified! (Got 0x%X but expected 0x%X)", p.V[1], 0x05)
		}
	}
}

func TestDrawXOR(t *testing.T) {
	// LD I, font(0); LD V0, 10; LD V1, 3; DRW V0, V1, 5 twice
	p, scr, _ := newTestCPU(t, processor.Quirks{}, 0xA000, 0x600A, 0x6103, 0xD015, 0xD015)
	run(t, p, 4)

	if n := scr.count(); n != 14 {
		t.Fatalf("Invalid pixel count! (Got %d but expected %d)", n, 14)
	}
	if !scr.pixels[10][3] || !scr.pixels[13][3] || scr.pixels[11][4] {
		t.Error("invalid glyph")
	}
	if p.V[0xF] != 0 {
		t.Errorf("Invalid collision flag! (Got %d but expected %d)", p.V[0xF], 0)
	}

	run(t, p, 1)
	if n := scr.count(); n != 0 {
		t.Errorf("Invalid pixel count! (Got %d but expected %d)", n, 0)
	}
	if p.V[0xF] != 1 {
		t.Errorf("Invalid collision flag! (Got %d but expected %d)", p.V[0xF], 1)
	}
}

func TestDrawWrapQuirk(t *testing.T) {
	// Draw the "0" glyph at (62, 30).
	program := []uint16{0xA000, 0x603E, 0x611E, 0xD015}

	p, scr, _ := newTestCPU(t, processor.Quirks{}, program...)
	run(t, p, len(program))
	if n := scr.count(); n != 3 {
		t.Errorf("Invalid clipped pixel count! (Got %d but expected %d)", n, 3)
	}

	p, scr, _ = newTestCPU(t, processor.Quirks{DrawWrapsPixels: true}, program...)
	run(t, p, len(program))
	if n := scr.count(); n != 14 {
		t.Errorf("Invalid wrapped pixel count! (Got %d but expected %d)", n, 14)
	}
	if !scr.pixels[0][30] || !scr.pixels[1][0] {
		t.Error("pixels did not wrap")
	}

	// The origin wraps regardless of quirks.
	p, scr, _ = newTestCPU(t, processor.Quirks{}, 0xA000, 0x6045, 0x6122, 0xD011)
	run(t, p, 4)
	if !scr.pixels[5][2] || scr.count() != 4 {
		t.Error("origin did not wrap")
	}
}

func TestScenarioDrawLoop(t *testing.T) {
	p, scr, _ := newTestCPU(t, processor.Quirks{}, 0x00E0, 0x6005, 0xD001, 0x1200)

	for loop := 0; loop < 100; loop++ {
		run(t, p, 3)
		for x := 0; x < processor.ScreenWidth; x++ {
			for y := 0; y < processor.ScreenHeight; y++ {
				e := y == 5 && x >= 5 && x < 9
				if scr.pixels[x][y] != e {
					t.Fatalf("Invalid pixel at (%d,%d) in loop %d", x, y, loop)
				}
			}
		}
		run(t, p, 1)
		if p.PC != 0x200 {
			t.Fatalf("Invalid PC! (Got 0x%X but expected 0x%X)", p.PC, 0x200)
		}
	}
	if scr.clears != 100 {
		t.Errorf("Invalid number of clears! (Got %d but expected %d)", scr.clears, 100)
	}
}

func TestKeyWait(t *testing.T) {
	p, _, kb := newTestCPU(t, processor.Quirks{}, 0xF30A, 0x1202)

	for i := 0; i < 10; i++ {
		res, err := p.Step()
		if err != nil {
			t.Fatal(err)
		}
		if res != processor.StepAwaitingKey {
			t.Fatalf("Invalid step result! (Got %v but expected %v)", res, processor.StepAwaitingKey)
		}
		if p.PC != 0x200 {
			t.Fatalf("Invalid PC! (Got 0x%X but expected 0x%X)", p.PC, 0x200)
		}
	}

	kb.pressed = []byte{0xC}
	if res, err := p.Step(); err != nil || res != processor.StepExecuted {
		t.Fatalf("unexpected step result: %v %v", res, err)
	}
	if p.V[3] != 0xC || p.PC != 0x202 {
		t.Errorf("Invalid key wait result! %v", &p.Registers)
	}

	s := p.GetStats()
	if s.NumKeyWaits != 10 || s.NumInstructions != 1 {
		t.Errorf("Invalid stats: %+v", s)
	}
}
