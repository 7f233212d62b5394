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

package memory

import (
	"bytes"
	"errors"
	"testing"
)

func TestFontIsLoaded(t *testing.T) {
	m := New()
	for i, v := range Font {
		if r, err := m.ReadByte(FontAddress + Address(i)); err != nil {
			t.Fatal(err)
		} else if r != v {
			t.Errorf("Invalid font byte at offset %d! (Got 0x%X but expected 0x%X)", i, r, v)
		}
	}
	if a := GlyphAddress(0xA); a != 50 {
		t.Errorf("Invalid glyph address! (Got 0x%X but expected 0x%X)", a, 50)
	}
}

func TestBounds(t *testing.T) {
	m := New()

	if _, err := m.ReadByte(Size - 1); err != nil {
		t.Error(err)
	}
	if _, err := m.ReadByte(Size); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected out of bounds, got %v", err)
	}
	if err := m.WriteByte(Size, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected out of bounds, got %v", err)
	}
	if _, err := m.ReadWord(Size - 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected out of bounds, got %v", err)
	}
	if _, err := m.Slice(Size-2, 3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected out of bounds, got %v", err)
	}
}

func TestPartialWriteIsRejected(t *testing.T) {
	m := New()
	if err := m.Write(Size-2, []byte{1, 2, 3}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected out of bounds, got %v", err)
	}
	if v, _ := m.ReadByte(Size - 2); v != 0 {
		t.Errorf("Memory was modified! (Got 0x%X but expected 0x%X)", v, 0)
	}
}

func TestLoad(t *testing.T) {
	m := New()
	n, err := m.Load(bytes.NewReader([]byte{0x00, 0xE0, 0x12, 0x00}))
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("Invalid size! (Got %d but expected %d)", n, 4)
	}
	if w, _ := m.ReadWord(ProgramStart + 2); w != 0x1200 {
		t.Errorf("Invalid word! (Got 0x%X but expected 0x%X)", w, 0x1200)
	}

	if _, err := m.Load(bytes.NewReader(make([]byte, MaxProgramSize))); err != nil {
		t.Error(err)
	}
	if _, err := m.Load(bytes.NewReader(make([]byte, MaxProgramSize+1))); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected out of bounds, got %v", err)
	}
}
