// +build validator

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
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/processor"
	"github.com/spf13/afero"
)

var errDiskFull = errors.New("disk full")

type fullFile struct {
	afero.File
}

func (fullFile) Write([]byte) (int, error) {
	return 0, errDiskFull
}

type fullFs struct {
	afero.Fs
}

func (fs fullFs) Create(name string) (afero.File, error) {
	fp, err := fs.Fs.Create(name)
	return fullFile{fp}, err
}

func record(n int) {
	var regs processor.Registers
	for i := 0; i < n; i++ {
		regs.PC = uint16(0x200 + 2*i)
		Begin(regs.PC, 0x6000|uint16(i), regs)
		ReadByte(regs.PC, 0x60)
		regs.V[0] = byte(i)
		End(regs)
	}
}

func TestTraceFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := Initialize(fs, "trace.json", 4, 1); err != nil {
		t.Fatal(err)
	}
	record(3)
	Shutdown()

	fp, err := fs.Open("trace.json")
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()

	dec := json.NewDecoder(fp)
	for i := 0; ; i++ {
		var ev Event
		if err := dec.Decode(&ev); err == io.EOF {
			if i != 3 {
				t.Errorf("Invalid number of events! (Got %d but expected %d)", i, 3)
			}
			break
		} else if err != nil {
			t.Fatal(err)
		}

		if ev.PC != uint16(0x200+2*i) || ev.After.V[0] != byte(i) || ev.Reads[0].Data != 0x60 {
			t.Errorf("Invalid event %d: %+v", i, ev)
		}
	}
}

func TestWriteErrorDoesNotBlock(t *testing.T) {
	if err := Initialize(fullFs{afero.NewMemMapFs()}, "trace.json", 4, 1); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		record(100)
		Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("recording blocked after write error")
	}
}
