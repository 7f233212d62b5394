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

package speaker

import (
	"testing"
	"time"

	"github.com/andreas-jonsson/virtualc8/platform"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

func TestSquareWave(t *testing.T) {
	buffer := make([]byte, 16*2)
	next := fillSquareWave(buffer, 2, 0, 4)
	if next != 16 {
		t.Errorf("Invalid sample index! (Got %d but expected %d)", next, 16)
	}

	for i := 0; i < len(buffer); i += 2 {
		if buffer[i] != buffer[i+1] {
			t.Fatalf("channels differ at sample %d", i/2)
		}
	}

	high, low := byte(toneVolume), byte(0x100-toneVolume)
	expected := []byte{low, low, low, high, high, high, high, low}
	for i, v := range expected {
		if buffer[i*2] != v {
			t.Errorf("Invalid sample %d! (Got 0x%X but expected 0x%X)", i, buffer[i*2], v)
		}
	}
}

func TestDeviceWithoutAudio(t *testing.T) {
	hp, _ := platform.NewHeadless()
	m := &Device{Platform: hp}
	if err := m.Install(nil); err != nil {
		t.Fatal(err)
	}
	m.Start()
	m.Stop()
	if err := m.Close(); err != nil {
		t.Error(err)
	}
	if m.ToneHz != DefaultToneHz {
		t.Errorf("Invalid tone! (Got %v but expected %v)", m.ToneHz, DefaultToneHz)
	}
}

func TestWavRecorder(t *testing.T) {
	const rate = 8000

	var now time.Duration
	fs := afero.NewMemMapFs()
	m := &WavRecorder{
		FileSystem: fs,
		FileName:   "beep.wav",
		SampleRate: rate,
		Now:        func() time.Duration { return now },
	}
	if err := m.Install(nil); err != nil {
		t.Fatal(err)
	}

	now = 100 * time.Millisecond
	m.Start()
	now = 200 * time.Millisecond
	m.Start()
	now = 300 * time.Millisecond
	m.Stop()
	now = 400 * time.Millisecond
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	fp, err := fs.Open("beep.wav")
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()

	dec := wav.NewDecoder(fp)
	if !dec.IsValidFile() {
		t.Fatal("invalid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}

	if dec.SampleRate != rate || dec.NumChans != 1 || dec.BitDepth != wavBitDepth {
		t.Errorf("Invalid format! (Got %d Hz, %d channels, %d bits)", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	if n := len(buf.Data); n != rate*4/10 {
		t.Fatalf("Invalid number of samples! (Got %d but expected %d)", n, rate*4/10)
	}

	for i, v := range buf.Data {
		tone := i >= rate/10 && i < rate*3/10
		if tone && v != wavAmplitude && v != -wavAmplitude {
			t.Fatalf("Invalid tone sample %d! (Got %d)", i, v)
		}
		if !tone && v != 0 {
			t.Fatalf("Invalid silent sample %d! (Got %d)", i, v)
		}
	}
}

func TestWavRecorderNeedsClock(t *testing.T) {
	m := &WavRecorder{FileSystem: afero.NewMemMapFs(), FileName: "beep.wav"}
	if err := m.Install(nil); err == nil {
		t.Error("recorder installed without a clock")
	}
}
