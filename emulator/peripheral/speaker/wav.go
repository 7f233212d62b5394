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
	"errors"
	"log"
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/processor"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

const (
	DefaultWavSampleRate = 22050

	wavBitDepth  = 16
	wavAmplitude = 8000
)

// WavRecorder writes the beeper output to a WAV file.
// Now must return the emulated time and is required.
type WavRecorder struct {
	FileSystem afero.Fs
	FileName   string
	SampleRate int
	ToneHz     float64
	Now        func() time.Duration

	fp      afero.File
	encoder *wav.Encoder
	buffer  *audio.IntBuffer

	beeping  bool
	written  int64
	toneBase int64
	err      error
}

func (m *WavRecorder) Install(processor.Processor) error {
	if m.FileSystem == nil || m.FileName == "" || m.Now == nil {
		return errors.New("WAV recorder needs a file system, a file name and a clock")
	}
	if m.SampleRate <= 0 {
		m.SampleRate = DefaultWavSampleRate
	}
	if m.ToneHz <= 0 {
		m.ToneHz = DefaultToneHz
	}

	var err error
	if m.fp, err = m.FileSystem.Create(m.FileName); err != nil {
		return err
	}

	m.encoder = wav.NewEncoder(m.fp, m.SampleRate, wavBitDepth, 1, 1)
	m.buffer = &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: m.SampleRate},
		SourceBitDepth: wavBitDepth,
	}
	m.written = m.position()
	return nil
}

func (m *WavRecorder) Name() string {
	return "WAV Recorder"
}

func (m *WavRecorder) Reset() {
	m.Stop()
}

func (m *WavRecorder) position() int64 {
	return int64(m.Now()) * int64(m.SampleRate) / int64(time.Second)
}

// flush writes samples up to the current time in the current state.
func (m *WavRecorder) flush() {
	if m.encoder == nil || m.err != nil {
		return
	}

	end := m.position()
	if end <= m.written {
		return
	}

	halfPeriod := int64(float64(m.SampleRate)/m.ToneHz) / 2
	if halfPeriod == 0 {
		halfPeriod = 1
	}

	data := m.buffer.Data[:0]
	for i := m.written; i < end; i++ {
		v := 0
		if m.beeping {
			if v = wavAmplitude; ((i-m.toneBase)/halfPeriod)%2 != 0 {
				v = -wavAmplitude
			}
		}
		data = append(data, v)
	}
	m.buffer.Data = data
	m.written = end

	if err := m.encoder.Write(m.buffer); err != nil {
		log.Print(err)
		m.err = err
	}
}

func (m *WavRecorder) Start() {
	if !m.beeping {
		m.flush()
		m.beeping = true
		m.toneBase = m.written
	}
}

func (m *WavRecorder) Stop() {
	if m.beeping {
		m.flush()
		m.beeping = false
	}
}

func (m *WavRecorder) Close() error {
	if m.encoder == nil {
		return nil
	}

	m.flush()
	err := m.err
	if e := m.encoder.Close(); err == nil {
		err = e
	}
	if e := m.fp.Close(); err == nil {
		err = e
	}
	m.encoder = nil
	return err
}
