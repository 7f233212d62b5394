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
	"sync"
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/processor"
	"github.com/andreas-jonsson/virtualc8/platform"
)

const (
	DefaultToneHz = 440
	toneVolume    = 32
)

// Device plays a square wave on the platform audio device while the sound timer runs.
type Device struct {
	ToneHz   float64
	Platform platform.Platform

	lock        sync.Mutex
	spec        platform.AudioSpec
	enabled     bool
	sampleIndex uint64
	quitChan    chan struct{}
}

func (m *Device) Install(processor.Processor) error {
	if m.Platform == nil {
		if m.Platform = platform.Instance; m.Platform == nil {
			return errors.New("no platform available")
		}
	}
	if m.ToneHz <= 0 {
		m.ToneHz = DefaultToneHz
	}

	if !m.Platform.HasAudio() {
		return nil
	}

	m.spec = m.Platform.AudioSpec()
	if m.spec.Samples <= 0 || m.spec.Channels <= 0 {
		return errors.New("invalid audio specification")
	}
	m.startUpdateLoop()
	return nil
}

func (m *Device) Name() string {
	return "Beeper"
}

func (m *Device) Reset() {
	m.Stop()
}

func (m *Device) Start() {
	m.setEnabled(true)
}

func (m *Device) Stop() {
	m.setEnabled(false)
}

func (m *Device) setEnabled(b bool) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.enabled == b {
		return
	}
	m.enabled = b
	m.sampleIndex = 0

	if m.quitChan != nil {
		m.Platform.EnableAudio(b)
	}
}

// fillSquareWave writes one buffer of a square wave and returns the next sample index.
func fillSquareWave(buffer []byte, channels int, sampleIndex, halfPeriod uint64) uint64 {
	for ptr := 0; ptr+channels <= len(buffer); ptr += channels {
		var sampleValue int8 = -toneVolume
		if sampleIndex++; (sampleIndex/halfPeriod)%2 != 0 {
			sampleValue = toneVolume
		}

		for j := 0; j < channels; j++ {
			buffer[ptr+j] = byte(sampleValue)
		}
	}
	return sampleIndex
}

func (m *Device) startUpdateLoop() {
	m.quitChan = make(chan struct{})

	go func() {
		numSamples := m.spec.Samples
		soundBuffer := make([]byte, numSamples*m.spec.Channels)

		halfSquareWavePeriod := uint64(float64(m.spec.Freq)/m.ToneHz) / 2
		if halfSquareWavePeriod == 0 {
			halfSquareWavePeriod = 1
		}

		buffersPerSecond := m.spec.Freq / numSamples
		if buffersPerSecond == 0 {
			buffersPerSecond = 1
		}

		ticker := time.NewTicker(time.Second / time.Duration(buffersPerSecond))
		defer ticker.Stop()

		for {
			select {
			case <-m.quitChan:
				close(m.quitChan)
				return
			case <-ticker.C:
				m.lock.Lock()
				if !m.enabled {
					m.lock.Unlock()
					continue
				}
				m.sampleIndex = fillSquareWave(soundBuffer, m.spec.Channels, m.sampleIndex, halfSquareWavePeriod)
				m.lock.Unlock()

				m.Platform.QueueAudio(soundBuffer)
			}
		}
	}()
}

func (m *Device) Close() error {
	if m.quitChan == nil {
		return nil
	}

	m.Stop()
	m.quitChan <- struct{}{}
	<-m.quitChan
	return nil
}
