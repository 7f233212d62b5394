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

package video

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreas-jonsson/virtualc8/emulator/processor"
	"github.com/andreas-jonsson/virtualc8/platform"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultForeground = "#808080"
	DefaultBackground = "#000000"
)

const (
	width  = processor.ScreenWidth
	height = processor.ScreenHeight
)

// ParseColor accepts HTML like hex colors with or without the leading '#'.
func ParseColor(s string) (colorful.Color, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return c, fmt.Errorf("%w: invalid color %q", processor.ErrInvalidConfiguration, s)
	}
	return c, nil
}

// Device is the monochrome display. Pixels are written by the processor and
// presented on the platform by a separate render loop.
type Device struct {
	Foreground, Background string
	Platform               platform.Platform

	lock        sync.RWMutex
	pixels      [width * height]bool
	dirty       int32
	fg, bg      [3]byte
	surface     []byte
	quitChan    chan struct{}
	titleTicker *time.Ticker

	p processor.Processor
}

func (m *Device) Install(p processor.Processor) error {
	if m.Platform == nil {
		if m.Platform = platform.Instance; m.Platform == nil {
			return errors.New("no platform available")
		}
	}

	for _, c := range []struct {
		value, def string
		dst        *[3]byte
	}{
		{m.Foreground, DefaultForeground, &m.fg},
		{m.Background, DefaultBackground, &m.bg},
	} {
		if c.value == "" {
			c.value = c.def
		}
		col, err := ParseColor(c.value)
		if err != nil {
			return err
		}
		c.dst[0], c.dst[1], c.dst[2] = col.RGB255()
	}

	m.p = p
	m.surface = make([]byte, width*height*4)
	m.titleTicker = time.NewTicker(time.Second)
	m.quitChan = make(chan struct{})
	atomic.StoreInt32(&m.dirty, 1)

	go m.renderLoop()
	return nil
}

func (m *Device) Name() string {
	return "Monochrome Display"
}

func (m *Device) Reset() {
	m.Clear()
}

func (m *Device) Close() error {
	m.quitChan <- struct{}{}
	<-m.quitChan
	m.titleTicker.Stop()
	return nil
}

func (m *Device) Clear() {
	m.lock.Lock()
	m.pixels = [width * height]bool{}
	m.lock.Unlock()
	atomic.StoreInt32(&m.dirty, 1)
}

func (m *Device) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= width || y >= height {
		return false
	}

	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.pixels[y*width+x]
}

func (m *Device) SetPixel(x, y int, on bool) {
	if x < 0 || y < 0 || x >= width || y >= height {
		return
	}

	m.lock.Lock()
	if m.pixels[y*width+x] != on {
		m.pixels[y*width+x] = on
		atomic.StoreInt32(&m.dirty, 1)
	}
	m.lock.Unlock()
}

// Snapshot returns a copy of the pixels in row major order.
func (m *Device) Snapshot() []bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return append([]bool(nil), m.pixels[:]...)
}

func (m *Device) String() string {
	var sb strings.Builder
	pixels := m.Snapshot()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if pixels[y*width+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func blit32(pixels []byte, offset int, color [3]byte) {
	pixels[offset] = color[0]
	pixels[offset+1] = color[1]
	pixels[offset+2] = color[2]
	pixels[offset+3] = 0xFF
}

// render draws the pixels to the platform if they changed since the last call.
func (m *Device) render() bool {
	if atomic.SwapInt32(&m.dirty, 0) == 0 {
		return false
	}

	m.lock.RLock()
	for i, on := range m.pixels {
		col := m.bg
		if on {
			col = m.fg
		}
		blit32(m.surface, i*4, col)
	}
	m.lock.RUnlock()

	m.Platform.RenderGraphics(m.surface, m.bg[0], m.bg[1], m.bg[2])
	return true
}

func windowTitle(stats processor.Stats) string {
	if stats.NumInstructions == 0 && stats.NumKeyWaits > 0 {
		return "VirtualC8 - Waiting for key"
	}
	return fmt.Sprintf("VirtualC8 - %d IPS", stats.NumInstructions)
}

func (m *Device) renderLoop() {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for {
		select {
		case <-m.quitChan:
			close(m.quitChan)
			return
		case <-ticker.C:
			select {
			case <-m.titleTicker.C:
				m.Platform.SetTitle(windowTitle(m.p.GetStats()))
			default:
			}
			m.render()
		}
	}
}
